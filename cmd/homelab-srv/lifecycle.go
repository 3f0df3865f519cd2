package main

import (
	"context"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/homelab-run/homelab-srv/internal/app/homelabsrv"
)

// prepare loads the site, aborts on fatal configuration problems, and
// resolves the command's target argument.
func prepare(c *cli.Context) (*homelabsrv.Operator, *homelabsrv.Target, error) {
	s, host := homelabsrv.Load(toolVersion, c.String("simulate"))
	if err := homelabsrv.CheckSite(s, os.Stderr); err != nil {
		return nil, nil, err
	}
	target, err := homelabsrv.ResolveTarget(s, host, c.Args().First())
	if err != nil {
		return nil, nil, err
	}
	return homelabsrv.NewOperator(s, host), target, nil
}

func startAction(c *cli.Context) error {
	operator, target, err := prepare(c)
	if err != nil {
		return err
	}
	if operator.Host.Executor {
		return operator.Start(context.Background(), target)
	}
	return operator.Dispatch(context.Background(), target, "start")
}

func stopAction(c *cli.Context) error {
	operator, target, err := prepare(c)
	if err != nil {
		return err
	}
	if operator.Host.Executor {
		return operator.Stop(context.Background(), target, c.Bool("down"))
	}
	var flags []string
	if c.Bool("down") {
		flags = append(flags, "--down")
	}
	return operator.Dispatch(context.Background(), target, "stop", flags...)
}

func restartAction(c *cli.Context) error {
	operator, target, err := prepare(c)
	if err != nil {
		return err
	}
	if operator.Host.Executor {
		return operator.Restart(context.Background(), target)
	}
	return operator.Dispatch(context.Background(), target, "restart")
}

func upgradeAction(c *cli.Context) error {
	operator, target, err := prepare(c)
	if err != nil {
		return err
	}
	if operator.Host.Executor {
		return operator.Upgrade(context.Background(), target, c.Bool("force"))
	}
	var flags []string
	if c.Bool("force") {
		flags = append(flags, "--force")
	}
	return operator.Dispatch(context.Background(), target, "upgrade", flags...)
}

func backupAction(c *cli.Context) error {
	operator, target, err := prepare(c)
	if err != nil {
		return err
	}
	if operator.Host.Executor {
		return operator.Backup(context.Background(), target)
	}
	return operator.Dispatch(context.Background(), target, "backup")
}

func restoreAction(c *cli.Context) error {
	operator, target, err := prepare(c)
	if err != nil {
		return err
	}
	if operator.Host.Executor {
		return operator.Restore(context.Background(), target, c.Bool("auto"))
	}
	var flags []string
	if c.Bool("auto") {
		flags = append(flags, "--auto")
	}
	return operator.Dispatch(context.Background(), target, "restore", flags...)
}

func psAction(c *cli.Context) error {
	operator, _, err := prepare(c)
	if err != nil {
		return err
	}
	return operator.Ps(context.Background())
}

func pushAction(c *cli.Context) error {
	operator, _, err := prepare(c)
	if err != nil {
		return err
	}
	hosts, err := operator.Site.SelectHosts(strings.TrimSpace(c.Args().First()))
	if err != nil {
		return err
	}
	for _, hostname := range hosts {
		if err := operator.PushTo(context.Background(), hostname); err != nil {
			return err
		}
	}
	return nil
}
