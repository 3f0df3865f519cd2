package main

import (
	"github.com/urfave/cli/v2"
)

var startCmd = &cli.Command{
	Name:      "start",
	Usage:     "Starts target unit(s)",
	ArgsUsage: "[[host,...:]unit,...]",
	Action:    startAction,
}

var stopCmd = &cli.Command{
	Name:      "stop",
	Usage:     "Stops target unit(s), backing up their persisted files",
	ArgsUsage: "[[host,...:]unit,...]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "down",
			Aliases: []string{"d"},
			Usage:   "Remove containers and networks instead of merely stopping them",
		},
	},
	Action: stopAction,
}

var restartCmd = &cli.Command{
	Name:      "restart",
	Usage:     "Restarts target unit(s)",
	ArgsUsage: "[[host,...:]unit,...]",
	Action:    restartAction,
}

var upgradeCmd = &cli.Command{
	Name:      "upgrade",
	Usage:     "Pulls newer images and redeploys target unit(s)",
	ArgsUsage: "[[host,...:]unit,...]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Redeploy even if no new image is available",
		},
	},
	Action: upgradeAction,
}

var backupCmd = &cli.Command{
	Name:      "backup",
	Usage:     "Backs up target unit(s)' persisted files",
	ArgsUsage: "[[host,...:]unit,...]",
	Action:    backupAction,
}

var restoreCmd = &cli.Command{
	Name:      "restore",
	Usage:     "Restores target unit(s)' backed-up files",
	ArgsUsage: "[[host,...:]unit,...]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "auto",
			Usage: "Only restore folders which don't exist yet",
		},
	},
	Action: restoreAction,
}

var psCmd = &cli.Command{
	Name:   "ps",
	Usage:  "Shows running state of assigned units",
	Action: psAction,
}

var pushCmd = &cli.Command{
	Name:      "push",
	Usage:     "Pushes the site folder to remote host(s)",
	ArgsUsage: "[host,...]",
	Action:    pushAction,
}
