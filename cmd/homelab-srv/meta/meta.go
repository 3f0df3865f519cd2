package meta

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/homelab-run/homelab-srv/internal/app/homelabsrv"
	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
	"github.com/homelab-run/homelab-srv/pkg/site"
)

// status

func (a actions) statusAction(c *cli.Context) error {
	s, host := homelabsrv.Load(a.toolVersion, c.String("simulate"))
	// Unlike the lifecycle commands, status reports problems without aborting
	// on them, so a broken site can still be inspected.
	homelabsrv.PrintProblems(os.Stderr, s.Check())

	target, err := homelabsrv.ResolveTarget(s, host, c.Args().First())
	if err != nil {
		return err
	}
	operator := homelabsrv.NewOperator(s, host)
	operator.PrintStatus(target)
	if c.Bool("ports") {
		fmt.Println()
		operator.PrintPorts()
	}
	return nil
}

// set-folder

func (a actions) setFolderAction(c *cli.Context) error {
	s, host := homelabsrv.Load(a.toolVersion, c.String("simulate"))
	if err := host.RequireOrchestrator(); err != nil {
		return err
	}

	folder := c.Args().First()
	if folder == "" {
		settingsPath, err := homelabsrv.SettingsPath()
		if err != nil {
			return err
		}
		if s.FolderOrigin == settingsPath {
			fmt.Printf("Currently configured folder (in %s): %s\n", settingsPath, s.Folder)
		} else {
			fmt.Printf("No folder is currently configured (in %s)\n", settingsPath)
		}
		return nil
	}

	folder, err := filepath.Abs(folder)
	if err != nil {
		return errors.Wrapf(err, "couldn't resolve folder '%s'", folder)
	}
	if !ffs.DirExists(folder) {
		return errors.Errorf("Folder '%s' does not exist", folder)
	}
	configPath := filepath.Join(folder, site.ConfigFileName)
	if _, err := os.Stat(configPath); err != nil {
		return errors.Errorf("'%s' does not exist", configPath)
	}
	return homelabsrv.SaveFolder(folder)
}
