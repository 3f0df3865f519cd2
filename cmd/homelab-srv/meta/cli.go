// Package meta provides meta/utility subcommands for the homelab-srv tool itself
package meta

import (
	"github.com/urfave/cli/v2"
)

type actions struct {
	toolVersion string
}

func MakeCmd(toolVersion string) *cli.Command {
	a := actions{toolVersion: toolVersion}
	return &cli.Command{
		Name:  "meta",
		Usage: "Meta/utility subcommands",
		Subcommands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "Shows current configuration and target resolution",
				ArgsUsage: "[[host,...:]unit,...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "ports",
						Aliases: []string{"p"},
						Usage:   "Show used ports across all compose units",
					},
				},
				Action: a.statusAction,
			},
			{
				Name:      "set-folder",
				Usage:     "Configures where your _config.yml is",
				ArgsUsage: "[PATH]",
				Action:    a.setFolderAction,
			},
		},
	}
}
