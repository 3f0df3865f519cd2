package main

import (
	"log"
	"os"
	"runtime/debug"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/homelab-run/homelab-srv/cmd/homelab-srv/meta"
)

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var app = &cli.App{
	Name:    "homelab-srv",
	Version: toolVersion,
	Usage:   "Manages dockerized homelab servers",
	Description: `Operates on [host,...:]unit,... targets, for example:
   stop                # stop all units
   stop syncthing      # stop one unit
   stop rps:syncthing  # stop one unit, on one host`,
	Commands: []*cli.Command{
		startCmd,
		stopCmd,
		restartCmd,
		upgradeCmd,
		backupCmd,
		restoreCmd,
		psCmd,
		pushCmd,
		meta.MakeCmd(toolVersion),
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "simulate",
			Aliases: []string{"s"},
			Usage:   "Simulate a role:host, for troubleshooting/test runs",
		},
	},
	Suggest: true,
}

// Versioning

// fallbackVersion is the version the tool reports itself as if its actual
// version is unknown.
const fallbackVersion = "v0.1.0-dev"

var (
	toolVersion = determineVersion(buildSummary, fallbackVersion)
	// buildSummary should be overridden by ldflags, such as with GoReleaser's "Summary".
	buildSummary = ""
)

// determineVersion returns either a semver, a pseudoversion, or a Git hash based on information
// available from Go's `debug.ReadBuildInfo()`.
func determineVersion(override, fallback string) string {
	if override != "" {
		return override
	}

	const dirtySuffix = "-dirty"
	// Determine any version tags, if available
	if info, ok := debug.ReadBuildInfo(); ok &&
		info.Main.Version != "" && info.Main.Version != "(devel)" {
		v := info.Main.Version
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}
	if v := versioninfo.Version; v != "unknown" && v != "(devel)" {
		if versioninfo.DirtyBuild {
			v += dirtySuffix
		}
		return v
	}

	// Fall back to whatever is available
	if r := versioninfo.Revision; r != "unknown" && r != "" {
		if versioninfo.DirtyBuild {
			r += dirtySuffix
		}
		return r
	}
	return fallback
}
