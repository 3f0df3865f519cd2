package homelabsrv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	dct "github.com/compose-spec/compose-go/v2/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/homelab-run/homelab-srv/internal/clients/docker"
	"github.com/homelab-run/homelab-srv/internal/clients/rsync"
	"github.com/homelab-run/homelab-srv/internal/clients/ssh"
	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
	"github.com/homelab-run/homelab-srv/pkg/site"
)

const (
	stopTimeout   = 10 * time.Second
	deployTimeout = 60 * time.Second
)

// Operator runs lifecycle operations against the selected units: directly
// through docker and rsync on an executor, or fanned out over ssh to each
// target host on an orchestrator.
type Operator struct {
	Site *site.HomelabSite
	Host *HostContext

	dockerClient *docker.Client
}

func NewOperator(s *site.HomelabSite, host *HostContext) *Operator {
	return &Operator{
		Site: s,
		Host: host,
	}
}

func (o *Operator) docker() (*docker.Client, error) {
	if o.dockerClient == nil {
		client, err := docker.NewClient()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't make Docker API client")
		}
		o.dockerClient = client
	}
	return o.dockerClient, nil
}

// assignedUnits filters the target's units down to those this host is
// supposed to run, reporting the ones it skips.
func (o *Operator) assignedUnits(target *Target) []*site.ComposeUnit {
	assigned := o.Site.Run.UnitsForHost(o.Host.Hostname)
	var units []*site.ComposeUnit
	for _, unit := range target.Units {
		if !slices.Contains(assigned, unit.Name) {
			fmt.Printf("'%s' is not configured to run on host '%s'\n", unit.Name, o.Host.Hostname)
			continue
		}
		units = append(units, unit)
	}
	return units
}

// Dispatch forwards the command over ssh to every target host which runs at
// least one of the selected units, concurrently.
func (o *Operator) Dispatch(
	ctx context.Context, target *Target, command string, flags ...string,
) error {
	eg, egctx := errgroup.WithContext(ctx)
	for _, hostname := range target.Hosts {
		assigned := o.Site.Run.UnitsForHost(hostname)
		if !slices.ContainsFunc(target.Units, func(unit *site.ComposeUnit) bool {
			return slices.Contains(assigned, unit.Name)
		}) {
			continue
		}

		args := append([]string{site.ScriptName, command, target.Given}, flags...)
		if o.Host.Simulated {
			fmt.Printf("would run on %s: %v\n", hostname, args)
			continue
		}
		eg.Go(func() error {
			BulletedPrintf(0, "%s:\n", hostname)
			client := ssh.NewClient()
			client.Out = NewIndentedWriter(1, os.Stdout)
			client.Err = NewIndentedWriter(1, os.Stderr)
			return client.Run(egctx, hostname, args...)
		})
	}
	return eg.Wait()
}

// Start starts the target's units on this host.
func (o *Operator) Start(ctx context.Context, target *Target) error {
	for _, unit := range o.assignedUnits(target) {
		if o.Host.Simulated {
			fmt.Printf("would start '%s'\n", unit.Name)
			continue
		}
		client, err := o.docker()
		if err != nil {
			return err
		}
		if err := client.StartUnit(ctx, unit.Name); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops the target's units, then backs up their persisted files. With
// down, the units' containers and networks are removed instead of merely
// stopped.
func (o *Operator) Stop(ctx context.Context, target *Target, down bool) error {
	for _, unit := range o.assignedUnits(target) {
		if o.Host.Simulated {
			fmt.Printf("would stop '%s'\n", unit.Name)
			continue
		}
		client, err := o.docker()
		if err != nil {
			return err
		}
		if down {
			err = client.RemoveUnits(ctx, []string{unit.Name})
		} else {
			err = client.StopUnit(ctx, unit.Name, stopTimeout)
		}
		if err != nil {
			return err
		}
		if err := o.backupUnit(ctx, unit, false, false); err != nil {
			return err
		}
	}
	return nil
}

// Restart restarts the target's units.
func (o *Operator) Restart(ctx context.Context, target *Target) error {
	for _, unit := range o.assignedUnits(target) {
		if o.Host.Simulated {
			fmt.Printf("would restart '%s'\n", unit.Name)
			continue
		}
		client, err := o.docker()
		if err != nil {
			return err
		}
		if err := client.RestartUnit(ctx, unit.Name); err != nil {
			return err
		}
	}
	return nil
}

// Upgrade pulls the target's images and redeploys each unit which got a newer
// image (or every unit, with force), backing up persisted files while the
// unit is down.
func (o *Operator) Upgrade(ctx context.Context, target *Target, force bool) error {
	for _, unit := range o.assignedUnits(target) {
		if o.Host.Simulated {
			fmt.Printf("would upgrade '%s'\n", unit.Name)
			continue
		}
		client, err := o.docker()
		if err != nil {
			return err
		}

		updated := 0
		for _, image := range unit.Images() {
			newer, err := client.PullImage(ctx, image)
			if err != nil {
				return err
			}
			if newer {
				updated++
			}
		}
		if !force && updated == 0 {
			fmt.Printf("No new docker image available for %s\n", unit.Name)
			continue
		}

		if err := client.RemoveUnits(ctx, []string{unit.Name}); err != nil {
			return err
		}
		if err := o.backupUnit(ctx, unit, false, false); err != nil {
			return err
		}
		if _, err := client.PruneUnusedImages(ctx); err != nil {
			return err
		}
		definition, err := o.loadDefinition(ctx, unit)
		if err != nil {
			return err
		}
		if err := client.DeployUnit(ctx, definition, deployTimeout); err != nil {
			return err
		}
	}
	return nil
}

// Backup mirrors the target units' persisted files to the backup destination.
func (o *Operator) Backup(ctx context.Context, target *Target) error {
	for _, unit := range o.assignedUnits(target) {
		if err := o.backupUnit(ctx, unit, false, false); err != nil {
			return err
		}
	}
	return nil
}

// Restore mirrors backed-up files back into the persist tree.
func (o *Operator) Restore(ctx context.Context, target *Target, auto bool) error {
	for _, unit := range o.assignedUnits(target) {
		if err := o.backupUnit(ctx, unit, true, auto); err != nil {
			return err
		}
	}
	return nil
}

// backupUnit is the shared backup/restore flow: invert swaps the transfer
// direction, and auto makes the operation quietly skip anything which doesn't
// need transferring.
func (o *Operator) backupUnit(
	ctx context.Context, unit *site.ComposeUnit, invert, auto bool,
) error {
	action := "backing up"
	if invert {
		action = "restoring"
	}
	if unit.Special {
		if !auto {
			fmt.Printf("Not %s '%s': special container\n", action, unit.Name)
		}
		return nil
	}
	if !unit.VanillaBackup() {
		if !auto {
			fmt.Printf(
				"Not %s '%s': it does NOT use volume %s/%s\n",
				action, unit.Name, o.Site.PersistRoot, unit.Name,
			)
		}
		return nil
	}

	relPaths := o.Site.Backup.RestrictedPaths(unit.Name)
	if len(relPaths) == 0 {
		relPaths = []string{""}
	}
	destRoot := o.Site.Backup.Destination(unit, o.Host.Hostname)
	for _, relPath := range relPaths {
		src := filepath.Join(o.Site.PersistRoot, unit.Name, relPath)
		dest := filepath.Join(destRoot, relPath)
		chown := o.chownSpec()
		if invert {
			src, dest = dest, src
			chown = ""
		}
		if o.Host.Simulated {
			fmt.Printf("would rsync %s to %s\n", src, dest)
			continue
		}
		if !ffs.DirExists(src) {
			continue
		}
		if auto && ffs.DirExists(dest) {
			continue
		}
		if err := ffs.EnsureExists(dest); err != nil {
			return err
		}
		client := rsync.NewClient()
		client.Sudo = true
		client.Chown = chown
		if err := client.Sync(ctx, src, dest); err != nil {
			return err
		}
	}
	return nil
}

func (o *Operator) chownSpec() string {
	puid := o.Site.Env.GetString("PUID")
	pgid := o.Site.Env.GetString("PGID")
	if puid == "" || pgid == "" {
		return ""
	}
	return puid + ":" + pgid
}

// PushTo mirrors the site folder to the host's executor folder.
func (o *Operator) PushTo(ctx context.Context, hostname string) error {
	if err := o.Host.RequireOrchestrator(); err != nil {
		return err
	}
	dest := fmt.Sprintf("%s:%s", hostname, site.DefaultRunFolder)
	if o.Host.Simulated {
		fmt.Printf("would rsync %s to %s\n", o.Site.Folder, dest)
		return nil
	}
	return rsync.NewClient().Sync(ctx, o.Site.Folder, dest)
}

// loadDefinition parses the unit's compose file into a deployable project,
// interpolated against both the process environment and the site's
// environment expectations.
func (o *Operator) loadDefinition(
	ctx context.Context, unit *site.ComposeUnit,
) (*dct.Project, error) {
	env := make(map[string]string)
	for _, envVar := range os.Environ() {
		if name, value, found := strings.Cut(envVar, "="); found {
			env[name] = value
		}
	}
	for _, entry := range o.Site.Env {
		if value, ok := entry.Value.(string); ok {
			env[entry.Key] = value
		}
	}
	return docker.LoadUnitDefinition(
		ctx, o.Site.FS(), unit.Name, []string{unit.Source}, env, true,
	)
}

