package homelabsrv

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/homelab-run/homelab-srv/internal/clients/ssh"
	"github.com/homelab-run/homelab-srv/pkg/site"
	"github.com/homelab-run/homelab-srv/pkg/structures"
)

// Ps reports the running state of every unit assigned to this host, or (on
// an orchestrator) asks each configured host to report its own.
func (o *Operator) Ps(ctx context.Context) error {
	if !o.Host.Executor {
		for _, hostname := range o.Site.Run.Hostnames() {
			if o.Host.Simulated {
				fmt.Printf("would run on %s: %s ps\n", hostname, site.ScriptName)
				continue
			}
			client := ssh.NewClient()
			client.Out = NewIndentedWriter(1, os.Stdout)
			if err := client.Run(ctx, hostname, site.ScriptName, "ps"); err != nil {
				return err
			}
		}
		return nil
	}

	client, err := o.docker()
	if err != nil {
		return err
	}
	IndentedPrintf(0, "%s:\n", o.Host.Hostname)
	assigned := append([]string{}, o.Site.Run.UnitsForHost(o.Host.Hostname)...)
	sort.Strings(assigned)
	for _, name := range assigned {
		unit, ok := o.Site.Units[name]
		if !ok {
			continue
		}
		containers, err := client.ListContainers(ctx, unit.Name)
		if err != nil {
			return err
		}
		if len(containers) == 0 {
			BulletedPrintf(1, "%s: not running\n", unit.Name)
			continue
		}
		for _, container := range containers {
			created := units.HumanDuration(time.Since(time.Unix(container.Created, 0)))
			BulletedPrintf(
				1, "%s: %s (created %s ago)\n",
				strings.TrimPrefix(container.Names[0], "/"), container.Status, created,
			)
		}
	}
	return nil
}

// PrintStatus reports where the configuration was found, what this host is,
// and what the target resolves to.
func (o *Operator) PrintStatus(target *Target) {
	folder := o.Site.Folder
	if folder == "" {
		folder = "-not configured-"
	}
	if o.Site.FolderOrigin != "" {
		folder += fmt.Sprintf(" (from: %s)", o.Site.FolderOrigin)
	}
	IndentedPrintf(0, "Base: %s\n", folder)

	hostname := fmt.Sprintf("%s [%s]", o.Host.Hostname, o.Host.Role())
	if o.Host.Simulated {
		hostname += " [simulated]"
	}
	IndentedPrintf(0, "Hostname: %s\n", hostname)
	if !o.Host.Executor {
		IndentedPrintf(0, "Hosts: %s\n", strings.Join(target.Hosts, ", "))
	}
	IndentedPrintf(0, "Selected: %s\n", strings.Join(target.UnitNames(), ", "))
}

// PrintPorts reports every claimed host port and every unit's claimed ports,
// flagging conflicts.
func (o *Operator) PrintPorts() {
	conflicting := o.Site.ConflictingPorts()

	IndentedPrintln(0, "Ports:")
	byPort := o.Site.UsedHostPorts()
	ports := make([]int, 0, len(byPort))
	for port := range byPort {
		ports = append(ports, port)
	}
	sort.Ints(ports)
	for _, port := range ports {
		names := strings.Join(structures.Sorted(byPort[port]), ", ")
		if _, ok := conflicting[port]; ok {
			names += " [conflict]"
		}
		BulletedPrintf(1, "%d: %s\n", port, names)
	}

	IndentedPrintln(0, "Services:")
	byUnit := o.Site.UnitHostPorts()
	names := make([]string, 0, len(byUnit))
	for name := range byUnit {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		claimed := structures.Sorted(byUnit[name])
		labels := make([]string, 0, len(claimed))
		for _, port := range claimed {
			label := fmt.Sprint(port)
			if _, ok := conflicting[port]; ok {
				label += " [conflict]"
			}
			labels = append(labels, label)
		}
		BulletedPrintf(1, "%s: %s\n", name, strings.Join(labels, ", "))
	}
}
