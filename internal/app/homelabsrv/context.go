// Package homelabsrv has shared utilities and application logic for the homelab-srv CLI
package homelabsrv

import (
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/homelab-run/homelab-srv/pkg/site"
)

// HostContext identifies the machine running the tool and the role it plays:
// an executor runs docker services from /srv/run, while an orchestrator
// remotely manages the executors.
type HostContext struct {
	Hostname string
	Executor bool
	// Simulated is set when the role or hostname was overridden for a
	// troubleshooting run; lifecycle operations then only describe what
	// they would do.
	Simulated bool
}

// NewHostContext determines the local host's identity and role from the
// resolved site folder.
func NewHostContext(folder string) *HostContext {
	return &HostContext{
		Hostname: localHostname(),
		Executor: folder == site.DefaultRunFolder,
	}
}

func localHostname() string {
	if out, err := exec.Command("/bin/hostname").Output(); err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name
		}
	}
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return os.Getenv("COMPUTERNAME")
}

// ApplySimulation overrides the role and/or hostname from a "role:host" spec,
// where either part may be omitted. A role starting with "e" simulates an
// executor; any other non-empty role simulates an orchestrator.
func (c *HostContext) ApplySimulation(spec string) {
	c.Simulated = true
	role, host := "", spec
	if before, after, found := strings.Cut(spec, ":"); found {
		role, host = before, after
	}
	if role != "" {
		c.Executor = strings.HasPrefix(role, "e")
	}
	if host != "" {
		c.Hostname = host
	}
}

func (c *HostContext) Role() string {
	if c.Executor {
		return "executor"
	}
	return "orchestrator"
}

// RequireOrchestrator guards commands which must not run on a host that runs
// docker services itself.
func (c *HostContext) RequireOrchestrator() error {
	if c.Executor {
		return errors.New("this command can only be run from an orchestrator machine")
	}
	return nil
}
