package homelabsrv

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/homelab-run/homelab-srv/pkg/site"
)

// Target is a resolved "[host,...:]unit,..." command argument: the units to
// operate on, and (for an orchestrator) the hosts to dispatch to.
type Target struct {
	// Given is the unit selector as given on the command line, forwarded
	// verbatim when the command is dispatched over ssh.
	Given string
	Units []*site.ComposeUnit
	Hosts []string
}

// ResolveTarget parses and resolves a target argument against the site. On an
// executor the host part may only name the executor itself; on an
// orchestrator an absent host part selects every configured host.
func ResolveTarget(s *site.HomelabSite, host *HostContext, value string) (*Target, error) {
	hostPart, unitPart := "", value
	if i := strings.LastIndex(value, ":"); i >= 0 {
		hostPart, unitPart = value[:i], value[i+1:]
	}

	target := &Target{Given: unitPart}
	var err error
	if target.Units, err = s.SelectUnits(unitPart); err != nil {
		return nil, err
	}

	if host.Executor {
		if hostPart != "" && hostPart != host.Hostname {
			return nil, errors.New("target host on executor must be self")
		}
		return target, nil
	}
	if target.Hosts, err = s.SelectHosts(hostPart); err != nil {
		return nil, err
	}
	return target, nil
}

// UnitNames returns the names of the selected units, in discovery order.
func (t *Target) UnitNames() []string {
	names := make([]string, 0, len(t.Units))
	for _, unit := range t.Units {
		names = append(names, unit.Name)
	}
	return names
}
