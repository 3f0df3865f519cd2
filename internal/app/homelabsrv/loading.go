package homelabsrv

import (
	"github.com/homelab-run/homelab-srv/pkg/site"
)

// Load resolves the base folder, loads the site from it, and determines the
// local host context, applying any simulation override.
func Load(toolVersion, simulate string) (*site.HomelabSite, *HostContext) {
	folder, origin := FindBaseFolder()
	s := site.LoadSite(folder, origin)
	s.ToolVersion = toolVersion
	host := NewHostContext(folder)
	if simulate != "" {
		host.ApplySimulation(simulate)
	}
	return s, host
}
