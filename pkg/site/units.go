package site

import (
	"log"
	"path"
	"strings"

	"github.com/homelab-run/homelab-srv/pkg/structures"
)

// ComposeFileName is the conventional name of a multi-service definition
// file nested one subfolder down; the subfolder's name becomes the unit
// name.
const ComposeFileName = "docker-compose.yml"

// specialUnitNames are units exempted from the standard backup and
// volume-layout conventions. Syncthing manages its own replicated state, so
// its persisted layout is never the standard one.
var specialUnitNames = structures.Set[string]{"syncthing": {}}

// ComposeUnit is one deployable group of containers, derived from one
// docker-compose definition file.
type ComposeUnit struct {
	// Site is a back-reference to the owning site; it never changes after
	// construction.
	Site *HomelabSite
	// Name is derived deterministically from the definition file's path.
	Name string
	// Source is the definition file's path relative to the site folder.
	Source string
	// Special units are never auto-backed-up and never layout-checked.
	Special  bool
	Services map[string]*Service

	serviceNames []string
	vanilla      *bool
}

// UnitNameForPath derives the unit name from a definition file's path: the
// containing folder's name for a conventionally-named compose file, the
// file's stem otherwise.
func UnitNameForPath(filePath string) string {
	base := path.Base(filePath)
	if base == ComposeFileName {
		return path.Base(path.Dir(filePath))
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func loadUnit(s *HomelabSite, filePath string) *ComposeUnit {
	unit := &ComposeUnit{
		Site:     s,
		Name:     UnitNameForPath(filePath),
		Source:   filePath,
		Services: make(map[string]*Service),
	}
	unit.Special = specialUnitNames.Has(unit.Name)

	cfg, err := ReadYAML(s.fsys, filePath)
	if err != nil {
		log.Printf("warning: %s", err)
	}
	for _, entry := range cfg.GetMapping("services") {
		serviceCfg, _ := entry.Value.(Mapping)
		svc := newService(unit, entry.Key, serviceCfg)
		unit.Services[svc.Name] = svc
		unit.serviceNames = append(unit.serviceNames, svc.Name)
	}
	return unit
}

// ServicesInOrder returns the unit's services in document order.
func (u *ComposeUnit) ServicesInOrder() []*Service {
	services := make([]*Service, 0, len(u.serviceNames))
	for _, name := range u.serviceNames {
		services = append(services, u.Services[name])
	}
	return services
}

// Images returns the container image references of the unit's services, in
// document order.
func (u *ComposeUnit) Images() []string {
	var images []string
	for _, svc := range u.ServicesInOrder() {
		if svc.Image != "" {
			images = append(images, svc.Image)
		}
	}
	return images
}

// VanillaBackup reports whether the unit's persisted state lives entirely in
// the standard `<persist root>/<unit name>` location, making it eligible for
// generic backup and restore. A unit with zero services is not vanilla, so
// an empty definition never silently passes.
func (u *ComposeUnit) VanillaBackup() bool {
	if u.vanilla == nil {
		vanilla := len(u.Services) > 0
		for _, svc := range u.Services {
			if !svc.Volumes.Vanilla() {
				vanilla = false
				break
			}
		}
		u.vanilla = &vanilla
	}
	return *u.vanilla
}

// Check aggregates every owned service's problems.
func (u *ComposeUnit) Check() []Problem {
	var problems []Problem
	for _, svc := range u.ServicesInOrder() {
		problems = append(problems, svc.Check()...)
	}
	return problems
}
