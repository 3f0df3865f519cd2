package site

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"golang.org/x/mod/semver"

	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
	"github.com/homelab-run/homelab-srv/pkg/structures"
)

const (
	// ScriptName is the name of the command-line tool owning this library.
	ScriptName = "homelab-srv"
	// ConfigFileName is the site-level configuration document, directly
	// under the site folder.
	ConfigFileName = "_config.yml"
	// DefaultPersistRoot is where units are expected to keep their
	// persisted state, one subfolder per unit.
	DefaultPersistRoot = "/srv/persist"
	// DefaultBackupFolder is the backup root used when the site
	// configuration doesn't declare one.
	DefaultBackupFolder = "/srv/data/server-backup"
	// DefaultRunFolder is the site folder on executor hosts.
	DefaultRunFolder = "/srv/run"
)

// HomelabSite is the root of the configuration model: the site folder, every
// compose unit discovered in it, and the site-level run-assignment and
// backup-policy directives. It is constructed fresh on every invocation and
// never mutated afterwards, so derived properties are safe to memoize.
type HomelabSite struct {
	fsys ffs.PathedFS
	// Folder is the site folder's path, or "" when no folder is configured.
	Folder string
	// FolderOrigin records how the folder was determined (informational).
	FolderOrigin string
	PersistRoot  string
	// ToolVersion is the running tool's version, checked against the
	// configuration's min_version declaration.
	ToolVersion string

	Config Mapping
	// Env holds the site-wide environment expectations each service's
	// declared environment is checked against.
	Env        Mapping
	MinVersion string
	Units      map[string]*ComposeUnit
	Run        *RunAssignment
	Backup     *BackupPolicy

	configExists bool
	unitNames    []string
	duplicates   []Problem
	usedPorts    map[int]structures.Set[string]
}

// LoadSite builds the full entity graph from the given folder. An empty
// folder produces an unconfigured site whose sanity check directs the user
// to run set-folder.
func LoadSite(folder, origin string) *HomelabSite {
	var fsys ffs.PathedFS
	if folder != "" {
		fsys = ffs.DirFS(folder)
	}
	return LoadSiteFS(fsys, folder, origin)
}

// LoadSiteFS is LoadSite over an explicit filesystem, so tests can construct
// sites from in-memory files.
func LoadSiteFS(fsys ffs.PathedFS, folder, origin string) *HomelabSite {
	s := &HomelabSite{
		fsys:         fsys,
		Folder:       folder,
		FolderOrigin: origin,
		PersistRoot:  DefaultPersistRoot,
		Units:        make(map[string]*ComposeUnit),
	}
	if s.fsys != nil {
		s.loadConfig()
		s.discoverUnits()
	}
	s.Env = s.Config.GetMapping("env")
	s.MinVersion = s.Config.GetString("min_version")
	s.Run = newRunAssignment(s, s.Config.GetMapping("run"))
	s.Backup = newBackupPolicy(s, s.Config.GetMapping("backup"))
	return s
}

func (s *HomelabSite) loadConfig() {
	if _, err := fs.Stat(s.fsys, ConfigFileName); err == nil {
		s.configExists = true
	}
	cfg, err := ReadYAML(s.fsys, ConfigFileName)
	if err != nil {
		log.Printf("warning: %s", err)
	}
	s.Config = cfg
}

// discoverUnits finds every standalone per-unit document directly under the
// site folder, plus every conventionally-named compose file one subfolder
// down. A name collision is recorded as a problem; the later discovery wins
// so the rest of the checks stay deterministic.
func (s *HomelabSite) discoverUnits() {
	var paths []string
	standalone, _ := doublestar.Glob(s.fsys, "*.yml")
	for _, filePath := range standalone {
		if !strings.HasPrefix(path.Base(filePath), "_") {
			paths = append(paths, filePath)
		}
	}
	nested, _ := doublestar.Glob(s.fsys, "*/"+ComposeFileName)
	paths = append(paths, nested...)

	for _, filePath := range paths {
		unit := loadUnit(s, filePath)
		if previous, ok := s.Units[unit.Name]; ok {
			s.duplicates = append(s.duplicates, Problem{
				Origin: s.Folder,
				Message: fmt.Sprintf(
					"DC definition '%s' is defined more than once (%s and %s)",
					unit.Name, previous.Source, unit.Source,
				),
			})
		} else {
			s.unitNames = append(s.unitNames, unit.Name)
		}
		s.Units[unit.Name] = unit
	}
}

// FS returns the filesystem the site was loaded from, or nil for an
// unconfigured site.
func (s *HomelabSite) FS() ffs.PathedFS {
	return s.fsys
}

// UnitsInOrder returns every unit in discovery order.
func (s *HomelabSite) UnitsInOrder() []*ComposeUnit {
	units := make([]*ComposeUnit, 0, len(s.unitNames))
	for _, name := range s.unitNames {
		units = append(units, s.Units[name])
	}
	return units
}

// SelectUnits resolves a unit selector: absent selects every non-special
// unit, "all"/"*" literally all, "special" and "vanilla" the corresponding
// subsets, and anything else is a comma-separated explicit name list. An
// explicit list naming any unknown unit is a hard error enumerating every
// unknown name.
func (s *HomelabSite) SelectUnits(names string) ([]*ComposeUnit, error) {
	units := s.UnitsInOrder()
	switch names {
	case "all", "*":
		return units, nil
	case "special":
		return filterUnits(units, func(u *ComposeUnit) bool { return u.Special }), nil
	case "vanilla":
		return filterUnits(units, func(u *ComposeUnit) bool { return u.VanillaBackup() }), nil
	case "":
		return filterUnits(units, func(u *ComposeUnit) bool { return !u.Special }), nil
	}

	selected := splitNames(names)
	var badRefs []string
	for _, name := range selected {
		if _, ok := s.Units[name]; !ok {
			badRefs = append(badRefs, name)
		}
	}
	if len(badRefs) > 0 {
		return nil, errors.Errorf("unknown docker-compose refs: %s", strings.Join(badRefs, ", "))
	}
	wanted := make(structures.Set[string])
	for _, name := range selected {
		wanted.Add(name)
	}
	return filterUnits(units, func(u *ComposeUnit) bool { return wanted.Has(u.Name) }), nil
}

func filterUnits(units []*ComposeUnit, keep func(*ComposeUnit) bool) []*ComposeUnit {
	var filtered []*ComposeUnit
	for _, unit := range units {
		if keep(unit) {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}

// SelectHosts resolves a host selector: absent or "all"/"*" selects every
// host declared in the run assignment, in declaration order; anything else
// is a comma-separated explicit list, a hard error enumerating every host
// not declared.
func (s *HomelabSite) SelectHosts(names string) ([]string, error) {
	if names == "" || names == "all" || names == "*" {
		return s.Run.Hostnames(), nil
	}
	selected := splitNames(names)
	var badRefs []string
	for _, name := range selected {
		if _, ok := s.Run.unitsByHost[name]; !ok {
			badRefs = append(badRefs, name)
		}
	}
	if len(badRefs) > 0 {
		return nil, errors.Errorf("host(s) not configured: %s", strings.Join(badRefs, ", "))
	}
	return selected, nil
}

func (s *HomelabSite) checkUnitRefs(names []string, origin string) []Problem {
	var problems []Problem
	for _, name := range names {
		if _, ok := s.Units[name]; !ok {
			problems = append(problems, Problem{
				Origin:  origin,
				Message: fmt.Sprintf("DC definition '%s' does not exist (referred from %s)", name, origin),
			})
		}
	}
	return problems
}

// UsedHostPorts maps every claimed host port to the set of unit names
// claiming it, across all services of all units. Computed once and memoized
// for the lifetime of the site.
func (s *HomelabSite) UsedHostPorts() map[int]structures.Set[string] {
	if s.usedPorts == nil {
		s.usedPorts = make(map[int]structures.Set[string])
		for _, unit := range s.UnitsInOrder() {
			for _, svc := range unit.ServicesInOrder() {
				for _, port := range svc.Ports.HostPorts() {
					if s.usedPorts[port] == nil {
						s.usedPorts[port] = make(structures.Set[string])
					}
					s.usedPorts[port].Add(unit.Name)
				}
			}
		}
	}
	return s.usedPorts
}

// UnitHostPorts maps every unit name to the set of host ports it claims.
func (s *HomelabSite) UnitHostPorts() map[string]structures.Set[int] {
	byUnit := make(map[string]structures.Set[int])
	for port, names := range s.UsedHostPorts() {
		for name := range names {
			if byUnit[name] == nil {
				byUnit[name] = make(structures.Set[int])
			}
			byUnit[name].Add(port)
		}
	}
	return byUnit
}

// ConflictingPorts returns the host ports claimed by more than one distinct
// unit. Two services of the same unit sharing a port are not a conflict.
func (s *HomelabSite) ConflictingPorts() map[int]structures.Set[string] {
	conflicting := make(map[int]structures.Set[string])
	for port, names := range s.UsedHostPorts() {
		if len(names) > 1 {
			conflicting[port] = names
		}
	}
	return conflicting
}

// Check is the sanity-check traversal: a read-only walk over the entity
// graph yielding every configuration problem found. The two unconfigured
// cases short-circuit to a singleton result; everything else accumulates.
func (s *HomelabSite) Check() []Problem {
	if s.Folder == "" {
		return []Problem{{
			Origin: ScriptName,
			Message: fmt.Sprintf(
				"Run this to configure where your %s is: %s meta set-folder PATH",
				ConfigFileName, ScriptName,
			),
		}}
	}
	if !s.configExists {
		return []Problem{{
			Origin:  s.Folder,
			Message: fmt.Sprintf("%s does not exist", path.Join(s.Folder, ConfigFileName)),
		}}
	}

	var problems []Problem
	if s.MinVersion != "" && s.ToolVersion != "" &&
		semver.Compare(canonicalVersion(s.ToolVersion), canonicalVersion(s.MinVersion)) < 0 {
		problems = append(problems, Problem{
			Origin: s.Folder,
			Message: fmt.Sprintf(
				"%s %s is older than the min_version %s required by %s",
				ScriptName, s.ToolVersion, s.MinVersion, ConfigFileName,
			),
		})
	}
	if len(s.Units) == 0 {
		problems = append(problems, Problem{
			Origin:  s.Folder,
			Message: fmt.Sprintf("%s has no docker-compose files defined", s.Folder),
		})
	}
	problems = append(problems, s.duplicates...)
	for _, unit := range s.UnitsInOrder() {
		problems = append(problems, unit.Check()...)
	}

	conflicting := s.ConflictingPorts()
	ports := make([]int, 0, len(conflicting))
	for port := range conflicting {
		ports = append(ports, port)
	}
	sort.Ints(ports)
	for _, port := range ports {
		problems = append(problems, Problem{
			Origin: s.Folder,
			Message: fmt.Sprintf(
				"Port %d would conflict on same host for dcs: %s",
				port, strings.Join(structures.Sorted(conflicting[port]), " "),
			),
		})
	}

	problems = append(problems, s.Run.Check()...)
	return append(problems, s.Backup.Check()...)
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
