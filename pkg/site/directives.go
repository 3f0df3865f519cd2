package site

import (
	"fmt"
	"path"
	"slices"
)

// RunAssignment

// RunAssignment is the `run:` section of the site configuration: which
// compose units are expected to run on which host.
type RunAssignment struct {
	site        *HomelabSite
	hostnames   []string
	unitsByHost map[string][]string
}

func newRunAssignment(s *HomelabSite, cfg Mapping) *RunAssignment {
	assignment := &RunAssignment{
		site:        s,
		unitsByHost: make(map[string][]string),
	}
	for _, entry := range cfg {
		assignment.hostnames = append(assignment.hostnames, entry.Key)
		assignment.unitsByHost[entry.Key] = Words(entry.Value)
	}
	return assignment
}

// Hostnames returns the declared hosts in document order.
func (r *RunAssignment) Hostnames() []string {
	return r.hostnames
}

// UnitsForHost returns the unit names assigned to the given host, or nil if
// the host isn't declared.
func (r *RunAssignment) UnitsForHost(hostname string) []string {
	return r.unitsByHost[hostname]
}

// Check validates that at least one host is declared and that every
// referenced unit exists.
func (r *RunAssignment) Check() []Problem {
	var problems []Problem
	if len(r.hostnames) == 0 {
		problems = append(problems, Problem{
			Origin:  "run",
			Message: fmt.Sprintf("no hosts are defined in %s run: section", ConfigFileName),
		})
	}
	for _, hostname := range r.hostnames {
		origin := fmt.Sprintf("%s:run/%s", ConfigFileName, hostname)
		problems = append(problems, r.site.checkUnitRefs(r.unitsByHost[hostname], origin)...)
	}
	return problems
}

// BackupPolicy

// BackupPolicy is the `backup:` section of the site configuration: where
// persisted unit state is synchronized to, which units get a per-host
// subfolder, and which units restrict the sub-paths to synchronize.
type BackupPolicy struct {
	site *HomelabSite
	// Folder is the backup root on the executing host.
	Folder string
	// PerHost lists the units whose backups go into a per-host subfolder
	// instead of a shared one.
	PerHost []string

	restrictOrder []string
	restrict      map[string][]string
}

func newBackupPolicy(s *HomelabSite, cfg Mapping) *BackupPolicy {
	policy := &BackupPolicy{
		site:     s,
		Folder:   DefaultBackupFolder,
		PerHost:  Words(cfg.Get("per_host")),
		restrict: make(map[string][]string),
	}
	if folder := cfg.GetString("folder"); folder != "" {
		policy.Folder = folder
	}
	for _, entry := range cfg.GetMapping("restrict") {
		policy.restrictOrder = append(policy.restrictOrder, entry.Key)
		policy.restrict[entry.Key] = Words(entry.Value)
	}
	return policy
}

// Destination computes the absolute backup destination for the given unit.
// The executing host's identity is threaded in explicitly so simulated
// identities work without mutating shared state.
func (b *BackupPolicy) Destination(unit *ComposeUnit, hostname string) string {
	dest := b.Folder
	if slices.Contains(b.PerHost, unit.Name) {
		dest = path.Join(dest, hostname)
	}
	return path.Join(dest, unit.Name)
}

// RestrictedPaths returns the relative sub-paths to synchronize for the
// given unit, or nil when the unit's entire persisted directory is in
// scope.
func (b *BackupPolicy) RestrictedPaths(unitName string) []string {
	return b.restrict[unitName]
}

// Check validates every unit name referenced by the policy.
func (b *BackupPolicy) Check() []Problem {
	origin := fmt.Sprintf("%s:backup/per_host", ConfigFileName)
	problems := b.site.checkUnitRefs(b.PerHost, origin)
	origin = fmt.Sprintf("%s:backup/restrict", ConfigFileName)
	return append(problems, b.site.checkUnitRefs(b.restrictOrder, origin)...)
}
