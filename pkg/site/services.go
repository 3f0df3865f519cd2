package site

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Service is one container definition inside a compose unit.
type Service struct {
	// Unit is a back-reference to the owning compose unit; it never changes
	// after construction.
	Unit        *ComposeUnit
	Name        string
	Image       string
	Restart     string
	Environment Environment
	Ports       Ports
	Volumes     Volumes
}

func newService(unit *ComposeUnit, name string, cfg Mapping) *Service {
	svc := &Service{
		Unit:    unit,
		Name:    name,
		Image:   cfg.GetString("image"),
		Restart: cfg.GetString("restart"),
	}
	svc.Environment = newEnvironment(svc, cfg.Get("environment"))
	svc.Ports = newPorts(svc, cfg.Get("ports"))
	svc.Volumes = newVolumes(svc, cfg.Get("volumes"))
	return svc
}

// Check aggregates the service's environment-conformance and volume-layout
// problems.
func (s *Service) Check() []Problem {
	problems := s.Environment.Check()
	return append(problems, s.Volumes.Check()...)
}

// Environment

// Environment holds a service's declared environment assignments. Both the
// `- KEY=value` list form and the mapping form are accepted.
type Environment struct {
	svc    *Service
	names  []string
	byName map[string]string
}

func newEnvironment(svc *Service, cfg any) Environment {
	env := Environment{svc: svc, byName: make(map[string]string)}
	switch v := cfg.(type) {
	case []any:
		for _, item := range v {
			assignment, ok := item.(string)
			if !ok {
				continue
			}
			name, value, _ := strings.Cut(assignment, "=")
			env.set(name, strings.TrimSpace(value))
		}
	case Mapping:
		for _, entry := range v {
			value, _ := entry.Value.(string)
			env.set(entry.Key, strings.TrimSpace(value))
		}
	}
	return env
}

func (e *Environment) set(name, value string) {
	if _, ok := e.byName[name]; !ok {
		e.names = append(e.names, name)
	}
	e.byName[name] = value
}

// Value returns the declared value for the given variable name.
func (e Environment) Value(name string) (string, bool) {
	value, ok := e.byName[name]
	return value, ok
}

func (e Environment) origin() string {
	return fmt.Sprintf("%s:%s/environment", e.svc.Unit.Name, e.svc.Name)
}

// Check compares the declared assignments against the site's global
// environment expectations: a variable which is declared here with a value
// different from the expected one yields an advisory problem. Variables not
// covered by the expectations are left alone.
func (e Environment) Check() []Problem {
	var problems []Problem
	for _, expectation := range e.svc.Unit.Site.Env {
		expected, ok := expectation.Value.(string)
		if !ok {
			continue
		}
		if actual, declared := e.byName[expectation.Key]; declared && actual != expected {
			problems = append(problems, Problem{
				Origin:  e.origin(),
				Message: fmt.Sprintf("%s should be %s (instead of %s)", expectation.Key, expected, actual),
			})
		}
	}
	return problems
}

// Ports

// Ports holds a service's declared host-side port exposures, keyed by the
// host side of each `host:container` pair.
type Ports struct {
	svc       *Service
	hostOrder []string
	hostSide  map[string]string
}

func newPorts(svc *Service, cfg any) Ports {
	ports := Ports{svc: svc, hostSide: make(map[string]string)}
	entries, _ := cfg.([]any)
	for _, item := range entries {
		exposure, ok := item.(string)
		if !ok {
			continue
		}
		host, container, _ := strings.Cut(exposure, ":")
		if _, seen := ports.hostSide[host]; !seen {
			ports.hostOrder = append(ports.hostOrder, host)
		}
		ports.hostSide[host] = container
	}
	return ports
}

// HostSide returns the host-port → container-port mapping.
func (p Ports) HostSide() map[string]string {
	return p.hostSide
}

// HostPorts returns the numeric host-side ports in declaration order,
// skipping any host side which isn't a plain port number.
func (p Ports) HostPorts() []int {
	var ports []int
	for _, host := range p.hostOrder {
		if port, err := strconv.Atoi(host); err == nil {
			ports = append(ports, port)
		}
	}
	return ports
}

// Volumes

// Volumes holds a service's declared bind mounts, keyed by host path.
type Volumes struct {
	svc       *Service
	hostOrder []string
	mounts    map[string]string
}

func newVolumes(svc *Service, cfg any) Volumes {
	volumes := Volumes{svc: svc, mounts: make(map[string]string)}
	entries, _ := cfg.([]any)
	for _, item := range entries {
		mount, ok := item.(string)
		if !ok {
			continue
		}
		host, container, _ := strings.Cut(mount, ":")
		if _, seen := volumes.mounts[host]; !seen {
			volumes.hostOrder = append(volumes.hostOrder, host)
		}
		volumes.mounts[host] = container
	}
	return volumes
}

// Mounts returns the host-path → container-path mapping.
func (v Volumes) Mounts() map[string]string {
	return v.mounts
}

func (v Volumes) expectedRoot() string {
	return path.Join(v.svc.Unit.Site.PersistRoot, v.svc.Unit.Name)
}

// Vanilla reports whether every declared host path lives under the standard
// `<persist root>/<unit name>` location. A service with no volumes is
// vacuously vanilla.
func (v Volumes) Vanilla() bool {
	expected := v.expectedRoot()
	for _, host := range v.hostOrder {
		if !hasPathPrefix(host, expected) {
			return false
		}
	}
	return true
}

func (v Volumes) origin() string {
	return fmt.Sprintf("%s:%s/volumes", v.svc.Unit.Name, v.svc.Name)
}

// Check yields one advisory problem per host path outside the standard
// persisted location. Special units and services without volumes are
// exempt.
func (v Volumes) Check() []Problem {
	if len(v.hostOrder) == 0 || v.svc.Unit.Special {
		return nil
	}
	expected := v.expectedRoot()
	var problems []Problem
	for _, host := range v.hostOrder {
		if !hasPathPrefix(host, expected) {
			problems = append(problems, Problem{
				Origin:  v.origin(),
				Message: fmt.Sprintf("Volume '%s' should be '%s'", host, expected),
			})
		}
	}
	return problems
}

// hasPathPrefix reports whether every path segment of prefix starts off the
// segments of p. Paths are cleaned first; symlinks are not resolved.
func hasPathPrefix(p, prefix string) bool {
	segments := strings.Split(path.Clean(p), "/")
	prefixSegments := strings.Split(path.Clean(prefix), "/")
	if len(segments) < len(prefixSegments) {
		return false
	}
	for i, segment := range prefixSegments {
		if segments[i] != segment {
			return false
		}
	}
	return true
}
