package site

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestService(t *testing.T, env Mapping, special bool, cfg Mapping) *Service {
	t.Helper()
	s := &HomelabSite{
		Folder:      "/srv/run",
		PersistRoot: DefaultPersistRoot,
		Env:         env,
		Units:       make(map[string]*ComposeUnit),
	}
	unit := &ComposeUnit{Site: s, Name: "pihole", Special: special}
	return newService(unit, "web", cfg)
}

var checkEnvironmentTests = map[string]struct {
	expected Mapping
	cfg      any
	problems []string
}{
	"no expectations": {
		cfg: []any{"PUID=1002"},
	},
	"conforming": {
		expected: Mapping{{Key: "PUID", Value: "1001"}},
		cfg:      []any{"PUID=1001"},
	},
	"drifting": {
		expected: Mapping{{Key: "PUID", Value: "1001"}},
		cfg:      []any{"PUID=1002"},
		problems: []string{"PUID should be 1001 (instead of 1002)"},
	},
	"expected but not declared": {
		expected: Mapping{{Key: "PUID", Value: "1001"}},
		cfg:      []any{"TZ=UTC"},
	},
	"mapping form": {
		expected: Mapping{{Key: "PGID", Value: "1001"}},
		cfg:      Mapping{{Key: "PGID", Value: "33"}},
		problems: []string{"PGID should be 1001 (instead of 33)"},
	},
	"expectation order": {
		expected: Mapping{
			{Key: "PUID", Value: "1001"},
			{Key: "PGID", Value: "1001"},
		},
		cfg: []any{"PGID=34", "PUID=1002"},
		problems: []string{
			"PUID should be 1001 (instead of 1002)",
			"PGID should be 1001 (instead of 34)",
		},
	},
}

func TestEnvironmentCheck(t *testing.T) {
	t.Parallel()
	for name, test := range checkEnvironmentTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, test.expected, false, Mapping{
				{Key: "environment", Value: test.cfg},
			})
			if got, want := problemMessages(svc.Environment.Check()), test.problems; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}

func TestEnvironmentOrigin(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Mapping{{Key: "PUID", Value: "1001"}}, false, Mapping{
		{Key: "environment", Value: []any{"PUID=1002"}},
	})
	problems := svc.Environment.Check()
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1", len(problems))
	}
	if got, want := problems[0].Origin, "pihole:web/environment"; got != want {
		t.Errorf("got origin %q, want %q", got, want)
	}
	if !problems[0].Advisory() {
		t.Error("environment drift must be advisory")
	}
}

var checkPortsTests = map[string]struct {
	cfg      any
	hostSide map[string]string
	ports    []int
}{
	"none": {
		hostSide: map[string]string{},
	},
	"single": {
		cfg:      []any{"443:8443"},
		hostSide: map[string]string{"443": "8443"},
		ports:    []int{443},
	},
	"several in order": {
		cfg:      []any{"53:53", "443:8443"},
		hostSide: map[string]string{"53": "53", "443": "8443"},
		ports:    []int{53, 443},
	},
	"non-numeric host side skipped": {
		cfg:      []any{"127.0.0.1:53:53"},
		hostSide: map[string]string{"127.0.0.1": "53:53"},
	},
}

func TestPorts(t *testing.T) {
	t.Parallel()
	for name, test := range checkPortsTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, nil, false, Mapping{{Key: "ports", Value: test.cfg}})
			if got, want := svc.Ports.HostSide(), test.hostSide; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
			if got, want := svc.Ports.HostPorts(), test.ports; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}

var checkVolumesTests = map[string]struct {
	cfg      any
	special  bool
	vanilla  bool
	problems []string
}{
	"no volumes are vacuously vanilla": {
		vanilla: true,
	},
	"conforming": {
		cfg:     []any{"/srv/persist/pihole/etc:/etc/pihole"},
		vanilla: true,
	},
	"conforming with trailing slash noise": {
		cfg:     []any{"/srv/persist/pihole/:/etc/pihole"},
		vanilla: true,
	},
	"prefix must match whole segments": {
		cfg:     []any{"/srv/persist/pihole2/etc:/etc/pihole"},
		vanilla: false,
		problems: []string{
			"Volume '/srv/persist/pihole2/etc' should be '/srv/persist/pihole'",
		},
	},
	"outside persist root": {
		cfg:     []any{"/srv/data/pihole:/etc/pihole"},
		vanilla: false,
		problems: []string{
			"Volume '/srv/data/pihole' should be '/srv/persist/pihole'",
		},
	},
	"special unit is exempt from layout checks": {
		cfg:     []any{"/srv/data/pihole:/etc/pihole"},
		special: true,
		vanilla: false,
	},
	"mixed": {
		cfg: []any{
			"/srv/persist/pihole/etc:/etc/pihole",
			"/mnt/media:/media",
		},
		vanilla: false,
		problems: []string{
			"Volume '/mnt/media' should be '/srv/persist/pihole'",
		},
	},
}

func TestVolumes(t *testing.T) {
	t.Parallel()
	for name, test := range checkVolumesTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, nil, test.special, Mapping{{Key: "volumes", Value: test.cfg}})
			if got, want := svc.Volumes.Vanilla(), test.vanilla; got != want {
				t.Errorf("got vanilla %v, want %v", got, want)
			}
			if got, want := problemMessages(svc.Volumes.Check()), test.problems; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}

func problemMessages(problems []Problem) []string {
	messages := make([]string, 0, len(problems))
	for _, problem := range problems {
		messages = append(messages, problem.Message)
	}
	return messages
}
