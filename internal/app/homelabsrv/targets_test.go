package homelabsrv

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
	"github.com/homelab-run/homelab-srv/pkg/site"
)

type testFS struct {
	fstest.MapFS
	path string
}

func (f testFS) Path() string {
	return f.path
}

func (f testFS) Sub(dir string) (ffs.PathedFS, error) {
	return testFS{MapFS: f.MapFS, path: f.path + "/" + dir}, nil
}

func newTestSite(t *testing.T) *site.HomelabSite {
	t.Helper()
	fsys := testFS{MapFS: fstest.MapFS{
		"_config.yml": &fstest.MapFile{Data: []byte(`run:
  rps: pihole grafana
  rph: syncthing
`)},
		"pihole.yml": &fstest.MapFile{Data: []byte(`services:
  web:
    image: pihole/pihole
`)},
		"grafana/docker-compose.yml": &fstest.MapFile{Data: []byte(`services:
  grafana:
    image: grafana/grafana
`)},
		"syncthing/docker-compose.yml": &fstest.MapFile{Data: []byte(`services:
  syncthing:
    image: syncthing/syncthing
`)},
	}, path: "/srv/run"}
	return site.LoadSiteFS(fsys, "/srv/run", "")
}

var checkResolveTargetTests = map[string]struct {
	executor bool
	hostname string
	value    string
	units    []string
	hosts    []string
	err      bool
}{
	"orchestrator default": {
		hostname: "workstation",
		units:    []string{"pihole", "grafana"},
		hosts:    []string{"rps", "rph"},
	},
	"orchestrator unit only": {
		hostname: "workstation",
		value:    "syncthing",
		units:    []string{"syncthing"},
		hosts:    []string{"rps", "rph"},
	},
	"orchestrator host and unit": {
		hostname: "workstation",
		value:    "rps:pihole",
		units:    []string{"pihole"},
		hosts:    []string{"rps"},
	},
	"orchestrator unknown host": {
		hostname: "workstation",
		value:    "attic:pihole",
		err:      true,
	},
	"executor default": {
		executor: true,
		hostname: "rps",
		units:    []string{"pihole", "grafana"},
	},
	"executor self host": {
		executor: true,
		hostname: "rps",
		value:    "rps:pihole",
		units:    []string{"pihole"},
	},
	"executor foreign host": {
		executor: true,
		hostname: "rps",
		value:    "rph:pihole",
		err:      true,
	},
	"unknown unit": {
		hostname: "workstation",
		value:    "vault",
		err:      true,
	},
}

func TestResolveTarget(t *testing.T) {
	t.Parallel()
	for name, test := range checkResolveTargetTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := newTestSite(t)
			host := &HostContext{Hostname: test.hostname, Executor: test.executor}
			target, err := ResolveTarget(s, host, test.value)
			if test.err {
				if err == nil {
					t.Fatalf("got target %+v, want an error", target)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got, want := target.UnitNames(), test.units; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
			if got, want := target.Hosts, test.hosts; !cmp.Equal(got, want, cmpopts.EquateEmpty()) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}
