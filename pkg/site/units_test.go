package site

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var checkUnitNameTests = map[string]struct {
	path string
	name string
}{
	"standalone file":      {path: "pihole.yml", name: "pihole"},
	"nested compose file":  {path: "grafana/docker-compose.yml", name: "grafana"},
	"nested special":       {path: "syncthing/docker-compose.yml", name: "syncthing"},
	"standalone extension": {path: "unifi.yaml", name: "unifi"},
}

func TestUnitNameForPath(t *testing.T) {
	t.Parallel()
	for name, test := range checkUnitNameTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got, want := UnitNameForPath(test.path), test.name; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

var checkVanillaBackupTests = map[string]struct {
	files   map[string]string
	unit    string
	special bool
	vanilla bool
}{
	"no services": {
		files: map[string]string{
			"_config.yml": "",
			"empty.yml":   "services:\n",
		},
		unit: "empty",
	},
	"all volumes conforming": {
		files: map[string]string{
			"_config.yml": "",
			"pihole.yml": `services:
  web:
    image: pihole/pihole
    volumes:
      - /srv/persist/pihole/etc:/etc/pihole
      - /srv/persist/pihole/dnsmasq:/etc/dnsmasq.d
`,
		},
		unit:    "pihole",
		vanilla: true,
	},
	"service without volumes is vacuously conforming": {
		files: map[string]string{
			"_config.yml": "",
			"pihole.yml": `services:
  web:
    image: pihole/pihole
    volumes:
      - /srv/persist/pihole/etc:/etc/pihole
  helper:
    image: busybox
`,
		},
		unit:    "pihole",
		vanilla: true,
	},
	"one stray volume spoils the unit": {
		files: map[string]string{
			"_config.yml": "",
			"pihole.yml": `services:
  web:
    image: pihole/pihole
    volumes:
      - /srv/persist/pihole/etc:/etc/pihole
      - /srv/data/pihole:/var/lib/pihole
`,
		},
		unit: "pihole",
	},
	"special unit keeps its own layout": {
		files: map[string]string{
			"_config.yml": "",
			"syncthing/docker-compose.yml": `services:
  syncthing:
    image: syncthing/syncthing
    volumes:
      - /srv/sync:/var/syncthing
`,
		},
		unit:    "syncthing",
		special: true,
	},
}

func TestVanillaBackup(t *testing.T) {
	t.Parallel()
	for name, test := range checkVanillaBackupTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := LoadSiteFS(newTestFS("/srv/run", test.files), "/srv/run", "")
			unit, ok := s.Units[test.unit]
			if !ok {
				t.Fatalf("unit %q wasn't discovered", test.unit)
			}
			if got, want := unit.Special, test.special; got != want {
				t.Errorf("got special %v, want %v", got, want)
			}
			if got, want := unit.VanillaBackup(), test.vanilla; got != want {
				t.Errorf("got vanilla %v, want %v", got, want)
			}
		})
	}
}

func TestUnitImages(t *testing.T) {
	t.Parallel()
	s := LoadSiteFS(newTestFS("/srv/run", map[string]string{
		"_config.yml": "",
		"pihole.yml": `services:
  web:
    image: pihole/pihole:latest
  exporter:
    image: ekofr/pihole-exporter:v0.3.0
`,
	}), "/srv/run", "")
	unit := s.Units["pihole"]
	if unit == nil {
		t.Fatal("unit pihole wasn't discovered")
	}
	want := []string{"pihole/pihole:latest", "ekofr/pihole-exporter:v0.3.0"}
	if got := unit.Images(); !cmp.Equal(got, want, cmpopts.EquateEmpty()) {
		t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
	}
}
