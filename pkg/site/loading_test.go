package site

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	ffs "github.com/homelab-run/homelab-srv/pkg/fs"
)

// testFS wraps an in-memory filesystem as a PathedFS rooted at a fake path.
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

func newTestFS(path string, files map[string]string) testFS {
	fsys := make(fstest.MapFS)
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return testFS{MapFS: fsys, path: path}
}

var checkReadYAMLTests = map[string]struct {
	file    string
	out     Mapping
	parseOK bool
}{
	"missing": {
		parseOK: true,
	},
	"scalars stay strings": {
		file:    "port: 443\nenabled: true\n",
		out:     Mapping{{Key: "port", Value: "443"}, {Key: "enabled", Value: "true"}},
		parseOK: true,
	},
	"document order is kept": {
		file: "zebra: 1\nalpha: 2\nmango: 3\n",
		out: Mapping{
			{Key: "zebra", Value: "1"},
			{Key: "alpha", Value: "2"},
			{Key: "mango", Value: "3"},
		},
		parseOK: true,
	},
	"nested structure": {
		file: "run:\n  rps:\n    - unitA\n    - unitB\n",
		out: Mapping{{Key: "run", Value: Mapping{
			{Key: "rps", Value: []any{"unitA", "unitB"}},
		}}},
		parseOK: true,
	},
	"malformed": {
		file: "run:\n- oops\n  bad: [unclosed\n",
	},
}

func TestReadYAML(t *testing.T) {
	t.Parallel()
	for name, test := range checkReadYAMLTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			files := map[string]string{}
			if test.file != "" {
				files["doc.yml"] = test.file
			}
			got, err := ReadYAML(newTestFS("/srv/run", files), "doc.yml")
			if test.parseOK != (err == nil) {
				t.Errorf("got err %v, want parseOK %v", err, test.parseOK)
			}
			if want := test.out; !cmp.Equal(got, want, cmpopts.EquateEmpty()) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}

var checkWordsTests = map[string]struct {
	in  any
	out []string
}{
	"nil":            {},
	"empty string":   {in: ""},
	"single word":    {in: "unitA", out: []string{"unitA"}},
	"space-joined":   {in: "unitA unitB", out: []string{"unitA", "unitB"}},
	"sequence":       {in: []any{"unitA", "unitB"}, out: []string{"unitA", "unitB"}},
	"mixed sequence": {in: []any{"unitA unitB", "unitC"}, out: []string{"unitA", "unitB", "unitC"}},
}

func TestWords(t *testing.T) {
	t.Parallel()
	for name, test := range checkWordsTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got, want := Words(test.in), test.out; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}
