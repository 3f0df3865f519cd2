package structures

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var o = struct{}{}

var checkSetAddTests = map[string]struct {
	add []int
	out Set[int]
	non []int
}{
	"{}": {},
	"{1}": {
		add: []int{1},
		out: Set[int]{1: o},
		non: []int{-1, 2},
	},
	"{1 1}": {
		add: []int{1, 1},
		out: Set[int]{1: o},
		non: []int{-1, 2},
	},
	"{1 1 2}": {
		add: []int{1, 1, 2},
		out: Set[int]{1: o, 2: o},
		non: []int{-1},
	},
	"{2 1 1}": {
		add: []int{2, 1, 1},
		out: Set[int]{1: o, 2: o},
		non: []int{-1},
	},
}

func TestSetAdd(t *testing.T) {
	t.Parallel()
	for name, test := range checkSetAddTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Log(name)
			s := make(Set[int])
			for _, elem := range test.add {
				s.Add(elem)
			}
			if got, want := s, test.out; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}

			t.Logf("%s (has)", name)
			for _, elem := range test.add {
				if got := s; !got.Has(elem) {
					t.Errorf("got is missing elem: %d", elem)
				}
			}

			t.Logf("%s (not has)", name)
			for _, elem := range test.non {
				if got := s; got.Has(elem) {
					t.Errorf("got has spurious elem: %d", elem)
				}
			}
		})
	}
}

var checkSetSortedTests = map[string]struct {
	in  Set[string]
	out []string
}{
	"{}": {},
	"{b a}": {
		in:  Set[string]{"b": o, "a": o},
		out: []string{"a", "b"},
	},
	"{c a b}": {
		in:  Set[string]{"c": o, "a": o, "b": o},
		out: []string{"a", "b", "c"},
	},
}

func TestSetSorted(t *testing.T) {
	t.Parallel()
	for name, test := range checkSetSortedTests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Log(name)
			if got, want := Sorted(test.in), test.out; !cmp.Equal(
				got, want, cmpopts.EquateEmpty(),
			) {
				t.Errorf("diff (-want +got):\n%+v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
			}
		})
	}
}
