package homelabsrv

import (
	"io"

	"github.com/pkg/errors"

	"github.com/homelab-run/homelab-srv/pkg/site"
)

// PrintProblems writes every problem to w, advisory ones as warnings and the
// rest as errors, and returns the number of errors.
func PrintProblems(w io.Writer, problems []site.Problem) (fatal int) {
	for _, problem := range problems {
		label := "error"
		if problem.Advisory() {
			label = "warning"
		} else {
			fatal++
		}
		IndentedFprintf(0, w, "%s: %s\n", label, problem)
	}
	return fatal
}

// CheckSite runs the sanity check, reports every problem to w, and fails when
// any problem is fatal.
func CheckSite(s *site.HomelabSite, w io.Writer) error {
	if fatal := PrintProblems(w, s.Check()); fatal > 0 {
		return errors.New("please fix reported issues first")
	}
	return nil
}
