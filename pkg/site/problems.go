package site

import (
	"fmt"
	"strings"
)

// Problem is one sanity-check finding: a misconfiguration discovered while
// walking the site's entity graph. Problems are accumulated rather than
// raised, so a single run reports everything at once.
type Problem struct {
	// Origin locates the finding in the configuration, e.g.
	// `pihole:web/environment` or `_config.yml:run/rps`.
	Origin  string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Origin, p.Message)
}

// Advisory reports whether the problem merely suggests drift (wording with
// "should" or "would"): advisory problems are warnings, everything else
// blocks lifecycle operations.
func (p Problem) Advisory() bool {
	return strings.Contains(p.Message, "should") || strings.Contains(p.Message, "would")
}

// CountFatal returns the number of non-advisory problems.
func CountFatal(problems []Problem) int {
	fatal := 0
	for _, problem := range problems {
		if !problem.Advisory() {
			fatal++
		}
	}
	return fatal
}
