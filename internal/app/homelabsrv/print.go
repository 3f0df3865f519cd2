package homelabsrv

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
)

const (
	indentation = "  "
	bullet      = "- "
)

// Indented

func IndentedPrintf(level int, format string, a ...any) {
	IndentedFprintf(level, os.Stdout, format, a...)
}

func IndentedFprintf(level int, w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, "%s%s", makeIndentation(level), fmt.Sprintf(format, a...))
}

func IndentedPrintln(level int, a ...any) {
	IndentedFprintln(level, os.Stdout, a...)
}

func IndentedFprintln(level int, w io.Writer, a ...any) {
	_, _ = fmt.Fprintf(w, "%s%s\n", makeIndentation(level), fmt.Sprint(a...))
}

func makeIndentation(level int) string {
	return strings.Repeat(indentation, level)
}

// Bulleted

func BulletedPrintf(level int, format string, a ...any) {
	BulletedFprintf(level, os.Stdout, format, a...)
}

func BulletedFprintf(level int, w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, "%s%s", makeBullet(level), fmt.Sprintf(format, a...))
}

func BulletedPrintln(level int, a ...any) {
	BulletedFprintln(level, os.Stdout, a...)
}

func BulletedFprintln(level int, w io.Writer, a ...any) {
	_, _ = fmt.Fprintf(w, "%s%s\n", makeBullet(level), fmt.Sprint(a...))
}

func makeBullet(level int) string {
	return strings.Repeat(indentation, level) + bullet
}

// NewIndentedWriter wraps a writer so that multi-line output from
// subprocesses lines up with the surrounding bulleted output.
func NewIndentedWriter(level int, forward io.Writer) io.Writer {
	return indent.NewWriterPipe(forward, uint(level*len(indentation)), nil)
}
