package cli

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"
)

// displayTime renders a timestamp the way an operator reads logs — local
// time, second precision — rather than the RFC3339Nano the store persists.
func displayTime(t time.Time) string {
	return strftime.Format("%Y-%m-%d %H:%M:%S", t)
}

// isTerminal gates the bold table headers below on stdout actually being a
// terminal, so piping `list` output to a file or `less -R` doesn't carry
// raw escape codes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func header(w io.Writer, s string) string {
	if isTerminal(w) {
		return "\033[1m" + s + "\033[0m"
	}
	return s
}
