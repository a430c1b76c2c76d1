// Package format renders line histories for the terminal.
package format

import (
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/jensroland/git-linelog/internal/linelog"
)

// Escape sequences used by the renderers. All of them are "" once colour
// is disabled.
var (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	Green   = "\033[32m"
	Magenta = "\033[35m"
	Blue    = "\033[34m"
	Red     = "\033[31m"
)

// revPalette is cycled through by RevColor. Red and Green are left out,
// they mark deletions and insertions.
var revPalette = []*string{&Cyan, &Yellow, &Magenta, &Blue}

const defaultWidth = 80

func init() {
	if !colorWanted(os.Getenv, int(os.Stdout.Fd())) {
		DisableColors()
	}
}

// colorWanted decides whether output on fd gets colour. NO_COLOR wins over
// FORCE_COLOR, which wins over terminal detection.
func colorWanted(getenv func(string) string, fd int) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return term.IsTerminal(fd)
}

// DisableColors turns every escape sequence into "".
func DisableColors() {
	Reset, Bold, Dim = "", "", ""
	Yellow, Cyan, Green, Magenta, Blue, Red = "", "", "", "", "", ""
}

// TermWidth returns the width of the terminal on stdout. When stdout is
// not a terminal it falls back to $COLUMNS, then to 80.
func TermWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// RevColor picks a stable color for a revision so neighbouring revisions
// are easy to tell apart in annotate output.
func RevColor(rev linelog.Rev) string {
	return *revPalette[int(rev)%len(revPalette)]
}
