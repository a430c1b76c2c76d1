package format

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jensroland/git-linelog/internal/linelog"
	"github.com/jensroland/git-linelog/internal/revset"
	"github.com/jensroland/git-linelog/internal/store"
)

// Annotate renders a checkout with the introducing revision of each line in
// a gutter. The END sentinel is skipped.
func Annotate(lines []linelog.Line) string {
	width := revWidth(lines)
	var sb strings.Builder
	for _, line := range lines {
		if line.Data == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s%*d%s %s│%s %s\n",
			RevColor(line.Rev), width, line.Rev, Reset, Dim, Reset, trimEOL(line.Data))
	}
	return sb.String()
}

// Range renders a range checkout like a unified diff: lines gone by the end
// revision get "-", lines added after start get "+".
func Range(lines []linelog.Line, start linelog.Rev) string {
	width := revWidth(lines)
	var sb strings.Builder
	for _, line := range lines {
		if line.Data == "" {
			continue
		}
		marker, color := " ", ""
		switch {
		case line.Deleted:
			marker, color = "-", Red
		case line.Rev > start:
			marker, color = "+", Green
		}
		fmt.Fprintf(&sb, "%s%*d%s %s%s %s%s\n",
			Dim, width, line.Rev, Reset, color, marker, trimEOL(line.Data), Reset)
	}
	return sb.String()
}

// Flat renders every line ever visible with the revisions it appears in.
func Flat(lines []linelog.FlatLine) string {
	width := 4
	for _, line := range lines {
		width = max(width, len(line.Revs.String()))
	}
	var sb strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&sb, "%s%-*s%s %s│%s %s\n",
			Cyan, width, line.Revs.String(), Reset, Dim, Reset, trimEOL(line.Data))
	}
	return sb.String()
}

// Deps renders a dependency map, one revision per row in ascending order.
func Deps(deps map[linelog.Rev]revset.Set) string {
	var sb strings.Builder
	for _, rev := range slices.Sorted(maps.Keys(deps)) {
		parents := deps[rev].String()
		if parents == "" {
			parents = Dim + "-" + Reset
		}
		fmt.Fprintf(&sb, "%s%d%s → %s\n", Bold, rev, Reset, parents)
	}
	return sb.String()
}

// History renders one stored history as a single row.
func History(h store.History) string {
	return fmt.Sprintf("%s%s%s  %s%s%s %s r%d, %d instructions%s",
		Bold, h.Name, Reset,
		Cyan, h.UpdatedAt.Local().Format("2006-01-02 15:04"), Reset,
		Dim, h.MaxRev, h.Instructions, Reset)
}

func revWidth(lines []linelog.Line) int {
	width := 1
	for _, line := range lines {
		width = max(width, len(fmt.Sprint(line.Rev)))
	}
	return width
}

func trimEOL(s string) string {
	return strings.TrimSuffix(s, "\n")
}
