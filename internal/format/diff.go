package format

import (
	"fmt"
	"strings"

	"github.com/jensroland/git-linelog/internal/linediff"
)

// MaxDiffRows caps the rows SideBySide prints.
const MaxDiffRows = 40

type diffRow struct {
	tag   string // "equal", "delete", "insert", "replace"
	left  *string
	right *string
}

// SideBySide renders two revisions next to each other with box-drawing
// borders. Changed rows are colored, unchanged rows dimmed.
func SideBySide(oldText, newText, oldLabel, newLabel string, width int) string {
	colW := max((width-7)/2, 20)

	oldLines := expandTabs(oldText)
	newLines := expandTabs(newText)
	rows := diffRows(oldLines, newLines)

	total := len(rows)
	truncated := total > MaxDiffRows
	if truncated {
		rows = rows[:MaxDiffRows]
	}

	var out []string
	lblL := fmt.Sprintf("─ %s ", oldLabel)
	lblR := fmt.Sprintf("─ %s ", newLabel)
	out = append(out, fmt.Sprintf("┌%s%s┬%s%s┐",
		lblL, strings.Repeat("─", max(colW+2-runeLen(lblL), 0)),
		lblR, strings.Repeat("─", max(colW+2-runeLen(lblR), 0))))

	blank := strings.Repeat(" ", colW)
	for _, r := range rows {
		left, right := blank, blank
		if r.left != nil {
			left = padOrTrunc(*r.left, colW)
		}
		if r.right != nil {
			right = padOrTrunc(*r.right, colW)
		}

		switch r.tag {
		case "equal":
			left, right = Dim+left+Reset, Dim+right+Reset
		default:
			if r.left != nil {
				left = Red + left + Reset
			}
			if r.right != nil {
				right = Green + right + Reset
			}
		}
		out = append(out, fmt.Sprintf("│ %s │ %s │", left, right))
	}

	out = append(out, fmt.Sprintf("└%s┴%s┘",
		strings.Repeat("─", colW+2), strings.Repeat("─", colW+2)))
	if truncated {
		out = append(out, fmt.Sprintf("  %s… %d more lines not shown%s", Dim, total-MaxDiffRows, Reset))
	}
	return strings.Join(out, "\n")
}

// diffRows pairs up the lines of each chunk: deletions on the left,
// insertions on the right, replaced lines side by side.
func diffRows(a, b []string) []diffRow {
	var rows []diffRow
	equal := func(from, to int) {
		for i := from; i < to; i++ {
			rows = append(rows, diffRow{tag: "equal", left: &a[i], right: &a[i]})
		}
	}

	ai := 0
	for _, c := range linediff.Lines(a, b) {
		equal(ai, c.A1)
		ai = c.A2

		n := max(c.A2-c.A1, c.B2-c.B1)
		for i := 0; i < n; i++ {
			r := diffRow{tag: "replace"}
			if c.A1+i < c.A2 {
				r.left = &a[c.A1+i]
			}
			if c.B1+i < c.B2 {
				r.right = &b[c.B1+i]
			}
			if r.left == nil {
				r.tag = "insert"
			} else if r.right == nil {
				r.tag = "delete"
			}
			rows = append(rows, r)
		}
	}
	equal(ai, len(a))
	return rows
}

func expandTabs(text string) []string {
	if text == "" {
		return nil
	}
	expanded := strings.ReplaceAll(text, "\t", "    ")
	return strings.Split(strings.TrimSuffix(expanded, "\n"), "\n")
}

func padOrTrunc(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

func runeLen(s string) int {
	return len([]rune(s))
}
