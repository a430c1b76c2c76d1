package format

import (
	"fmt"
	"strings"
)

// Box renders text inside a bordered box of the given total width, word
// wrapping each paragraph. Rows are kept verbatim when wrap is false.
func Box(text, title string, width int, wrap bool) string {
	innerW := max(width-4, 30)

	var rows []string
	for _, paragraph := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.TrimSpace(paragraph) == "":
			rows = append(rows, "")
		case wrap:
			rows = append(rows, wordWrap(paragraph, innerW)...)
		default:
			rows = append(rows, paragraph)
		}
	}

	var out []string
	if title != "" {
		lbl := fmt.Sprintf("─ %s ", title)
		out = append(out, fmt.Sprintf("┌%s%s┐",
			lbl, strings.Repeat("─", max(innerW+2-runeLen(lbl), 0))))
	} else {
		out = append(out, fmt.Sprintf("┌%s┐", strings.Repeat("─", innerW+2)))
	}
	for _, row := range rows {
		out = append(out, fmt.Sprintf("│ %s │", padOrTrunc(row, innerW)))
	}
	out = append(out, fmt.Sprintf("└%s┘", strings.Repeat("─", innerW+2)))

	return strings.Join(out, "\n")
}

// wordWrap wraps text to the given width, breaking at word boundaries.
func wordWrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}
