// Package linediff computes line-level edit chunks between two texts.
package linediff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Chunk describes one contiguous edit: lines a[A1:A2] are replaced by
// b[B1:B2]. A1 == A2 is a pure insertion, B1 == B2 a pure deletion.
type Chunk struct {
	A1, A2 int
	B1, B2 int
}

// Differ returns the ordered, non-overlapping chunks turning a into b.
type Differ func(a, b []string) []Chunk

// maxLines is the number of distinct lines that can be encoded as runes
// without touching the surrogate range.
const maxLines = utf8.MaxRune - 0x800

// SplitLines splits text into lines that keep their trailing "\n". A final
// line without a newline is returned as is; "" yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Lines computes a minimal line diff between a and b.
//
// Every distinct line is interned as a single rune so diffmatchpatch can
// run its character diff over whole lines.
func Lines(a, b []string) []Chunk {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	ids := make(map[string]rune, len(a)+len(b))
	encode := func(lines []string) ([]rune, bool) {
		out := make([]rune, len(lines))
		for i, l := range lines {
			r, ok := ids[l]
			if !ok {
				if len(ids) >= maxLines {
					return nil, false
				}
				r = lineRune(len(ids))
				ids[l] = r
			}
			out[i] = r
		}
		return out, true
	}

	ra, okA := encode(a)
	rb, okB := encode(b)
	if !okA || !okB {
		// Too many distinct lines to intern; fall back to one replacement.
		return []Chunk{{A1: 0, A2: len(a), B1: 0, B2: len(b)}}
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(ra, rb, false)

	var chunks []Chunk
	var pending *Chunk
	ai, bi := 0, 0

	flush := func() {
		if pending != nil {
			pending.A2, pending.B2 = ai, bi
			chunks = append(chunks, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			ai += n
			bi += n
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &Chunk{A1: ai, B1: bi}
			}
			ai += n
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &Chunk{A1: ai, B1: bi}
			}
			bi += n
		}
	}
	flush()

	return chunks
}

// lineRune maps the i-th distinct line to a valid, non-surrogate rune.
func lineRune(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}
