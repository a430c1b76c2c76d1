package format

import (
	"strings"
	"testing"
)

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "converts tabs to 4 spaces",
			in:   "hello\tworld",
			want: []string{"hello    world"},
		},
		{
			name: "splits on newlines",
			in:   "line1\nline2\nline3",
			want: []string{"line1", "line2", "line3"},
		},
		{
			name: "returns nil for empty string",
			in:   "",
			want: nil,
		},
		{
			name: "tabs and newlines combined",
			in:   "\tfoo\n\tbar",
			want: []string{"    foo", "    bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandTabs(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Errorf("expandTabs(%q) = %v, want nil", tt.in, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expandTabs(%q) returned %d lines, want %d", tt.in, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expandTabs(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPadOrTrunc(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{
			name:  "pads short string with spaces",
			s:     "hi",
			width: 6,
			want:  "hi    ",
		},
		{
			name:  "truncates long string",
			s:     "hello world",
			width: 5,
			want:  "hello",
		},
		{
			name:  "handles exact width match",
			s:     "exact",
			width: 5,
			want:  "exact",
		},
		{
			name:  "handles empty string",
			s:     "",
			width: 4,
			want:  "    ",
		},
		{
			name:  "truncates unicode string by runes",
			s:     "abcdef",
			width: 3,
			want:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padOrTrunc(tt.s, tt.width)
			gotRunes := []rune(got)
			if len(gotRunes) != tt.width {
				t.Errorf("padOrTrunc(%q, %d) has rune length %d, want %d", tt.s, tt.width, len(gotRunes), tt.width)
			}
			if got != tt.want {
				t.Errorf("padOrTrunc(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
			}
		})
	}
}

func TestRuneLen(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want int
	}{
		{
			name: "ASCII string",
			s:    "hello",
			want: 5,
		},
		{
			name: "unicode string",
			s:    "\u00e9\u00e8\u00ea",
			want: 3,
		},
		{
			name: "empty string",
			s:    "",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runeLen(tt.s)
			if got != tt.want {
				t.Errorf("runeLen(%q) = %d, want %d", tt.s, got, tt.want)
			}
		})
	}
}

func TestExpandTabsDropsFinalNewline(t *testing.T) {
	got := expandTabs("a\nb\n")
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("expandTabs = %q, want [a b]", got)
	}
}

func TestDiffRows(t *testing.T) {
	rows := diffRows([]string{"a", "b", "c"}, []string{"a", "B", "c", "d"})
	var tags []string
	for _, r := range rows {
		tags = append(tags, r.tag)
	}
	want := []string{"equal", "replace", "equal", "insert"}
	if strings.Join(tags, ",") != strings.Join(want, ",") {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	if *rows[1].left != "b" || *rows[1].right != "B" {
		t.Errorf("replace row = %q/%q", *rows[1].left, *rows[1].right)
	}
	if rows[3].left != nil || *rows[3].right != "d" {
		t.Errorf("insert row has left side or wrong right side")
	}
}

func TestSideBySide(t *testing.T) {
	t.Run("equal text produces output with labels", func(t *testing.T) {
		result := SideBySide("hello\nworld", "hello\nworld", "r1", "r2", 80)

		if !strings.Contains(result, "r1") || !strings.Contains(result, "r2") {
			t.Error("should contain both labels")
		}
		if !strings.Contains(result, "\u250c") {
			t.Error("should contain top-left corner")
		}
		if !strings.Contains(result, "\u2518") {
			t.Error("should contain bottom-right corner")
		}
	})

	t.Run("different text shows both sides", func(t *testing.T) {
		result := SideBySide("old line", "new line", "r1", "r2", 80)

		if !strings.Contains(result, "old line") || !strings.Contains(result, "new line") {
			t.Error("should contain both lines")
		}
	})

	t.Run("empty old text shows insertions", func(t *testing.T) {
		result := SideBySide("", "new content\n", "r0", "r1", 80)

		if !strings.Contains(result, "new content") {
			t.Error("should contain the new content")
		}
	})

	t.Run("empty new text shows deletions", func(t *testing.T) {
		result := SideBySide("old content\n", "", "r1", "r2", 80)

		if !strings.Contains(result, "old content") {
			t.Error("should contain the old content")
		}
	})

	t.Run("rows have the same width", func(t *testing.T) {
		result := SideBySide("a\nb\n", "a\nc\nd\n", "r1", "r2", 60)
		lines := strings.Split(result, "\n")
		for _, l := range lines[1:] {
			if runeLen(l) != runeLen(lines[0]) {
				t.Errorf("row %q has width %d, want %d", l, runeLen(l), runeLen(lines[0]))
			}
		}
	})

	t.Run("truncation at 40 rows", func(t *testing.T) {
		var oldLines, newLines []string
		for i := 0; i < 50; i++ {
			oldLines = append(oldLines, "old line")
			newLines = append(newLines, "new line")
		}
		result := SideBySide(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), "r1", "r2", 80)

		if !strings.Contains(result, "10 more lines not shown") {
			t.Error("should report the 10 rows that were cut")
		}
	})
}
