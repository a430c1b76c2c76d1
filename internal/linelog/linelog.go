// Package linelog implements a revision-indexed line history.
//
// A LineLog encodes every line ever recorded for one file, together with the
// revisions in which it is visible, as a small append-only program:
//
//	LINE rev data   emit a line introduced by rev
//	JL   rev pc     skip to pc when checking out a revision < rev
//	JGE  rev pc     skip to pc when checking out a revision >= rev
//	J    pc         unconditional jump
//	END             emit the trailing empty line and stop
//
// Checking out a revision executes the program. Edits never rewrite old
// instructions except for turning one into a jump to a newly appended block,
// so every past revision stays reconstructible and programs share structure.
//
// LineLog values are immutable; every mutating operation returns a new value.
package linelog

import (
	"fmt"

	"github.com/jensroland/git-linelog/internal/linediff"
	"github.com/jensroland/git-linelog/internal/revset"
)

// Rev identifies a revision. Revision 0 is the implicit empty baseline.
type Rev = revset.Rev

// Line is one line of a checkout.
type Line struct {
	// Data is the line content including its "\n". The final END line is "".
	Data string `json:"data"`
	// Rev is the revision that introduced the line.
	Rev Rev `json:"rev"`
	// Deleted is only set by CheckoutRange, for lines not visible at the end
	// revision of the range.
	Deleted bool `json:"deleted,omitempty"`

	pc int
}

// LineLog is an immutable line history. The zero value is an empty log.
type LineLog struct {
	prog   *Program
	maxRev Rev
	cache  *Cache
	differ linediff.Differ
}

// Option configures a LineLog. Options carry over to derived values.
type Option func(*LineLog)

// WithCache makes the log, and every log derived from it, use c instead of
// DefaultCache.
func WithCache(c *Cache) Option {
	return func(l *LineLog) {
		l.cache = c
	}
}

// WithDiffer replaces the line differ used by RecordText.
func WithDiffer(d linediff.Differ) Option {
	return func(l *LineLog) {
		l.differ = d
	}
}

// New returns an empty log: maxRev 0 and a checkout of "".
func New(opts ...Option) LineLog {
	l := LineLog{prog: emptyProgram}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// FromProgram wraps an existing program, e.g. one loaded from storage.
// Logs built from the same *Program share cache entries.
func FromProgram(p *Program, maxRev Rev, opts ...Option) (LineLog, error) {
	if p == nil {
		return LineLog{}, fmt.Errorf("%w: nil program", ErrCorruptProgram)
	}
	if maxRev < 0 {
		return LineLog{}, fmt.Errorf("%w: maxRev %d", ErrRevisionOutOfRange, maxRev)
	}
	l := LineLog{prog: p, maxRev: maxRev}
	for _, opt := range opts {
		opt(&l)
	}
	return l, nil
}

// MaxRev returns the highest revision; new recordings default to MaxRev()+1.
func (l LineLog) MaxRev() Rev {
	return l.maxRev
}

// Program returns the underlying program.
func (l LineLog) Program() *Program {
	return l.program()
}

// Cache returns the execution cache used by the log.
func (l LineLog) Cache() *Cache {
	if l.cache == nil {
		return DefaultCache
	}
	return l.cache
}

// Equal reports structural equality: same maxRev and same instructions.
// Cache and differ settings are ignored.
func (l LineLog) Equal(o LineLog) bool {
	return l.maxRev == o.maxRev && l.program().equal(o.program())
}

func (l LineLog) program() *Program {
	if l.prog == nil {
		return emptyProgram
	}
	return l.prog
}

func (l LineLog) diff(a, b []string) []linediff.Chunk {
	if l.differ == nil {
		return linediff.Lines(a, b)
	}
	return l.differ(a, b)
}

// derive returns a log with the same settings around a new program.
func (l LineLog) derive(p *Program, maxRev Rev) LineLog {
	return LineLog{prog: p, maxRev: maxRev, cache: l.cache, differ: l.differ}
}

func (l LineLog) checkRev(rev Rev) error {
	if rev < 0 || rev > l.maxRev {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrRevisionOutOfRange, rev, l.maxRev)
	}
	return nil
}
