package linelog

import (
	"fmt"
	"strings"
)

// execute interprets the program. JL guards are evaluated against rev and
// JGE guards against start, so start == rev is a plain checkout and start <
// rev includes every line visible somewhere in [start, rev]. When present is
// not nil, lines whose pc is not in it are marked Deleted.
func (p *Program) execute(start, rev Rev, present map[int]bool) ([]Line, error) {
	var lines []Line
	limit := 2 * p.Len()
	pc := 0
	for steps := 0; steps <= limit; steps++ {
		if pc < 0 || pc >= p.Len() {
			return nil, fmt.Errorf("%w: pc %d out of bounds", ErrCorruptProgram, pc)
		}
		inst := p.inst(pc)
		switch inst.Op {
		case OpEnd:
			lines = append(lines, Line{Data: "", Rev: 0, pc: pc, Deleted: present != nil && !present[pc]})
			return lines, nil
		case OpLine:
			lines = append(lines, Line{Data: p.data(inst), Rev: inst.Rev, pc: pc, Deleted: present != nil && !present[pc]})
			pc++
		case OpJ:
			pc = inst.PC
		case OpJGE:
			if start >= inst.Rev {
				pc = inst.PC
			} else {
				pc++
			}
		case OpJL:
			if rev < inst.Rev {
				pc = inst.PC
			} else {
				pc++
			}
		default:
			return nil, fmt.Errorf("%w: pc %d has unknown op %d", ErrCorruptProgram, pc, inst.Op)
		}
	}
	return nil, fmt.Errorf("%w: no END after %d steps", ErrCorruptProgram, limit)
}

// checkout returns the cached lines visible at rev. The slice is shared.
func (l LineLog) checkout(rev Rev) ([]Line, error) {
	p := l.program()
	key := cacheKey{program: p.id, rev: rev, start: rev}
	cache := l.Cache()
	if lines, ok := cache.get(key); ok {
		return lines, nil
	}
	lines, err := p.execute(rev, rev, nil)
	if err != nil {
		return nil, err
	}
	cache.put(key, lines)
	return lines, nil
}

// CheckoutLines returns the lines visible at rev, ending with the END
// sentinel {Data: "", Rev: 0}.
func (l LineLog) CheckoutLines(rev Rev) ([]Line, error) {
	if err := l.checkRev(rev); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	lines, err := l.checkout(rev)
	if err != nil {
		return nil, fmt.Errorf("checkout %d: %w", rev, err)
	}
	return cloneLines(lines), nil
}

// Checkout returns the text of rev.
func (l LineLog) Checkout(rev Rev) (string, error) {
	lines, err := l.CheckoutLines(rev)
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

// CheckoutRange returns every line visible at some revision in [start, rev],
// in program order. Lines not visible at rev have Deleted set. start must
// not be after rev.
func (l LineLog) CheckoutRange(rev, start Rev) ([]Line, error) {
	if err := l.checkRev(rev); err != nil {
		return nil, fmt.Errorf("checkout range: %w", err)
	}
	if err := l.checkRev(start); err != nil {
		return nil, fmt.Errorf("checkout range start: %w", err)
	}
	if start > rev {
		return nil, fmt.Errorf("checkout range: %w: start %d is after %d", ErrRevisionOutOfRange, start, rev)
	}
	lines, err := l.checkoutRange(rev, start)
	if err != nil {
		return nil, fmt.Errorf("checkout range %d..%d: %w", start, rev, err)
	}
	return cloneLines(lines), nil
}

func (l LineLog) checkoutRange(rev, start Rev) ([]Line, error) {
	p := l.program()
	key := cacheKey{program: p.id, rev: rev, start: start, ranged: true}
	cache := l.Cache()
	if lines, ok := cache.get(key); ok {
		return lines, nil
	}
	visible, err := l.checkout(rev)
	if err != nil {
		return nil, err
	}
	lines, err := p.execute(start, rev, pcSet(visible))
	if err != nil {
		return nil, err
	}
	cache.put(key, lines)
	return lines, nil
}

// Baseline is a caller-owned checkout that EditChunk keeps in sync with the
// edits it applies, so a batch of edits needs no further execution.
// A Baseline must only be used with the log it came from and the logs
// derived from it by edits that were passed the same Baseline.
type Baseline struct {
	lines []Line
}

// Baseline returns a mutable copy of the checkout of rev.
func (l LineLog) Baseline(rev Rev) (*Baseline, error) {
	lines, err := l.CheckoutLines(rev)
	if err != nil {
		return nil, err
	}
	return &Baseline{lines: lines}, nil
}

// Lines returns a copy of the current lines, END sentinel included.
func (b *Baseline) Lines() []Line {
	return cloneLines(b.lines)
}

// Text returns the text of the current lines.
func (b *Baseline) Text() string {
	return joinLines(b.lines)
}

// Len returns the number of lines excluding the END sentinel.
func (b *Baseline) Len() int {
	return len(b.lines) - 1
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func joinLines(lines []Line) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line.Data)
	}
	return sb.String()
}

func pcSet(lines []Line) map[int]bool {
	set := make(map[int]bool, len(lines))
	for _, line := range lines {
		set[line.pc] = true
	}
	return set
}
