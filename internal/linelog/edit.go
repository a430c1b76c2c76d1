package linelog

import (
	"fmt"

	"github.com/jensroland/git-linelog/internal/linediff"
)

// EditChunk replaces lines [a1, a2) of the checkout of baseRev with newLines,
// attributing the change to targetRev.
//
// baseline may be nil. Otherwise it must hold the checkout of baseRev; it is
// updated in place to reflect the edit and no execution takes place.
func (l LineLog) EditChunk(baseRev Rev, a1, a2 int, targetRev Rev, newLines []string, baseline *Baseline) (LineLog, error) {
	if err := l.checkRev(baseRev); err != nil {
		return LineLog{}, fmt.Errorf("edit chunk: base: %w", err)
	}
	if targetRev < 0 {
		return LineLog{}, fmt.Errorf("edit chunk: %w: target %d", ErrRevisionOutOfRange, targetRev)
	}
	if baseline == nil {
		var err error
		if baseline, err = l.Baseline(baseRev); err != nil {
			return LineLog{}, fmt.Errorf("edit chunk: %w", err)
		}
	}
	if n := baseline.Len(); a1 < 0 || a1 > a2 || a2 > n {
		return LineLog{}, fmt.Errorf("edit chunk: %w: [%d, %d) of %d lines", ErrChunkRangeInvalid, a1, a2, n)
	}

	p := l.program()
	lines := baseline.lines
	if lines[a1].pc >= p.Len() || (a1 < a2 && lines[a2-1].pc >= p.Len()) {
		return LineLog{}, fmt.Errorf("edit chunk: %w: baseline does not belong to this log", ErrChunkRangeInvalid)
	}
	b := builder{code: p.code, contents: p.contents}

	start := b.pc()
	if len(newLines) > 0 {
		b.push(Inst{Op: OpJL, Rev: targetRev, PC: start + len(newLines) + 1})
		for _, data := range newLines {
			b.pushLine(targetRev, data)
		}
	}
	if a1 < a2 {
		b.push(Inst{Op: OpJGE, Rev: targetRev, PC: lines[a2-1].pc + 1})
	}

	a1PC := lines[a1].pc
	movedPC := b.pc()
	moved := p.inst(a1PC)
	b.push(moved)
	if moved.Op != OpEnd {
		b.push(Inst{Op: OpJ, PC: a1PC + 1})
	}
	b.set(a1PC, Inst{Op: OpJ, PC: start})

	inserted := make([]Line, len(newLines))
	for i, data := range newLines {
		inserted[i] = Line{Data: data, Rev: targetRev, pc: start + 1 + i}
	}
	spliced := make([]Line, 0, len(lines)-(a2-a1)+len(newLines))
	spliced = append(spliced, lines[:a1]...)
	spliced = append(spliced, inserted...)
	spliced = append(spliced, lines[a2:]...)
	if a1 == a2 {
		spliced[a1+len(newLines)].pc = movedPC
	}
	baseline.lines = spliced

	return l.derive(b.build(), max(l.maxRev, targetRev)), nil
}

// RecordText records text as a new revision, MaxRev()+1.
func (l LineLog) RecordText(text string) (LineLog, error) {
	return l.RecordTextAt(l.maxRev+1, text, nil)
}

// RecordTextAt makes text the content of rev. Revisions after rev keep their
// own changes on top of it. The diff is taken against baseline, or against
// the checkout of min(rev, MaxRev()) when baseline is nil.
func (l LineLog) RecordTextAt(rev Rev, text string, baseline *Baseline) (LineLog, error) {
	if rev < 0 {
		return LineLog{}, fmt.Errorf("record: %w: %d", ErrRevisionOutOfRange, rev)
	}
	baseRev := min(rev, l.maxRev)
	if baseline == nil {
		var err error
		if baseline, err = l.Baseline(baseRev); err != nil {
			return LineLog{}, fmt.Errorf("record: %w", err)
		}
	}

	aLines := make([]string, baseline.Len())
	for i := range aLines {
		aLines[i] = baseline.lines[i].Data
	}
	bLines := linediff.SplitLines(text)
	chunks := l.diff(aLines, bLines)

	log := l
	for i := len(chunks) - 1; i >= 0; i-- {
		c := chunks[i]
		var err error
		log, err = log.EditChunk(baseRev, c.A1, c.A2, rev, bLines[c.B1:c.B2], baseline)
		if err != nil {
			return LineLog{}, fmt.Errorf("record: %w", err)
		}
	}
	log.maxRev = max(l.maxRev, rev)

	// The baseline now is the checkout of rev; seed the cache with it.
	p := log.program()
	log.Cache().put(cacheKey{program: p.id, rev: rev, start: rev}, cloneLines(baseline.lines))
	return log, nil
}
