package linelog

import (
	"fmt"

	"github.com/jensroland/git-linelog/internal/revset"
)

// diffLine is one line of the range view between two adjacent revisions.
type diffLine struct {
	rev     Rev
	before  bool
	after   bool
	changed bool
}

// diffChunk is a run of changed lines plus the unchanged lines around it.
type diffChunk struct {
	lines []diffLine
	// prev is the nearest unchanged line before the chunk; hasPrev is false
	// at the start of the file.
	prev    Rev
	hasPrev bool
	// next is the unchanged line after the chunk, END at worst.
	next Rev
}

func (c diffChunk) deleted() []Rev {
	var revs []Rev
	for _, line := range c.lines {
		if line.before && !line.after {
			revs = append(revs, line.rev)
		}
	}
	return revs
}

// revChunks returns the changed regions between rev-1 and rev.
func (l LineLog) revChunks(rev Rev) ([]diffChunk, error) {
	prev, err := l.checkout(rev - 1)
	if err != nil {
		return nil, err
	}
	inPrev := pcSet(prev)
	view, err := l.checkoutRange(rev, rev-1)
	if err != nil {
		return nil, err
	}

	var chunks []diffChunk
	var cur *diffChunk
	var last *diffLine
	for _, line := range view {
		d := diffLine{rev: line.Rev, before: inPrev[line.pc], after: !line.Deleted}
		if !d.before && !d.after {
			continue
		}
		d.changed = d.before != d.after
		if d.changed {
			if cur == nil {
				cur = &diffChunk{}
				if last != nil {
					cur.prev, cur.hasPrev = last.rev, true
				}
			}
			cur.lines = append(cur.lines, d)
			continue
		}
		if cur != nil {
			cur.next = d.rev
			chunks = append(chunks, *cur)
			cur = nil
		}
		last = &d
	}
	if cur != nil {
		// The END sentinel is never changed, so this only happens with a
		// corrupt program.
		return nil, fmt.Errorf("%w: changed lines after END at rev %d", ErrCorruptProgram, rev)
	}
	return chunks, nil
}

// depMap builds a map from each revision with changes to the older
// revisions selected by parents.
func (l LineLog) depMap(parents func(diffChunk) []Rev) (map[Rev]revset.Set, error) {
	deps := make(map[Rev]revset.Set)
	for rev := Rev(1); rev <= l.maxRev; rev++ {
		chunks, err := l.revChunks(rev)
		if err != nil {
			return nil, fmt.Errorf("dependencies of %d: %w", rev, err)
		}
		if len(chunks) == 0 {
			continue
		}
		var older []Rev
		for _, c := range chunks {
			for _, p := range parents(c) {
				if p < rev {
					older = append(older, p)
				}
			}
		}
		deps[rev] = revset.New(older...)
	}
	return deps, nil
}

// DepMap returns, for every revision that changed something, the older
// revisions its chunks touch: the revisions of deleted lines and of the
// unchanged lines directly around each chunk.
func (l LineLog) DepMap() (map[Rev]revset.Set, error) {
	return l.depMap(func(c diffChunk) []Rev {
		revs := c.deleted()
		if c.hasPrev {
			revs = append(revs, c.prev)
		}
		return append(revs, c.next)
	})
}

// AdjacencyDepMap is a coarser DepMap. A chunk that deletes lines depends on
// the revisions that introduced them; a pure insertion depends on the older
// of its two neighbours, with the start of the file counting as revision 0.
func (l LineLog) AdjacencyDepMap() (map[Rev]revset.Set, error) {
	return l.depMap(func(c diffChunk) []Rev {
		if revs := c.deleted(); len(revs) > 0 {
			return revs
		}
		var prev Rev
		if c.hasPrev {
			prev = c.prev
		}
		return []Rev{min(prev, c.next)}
	})
}
