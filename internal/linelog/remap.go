package linelog

import (
	"fmt"
	"maps"
	"slices"
)

// RemapRevs renumbers revisions. Revisions missing from mapping keep their
// number; mapping several revisions to one merges them. Dependencies between
// revisions are not checked, so reordering can produce odd intermediate
// checkouts.
func (l LineLog) RemapRevs(mapping map[Rev]Rev) (LineLog, error) {
	for _, from := range slices.Sorted(maps.Keys(mapping)) {
		if to := mapping[from]; from < 0 || to < 0 {
			return LineLog{}, fmt.Errorf("remap: %w: %d -> %d", ErrInvalidRemap, from, to)
		}
	}
	remap := func(rev Rev) Rev {
		if to, ok := mapping[rev]; ok {
			return to
		}
		return rev
	}

	maxRev := remap(l.maxRev)
	for _, to := range mapping {
		maxRev = max(maxRev, to)
	}

	p := l.program()
	b := builder{code: p.code, contents: p.contents}
	for pc := 0; pc < p.Len(); pc++ {
		inst := p.inst(pc)
		if !inst.usesRev() {
			continue
		}
		if to := remap(inst.Rev); to != inst.Rev {
			inst.Rev = to
			b.set(pc, inst)
		}
		maxRev = max(maxRev, inst.Rev)
	}
	return l.derive(b.build(), maxRev), nil
}
