package linelog

import (
	"fmt"

	"github.com/jensroland/git-linelog/internal/revset"
)

// FlatLine is a line together with every revision it is visible in.
type FlatLine struct {
	Data string     `json:"data"`
	Revs revset.Set `json:"revs"`
}

// Flatten lists every line visible in at least one revision, in an order
// consistent with all checkouts: selecting the lines whose Revs contain r
// reproduces Checkout(r).
func (l LineLog) Flatten() ([]FlatLine, error) {
	all, err := l.checkoutRange(l.maxRev, 0)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	visible := make(map[int][]Rev, len(all))
	for rev := Rev(0); rev <= l.maxRev; rev++ {
		lines, err := l.checkout(rev)
		if err != nil {
			return nil, fmt.Errorf("flatten: checkout %d: %w", rev, err)
		}
		for _, line := range lines {
			visible[line.pc] = append(visible[line.pc], rev)
		}
	}

	var out []FlatLine
	for _, line := range all {
		revs := visible[line.pc]
		if len(revs) == 0 || l.program().inst(line.pc).Op == OpEnd {
			continue
		}
		out = append(out, FlatLine{Data: line.Data, Revs: revset.New(revs...)})
	}
	return out, nil
}
