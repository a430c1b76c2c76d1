package linelog

import (
	"fmt"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

// Op is an instruction opcode.
type Op uint8

const (
	// OpJ jumps to PC unconditionally.
	OpJ Op = iota
	// OpJGE jumps to PC if the (range start) revision is >= Rev. It skips
	// lines deleted by Rev.
	OpJGE
	// OpJL jumps to PC if the revision is < Rev. It skips lines inserted by Rev.
	OpJL
	// OpLine emits the content at index Data, introduced by Rev.
	OpLine
	// OpEnd stops execution and emits the trailing empty sentinel line.
	OpEnd
)

func (op Op) String() string {
	switch op {
	case OpJ:
		return "J"
	case OpJGE:
		return "JGE"
	case OpJL:
		return "JL"
	case OpLine:
		return "LINE"
	case OpEnd:
		return "END"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// Inst is one program instruction. Which fields are meaningful depends on Op:
// PC for jumps, Rev for JGE/JL/LINE, Data for LINE.
type Inst struct {
	Op   Op
	Rev  Rev
	PC   int
	Data int
}

func (i Inst) String() string {
	switch i.Op {
	case OpJ:
		return fmt.Sprintf("J %d", i.PC)
	case OpJGE, OpJL:
		return fmt.Sprintf("%s %d %d", i.Op, i.Rev, i.PC)
	case OpLine:
		return fmt.Sprintf("LINE %d #%d", i.Rev, i.Data)
	default:
		return i.Op.String()
	}
}

// usesRev reports whether the instruction carries a revision operand.
func (i Inst) usesRev() bool {
	return i.Op == OpJGE || i.Op == OpJL || i.Op == OpLine
}

var programSeq atomic.Uint64

// Program is an immutable instruction list plus the content table its LINE
// instructions point into. Each Program has a process-unique identity that
// keys the execution cache; derived programs share unchanged structure.
type Program struct {
	id       uint64
	code     *immutable.List[Inst]
	contents *immutable.List[string]
}

// emptyProgram is the single-END program every new log starts from.
var emptyProgram = newProgram(
	immutable.NewList(Inst{Op: OpEnd}),
	immutable.NewList[string](),
)

func newProgram(code *immutable.List[Inst], contents *immutable.List[string]) *Program {
	return &Program{
		id:       programSeq.Add(1),
		code:     code,
		contents: contents,
	}
}

// NewProgram builds a Program from externally stored instructions and
// contents, for example when loading a history from disk. Jump targets and
// content indices are checked; termination is checked lazily on execution.
func NewProgram(code []Inst, contents []string) (*Program, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: no instructions", ErrCorruptProgram)
	}
	hasEnd := false
	for pc, inst := range code {
		switch inst.Op {
		case OpJ, OpJGE, OpJL:
			if inst.PC < 0 || inst.PC >= len(code) {
				return nil, fmt.Errorf("%w: pc %d jumps to %d (len %d)", ErrCorruptProgram, pc, inst.PC, len(code))
			}
		case OpLine:
			if inst.Data < 0 || inst.Data >= len(contents) {
				return nil, fmt.Errorf("%w: pc %d references content %d (len %d)", ErrCorruptProgram, pc, inst.Data, len(contents))
			}
		case OpEnd:
			hasEnd = true
		default:
			return nil, fmt.Errorf("%w: pc %d has unknown op %d", ErrCorruptProgram, pc, inst.Op)
		}
		if inst.usesRev() && inst.Rev < 0 {
			return nil, fmt.Errorf("%w: pc %d has negative revision %d", ErrCorruptProgram, pc, inst.Rev)
		}
	}
	if !hasEnd {
		return nil, fmt.Errorf("%w: missing END", ErrCorruptProgram)
	}

	return newProgram(immutable.NewList(code...), immutable.NewList(contents...)), nil
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return p.code.Len()
}

// Code returns a copy of the instructions.
func (p *Program) Code() []Inst {
	out := make([]Inst, 0, p.code.Len())
	itr := p.code.Iterator()
	for !itr.Done() {
		_, inst := itr.Next()
		out = append(out, inst)
	}
	return out
}

// Contents returns a copy of the content table.
func (p *Program) Contents() []string {
	out := make([]string, 0, p.contents.Len())
	itr := p.contents.Iterator()
	for !itr.Done() {
		_, s := itr.Next()
		out = append(out, s)
	}
	return out
}

func (p *Program) inst(pc int) Inst {
	return p.code.Get(pc)
}

func (p *Program) data(inst Inst) string {
	if inst.Op != OpLine {
		return ""
	}
	return p.contents.Get(inst.Data)
}

// equal compares instructions by value, resolving LINE payloads so two
// programs with differently laid out content tables still compare equal.
func (p *Program) equal(o *Program) bool {
	if p == o {
		return true
	}
	if p.code.Len() != o.code.Len() {
		return false
	}
	for pc := 0; pc < p.code.Len(); pc++ {
		a, b := p.code.Get(pc), o.code.Get(pc)
		if a.Op != b.Op {
			return false
		}
		switch a.Op {
		case OpJ:
			if a.PC != b.PC {
				return false
			}
		case OpJGE, OpJL:
			if a.Rev != b.Rev || a.PC != b.PC {
				return false
			}
		case OpLine:
			if a.Rev != b.Rev || p.data(a) != o.data(b) {
				return false
			}
		}
	}
	return true
}

// builder accumulates the instructions of one edit on top of a program.
type builder struct {
	code     *immutable.List[Inst]
	contents *immutable.List[string]
}

func (b *builder) pc() int {
	return b.code.Len()
}

func (b *builder) push(inst Inst) {
	b.code = b.code.Append(inst)
}

func (b *builder) pushLine(rev Rev, data string) {
	idx := b.contents.Len()
	b.contents = b.contents.Append(data)
	b.push(Inst{Op: OpLine, Rev: rev, Data: idx})
}

func (b *builder) set(pc int, inst Inst) {
	b.code = b.code.Set(pc, inst)
}

func (b *builder) build() *Program {
	return newProgram(b.code, b.contents)
}
