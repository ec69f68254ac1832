package x86_64

import (
	"github.com/samber/lo"
)

// Finalize runs the two required sweeps over f's instruction list: Sweep A
// replaces every Pseudo with a Stack slot, then Sweep B prepends the
// now-known AllocateStack and rewrites the instruction shapes the x86-64
// instruction set cannot express directly. The sweeps are kept separate
// (rather than merged into one pass) because Sweep B needs the final frame
// size before it can emit AllocateStack, and that size is only known once
// Sweep A has visited every operand.
func Finalize(f *Function) *Function {
	assigned := assignStackSlots(f.Instructions)
	legalized := legalize(assigned.instrs, assigned.frameSize)
	return &Function{Name: f.Name, Instructions: legalized}
}

type stackAssignment struct {
	instrs    []Instruction
	frameSize uint32
	// slots records each Pseudo name's assigned offset in first-use order
	// as (name, offset) pairs. Exposed via Slots for tests that assert the
	// first-use ordering invariant.
	slots []lo.Tuple2[string, int32]
}

// assignStackSlots is Sweep A. Each distinct Pseudo name is assigned a
// unique 4-byte slot the first time it is seen, in order of first use;
// slots are kept both in a lookup map (for O(1) rewriting) and in an
// ordered slice of name/offset pairs, since Go maps have no stable
// iteration order and the slot numbering itself must be deterministic.
func assignStackSlots(instrs []Instruction) stackAssignment {
	offsetOf := map[string]int32{}
	var slots []lo.Tuple2[string, int32]
	next := int32(0)

	slot := func(name string) int32 {
		if off, ok := offsetOf[name]; ok {
			return off
		}
		next -= 4
		offsetOf[name] = next
		slots = append(slots, lo.Tuple2[string, int32]{A: name, B: next})
		return next
	}

	rewrite := func(op Operand) Operand {
		if p, ok := op.(Pseudo); ok {
			return Stack{Offset: slot(p.Name)}
		}
		return op
	}

	out := make([]Instruction, len(instrs))
	for i, ins := range instrs {
		switch in := ins.(type) {
		case Mov:
			out[i] = Mov{Src: rewrite(in.Src), Dst: rewrite(in.Dst)}
		case Unary:
			out[i] = Unary{Op: in.Op, Dst: rewrite(in.Dst)}
		case Binary:
			out[i] = Binary{Op: in.Op, Src: rewrite(in.Src), Dst: rewrite(in.Dst)}
		case Idiv:
			out[i] = Idiv{Divisor: rewrite(in.Divisor)}
		default:
			out[i] = ins
		}
	}

	// next is the most-negative offset handed out; its magnitude is the
	// total frame size required.
	return stackAssignment{instrs: out, frameSize: uint32(-next), slots: slots}
}

// Slots exposes each Pseudo name's assigned stack offset in first-use
// order, for tests asserting the Sweep A ordering invariant.
func Slots(f *Function) []lo.Tuple2[string, int32] {
	return assignStackSlots(f.Instructions).slots
}

// legalize is Sweep B: prepend the frame allocation, then rewrite the four
// instruction shapes that violate x86-64 operand constraints, each via a
// scratch register (R10 for Mov/Add/Sub, R11 for Mul, R10 again for Idiv's
// immediate divisor).
func legalize(instrs []Instruction, frameSize uint32) []Instruction {
	out := []Instruction{AllocateStack{N: frameSize}}

	for _, ins := range instrs {
		switch in := ins.(type) {
		case Mov:
			if bothStack(in.Src, in.Dst) {
				out = append(out,
					Mov{Src: in.Src, Dst: Register{Reg: R10}},
					Mov{Src: Register{Reg: R10}, Dst: in.Dst},
				)
				continue
			}
			out = append(out, in)
		case Binary:
			switch in.Op {
			case Add, Sub:
				if bothStack(in.Src, in.Dst) {
					out = append(out,
						Mov{Src: in.Src, Dst: Register{Reg: R10}},
						Binary{Op: in.Op, Src: Register{Reg: R10}, Dst: in.Dst},
					)
					continue
				}
			case Mul:
				if isStack(in.Dst) {
					out = append(out,
						Mov{Src: in.Dst, Dst: Register{Reg: R11}},
						Binary{Op: Mul, Src: in.Src, Dst: Register{Reg: R11}},
						Mov{Src: Register{Reg: R11}, Dst: in.Dst},
					)
					continue
				}
			}
			out = append(out, in)
		case Idiv:
			if imm, ok := in.Divisor.(Imm); ok {
				out = append(out,
					Mov{Src: imm, Dst: Register{Reg: R10}},
					Idiv{Divisor: Register{Reg: R10}},
				)
				continue
			}
			out = append(out, in)
		default:
			out = append(out, in)
		}
	}
	return out
}

func isStack(op Operand) bool {
	_, ok := op.(Stack)
	return ok
}

func bothStack(a, b Operand) bool {
	return isStack(a) && isStack(b)
}
