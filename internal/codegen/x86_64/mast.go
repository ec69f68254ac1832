// Package x86_64 turns three-address code into GNU-syntax x86-64 assembly
// text through two intermediate passes over a machine-level AST (MAst):
// code selection (select.go) emits MAst with symbolic Pseudo operands in
// place of stack slots, and finalization (finalize.go) assigns real stack
// offsets and rewrites the handful of instruction shapes the instruction
// set cannot express directly. emit.go then walks the finalized MAst to
// text.
package x86_64

import "fmt"

// Reg names the four hardware registers this backend ever touches. AX and
// DX are reserved for Idiv's dividend/remainder convention and the return
// value; R10 and R11 are scratch registers finalize.go uses to legalize
// otherwise-illegal instruction operands.
type Reg int

const (
	AX Reg = iota
	DX
	R10
	R11
)

// Operand is implemented by Imm, Register, Pseudo and Stack.
type Operand interface{ isOperand() }

type Imm int32

func (Imm) isOperand() {}

type Register struct{ Reg Reg }

func (Register) isOperand() {}

// Pseudo is a symbolic location produced by code selection, standing in for
// a temporary's home until finalization assigns it a Stack slot. No Pseudo
// may reach the emitter.
type Pseudo struct{ Name string }

func (Pseudo) isOperand() {}

// Stack is `offset(%rbp)`; offset is always negative.
type Stack struct{ Offset int32 }

func (Stack) isOperand() {}

// UnOp is the machine-level unary operator set; it mirrors ast.UnOp but is
// kept distinct because this package's instructions are a different
// vocabulary (machine ops, not syntax ops) even though the two enums
// happen to have the same two members today.
type UnOp int

const (
	Neg UnOp = iota
	Cmpl
)

// BinOp is the machine-level binary operator set Binary can carry; Div and
// Mod are not members because they lower to Idiv, never to Binary.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
)

// Instruction is implemented by Mov, Unary, Binary, Idiv, Cdq,
// AllocateStack and Ret.
type Instruction interface{ isInstruction() }

type Mov struct{ Src, Dst Operand }

func (Mov) isInstruction() {}

// Unary reads and overwrites Dst in place (`negl`/`notl`).
type Unary struct {
	Op  UnOp
	Dst Operand
}

func (Unary) isInstruction() {}

// Binary computes `Dst <- Dst op Src`.
type Binary struct {
	Op       BinOp
	Src, Dst Operand
}

func (Binary) isInstruction() {}

// Idiv signed-divides EDX:EAX by Divisor; quotient goes to EAX, remainder
// to EDX. Divisor is never an Imm after finalization.
type Idiv struct{ Divisor Operand }

func (Idiv) isInstruction() {}

// Cdq sign-extends EAX into EDX:EAX ahead of Idiv.
type Cdq struct{}

func (Cdq) isInstruction() {}

// AllocateStack reserves N bytes below %rbp at function entry. Finalization
// emits exactly one of these, as the first instruction.
type AllocateStack struct{ N uint32 }

func (AllocateStack) isInstruction() {}

// Ret restores the caller's frame and returns.
type Ret struct{}

func (Ret) isInstruction() {}

// Function is a machine-level translation unit: an identifier and its
// ordered instruction list.
type Function struct {
	Name         string
	Instructions []Instruction
}

func (r Reg) String() string {
	switch r {
	case AX:
		return "AX"
	case DX:
		return "DX"
	case R10:
		return "R10"
	default:
		return "R11"
	}
}

func (o UnOp) String() string {
	if o == Neg {
		return "neg"
	}
	return "not"
}

func (o BinOp) String() string {
	switch o {
	case Add:
		return "add"
	case Sub:
		return "sub"
	default:
		return "imul"
	}
}

func debugOperand(op Operand) string {
	switch o := op.(type) {
	case Imm:
		return fmt.Sprintf("$%d", int32(o))
	case Register:
		return o.Reg.String()
	case Pseudo:
		return "%" + o.Name
	case Stack:
		return fmt.Sprintf("%d(rbp)", o.Offset)
	default:
		return "?"
	}
}

// String renders a function's MAst as a one-instruction-per-line debug
// listing, used by tests.
func (f *Function) String() string {
	out := fmt.Sprintf("%s:\n", f.Name)
	for _, ins := range f.Instructions {
		out += "  " + debugInstruction(ins) + "\n"
	}
	return out
}

func debugInstruction(ins Instruction) string {
	switch in := ins.(type) {
	case Mov:
		return fmt.Sprintf("mov %s, %s", debugOperand(in.Src), debugOperand(in.Dst))
	case Unary:
		return fmt.Sprintf("%s %s", in.Op, debugOperand(in.Dst))
	case Binary:
		return fmt.Sprintf("%s %s, %s", in.Op, debugOperand(in.Src), debugOperand(in.Dst))
	case Idiv:
		return fmt.Sprintf("idiv %s", debugOperand(in.Divisor))
	case Cdq:
		return "cdq"
	case AllocateStack:
		return fmt.Sprintf("allocate_stack %d", in.N)
	case Ret:
		return "ret"
	default:
		return "?"
	}
}
