package x86_64

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// reg32 names a register's 32-bit form, the only width this backend's
// 32-bit int arithmetic ever needs; kept as a map (rather than folding into
// Reg.String) since emission is the only consumer of the AT&T names.
var reg32 = map[Reg]string{
	AX:  "%eax",
	DX:  "%edx",
	R10: "%r10d",
	R11: "%r11d",
}

// Emit renders f's finalized MAst as GNU AT&T assembly text for System V
// AMD64: prologue, body, epilogue, then the non-executable-stack note. f
// must already have passed through Finalize; a Pseudo surviving to here is
// reported as an error rather than panicking, since it is the last point
// this package can still catch the invariant violation before the text
// reaches the assembler.
func Emit(f *Function) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "\t.globl %s\n", f.Name)
	fmt.Fprintf(&b, "%s:\n", f.Name)
	b.WriteString("\tpushq\t%rbp\n")
	b.WriteString("\tmovq\t%rsp, %rbp\n")

	for _, ins := range f.Instructions {
		line, err := emitInstruction(ins)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
	}

	b.WriteString(".section .note.GNU-stack,\"\",@progbits\n")
	return b.String(), nil
}

func emitInstruction(ins Instruction) (string, error) {
	switch in := ins.(type) {
	case AllocateStack:
		return fmt.Sprintf("\tsubq\t$%d, %%rsp\n", in.N), nil
	case Mov:
		src, err := operand(in.Src)
		if err != nil {
			return "", err
		}
		dst, err := operand(in.Dst)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("\tmovl\t%s, %s\n", src, dst), nil
	case Unary:
		dst, err := operand(in.Dst)
		if err != nil {
			return "", err
		}
		mnemonic := lo.Ternary(in.Op == Neg, "negl", "notl")
		return fmt.Sprintf("\t%s\t%s\n", mnemonic, dst), nil
	case Binary:
		src, err := operand(in.Src)
		if err != nil {
			return "", err
		}
		dst, err := operand(in.Dst)
		if err != nil {
			return "", err
		}
		mnemonic := map[BinOp]string{Add: "addl", Sub: "subl", Mul: "imull"}[in.Op]
		return fmt.Sprintf("\t%s\t%s, %s\n", mnemonic, src, dst), nil
	case Idiv:
		divisor, err := operand(in.Divisor)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("\tidivl\t%s\n", divisor), nil
	case Cdq:
		return "\tcdq\n", nil
	case Ret:
		return "\tmovq\t%rbp, %rsp\n\tpopq\t%rbp\n\tret\n", nil
	default:
		return "", fmt.Errorf("x86_64: unhandled machine instruction %T", ins)
	}
}

func operand(op Operand) (string, error) {
	switch o := op.(type) {
	case Imm:
		return fmt.Sprintf("$%d", int32(o)), nil
	case Register:
		return reg32[o.Reg], nil
	case Stack:
		return fmt.Sprintf("%d(%%rbp)", o.Offset), nil
	case Pseudo:
		return "", fmt.Errorf("x86_64: pseudo-operand %q reached the emitter", o.Name)
	default:
		return "", fmt.Errorf("x86_64: unknown operand type %T", op)
	}
}
