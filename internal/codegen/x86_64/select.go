package x86_64

import (
	"fmt"

	"github.com/DuncanLittlechild/dcc/internal/ast"
	"github.com/DuncanLittlechild/dcc/internal/tac"
)

// Select walks f's flat TAC instruction list and emits the corresponding
// machine instructions, one TAC op at a time per the fixed table: values
// become Imm/Pseudo operands, Add/Sub/Mul keep the destination's existing
// value and accumulate into it, Div/Mod route through the EDX:EAX/Idiv
// convention. No Stack operand appears yet; that is finalize's job.
func Select(f *tac.Function) *Function {
	var out []Instruction
	for _, ins := range f.Instructions {
		switch in := ins.(type) {
		case *tac.UnaryInstr:
			dst := toOperand(tac.Var(in.Dst))
			out = append(out,
				Mov{Src: toOperand(in.Src), Dst: dst},
				Unary{Op: unop(in.Op), Dst: dst},
			)
		case *tac.BinaryInstr:
			out = append(out, selectBinary(in)...)
		case *tac.ReturnInstr:
			out = append(out,
				Mov{Src: toOperand(in.Value), Dst: Register{Reg: AX}},
				Ret{},
			)
		default:
			panic(fmt.Sprintf("x86_64: unhandled TAC instruction %T", ins))
		}
	}
	return &Function{Name: f.Name, Instructions: out}
}

func selectBinary(in *tac.BinaryInstr) []Instruction {
	dst := toOperand(tac.Var(in.Dst))
	s1, s2 := toOperand(in.Src1), toOperand(in.Src2)

	switch in.Op {
	case ast.Add, ast.Sub, ast.Mul:
		return []Instruction{
			Mov{Src: s1, Dst: dst},
			Binary{Op: binop(in.Op), Src: s2, Dst: dst},
		}
	case ast.Div:
		return []Instruction{
			Mov{Src: s1, Dst: Register{Reg: AX}},
			Cdq{},
			Idiv{Divisor: s2},
			Mov{Src: Register{Reg: AX}, Dst: dst},
		}
	case ast.Mod:
		return []Instruction{
			Mov{Src: s1, Dst: Register{Reg: AX}},
			Cdq{},
			Idiv{Divisor: s2},
			Mov{Src: Register{Reg: DX}, Dst: dst},
		}
	default:
		panic(fmt.Sprintf("x86_64: unhandled binary TAC op %v", in.Op))
	}
}

func toOperand(v tac.Value) Operand {
	if v.IsConst {
		return Imm(v.Const)
	}
	return Pseudo{Name: v.Name}
}

func unop(op ast.UnOp) UnOp {
	if op == ast.Neg {
		return Neg
	}
	return Cmpl
}

func binop(op ast.BinOp) BinOp {
	switch op {
	case ast.Add:
		return Add
	case ast.Sub:
		return Sub
	default:
		return Mul
	}
}
