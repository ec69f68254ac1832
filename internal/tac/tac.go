// Package tac lowers an AST into three-address code: an ordered list of
// elementary instructions over unlimited named temporaries. Lowering is a
// single post-order walk of the expression tree; each subexpression returns
// the Value holding its result instead of a node, so no instruction ever
// has more than one operator.
package tac

import (
	"fmt"

	"github.com/DuncanLittlechild/dcc/internal/ast"
)

// Value is either a compile-time Constant or a named Var. Exactly one of
// the two fields is meaningful, selected by IsConst.
type Value struct {
	IsConst bool
	Const   int32
	Name    string
}

func Constant(n int32) Value { return Value{IsConst: true, Const: n} }
func Var(name string) Value  { return Value{Name: name} }

func (v Value) String() string {
	if v.IsConst {
		return fmt.Sprintf("%d", v.Const)
	}
	return v.Name
}

// Instruction is implemented by UnaryInstr, BinaryInstr and ReturnInstr.
type Instruction interface{ isInstruction() }

type UnaryInstr struct {
	Op  ast.UnOp
	Src Value
	Dst string
}

func (*UnaryInstr) isInstruction() {}

type BinaryInstr struct {
	Op         ast.BinOp
	Src1, Src2 Value
	Dst        string
}

func (*BinaryInstr) isInstruction() {}

type ReturnInstr struct {
	Value Value
}

func (*ReturnInstr) isInstruction() {}

// Function is a lowered translation unit: an identifier and the flat
// instruction list that computes and returns its value. Return is always
// the last instruction.
type Function struct {
	Name         string
	Instructions []Instruction
}

// LoweringContext holds the one piece of state TAC lowering threads across
// an entire compilation: the monotonically increasing temporary counter.
// It is a plain struct field, not a package-level variable, so independent
// compilations (e.g. in tests run in parallel) never share counters.
type LoweringContext struct {
	nextTemp int
}

func (c *LoweringContext) newTemp() string {
	name := fmt.Sprintf("tmp.%d", c.nextTemp)
	c.nextTemp++
	return name
}

// Lower walks prog's single function and produces its TAC form.
func Lower(prog *ast.Program) *Function {
	c := &LoweringContext{}
	var instrs []Instruction

	ret := prog.Function.Body.(*ast.ReturnStmt)
	v := c.lowerExpr(ret.Expr, &instrs)
	instrs = append(instrs, &ReturnInstr{Value: v})

	return &Function{Name: prog.Function.Name, Instructions: instrs}
}

func (c *LoweringContext) lowerExpr(e ast.Expr, instrs *[]Instruction) Value {
	switch e := e.(type) {
	case *ast.IntLit:
		return Constant(e.Value)
	case *ast.Unary:
		src := c.lowerExpr(e.X, instrs)
		dst := c.newTemp()
		*instrs = append(*instrs, &UnaryInstr{Op: e.Op, Src: src, Dst: dst})
		return Var(dst)
	case *ast.Binary:
		// Left is lowered before right: the shared temporary counter makes
		// this left-to-right evaluation order observable in the generated
		// temporary names.
		s1 := c.lowerExpr(e.Left, instrs)
		s2 := c.lowerExpr(e.Right, instrs)
		dst := c.newTemp()
		*instrs = append(*instrs, &BinaryInstr{Op: e.Op, Src1: s1, Src2: s2, Dst: dst})
		return Var(dst)
	default:
		panic(fmt.Sprintf("tac: unhandled expression type %T", e))
	}
}
