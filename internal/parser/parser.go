// Package parser implements recursive-descent parsing with Pratt-style
// precedence climbing for expressions, over the grammar:
//
//	Program    := Function
//	Function   := "int" ident "(" "void" ")" "{" Statement "}"
//	Statement  := "return" Expression ";"
//	Expression := Factor ( Binop Expression_rhs )*
//	Factor     := IntLit | UnaryOp Factor | "(" Expression ")"
//	UnaryOp    := "-" | "~"
//	Binop      := "+" | "-" | "*" | "/" | "%"
package parser

import (
	"fmt"
	"strconv"

	"github.com/DuncanLittlechild/dcc/internal/ast"
	"github.com/DuncanLittlechild/dcc/internal/lexer"
)

// precedence gives each binary operator's binding power; higher binds
// tighter. Unary '-' and '~' are handled inside parseFactor and are always
// tighter than any binary operator.
var precedence = map[lexer.TokenType]int{
	lexer.STAR:    50,
	lexer.SLASH:   50,
	lexer.PERCENT: 50,
	lexer.PLUS:    45,
	lexer.MINUS:   45,
}

var binOps = map[lexer.TokenType]ast.BinOp{
	lexer.PLUS:    ast.Add,
	lexer.MINUS:   ast.Sub,
	lexer.STAR:    ast.Mul,
	lexer.SLASH:   ast.Div,
	lexer.PERCENT: ast.Mod,
}

// ParseError is either an Unexpected (a required token kind was not found)
// or a TrailingInput (tokens remained after a complete Program was parsed).
// Exactly one of the two is populated, selected by Kind.
type ParseError struct {
	Kind ParseErrorKind

	// Unexpected fields.
	Expected lexer.TokenType
	Got      lexer.TokenType
	Index    int
	Pos      lexer.Position

	// TrailingInput fields.
	Remaining int
}

type ParseErrorKind int

const (
	Unexpected ParseErrorKind = iota
	TrailingInput
)

func (e *ParseError) Error() string {
	switch e.Kind {
	case TrailingInput:
		return fmt.Sprintf("trailing input: %d token(s) remain after the program", e.Remaining)
	default:
		return fmt.Sprintf("%d:%d: expected %v, got %v (token %d)", e.Pos.Line, e.Pos.Col, e.Expected, e.Got, e.Index)
	}
}

type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse consumes the full token stream produced by lexer.Lex and returns the
// Program it describes, or a ParseError.
func Parse(toks []lexer.Token) (*ast.Program, error) {
	p := &Parser{toks: toks}
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.EOF {
		remaining := 0
		for i := p.pos; i < len(p.toks); i++ {
			if p.toks[i].Type == lexer.EOF {
				break
			}
			remaining++
		}
		return nil, &ParseError{Kind: TrailingInput, Remaining: remaining}
	}
	return &ast.Program{Function: fn}, nil
}

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.cur().Is(tt) {
		return lexer.Token{}, &ParseError{
			Kind:     Unexpected,
			Expected: tt,
			Got:      p.cur().Type,
			Index:    p.cur().Index,
			Pos:      p.cur().Pos,
		}
	}
	return p.advance(), nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if _, err := p.expect(lexer.KW_INT); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KW_VOID); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Lex, Body: stmt, Pos: name.Pos}, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	kw, err := p.expect(lexer.KW_RETURN)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Expr: expr, Pos: kw.Pos}, nil
}

// parseExpression implements precedence climbing: parse a Factor, then
// while the next token is a binary operator whose precedence is >= minPrec,
// consume it and recurse on the right-hand side at minPrec = prec+1 (this
// makes the operator left-associative), folding the result into the
// accumulator as the left child of a new Binary node.
func (p *Parser) parseExpression(minPrec int) (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := precedence[p.cur().Type]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: binOps[opTok.Type], Left: left, Right: right, Pos: opTok.Pos}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	switch p.cur().Type {
	case lexer.MINUS:
		tok := p.advance()
		x, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Neg, X: x, Pos: tok.Pos}, nil
	case lexer.TILDE:
		tok := p.advance()
		x, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Cmpl, X: x, Pos: tok.Pos}, nil
	case lexer.INT:
		tok := p.advance()
		// The lexer already verified the literal fits in signed 32-bit.
		v, _ := strconv.ParseInt(tok.Lex, 10, 32)
		return &ast.IntLit{Value: int32(v), Pos: tok.Pos}, nil
	case lexer.LPAREN:
		p.advance()
		e, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, &ParseError{
			Kind:     Unexpected,
			Expected: lexer.INT,
			Got:      p.cur().Type,
			Index:    p.cur().Index,
			Pos:      p.cur().Pos,
		}
	}
}
