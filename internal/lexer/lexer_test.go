package lexer

import "testing"

func TestLexTokenTypes(t *testing.T) {
	src := "int main(void) { return 1+2*3~-(/%); }"
	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []TokenType{
		KW_INT, IDENT, LPAREN, KW_VOID, RPAREN, LBRACE,
		KW_RETURN, INT, PLUS, INT, STAR, INT, TILDE, MINUS, LPAREN, SLASH, PERCENT, RPAREN, SEMI,
		RBRACE, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestLexIdentVsKeyword(t *testing.T) {
	toks, err := Lex("returning")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if toks[0].Type != IDENT || toks[0].Lex != "returning" {
		t.Errorf("got %v %q, want IDENT \"returning\" (longest match must not stop at the keyword prefix)", toks[0].Type, toks[0].Lex)
	}
}

func TestLexIntegerOverflow(t *testing.T) {
	_, err := Lex("99999999999999999999")
	if err == nil {
		t.Fatal("expected an error for an out-of-range integer literal")
	}
	lerr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("got error type %T, want *LexError", err)
	}
	if lerr.Kind != IntegerOverflow {
		t.Errorf("got Kind %v, want IntegerOverflow", lerr.Kind)
	}
}

func TestLexUnexpectedChar(t *testing.T) {
	_, err := Lex("int main(void) { return 1 @ 2; }")
	if err == nil {
		t.Fatal("expected an error for an unrecognised character")
	}
	lerr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("got error type %T, want *LexError", err)
	}
	if lerr.Kind != UnexpectedChar {
		t.Errorf("got Kind %v, want UnexpectedChar", lerr.Kind)
	}
	if lerr.Char != '@' {
		t.Errorf("got Char %q, want '@'", lerr.Char)
	}
}

func TestLexPositionTracking(t *testing.T) {
	toks, err := Lex("int\nmain")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if toks[0].Pos.Line != 1 {
		t.Errorf("'int' line = %d, want 1", toks[0].Pos.Line)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("'main' line = %d, want 2", toks[1].Pos.Line)
	}
}

func TestLexIndexIsStreamPosition(t *testing.T) {
	toks, err := Lex("int main")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	for i, tok := range toks {
		if tok.Index != i {
			t.Errorf("token %d has Index %d", i, tok.Index)
		}
	}
}
