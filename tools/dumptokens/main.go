// Command dumptokens lexes a file and prints its token stream, one token
// per line. It exists for debugging the lexer independent of the rest of
// the pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/DuncanLittlechild/dcc/internal/lexer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dumptokens <file>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	toks, err := lexer.Lex(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lines := lo.Map(toks, func(t lexer.Token, _ int) string {
		return fmt.Sprintf("%d:%d %v %q", t.Pos.Line, t.Pos.Col, t.Type, t.Lex)
	})
	for _, line := range lines {
		fmt.Println(line)
	}
}
