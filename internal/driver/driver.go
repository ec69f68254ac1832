// Package driver orchestrates one compilation: argument validation,
// preprocessing, the four in-process compiler stages, assembly emission and
// finally the external assembler+linker.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/DuncanLittlechild/dcc/internal/ccerr"
	"github.com/DuncanLittlechild/dcc/internal/codegen/x86_64"
	"github.com/DuncanLittlechild/dcc/internal/lexer"
	"github.com/DuncanLittlechild/dcc/internal/parser"
	"github.com/DuncanLittlechild/dcc/internal/tac"
)

// StopAt names the stage the driver halts after. The zero value, StopNone,
// means run the full pipeline through to a linked binary.
type StopAt int

const (
	StopNone StopAt = iota
	StopLex
	StopParse
	StopCodegen
	StopEmit
)

// IOError wraps a failure validating the input path, reading the
// preprocessed file, or writing the assembly file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// DriverError wraps a non-zero exit from an external tool, carrying its
// combined stdout+stderr so the failure is diagnosable without rerunning it.
type DriverError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *DriverError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Cmd, e.Err, out)
}
func (e *DriverError) Unwrap() error { return e.Err }

// Options configures one Run call.
type Options struct {
	StopAt    StopAt
	Verbose   bool
	KeepTemps bool
}

// Run compiles the single source file at path per opts. It validates the
// path and extension, shells out to the preprocessor, runs the four
// in-process stages, and — unless a stop flag cuts it short — shells out to
// the assembler+linker. The preprocessed .i file is removed on every exit
// path unless KeepTemps is set.
func Run(path string, opts Options) error {
	if filepath.Ext(path) != ".c" {
		return &IOError{Path: path, Err: fmt.Errorf("file must have a .c extension")}
	}
	if _, err := os.Stat(path); err != nil {
		return &IOError{Path: path, Err: err}
	}

	stem := strings.TrimSuffix(path, ".c")
	iPath := stem + ".i"

	if err := runTool(opts.Verbose, "cc", "-E", "-P", path, "-o", iPath); err != nil {
		return err
	}
	if !opts.KeepTemps {
		defer os.Remove(iPath)
	}

	src, err := os.ReadFile(iPath)
	if err != nil {
		return &IOError{Path: iPath, Err: err}
	}

	toks, err := lexer.Lex(string(src))
	if err != nil {
		return err
	}
	if opts.StopAt == StopLex {
		return nil
	}

	prog, err := parser.Parse(toks)
	if err != nil {
		return err
	}
	if opts.StopAt == StopParse {
		return nil
	}

	tacFn := tac.Lower(prog)
	mast := x86_64.Select(tacFn)
	final := x86_64.Finalize(mast)
	if opts.StopAt == StopCodegen {
		return nil
	}

	asm, err := x86_64.Emit(final)
	if err != nil {
		return &ccerr.InternalError{Msg: err.Error()}
	}
	sPath := stem + ".s"
	if err := os.WriteFile(sPath, []byte(asm), 0o644); err != nil {
		return &IOError{Path: sPath, Err: err}
	}
	if opts.StopAt == StopEmit {
		return nil
	}

	return runTool(opts.Verbose, "cc", sPath, "-o", stem)
}

func runTool(verbose bool, name string, args ...string) error {
	if verbose {
		fmt.Fprintf(os.Stderr, "running %s\n", strings.Join(append([]string{name}, args...), " "))
	}
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &DriverError{Cmd: name, Output: string(out), Err: err}
	}
	return nil
}
