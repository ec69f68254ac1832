package driver

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// requireCC skips the test if no cc-compatible driver is on PATH — the
// preprocessor and assembler+linker stages are external collaborators per
// spec, not something this package can fake.
func requireCC(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("no cc on PATH, skipping external-tool-dependent test")
	}
}

func writeSource(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "prog.c")
	src := "int main(void) {\n" + body + "\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	return path
}

func TestRunEndToEndExitCodes(t *testing.T) {
	requireCC(t)

	cases := []struct {
		body string
		want int
	}{
		{"return 2;", 2},
		{"return -5;", 251},
		{"return ~0;", 255},
		{"return 1+2*3;", 7},
		{"return (1+2)*3;", 9},
		{"return 10/3;", 3},
		{"return 10%3;", 1},
		{"return -(1+2)*~0/3;", 1},
	}

	for _, c := range cases {
		c := c
		t.Run(c.body, func(t *testing.T) {
			dir := t.TempDir()
			path := writeSource(t, dir, c.body)
			if err := Run(path, Options{}); err != nil {
				t.Fatalf("Run: %v", err)
			}

			bin := strings.TrimSuffix(path, ".c")
			cmd := exec.Command(bin)
			err := cmd.Run()
			got := 0
			if exitErr, ok := err.(*exec.ExitError); ok {
				got = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("running compiled binary: %v", err)
			}
			if got != c.want {
				t.Errorf("exit code = %d, want %d", got, c.want)
			}
		})
	}
}

func TestRunStopAtLexLeavesNoAssembly(t *testing.T) {
	requireCC(t)

	dir := t.TempDir()
	path := writeSource(t, dir, "return 2;")
	if err := Run(path, Options{StopAt: StopLex}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(path, ".c") + ".s"); err == nil {
		t.Error("StopLex should not produce a .s file")
	}
}

func TestRunStopAtEmitProducesAssembly(t *testing.T) {
	requireCC(t)

	dir := t.TempDir()
	path := writeSource(t, dir, "return 2;")
	if err := Run(path, Options{StopAt: StopEmit}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	sPath := strings.TrimSuffix(path, ".c") + ".s"
	if _, err := os.Stat(sPath); err != nil {
		t.Errorf("StopEmit should produce %s: %v", sPath, err)
	}
}

func TestRunRemovesPreprocessedFileByDefault(t *testing.T) {
	requireCC(t)

	dir := t.TempDir()
	path := writeSource(t, dir, "return 2;")
	if err := Run(path, Options{StopAt: StopEmit}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	iPath := strings.TrimSuffix(path, ".c") + ".i"
	if _, err := os.Stat(iPath); err == nil {
		t.Error("the preprocessed .i file should be removed after a successful run")
	}
}

func TestRunKeepTempsPreservesPreprocessedFile(t *testing.T) {
	requireCC(t)

	dir := t.TempDir()
	path := writeSource(t, dir, "return 2;")
	if err := Run(path, Options{StopAt: StopEmit, KeepTemps: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	iPath := strings.TrimSuffix(path, ".c") + ".i"
	if _, err := os.Stat(iPath); err != nil {
		t.Errorf("--keep-temps should preserve %s: %v", iPath, err)
	}
}

func TestRunRejectsNonCExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.txt")
	if err := os.WriteFile(path, []byte("int main(void) { return 0; }"), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	err := Run(path, Options{})
	if err == nil {
		t.Fatal("expected an error for a non-.c extension")
	}
	if _, ok := err.(*IOError); !ok {
		t.Errorf("got error type %T, want *IOError", err)
	}
}

func TestRunRejectsMissingFile(t *testing.T) {
	err := Run("/nonexistent/path/prog.c", Options{})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, ok := err.(*IOError); !ok {
		t.Errorf("got error type %T, want *IOError", err)
	}
}
