package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestCompileFileWritesJSONToOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "widgets.sap")
	out := filepath.Join(dir, "widgets.json")
	writeFile(t, src, "module widgets;\nstruct Point { int x; int y; }\n")

	code := compileFile(src, nil, out, "", false)
	if code != exitOK {
		t.Fatalf("got exit code %d, want %d", code, exitOK)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), `"widgets"`) {
		t.Fatalf("expected output to mention the module name, got: %s", data)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatal("expected output to end with a trailing newline")
	}
}

func TestCompileFileWritesDependencyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.sap"), "module base;\nstruct Id { int value; }\n")
	src := filepath.Join(dir, "main.sap")
	writeFile(t, src, "module main;\nimport base;\nstruct User { Id id; }\n")
	out := filepath.Join(dir, "main.json")
	dep := filepath.Join(dir, "main.d")

	code := compileFile(src, nil, out, dep, false)
	if code != exitOK {
		t.Fatalf("got exit code %d, want %d", code, exitOK)
	}

	depData, err := os.ReadFile(dep)
	if err != nil {
		t.Fatalf("reading depfile: %v", err)
	}
	if !strings.Contains(string(depData), "main.sap") || !strings.Contains(string(depData), "base.sap") {
		t.Fatalf("expected depfile to mention both sources, got: %s", depData)
	}
}

func TestCompileFileReturnsCompileErrorExitCodeForUndefinedType(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.sap")
	writeFile(t, src, "module bad;\nstruct S { NoSuchType x; }\n")

	code := compileFile(src, nil, "", "", false)
	if code != exitCompileError {
		t.Fatalf("got exit code %d, want %d", code, exitCompileError)
	}
}

func TestCompileFileReturnsValidateErrorExitCodeForDuplicateField(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dup.sap")
	writeFile(t, src, "module dup;\nstruct S { int x; string x; }\n")

	code := compileFile(src, nil, "", "", false)
	if code != exitValidateError {
		t.Fatalf("got exit code %d, want %d", code, exitValidateError)
	}
}

func TestWriteOutputToStdoutWhenPathEmpty(t *testing.T) {
	if err := writeOutput("", []byte("hello\n")); err != nil {
		t.Fatalf("unexpected error writing to stdout: %v", err)
	}
}
