package validator_test

import (
	"os"
	"path/filepath"
	"testing"

	"sapc.dev/sapc/internal/compiler"
	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/resolver"
	"sapc.dev/sapc/internal/testutil"
	"sapc.dev/sapc/internal/validator"
)

func compileFile(t *testing.T, dir, filename, src string) compiler.Result {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(src), 0o666); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	r := compiler.Compile(path, compiler.WithResolver(resolver.FS{}))
	if r.Diagnostics.HasErrors() {
		for _, d := range r.Diagnostics.Diagnostics() {
			t.Logf("diag: %s", d.Error())
		}
		t.Fatal("unexpected compilation errors")
	}
	return r
}

func lastSeverity(t *testing.T, log *diag.Log) diag.Severity {
	t.Helper()
	diags := log.Diagnostics()
	if len(diags) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	return diags[len(diags)-1].Severity
}

func TestValidateModuleNameMatchesFileStem(t *testing.T) {
	dir := t.TempDir()
	r := compileFile(t, dir, "widgets.sap", "module widgets;\n")
	before := len(r.Diagnostics.Diagnostics())
	validator.Validate(r.Diagnostics, r.Module)
	if len(r.Diagnostics.Diagnostics()) != before {
		t.Fatalf("expected no new diagnostics for a matching module name, got %v", r.Diagnostics.Diagnostics()[before:])
	}
}

func TestValidateModuleNameMismatchIsInfoNotError(t *testing.T) {
	dir := t.TempDir()
	r := compileFile(t, dir, "widgets.sap", "module gadgets;\n")
	validator.Validate(r.Diagnostics, r.Module)
	testutil.ExpectFalse(t, r.Diagnostics.HasErrors())
	testutil.ExpectEq(t, diag.SeverityInfo, lastSeverity(t, r.Diagnostics))
}

func TestValidateEmptyModuleNameIsError(t *testing.T) {
	dir := t.TempDir()
	r := compileFile(t, dir, "empty.sap", "module m;\n")
	r.Module.Name = ""
	validator.Validate(r.Diagnostics, r.Module)
	testutil.ExpectTrue(t, r.Diagnostics.HasErrors())
}

func TestValidateDuplicateFieldNameIsError(t *testing.T) {
	dir := t.TempDir()
	r := compileFile(t, dir, "m.sap", `
module m;
struct S {
    int x;
    string x;
}
`)
	validator.Validate(r.Diagnostics, r.Module)
	testutil.ExpectTrue(t, r.Diagnostics.HasErrors())
}

func TestValidateDuplicateEnumItemNameIsError(t *testing.T) {
	dir := t.TempDir()
	r := compileFile(t, dir, "m.sap", `
module m;
enum Color {
    Red,
    Red,
}
`)
	validator.Validate(r.Diagnostics, r.Module)
	testutil.ExpectTrue(t, r.Diagnostics.HasErrors())
}

func TestValidateAcceptsCleanModule(t *testing.T) {
	dir := t.TempDir()
	r := compileFile(t, dir, "m.sap", `
module m;
attribute Doc { string text; }
[Doc("a struct")]
struct S {
    int x;
    int y;
}
`)
	validator.Validate(r.Diagnostics, r.Module)
	testutil.ExpectFalse(t, r.Diagnostics.HasErrors())
}
