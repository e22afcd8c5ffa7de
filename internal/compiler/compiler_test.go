package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"sapc.dev/sapc/internal/compiler"
	"sapc.dev/sapc/internal/resolver"
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/testutil"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o666); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func compileSrc(t *testing.T, src string) compiler.Result {
	t.Helper()
	dir := t.TempDir()
	path := writeSource(t, dir, "main.sap", src)
	return compiler.Compile(path, compiler.WithResolver(resolver.FS{}))
}

func requireNoErrors(t *testing.T, r compiler.Result) {
	t.Helper()
	if r.Diagnostics.HasErrors() {
		for _, d := range r.Diagnostics.Diagnostics() {
			t.Logf("diag: %s", d.Error())
		}
		t.Fatalf("unexpected compilation errors")
	}
}

func findType(m *schema.Module, qualifiedName string) schema.Type {
	for _, t := range m.Types {
		if t.TypeQualifiedName() == qualifiedName {
			return t
		}
	}
	return nil
}

func TestCompileSimpleStruct(t *testing.T) {
	r := compileSrc(t, `
module widgets;

struct Point {
    int x;
    int y = 0;
}
`)
	requireNoErrors(t, r)
	testutil.ExpectEq(t, "widgets", r.Module.Name)

	st, ok := findType(r.Module, "Point").(*schema.StructType)
	if !ok {
		t.Fatalf("expected Point to be a *schema.StructType, got %T", findType(r.Module, "Point"))
	}
	testutil.ExpectEq(t, 2, len(st.Fields))
	testutil.ExpectEq(t, "x", st.Fields[0].Name)
	if st.Fields[1].Default == nil {
		t.Fatal("expected field y to carry a resolved default value")
	}
}

func TestCompileOpaqueStruct(t *testing.T) {
	r := compileSrc(t, `module m; struct Handle;`)
	requireNoErrors(t, r)
	ty := findType(r.Module, "Handle")
	if _, ok := ty.(*schema.OpaqueType); !ok {
		t.Fatalf("expected Handle to be a *schema.OpaqueType, got %T", ty)
	}
	testutil.ExpectEq(t, schema.KindOpaque, ty.TypeKind())
}

func TestCompileEnumAutoNumbering(t *testing.T) {
	r := compileSrc(t, `
module m;
enum Color {
    Red = 1,
    Green,
    Blue = 10,
    Violet,
}
`)
	requireNoErrors(t, r)
	en := findType(r.Module, "Color").(*schema.EnumType)
	testutil.ExpectEq(t, int64(1), en.Items[0].Value)
	testutil.ExpectEq(t, int64(2), en.Items[1].Value)
	testutil.ExpectEq(t, int64(10), en.Items[2].Value)
	testutil.ExpectEq(t, int64(11), en.Items[3].Value)
}

func TestCompileEnumItemAsFieldDefault(t *testing.T) {
	r := compileSrc(t, `
module m;
enum E {
    A,
    B = 3,
    C,
}
struct S {
    E e = B;
}
`)
	requireNoErrors(t, r)
	en := findType(r.Module, "E").(*schema.EnumType)
	s := findType(r.Module, "S").(*schema.StructType)
	def, ok := s.Fields[0].Default.(*schema.ValueEnumItem)
	if !ok {
		t.Fatalf("got default %T, want *schema.ValueEnumItem", s.Fields[0].Default)
	}
	if def.Item != en.Items[1] || def.Item.Name != "B" {
		t.Fatalf("got default item %+v, want E's item B", def.Item)
	}
}

func TestCompileEnumItemAsConstantValue(t *testing.T) {
	r := compileSrc(t, `
module m;
enum E {
    A,
    B = 3,
    C,
}
const E Default = C;
`)
	requireNoErrors(t, r)
	if len(r.Module.Constants) != 1 {
		t.Fatalf("got %d constants, want 1", len(r.Module.Constants))
	}
	def, ok := r.Module.Constants[0].Value.(*schema.ValueEnumItem)
	if !ok {
		t.Fatalf("got constant value %T, want *schema.ValueEnumItem", r.Module.Constants[0].Value)
	}
	testutil.ExpectEq(t, "C", def.Item.Name)
}

func TestCompileEnumItemQualifiedByEnumName(t *testing.T) {
	r := compileSrc(t, `
module m;
enum E {
    A,
    B = 3,
}
struct S {
    E e = E.B;
}
`)
	requireNoErrors(t, r)
	s := findType(r.Module, "S").(*schema.StructType)
	def, ok := s.Fields[0].Default.(*schema.ValueEnumItem)
	if !ok {
		t.Fatalf("got default %T, want *schema.ValueEnumItem", s.Fields[0].Default)
	}
	testutil.ExpectEq(t, "B", def.Item.Name)
}

func TestCompileEnumItemAsAnnotationArgument(t *testing.T) {
	r := compileSrc(t, `
module m;
enum Visibility {
    Public,
    Private,
}
attribute Access {
    Visibility level = Private;
}
[Access(Public)]
struct S {
    int x;
}
[Access]
struct T {
    int y;
}
`)
	requireNoErrors(t, r)
	s := findType(r.Module, "S")
	if len(s.TypeAnnotations()) != 1 {
		t.Fatalf("got %d annotations on S, want 1", len(s.TypeAnnotations()))
	}
	explicit, ok := s.TypeAnnotations()[0].Args[0].(*schema.ValueEnumItem)
	if !ok {
		t.Fatalf("got annotation argument %T, want *schema.ValueEnumItem", s.TypeAnnotations()[0].Args[0])
	}
	testutil.ExpectEq(t, "Public", explicit.Item.Name)

	tt := findType(r.Module, "T")
	defaulted, ok := tt.TypeAnnotations()[0].Args[0].(*schema.ValueEnumItem)
	if !ok {
		t.Fatalf("got annotation argument %T, want *schema.ValueEnumItem", tt.TypeAnnotations()[0].Args[0])
	}
	testutil.ExpectEq(t, "Private", defaulted.Item.Name)
}

func TestCompileGenericSpecialization(t *testing.T) {
	r := compileSrc(t, `
module m;
struct Box<T> {
    T value;
}
struct User {
    Box<int> id_box;
    Box<int> another_box;
}
`)
	requireNoErrors(t, r)
	user := findType(r.Module, "User").(*schema.StructType)
	first := user.Fields[0].Type.(*schema.SpecializedType)
	second := user.Fields[1].Type.(*schema.SpecializedType)
	if first != second {
		t.Fatal("expected identical specializations (Box<int> twice) to be interned to the same instance")
	}
	testutil.ExpectEq(t, "Box<int>", first.TypeName())
}

func TestCompilePointerAndArrayTypes(t *testing.T) {
	r := compileSrc(t, `
module m;
struct Node {
    Node* next;
    int[4] fixed;
    int[] dynamic;
}
`)
	requireNoErrors(t, r)
	node := findType(r.Module, "Node").(*schema.StructType)
	ptr := node.Fields[0].Type.(*schema.PointerType)
	if ptr.RefType != node {
		t.Fatal("expected Node* to point back at Node itself")
	}
	fixed := node.Fields[1].Type.(*schema.ArrayType)
	testutil.ExpectTrue(t, fixed.HasSize)
	testutil.ExpectEq(t, uint64(4), fixed.Size)
	dyn := node.Fields[2].Type.(*schema.ArrayType)
	testutil.ExpectFalse(t, dyn.HasSize)
}

func TestCompileAliasIndirection(t *testing.T) {
	r := compileSrc(t, `
module m;
using UserId = int;
struct User {
    UserId id;
}
`)
	requireNoErrors(t, r)
	alias := findType(r.Module, "UserId").(*schema.AliasType)
	testutil.ExpectEq(t, "int", alias.RefType.TypeName())
}

func TestCompileAnnotationBinding(t *testing.T) {
	r := compileSrc(t, `
module m;
attribute Doc {
    string text;
}
[Doc("a user record")]
struct User {
    [Doc("the primary key")]
    int id;
}
`)
	requireNoErrors(t, r)
	user := findType(r.Module, "User").(*schema.StructType)
	if len(user.Annotations) != 1 {
		t.Fatalf("got %d type annotations, want 1", len(user.Annotations))
	}
	testutil.ExpectEq(t, "Doc", user.Annotations[0].Attribute.Name)
	arg := user.Annotations[0].Args[0].(*schema.ValueString)
	testutil.ExpectEq(t, "a user record", arg.Value)

	if len(user.Fields[0].Annotations) != 1 {
		t.Fatalf("got %d field annotations, want 1", len(user.Fields[0].Annotations))
	}
}

func TestCompileAnnotationDefaultsFillMissingArguments(t *testing.T) {
	r := compileSrc(t, `
module m;
attribute Range {
    int low = 0;
    int high = 100;
}
[Range]
struct Percentage {
    int value;
}
`)
	requireNoErrors(t, r)
	pct := findType(r.Module, "Percentage").(*schema.StructType)
	anno := pct.Annotations[0]
	testutil.ExpectEq(t, 2, len(anno.Args))
	low := anno.Args[0].(*schema.ValueInt)
	high := anno.Args[1].(*schema.ValueInt)
	testutil.ExpectEq(t, int64(0), low.Value)
	testutil.ExpectEq(t, int64(100), high.Value)
}

func TestCompileNestedNamespaceResolution(t *testing.T) {
	r := compileSrc(t, `
module m;
namespace outer {
    struct Shared {
        int value;
    }
    namespace inner {
        struct Wrapper {
            Shared s;
        }
    }
}
`)
	requireNoErrors(t, r)
	wrapper, ok := findType(r.Module, "outer.inner.Wrapper").(*schema.StructType)
	if !ok {
		t.Fatalf("expected outer.inner.Wrapper to compile, got %v", findType(r.Module, "outer.inner.Wrapper"))
	}
	shared := findType(r.Module, "outer.Shared")
	if wrapper.Fields[0].Type != shared {
		t.Fatal("expected Wrapper.s to resolve to outer.Shared through the enclosing namespace chain, not the module root")
	}
}

func TestCompileConstantInlining(t *testing.T) {
	r := compileSrc(t, `
module m;
const int MaxSize = 100;
struct Limits {
    int size = MaxSize;
}
`)
	requireNoErrors(t, r)
	limits := findType(r.Module, "Limits").(*schema.StructType)
	def := limits.Fields[0].Default.(*schema.ValueInt)
	testutil.ExpectEq(t, int64(100), def.Value)
}

func TestCompileImportAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "base.sap", `
module base;
struct Id {
    int value;
}
`)
	writeSource(t, dir, "main.sap", `
module main;
import base;
struct User {
    Id id;
}
`)
	r := compiler.Compile(filepath.Join(dir, "main.sap"), compiler.WithResolver(resolver.FS{}))
	requireNoErrors(t, r)
	testutil.ExpectEq(t, 1, len(r.Module.Imports))
	testutil.ExpectEq(t, "base", r.Module.Imports[0].Name)
	testutil.ExpectSliceEq(t, []string{filepath.Join(dir, "main.sap"), filepath.Join(dir, "base.sap")}, r.Dependencies)
}

func TestCompileCustomTagAcrossImport(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "tags.sap", `
module tags;
use Table : struct;
`)
	writeSource(t, dir, "main.sap", `
module main;
import tags;
Table Row {
    int id;
}
`)
	r := compiler.Compile(filepath.Join(dir, "main.sap"), compiler.WithResolver(resolver.FS{}))
	requireNoErrors(t, r)
	row := findType(r.Module, "Row").(*schema.StructType)
	found := false
	for _, a := range row.Annotations {
		if a.Attribute.Name == "customtag" {
			found = true
			testutil.ExpectEq(t, "Table", a.Args[0].(*schema.ValueString).Value)
		}
	}
	if !found {
		t.Fatal("expected Row to carry a synthetic $sapc.customtag(\"Table\") annotation")
	}
}

func TestCompileCyclicImportDoesNotHang(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.sap", `
module a;
import b;
struct A {
    int value;
}
`)
	writeSource(t, dir, "b.sap", `
module b;
import a;
struct B {
    int value;
}
`)
	r := compiler.Compile(filepath.Join(dir, "a.sap"), compiler.WithResolver(resolver.FS{}))
	requireNoErrors(t, r)
	testutil.ExpectEq(t, 1, len(r.Module.Imports))
	testutil.ExpectEq(t, "b", r.Module.Imports[0].Name)
}

func TestCompileMissingImportIsAnError(t *testing.T) {
	r := compileSrc(t, `
module m;
import does_not_exist;
`)
	if !r.Diagnostics.HasErrors() {
		t.Fatal("expected an error for an unresolved import")
	}
}

func TestCompileUndefinedTypeReferenceIsAnError(t *testing.T) {
	r := compileSrc(t, `
module m;
struct S {
    NoSuchType x;
}
`)
	if !r.Diagnostics.HasErrors() {
		t.Fatal("expected an error for a reference to an undefined type")
	}
}
