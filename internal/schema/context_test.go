package schema

import (
	"testing"

	"sapc.dev/sapc/internal/diag"
)

func TestPointerToInterns(t *testing.T) {
	ctx := NewContext()
	elem := &PrimitiveType{typeBase: typeBase{Name: "int", QualifiedName: "int"}}
	p1 := ctx.PointerTo(elem)
	p2 := ctx.PointerTo(elem)
	if p1 != p2 {
		t.Fatal("expected PointerTo to return the same interned instance for the same element")
	}
	if p1.TypeName() != "int*" {
		t.Fatalf("got %q, want int*", p1.TypeName())
	}
}

func TestArrayOfDistinguishesFixedAndDynamic(t *testing.T) {
	ctx := NewContext()
	elem := &PrimitiveType{typeBase: typeBase{Name: "int", QualifiedName: "int"}}
	dyn := ctx.ArrayOf(elem, false, 0)
	fixed4 := ctx.ArrayOf(elem, true, 4)
	fixed4Again := ctx.ArrayOf(elem, true, 4)
	fixed8 := ctx.ArrayOf(elem, true, 8)

	if fixed4 != fixed4Again {
		t.Fatal("expected same (elem, size) array to be interned identically")
	}
	if dyn == fixed4 || fixed4 == fixed8 {
		t.Fatal("expected different array shapes to be distinct instances")
	}
	if dyn.TypeName() != "int[]" {
		t.Fatalf("got %q, want int[]", dyn.TypeName())
	}
	if fixed4.TypeName() != "int[4]" {
		t.Fatalf("got %q, want int[4]", fixed4.TypeName())
	}
}

func TestSpecializeInternsByArgumentIdentity(t *testing.T) {
	ctx := NewContext()
	base := &StructType{typeBase: typeBase{Name: "Box", QualifiedName: "Box"}}
	argA := &PrimitiveType{typeBase: typeBase{Name: "int", QualifiedName: "int"}}
	argB := &PrimitiveType{typeBase: typeBase{Name: "string", QualifiedName: "string"}}

	s1 := ctx.Specialize(base, []Type{argA})
	s2 := ctx.Specialize(base, []Type{argA})
	s3 := ctx.Specialize(base, []Type{argB})

	if s1 != s2 {
		t.Fatal("expected the same (base, args) specialization to be interned identically")
	}
	if s1 == s3 {
		t.Fatal("expected different argument lists to produce distinct specializations")
	}
	if s1.TypeName() != "Box<int>" {
		t.Fatalf("got %q, want Box<int>", s1.TypeName())
	}
}

func TestModuleAddTypeDeduplicates(t *testing.T) {
	m := newModule("m", diag.Span{})
	st := &StructType{typeBase: typeBase{Name: "S"}}
	if !m.AddType(st) {
		t.Fatal("expected first AddType to report true")
	}
	if m.AddType(st) {
		t.Fatal("expected second AddType of the same type to report false")
	}
	if len(m.Types) != 1 {
		t.Fatalf("got %d types, want 1", len(m.Types))
	}
}

func TestNamespaceChildLookup(t *testing.T) {
	m := newModule("m", diag.Span{})
	child := &Namespace{Name: "inner", Module: m, Parent: m.Root}
	m.Root.Namespaces = append(m.Root.Namespaces, child)

	if got := m.Root.Child("inner"); got != child {
		t.Fatalf("got %v, want %v", got, child)
	}
	if got := m.Root.Child("missing"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
