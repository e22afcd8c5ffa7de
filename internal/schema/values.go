package schema

import "sapc.dev/sapc/internal/diag"

// Value is the resolved counterpart of an AST Literal: every identifier-
// shaped literal has been translated into a concrete reference by the time
// a Value exists.
type Value interface {
	isValue()
	ValueSpan() diag.Span
}

type ValueNull struct{ Span diag.Span }

func (*ValueNull) isValue()             {}
func (v *ValueNull) ValueSpan() diag.Span { return v.Span }

type ValueBool struct {
	Value bool
	Span  diag.Span
}

func (*ValueBool) isValue()             {}
func (v *ValueBool) ValueSpan() diag.Span { return v.Span }

type ValueInt struct {
	Value int64
	Span  diag.Span
}

func (*ValueInt) isValue()             {}
func (v *ValueInt) ValueSpan() diag.Span { return v.Span }

type ValueString struct {
	Value string
	Span  diag.Span
}

func (*ValueString) isValue()             {}
func (v *ValueString) ValueSpan() diag.Span { return v.Span }

// ValueTypeRef is a value naming a Type, e.g. the resolved form of a
// `typename`-typed field's literal, or an annotation argument naming a type.
type ValueTypeRef struct {
	Type Type
	Span diag.Span
}

func (*ValueTypeRef) isValue()             {}
func (v *ValueTypeRef) ValueSpan() diag.Span { return v.Span }

// ValueEnumItem is a value naming one member of an EnumType.
type ValueEnumItem struct {
	Item *EnumItem
	Span diag.Span
}

func (*ValueEnumItem) isValue()             {}
func (v *ValueEnumItem) ValueSpan() diag.Span { return v.Span }

type ValueList struct {
	Items []Value
	Span  diag.Span
}

func (*ValueList) isValue()             {}
func (v *ValueList) ValueSpan() diag.Span { return v.Span }

// Constant is a `const Type NAME = literal;` declaration.
type Constant struct {
	Name          string
	QualifiedName string
	Namespace     *Namespace // nil when declared directly at module scope
	Module        *Module
	Type          Type
	Value         Value
	Annotations   []*Annotation
	Span          diag.Span
}
