// Package schema is the linked, interned semantic data model produced by the
// compiler: modules, namespaces, types, constants, and the values bound to
// them. Every object here is owned by a single top-level Context and lives
// for the duration of one compilation.
package schema

import "sapc.dev/sapc/internal/diag"

// Kind identifies a Type's variant in the closed kind set. It also names the
// JSON "kind" string written by the projector.
type Kind int

const (
	KindPrimitive Kind = iota
	KindTypeId
	KindStruct
	KindUnion
	KindAttribute
	KindEnum
	KindAlias
	KindPointer
	KindArray
	KindGeneric
	KindSpecialized
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindTypeId:
		return "typeid"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindAttribute:
		return "attribute"
	case KindEnum:
		return "enum"
	case KindAlias:
		return "alias"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindGeneric:
		return "generic"
	case KindSpecialized:
		return "specialized"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Type is the tagged sum over the closed schema type-kind set (§3.2). Every
// variant carries the common identity fields through typeBase; kind-specific
// data lives on the concrete struct.
type Type interface {
	isType()
	TypeKind() Kind
	TypeName() string
	TypeQualifiedName() string
	TypeModule() *Module
	TypeNamespace() *Namespace
	TypeSpan() diag.Span
	TypeAnnotations() []*Annotation
	SetAnnotations([]*Annotation)
}

type typeBase struct {
	Name          string
	QualifiedName string
	Module        *Module
	Namespace     *Namespace // nil when declared directly at module scope
	Span          diag.Span
	Annotations   []*Annotation
}

func (t *typeBase) TypeName() string             { return t.Name }
func (t *typeBase) TypeQualifiedName() string     { return t.QualifiedName }
func (t *typeBase) TypeModule() *Module           { return t.Module }
func (t *typeBase) TypeNamespace() *Namespace     { return t.Namespace }
func (t *typeBase) TypeSpan() diag.Span           { return t.Span }
func (t *typeBase) TypeAnnotations() []*Annotation { return t.Annotations }
func (t *typeBase) SetAnnotations(a []*Annotation) { t.Annotations = a }

// PrimitiveType is one of the five built-in scalar types owned by the core
// module: string, bool, byte, int, float.
type PrimitiveType struct{ typeBase }

func (*PrimitiveType) isType()        {}
func (*PrimitiveType) TypeKind() Kind { return KindPrimitive }

// TypeIdType is the single core-module type backing the reflective
// `typename` marker.
type TypeIdType struct{ typeBase }

func (*TypeIdType) isType()        {}
func (*TypeIdType) TypeKind() Kind { return KindTypeId }

// StructType, UnionType, and AttributeType are the three aggregate kinds:
// an optional base type, an ordered field list, and an ordered generic
// type-parameter list (empty unless the declaration is generic).
type StructType struct {
	typeBase
	Base       Type
	Fields     []*Field
	TypeParams []*GenericType
}

func (*StructType) isType()        {}
func (*StructType) TypeKind() Kind { return KindStruct }

type UnionType struct {
	typeBase
	Base       Type
	Fields     []*Field
	TypeParams []*GenericType
}

func (*UnionType) isType()        {}
func (*UnionType) TypeKind() Kind { return KindUnion }

type AttributeType struct {
	typeBase
	Base       Type
	Fields     []*Field
	TypeParams []*GenericType
	// Opaque is true for `attribute Name;`, a forward declaration with no
	// field list.
	Opaque bool
}

func (*AttributeType) isType()        {}
func (*AttributeType) TypeKind() Kind { return KindAttribute }

type EnumType struct {
	typeBase
	BaseType Type
	Items    []*EnumItem
}

func (*EnumType) isType()        {}
func (*EnumType) TypeKind() Kind { return KindEnum }

// AliasType is a `using NAME = Type;` declaration: a named indirection onto
// another type.
type AliasType struct {
	typeBase
	RefType Type
}

func (*AliasType) isType()        {}
func (*AliasType) TypeKind() Kind { return KindAlias }

// PointerType and ArrayType are interned derived types constructed on first
// reference; see Context.PointerTo / Context.ArrayOf.
type PointerType struct {
	typeBase
	RefType Type
}

func (*PointerType) isType()        {}
func (*PointerType) TypeKind() Kind { return KindPointer }

type ArrayType struct {
	typeBase
	RefType Type
	HasSize bool
	Size    uint64
}

func (*ArrayType) isType()        {}
func (*ArrayType) TypeKind() Kind { return KindArray }

// GenericType is a type-parameter placeholder, created once per parameter
// identifier of a generic aggregate declaration and visible only while
// resolving inside that aggregate's body.
type GenericType struct {
	typeBase
	Owner Type // the StructType/UnionType/AttributeType this parameter belongs to
}

func (*GenericType) isType()        {}
func (*GenericType) TypeKind() Kind { return KindGeneric }

// SpecializedType is a generic aggregate instantiated with concrete type
// arguments, interned by (base identity, ordered argument identities).
type SpecializedType struct {
	typeBase
	RefType  Type // the generic base (Struct/Union/Attribute)
	TypeArgs []Type
}

func (*SpecializedType) isType()        {}
func (*SpecializedType) TypeKind() Kind { return KindSpecialized }

// OpaqueType is an externally-defined type with no body, declared
// `struct Name;`. It carries no fields or base: the representation is
// supplied by whatever consumes the projected schema, not by sapc.
type OpaqueType struct{ typeBase }

func (*OpaqueType) isType()        {}
func (*OpaqueType) TypeKind() Kind { return KindOpaque }

// Field is a member of a struct, union, or attribute body.
type Field struct {
	Name        string
	Span        diag.Span
	Type        Type
	Default     Value // nil if absent
	Annotations []*Annotation
}

// EnumItem is one member of an EnumType, holding its resolved integer value.
type EnumItem struct {
	Name        string
	Span        diag.Span
	Value       int64
	Parent      *EnumType
	Annotations []*Annotation
}

// Annotation is a bound use of an Attribute type: a resolved attribute
// reference plus an ordered, fully-defaulted argument list matching the
// attribute's field list one-for-one.
type Annotation struct {
	Attribute *AttributeType
	Args      []Value
	Span      diag.Span
}
