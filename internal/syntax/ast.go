package syntax

import (
	"strings"

	"sapc.dev/sapc/internal/diag"
)

// Identifier is a bare name together with its source location.
type Identifier struct {
	Text string
	Span diag.Span
}

// QualifiedId is a non-empty, dot-separated sequence of identifiers.
// Equality and hashing are defined component-wise on Text only.
type QualifiedId struct {
	Parts []Identifier
}

func (q QualifiedId) String() string {
	parts := make([]string, len(q.Parts))
	for i, p := range q.Parts {
		parts[i] = p.Text
	}
	return strings.Join(parts, ".")
}

func (q QualifiedId) Span() diag.Span {
	if len(q.Parts) == 0 {
		return diag.Span{}
	}
	return diag.Span{
		Filename: q.Parts[0].Span.Filename,
		Start:    q.Parts[0].Span.Start,
		End:      q.Parts[len(q.Parts)-1].Span.End,
	}
}

// Equal compares two qualified ids component-wise on text, per §3.1.
func (q QualifiedId) Equal(other QualifiedId) bool {
	if len(q.Parts) != len(other.Parts) {
		return false
	}
	for i := range q.Parts {
		if q.Parts[i].Text != other.Parts[i].Text {
			return false
		}
	}
	return true
}

// Literal is the tagged sum of constant-expression shapes the parser can
// produce: null, bool, integer, string, a bare qualified id (a late-bound
// reference resolved during compilation), or a list of literals.
type Literal interface {
	isLiteral()
	LiteralSpan() diag.Span
}

type LiteralNull struct{ Span diag.Span }

func (*LiteralNull) isLiteral()                 {}
func (l *LiteralNull) LiteralSpan() diag.Span   { return l.Span }

type LiteralBool struct {
	Value bool
	Span  diag.Span
}

func (*LiteralBool) isLiteral()               {}
func (l *LiteralBool) LiteralSpan() diag.Span { return l.Span }

type LiteralInt struct {
	Value int64
	Span  diag.Span
}

func (*LiteralInt) isLiteral()               {}
func (l *LiteralInt) LiteralSpan() diag.Span { return l.Span }

type LiteralString struct {
	Value string
	Span  diag.Span
}

func (*LiteralString) isLiteral()               {}
func (l *LiteralString) LiteralSpan() diag.Span { return l.Span }

// LiteralIdent is a bare qualified-id literal, e.g. `Color.Red` or `MaxSize`.
// Its category (type / constant / enum item) is resolved at translation
// time, per DESIGN NOTES §9.
type LiteralIdent struct {
	Name QualifiedId
}

func (*LiteralIdent) isLiteral()               {}
func (l *LiteralIdent) LiteralSpan() diag.Span { return l.Name.Span() }

type LiteralList struct {
	Items []Literal
	Span  diag.Span
}

func (*LiteralList) isLiteral()               {}
func (l *LiteralList) LiteralSpan() diag.Span { return l.Span }

// TypeRef is the tagged sum of type-expression shapes a field, alias target,
// const type, or generic argument may name.
type TypeRef interface {
	isTypeRef()
	TypeRefSpan() diag.Span
}

type TypeRefName struct {
	Name QualifiedId
	Span diag.Span
}

func (*TypeRefName) isTypeRef()               {}
func (t *TypeRefName) TypeRefSpan() diag.Span { return t.Span }

type TypeRefPointer struct {
	Elem TypeRef
	Span diag.Span
}

func (*TypeRefPointer) isTypeRef()               {}
func (t *TypeRefPointer) TypeRefSpan() diag.Span { return t.Span }

type TypeRefArray struct {
	Elem     TypeRef
	HasSize  bool
	Size     uint64
	Span     diag.Span
}

func (*TypeRefArray) isTypeRef()               {}
func (t *TypeRefArray) TypeRefSpan() diag.Span { return t.Span }

type TypeRefGeneric struct {
	Base TypeRef
	Args []TypeRef
	Span diag.Span
}

func (*TypeRefGeneric) isTypeRef()               {}
func (t *TypeRefGeneric) TypeRefSpan() diag.Span { return t.Span }

// TypeRefTypeName is the reflective `typename` marker type: "a type".
type TypeRefTypeName struct {
	Span diag.Span
}

func (*TypeRefTypeName) isTypeRef()               {}
func (t *TypeRefTypeName) TypeRefSpan() diag.Span { return t.Span }

// Annotation is a single `[Name(args...)]` attribute usage attached to a
// declaration or field.
type Annotation struct {
	Name QualifiedId
	Args []Literal
	Span diag.Span
}

// Field is a member of a struct, union, or attribute body.
type Field struct {
	Name        Identifier
	Type        TypeRef
	Default     Literal // nil if absent
	Annotations []Annotation
	Span        diag.Span
}

// EnumItem is one `NAME = value` entry of an enum body.
type EnumItem struct {
	Name        Identifier
	Value       Literal // nil if absent (auto-numbered by the compiler)
	Annotations []Annotation
	Span        diag.Span
}

// Declaration is the tagged sum of things that can appear at module or
// namespace scope.
type Declaration interface {
	isDeclaration()
	DeclSpan() diag.Span
}

type DeclModule struct {
	Name        Identifier
	Annotations []Annotation
	Span        diag.Span
}

func (*DeclModule) isDeclaration()           {}
func (d *DeclModule) DeclSpan() diag.Span    { return d.Span }

type DeclImport struct {
	Name Identifier
	Span diag.Span
}

func (*DeclImport) isDeclaration()        {}
func (d *DeclImport) DeclSpan() diag.Span { return d.Span }

type DeclNamespace struct {
	Name  Identifier
	Decls []Declaration
	Span  diag.Span
}

func (*DeclNamespace) isDeclaration()        {}
func (d *DeclNamespace) DeclSpan() diag.Span { return d.Span }

type DeclAttribute struct {
	Name   Identifier
	Fields []Field
	Opaque bool // true when declared `attribute Name;` with no body
	Span   diag.Span
}

func (*DeclAttribute) isDeclaration()        {}
func (d *DeclAttribute) DeclSpan() diag.Span { return d.Span }

type DeclStruct struct {
	Name        Identifier
	TypeParams  []Identifier
	Base        TypeRef // nil if absent
	Fields      []Field
	Annotations []Annotation
	CustomTag   string // non-empty when introduced via a `use` alias
	Opaque      bool   // true when declared `struct Name;` with no body
	Span        diag.Span
}

func (*DeclStruct) isDeclaration()        {}
func (d *DeclStruct) DeclSpan() diag.Span { return d.Span }

type DeclUnion struct {
	Name        Identifier
	TypeParams  []Identifier
	Fields      []Field
	Annotations []Annotation
	CustomTag   string
	Span        diag.Span
}

func (*DeclUnion) isDeclaration()        {}
func (d *DeclUnion) DeclSpan() diag.Span { return d.Span }

type DeclEnum struct {
	Name        Identifier
	BaseType    TypeRef // nil if absent; defaults to `int` during compilation
	Items       []EnumItem
	Annotations []Annotation
	CustomTag   string
	Span        diag.Span
}

func (*DeclEnum) isDeclaration()        {}
func (d *DeclEnum) DeclSpan() diag.Span { return d.Span }

// DeclAlias is a `using NAME = Type;` declaration.
type DeclAlias struct {
	Name        Identifier
	Target      TypeRef // nil if absent (pure forward declaration)
	Annotations []Annotation
	CustomTag   string
	Span        diag.Span
}

func (*DeclAlias) isDeclaration()        {}
func (d *DeclAlias) DeclSpan() diag.Span { return d.Span }

// DeclConstant is a `const Type NAME = literal;` declaration.
type DeclConstant struct {
	Name        Identifier
	Type        TypeRef
	Value       Literal
	Annotations []Annotation
	CustomTag   string
	Span        diag.Span
}

func (*DeclConstant) isDeclaration()        {}
func (d *DeclConstant) DeclSpan() diag.Span { return d.Span }

// DeclCustomTagDecl is a `use NAME : KEYWORD;` custom-tag registration.
type DeclCustomTagDecl struct {
	Tag         Identifier
	Keyword     TokenKind // one of T_STRUCT, T_UNION, T_ENUM, T_USING, T_CONST
	Annotations []Annotation
	Span        diag.Span
}

func (*DeclCustomTagDecl) isDeclaration()        {}
func (d *DeclCustomTagDecl) DeclSpan() diag.Span { return d.Span }

// ModuleUnit is the parse result of a single source file.
type ModuleUnit struct {
	Filename    string
	ModuleName  *Identifier
	ModuleAnnos []Annotation
	Decls       []Declaration
}
