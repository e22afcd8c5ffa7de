package schema

import "sapc.dev/sapc/internal/diag"

// Module is the schema produced from one source file; the unit of import.
type Module struct {
	Name       string
	Span       diag.Span
	SourcePath string // path the source was read from, for validation and depfiles

	Imports []*Module

	// Types is the module's observable type list: every locally declared
	// type plus every externally owned type the make-available closure
	// (§4.3.5) has pulled in, in first-seen order.
	Types []Type

	Constants   []*Constant
	Root        *Namespace
	Annotations []*Annotation

	typeSeen map[Type]bool // membership set backing Types, for O(1) make-available checks

	resolveCache map[string]ResolveResult
}

func newModule(name string, span diag.Span) *Module {
	m := &Module{
		Name:     name,
		Span:     span,
		typeSeen: make(map[Type]bool),
	}
	m.Root = &Namespace{Module: m}
	return m
}

// AddType appends t to the module's type list if it is not already present.
// Reports whether t was newly added.
func (m *Module) AddType(t Type) bool {
	if m.typeSeen[t] {
		return false
	}
	m.typeSeen[t] = true
	m.Types = append(m.Types, t)
	return true
}

// ResolveKind identifies what a resolved QualifiedId turned out to name.
type ResolveKind int

const (
	ResolveNone ResolveKind = iota
	ResolveType
	ResolveConstant
	ResolveNamespace
	ResolveEnumItem
)

// ResolveResult is the cached outcome of resolving one QualifiedId within
// one module, per §4.3.3.
type ResolveResult struct {
	Kind      ResolveKind
	Type      Type
	Constant  *Constant
	Namespace *Namespace
	EnumItem  *EnumItem
}

// CacheGet returns a previously cached resolution for id, if any.
func (m *Module) CacheGet(id string) (ResolveResult, bool) {
	if m.resolveCache == nil {
		return ResolveResult{}, false
	}
	r, ok := m.resolveCache[id]
	return r, ok
}

// CacheSet memoizes the resolution of id within this module.
func (m *Module) CacheSet(id string, r ResolveResult) {
	if m.resolveCache == nil {
		m.resolveCache = make(map[string]ResolveResult)
	}
	m.resolveCache[id] = r
}

// Namespace is a named lexical scope inside a module, holding types,
// constants, and sub-namespaces. The module's root namespace has an empty
// Name and a nil Parent.
type Namespace struct {
	Name          string
	QualifiedName string
	Module        *Module
	Parent        *Namespace // nil for the module root

	Namespaces []*Namespace
	Types      []Type
	Constants  []*Constant
}

// Child returns the direct child namespace named name, or nil.
func (n *Namespace) Child(name string) *Namespace {
	for _, c := range n.Namespaces {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TypeNamed returns the direct child type named name, or nil.
func (n *Namespace) TypeNamed(name string) Type {
	for _, t := range n.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// ConstantNamed returns the direct child constant named name, or nil.
func (n *Namespace) ConstantNamed(name string) *Constant {
	for _, c := range n.Constants {
		if c.Name == name {
			return c
		}
	}
	return nil
}
