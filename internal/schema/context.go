package schema

import (
	"fmt"

	"sapc.dev/sapc/internal/diag"
)

// Context is the single top-level arena owning every schema object produced
// by a compilation: the core module, every user module, and the interning
// tables that give pointer/array/specialized types their identity. Its
// lifecycle is linear: create, compile, validate, serialize, drop. No schema
// object is read after drop.
type Context struct {
	// Core is the synthetic $sapc module: primitives, $sapc.typeid, and the
	// built-in customtag attribute. Populated once by the compiler before
	// any user file is compiled.
	Core *Module

	// ModulesByPath maps a resolved source path to the Module compiled from
	// it, so each unique path is compiled at most once (§4.3.2).
	ModulesByPath map[string]*Module

	pointerCache     map[Type]*PointerType
	arrayCache       map[arrayKey]*ArrayType
	specializedCache map[Type]map[string]*SpecializedType
}

type arrayKey struct {
	Elem    Type
	HasSize bool
	Size    uint64
}

// NewContext returns an empty arena ready to hold the core module and every
// user module compiled against it.
func NewContext() *Context {
	return &Context{
		ModulesByPath:    make(map[string]*Module),
		pointerCache:     make(map[Type]*PointerType),
		arrayCache:       make(map[arrayKey]*ArrayType),
		specializedCache: make(map[Type]map[string]*SpecializedType),
	}
}

// NewModule allocates a fresh, empty Module and registers it under path so
// subsequent imports of the same path are short-circuited to this object
// (supporting cyclic-import termination, §4.3.2).
func (c *Context) NewModule(name string, path string) *Module {
	m := newModule(name, diag.Span{})
	m.SourcePath = path
	c.ModulesByPath[path] = m
	return m
}

// PointerTo returns the interned pointer-to-elem type, constructing it on
// first reference.
func (c *Context) PointerTo(elem Type) *PointerType {
	if p, ok := c.pointerCache[elem]; ok {
		return p
	}
	p := &PointerType{
		typeBase: typeBase{
			Name:          elem.TypeName() + "*",
			QualifiedName: elem.TypeQualifiedName() + "*",
		},
		RefType: elem,
	}
	c.pointerCache[elem] = p
	return p
}

// ArrayOf returns the interned array-of-elem type (optionally fixed-size),
// constructing it on first reference.
func (c *Context) ArrayOf(elem Type, hasSize bool, size uint64) *ArrayType {
	key := arrayKey{Elem: elem, HasSize: hasSize, Size: size}
	if a, ok := c.arrayCache[key]; ok {
		return a
	}
	suffix := "[]"
	if hasSize {
		suffix = fmt.Sprintf("[%d]", size)
	}
	a := &ArrayType{
		typeBase: typeBase{
			Name:          elem.TypeName() + suffix,
			QualifiedName: elem.TypeQualifiedName() + suffix,
		},
		RefType: elem,
		HasSize: hasSize,
		Size:    size,
	}
	c.arrayCache[key] = a
	return a
}

// Specialize returns the interned instantiation of the generic base type
// with the given ordered type arguments, constructing it on first
// reference. base must be a Struct/Union/Attribute type with a non-empty
// TypeParams list.
func (c *Context) Specialize(base Type, args []Type) *SpecializedType {
	byArgs, ok := c.specializedCache[base]
	if !ok {
		byArgs = make(map[string]*SpecializedType)
		c.specializedCache[base] = byArgs
	}
	key := specializationKey(args)
	if s, ok := byArgs[key]; ok {
		return s
	}
	argNames := make([]string, len(args))
	for i, a := range args {
		argNames[i] = a.TypeName()
	}
	qualArgNames := make([]string, len(args))
	for i, a := range args {
		qualArgNames[i] = a.TypeQualifiedName()
	}
	s := &SpecializedType{
		typeBase: typeBase{
			Name:          base.TypeName() + "<" + joinComma(argNames) + ">",
			QualifiedName: base.TypeQualifiedName() + "<" + joinComma(qualArgNames) + ">",
		},
		RefType:  base,
		TypeArgs: append([]Type(nil), args...),
	}
	byArgs[key] = s
	return s
}

func specializationKey(args []Type) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%p", a)
	}
	return s
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
