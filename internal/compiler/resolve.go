package compiler

import (
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/syntax"
)

// resolveQualifiedId resolves q against the scope stack described by
// §4.3.3: type-local names first (when fs.typeScope is set), then the
// namespace chain from innermost to the module root, then each imported
// module's root in declaration order, then the core module.
func (c *Compiler) resolveQualifiedId(fs *fileState, q syntax.QualifiedId) schema.ResolveResult {
	if len(q.Parts) == 1 {
		if r, ok := c.resolveTypeLocal(fs, q.Parts[0].Text); ok {
			return r
		}
	}

	key := q.String()
	if r, ok := fs.module.CacheGet(key); ok {
		return r
	}

	r := c.resolveInScopeChain(fs, q.Parts)
	fs.module.CacheSet(key, r)
	if r.Kind == schema.ResolveType {
		c.makeAvailable(fs.module, r.Type)
	}
	return r
}

// resolveTypeLocal implements §4.3.3 step 1: names local to the aggregate
// or enum currently being defined (enum items, generic type parameters).
func (c *Compiler) resolveTypeLocal(fs *fileState, name string) (schema.ResolveResult, bool) {
	switch t := fs.typeScope.(type) {
	case *schema.EnumType:
		for _, item := range t.Items {
			if item.Name == name {
				return schema.ResolveResult{Kind: schema.ResolveEnumItem, EnumItem: item}, true
			}
		}
	case *schema.StructType:
		if g, ok := genericParam(t.TypeParams, name); ok {
			return schema.ResolveResult{Kind: schema.ResolveType, Type: g}, true
		}
	case *schema.UnionType:
		if g, ok := genericParam(t.TypeParams, name); ok {
			return schema.ResolveResult{Kind: schema.ResolveType, Type: g}, true
		}
	case *schema.AttributeType:
		if g, ok := genericParam(t.TypeParams, name); ok {
			return schema.ResolveResult{Kind: schema.ResolveType, Type: g}, true
		}
	}
	return schema.ResolveResult{}, false
}

// resolveTypeMember looks up name among t's own local names: currently just
// an enum's items (or a type aliasing to an enum), per §4.3.3's "remaining
// components recurse into that child" applied to a type rather than a
// namespace.
func resolveTypeMember(t schema.Type, name string) (schema.ResolveResult, bool) {
	et, ok := underlyingEnum(t)
	if !ok {
		return schema.ResolveResult{}, false
	}
	for _, item := range et.Items {
		if item.Name == name {
			return schema.ResolveResult{Kind: schema.ResolveEnumItem, EnumItem: item}, true
		}
	}
	return schema.ResolveResult{}, false
}

func genericParam(params []*schema.GenericType, name string) (*schema.GenericType, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (c *Compiler) resolveInScopeChain(fs *fileState, parts []syntax.Identifier) schema.ResolveResult {
	for i := len(fs.nsStack) - 1; i >= 0; i-- {
		if r, ok := walkNamespace(fs.nsStack[i], parts); ok {
			return r
		}
	}
	for _, imp := range fs.module.Imports {
		if r, ok := walkNamespace(imp.Root, parts); ok {
			return r
		}
	}
	if r, ok := walkNamespace(c.core.Root, parts); ok {
		return r
	}
	return schema.ResolveResult{}
}

// walkNamespace attempts to resolve parts entirely within ns: the first
// component must name a direct child, and remaining components recurse
// into that child. A single remaining component may also match a type or
// constant directly (the two leaf possibilities), or, if the first
// component instead names a type (e.g. an enum), a single remaining
// component recurses into that type's own local names (its items).
func walkNamespace(ns *schema.Namespace, parts []syntax.Identifier) (schema.ResolveResult, bool) {
	if len(parts) == 0 {
		return schema.ResolveResult{}, false
	}
	name := parts[0].Text
	rest := parts[1:]

	if len(rest) > 0 {
		if child := ns.Child(name); child != nil {
			if r, ok := walkNamespace(child, rest); ok {
				return r, true
			}
		}
		if len(rest) == 1 {
			if t := ns.TypeNamed(name); t != nil {
				if r, ok := resolveTypeMember(t, rest[0].Text); ok {
					return r, true
				}
			}
		}
		return schema.ResolveResult{}, false
	}

	if t := ns.TypeNamed(name); t != nil {
		return schema.ResolveResult{Kind: schema.ResolveType, Type: t}, true
	}
	if k := ns.ConstantNamed(name); k != nil {
		return schema.ResolveResult{Kind: schema.ResolveConstant, Constant: k}, true
	}
	if child := ns.Child(name); child != nil {
		return schema.ResolveResult{Kind: schema.ResolveNamespace, Namespace: child}, true
	}
	return schema.ResolveResult{}, false
}
