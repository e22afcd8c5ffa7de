package compiler

import (
	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/syntax"
)

// resolveTypeRef translates a parsed TypeRef into a schema Type, resolving
// named references through the scope chain and constructing (interning)
// pointer, array, and specialized types on demand, per §4.3.4.
func (c *Compiler) resolveTypeRef(fs *fileState, ref syntax.TypeRef) (schema.Type, bool) {
	switch ref := ref.(type) {
	case *syntax.TypeRefTypeName:
		return c.coreTypeId, true

	case *syntax.TypeRefName:
		r := c.resolveQualifiedId(fs, ref.Name)
		if r.Kind != schema.ResolveType {
			c.reportNotAType(ref.Name, r)
			return nil, false
		}
		return r.Type, true

	case *syntax.TypeRefPointer:
		elem, ok := c.resolveTypeRef(fs, ref.Elem)
		if !ok {
			return nil, false
		}
		return c.pointerTo(fs, elem), true

	case *syntax.TypeRefArray:
		elem, ok := c.resolveTypeRef(fs, ref.Elem)
		if !ok {
			return nil, false
		}
		return c.arrayOf(fs, elem, ref.HasSize, ref.Size), true

	case *syntax.TypeRefGeneric:
		base, ok := c.resolveTypeRef(fs, ref.Base)
		if !ok {
			return nil, false
		}
		params := typeParamsOf(base)
		if params == nil {
			c.log.Error(diag.CategoryResolution, ref.Span, "%q is not a generic type", base.TypeName())
			return nil, false
		}
		args := make([]schema.Type, 0, len(ref.Args))
		ok = true
		for _, a := range ref.Args {
			at, aok := c.resolveTypeRef(fs, a)
			if !aok {
				ok = false
				continue
			}
			args = append(args, at)
		}
		if !ok {
			return nil, false
		}
		if len(args) != len(params) {
			c.log.Error(diag.CategoryBinding, ref.Span, "%q expects %d type argument(s), got %d", base.TypeName(), len(params), len(args))
			return nil, false
		}
		return c.specialize(fs, base, args), true
	}
	return nil, false
}

func typeParamsOf(t schema.Type) []*schema.GenericType {
	switch t := t.(type) {
	case *schema.StructType:
		return t.TypeParams
	case *schema.UnionType:
		return t.TypeParams
	case *schema.AttributeType:
		return t.TypeParams
	default:
		return nil
	}
}

func (c *Compiler) reportNotAType(name syntax.QualifiedId, r schema.ResolveResult) {
	switch r.Kind {
	case schema.ResolveNamespace:
		c.log.Error(diag.CategoryResolution, name.Span(), "%q names a namespace, not a type", name.String())
	case schema.ResolveConstant:
		c.log.Error(diag.CategoryResolution, name.Span(), "%q names a constant, not a type", name.String())
	case schema.ResolveEnumItem:
		c.log.Error(diag.CategoryResolution, name.Span(), "%q names an enum item, not a type", name.String())
	default:
		c.log.Error(diag.CategoryResolution, name.Span(), "%q does not name a type", name.String())
	}
}

// pointerTo/arrayOf/specialize wrap the Context's interning constructors,
// recording ownership on first construction and ensuring the result is
// visible in the current module's type list.
func (c *Compiler) pointerTo(fs *fileState, elem schema.Type) *schema.PointerType {
	p := c.ctx.PointerTo(elem)
	c.claimOwnership(p, fs.module)
	c.makeAvailable(fs.module, p)
	return p
}

func (c *Compiler) arrayOf(fs *fileState, elem schema.Type, hasSize bool, size uint64) *schema.ArrayType {
	a := c.ctx.ArrayOf(elem, hasSize, size)
	c.claimOwnership(a, fs.module)
	c.makeAvailable(fs.module, a)
	return a
}

func (c *Compiler) specialize(fs *fileState, base schema.Type, args []schema.Type) *schema.SpecializedType {
	s := c.ctx.Specialize(base, args)
	c.claimOwnership(s, fs.module)
	c.makeAvailable(fs.module, s)
	return s
}

// claimOwnership assigns an interned derived type to whichever module first
// constructed it; later references from other modules only makeAvailable
// it, leaving ownership untouched.
func (c *Compiler) claimOwnership(t schema.Type, owner *schema.Module) {
	if t.TypeModule() == nil {
		setOwner(t, owner)
	}
}

func setOwner(t schema.Type, owner *schema.Module) {
	switch t := t.(type) {
	case *schema.PointerType:
		t.Module = owner
	case *schema.ArrayType:
		t.Module = owner
	case *schema.SpecializedType:
		t.Module = owner
	}
}
