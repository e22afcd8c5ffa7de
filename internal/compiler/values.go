package compiler

import (
	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/syntax"
)

// translateLiteral turns a parsed Literal into a schema Value, resolving
// identifier-shaped literals through the scope chain. The category of an
// identifier literal (type / constant / enum item) is chosen here, at
// translation time, per DESIGN NOTES §9.
func (c *Compiler) translateLiteral(fs *fileState, lit syntax.Literal) schema.Value {
	switch lit := lit.(type) {
	case *syntax.LiteralNull:
		return &schema.ValueNull{Span: lit.Span}
	case *syntax.LiteralBool:
		return &schema.ValueBool{Value: lit.Value, Span: lit.Span}
	case *syntax.LiteralInt:
		return &schema.ValueInt{Value: lit.Value, Span: lit.Span}
	case *syntax.LiteralString:
		return &schema.ValueString{Value: lit.Value, Span: lit.Span}
	case *syntax.LiteralIdent:
		return c.translateIdentLiteral(fs, lit)
	case *syntax.LiteralList:
		items := make([]schema.Value, len(lit.Items))
		for i, item := range lit.Items {
			items[i] = c.translateLiteral(fs, item)
		}
		return &schema.ValueList{Items: items, Span: lit.Span}
	}
	return &schema.ValueNull{}
}

// translateDefault translates a default-value literal (a field default, a
// constant's value, or a defaulted annotation argument) against its expected
// type ty. When ty is (or aliases to) an EnumType, the type-local scope is
// switched to that enum for the duration of the translation so a bare item
// name resolves against it first, mirroring findEnumerant in analyze.cc: a
// default of `E e = B;` finds `B` among E's items even though the field
// itself is declared on some other aggregate. The caller's type scope,
// whatever it was, is restored afterward. ty may be nil (an unresolved
// type), in which case this is equivalent to translateLiteral.
func (c *Compiler) translateDefault(fs *fileState, ty schema.Type, lit syntax.Literal) schema.Value {
	if et, ok := underlyingEnum(ty); ok {
		saved := fs.typeScope
		fs.typeScope = et
		v := c.translateLiteral(fs, lit)
		fs.typeScope = saved
		return v
	}
	return c.translateLiteral(fs, lit)
}

// underlyingEnum unwraps alias indirection to find the EnumType a type
// names, if any.
func underlyingEnum(ty schema.Type) (*schema.EnumType, bool) {
	for {
		switch t := ty.(type) {
		case *schema.EnumType:
			return t, true
		case *schema.AliasType:
			ty = t.RefType
		default:
			return nil, false
		}
	}
}

func (c *Compiler) translateIdentLiteral(fs *fileState, lit *syntax.LiteralIdent) schema.Value {
	span := lit.Name.Span()
	r := c.resolveQualifiedId(fs, lit.Name)
	switch r.Kind {
	case schema.ResolveType:
		return &schema.ValueTypeRef{Type: r.Type, Span: span}
	case schema.ResolveEnumItem:
		return &schema.ValueEnumItem{Item: r.EnumItem, Span: span}
	case schema.ResolveConstant:
		return inlineConstant(r.Constant, span)
	case schema.ResolveNamespace:
		c.log.Error(diag.CategoryBinding, span, "%q names a namespace, which cannot be used as a value", lit.Name.String())
		return &schema.ValueNull{Span: span}
	default:
		c.log.Error(diag.CategoryResolution, span, "%q is not defined", lit.Name.String())
		return &schema.ValueNull{Span: span}
	}
}

// inlineConstant copies a resolved Constant's value by reference, re-
// spanned to the use site, per §4.3.6's "inlined by value" rule.
func inlineConstant(k *schema.Constant, span diag.Span) schema.Value {
	return respan(k.Value, span)
}

func respan(v schema.Value, span diag.Span) schema.Value {
	switch v := v.(type) {
	case *schema.ValueNull:
		return &schema.ValueNull{Span: span}
	case *schema.ValueBool:
		return &schema.ValueBool{Value: v.Value, Span: span}
	case *schema.ValueInt:
		return &schema.ValueInt{Value: v.Value, Span: span}
	case *schema.ValueString:
		return &schema.ValueString{Value: v.Value, Span: span}
	case *schema.ValueTypeRef:
		return &schema.ValueTypeRef{Type: v.Type, Span: span}
	case *schema.ValueEnumItem:
		return &schema.ValueEnumItem{Item: v.Item, Span: span}
	case *schema.ValueList:
		items := make([]schema.Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = respan(item, span)
		}
		return &schema.ValueList{Items: items, Span: span}
	}
	return v
}

// valueAsInt extracts an integer from a Value, used for enum item values
// and array sizes; ok is false if v is not (or does not evaluate to) an
// integer.
func valueAsInt(v schema.Value) (int64, bool) {
	iv, ok := v.(*schema.ValueInt)
	if !ok {
		return 0, false
	}
	return iv.Value, true
}
