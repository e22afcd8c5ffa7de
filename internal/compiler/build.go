package compiler

import (
	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/syntax"
)

// declareDecls is the first of two passes over a scope's declarations: it
// creates an empty "shell" schema object for every namespace and every
// type-introducing declaration, so that types declared later in the same
// module can still be referenced by types declared earlier (mutual and
// forward references). Bodies are filled in by defineDecls.
func (c *Compiler) declareDecls(fs *fileState, decls []syntax.Declaration, ns *schema.Namespace) {
	for _, d := range decls {
		switch d := d.(type) {
		case *syntax.DeclNamespace:
			child := ns.Child(d.Name.Text)
			if child == nil {
				child = &schema.Namespace{
					Name:          d.Name.Text,
					QualifiedName: qualify(ns, d.Name.Text),
					Module:        fs.module,
					Parent:        ns,
				}
				ns.Namespaces = append(ns.Namespaces, child)
			}
			c.declareDecls(fs, d.Decls, child)

		case *syntax.DeclStruct:
			if d.Opaque {
				t := &schema.OpaqueType{}
				t.Name = d.Name.Text
				t.QualifiedName = qualify(ns, d.Name.Text)
				t.Module = fs.module
				t.Namespace = nsOrNil(ns)
				t.Span = d.Span
				ns.Types = append(ns.Types, t)
				fs.module.AddType(t)
				fs.shells[d] = t
				continue
			}
			t := &schema.StructType{}
			t.Name = d.Name.Text
			t.QualifiedName = qualify(ns, d.Name.Text)
			t.Module = fs.module
			t.Namespace = nsOrNil(ns)
			t.Span = d.Span
			for _, p := range d.TypeParams {
				g := &schema.GenericType{Owner: t}
				g.Name = p.Text
				g.QualifiedName = p.Text
				g.Module = fs.module
				t.TypeParams = append(t.TypeParams, g)
			}
			ns.Types = append(ns.Types, t)
			fs.module.AddType(t)
			fs.shells[d] = t

		case *syntax.DeclUnion:
			t := &schema.UnionType{}
			t.Name = d.Name.Text
			t.QualifiedName = qualify(ns, d.Name.Text)
			t.Module = fs.module
			t.Namespace = nsOrNil(ns)
			t.Span = d.Span
			for _, p := range d.TypeParams {
				g := &schema.GenericType{Owner: t}
				g.Name = p.Text
				g.QualifiedName = p.Text
				g.Module = fs.module
				t.TypeParams = append(t.TypeParams, g)
			}
			ns.Types = append(ns.Types, t)
			fs.module.AddType(t)
			fs.shells[d] = t

		case *syntax.DeclAttribute:
			t := &schema.AttributeType{}
			t.Name = d.Name.Text
			t.QualifiedName = qualify(ns, d.Name.Text)
			t.Module = fs.module
			t.Namespace = nsOrNil(ns)
			t.Span = d.Span
			ns.Types = append(ns.Types, t)
			fs.module.AddType(t)
			fs.shells[d] = t

		case *syntax.DeclEnum:
			t := &schema.EnumType{}
			t.Name = d.Name.Text
			t.QualifiedName = qualify(ns, d.Name.Text)
			t.Module = fs.module
			t.Namespace = nsOrNil(ns)
			t.Span = d.Span
			ns.Types = append(ns.Types, t)
			fs.module.AddType(t)
			fs.shells[d] = t

		case *syntax.DeclAlias:
			t := &schema.AliasType{}
			t.Name = d.Name.Text
			t.QualifiedName = qualify(ns, d.Name.Text)
			t.Module = fs.module
			t.Namespace = nsOrNil(ns)
			t.Span = d.Span
			ns.Types = append(ns.Types, t)
			fs.module.AddType(t)
			fs.shells[d] = t
		}
	}
}

// nsOrNil returns ns unless it is the module's root namespace, per the
// "nil when declared directly at module scope" convention on Type and
// Constant.
func nsOrNil(ns *schema.Namespace) *schema.Namespace {
	if ns == nil || ns == ns.Module.Root {
		return nil
	}
	return ns
}

// defineDecls is the second pass: it fills in the body of every shell
// created by declareDecls, resolving types, defaults, and annotations now
// that every sibling name is registered.
func (c *Compiler) defineDecls(fs *fileState, decls []syntax.Declaration, ns *schema.Namespace) {
	for _, d := range decls {
		switch d := d.(type) {
		case *syntax.DeclNamespace:
			child := ns.Child(d.Name.Text)
			fs.pushNamespace(child)
			c.defineDecls(fs, d.Decls, child)
			fs.popNamespace()

		case *syntax.DeclStruct:
			if d.Opaque {
				c.defineOpaque(fs, fs.shells[d].(*schema.OpaqueType), d.Annotations, d.CustomTag, ns)
				continue
			}
			c.defineAggregate(fs, fs.shells[d].(*schema.StructType), d.Base, d.Fields, d.Annotations, d.CustomTag, ns)

		case *syntax.DeclUnion:
			c.defineAggregate(fs, fs.shells[d].(*schema.UnionType), nil, d.Fields, d.Annotations, d.CustomTag, ns)

		case *syntax.DeclAttribute:
			c.defineAttribute(fs, fs.shells[d].(*schema.AttributeType), d)

		case *syntax.DeclEnum:
			c.defineEnum(fs, fs.shells[d].(*schema.EnumType), d, ns)

		case *syntax.DeclAlias:
			c.defineAlias(fs, fs.shells[d].(*schema.AliasType), d, ns)

		case *syntax.DeclConstant:
			c.defineConstant(fs, d, ns)
		}
	}
}

func (c *Compiler) defineAggregate(fs *fileState, t schema.Type, baseRef syntax.TypeRef, fields []syntax.Field, rawAnnos []syntax.Annotation, customTag string, ns *schema.Namespace) {
	fs.typeScope = t

	switch t := t.(type) {
	case *schema.StructType:
		if baseRef != nil {
			if b, ok := c.resolveTypeRef(fs, baseRef); ok {
				t.Base = b
			}
		}
		for _, f := range fields {
			t.Fields = append(t.Fields, c.defineField(fs, f))
		}
	case *schema.UnionType:
		for _, f := range fields {
			t.Fields = append(t.Fields, c.defineField(fs, f))
		}
	}

	annos := c.bindAnnotations(fs, rawAnnos, ns)
	annos = c.appendCustomTagAnnotation(annos, customTag)
	t.SetAnnotations(annos)

	fs.typeScope = nil
	c.makeAvailable(fs.module, t)
}

// defineOpaque binds an opaque struct's annotations; it has no base, fields,
// or type parameters to resolve.
func (c *Compiler) defineOpaque(fs *fileState, t *schema.OpaqueType, rawAnnos []syntax.Annotation, customTag string, ns *schema.Namespace) {
	annos := c.bindAnnotations(fs, rawAnnos, ns)
	annos = c.appendCustomTagAnnotation(annos, customTag)
	t.SetAnnotations(annos)
	c.makeAvailable(fs.module, t)
}

func (c *Compiler) defineAttribute(fs *fileState, t *schema.AttributeType, d *syntax.DeclAttribute) {
	fs.typeScope = t
	for _, f := range d.Fields {
		t.Fields = append(t.Fields, c.defineField(fs, f))
	}
	t.Opaque = d.Opaque
	fs.typeScope = nil
	c.makeAvailable(fs.module, t)
}

func (c *Compiler) defineField(fs *fileState, f syntax.Field) *schema.Field {
	ty, _ := c.resolveTypeRef(fs, f.Type)
	var def schema.Value
	if f.Default != nil {
		def = c.translateDefault(fs, ty, f.Default)
	}
	annos := c.bindAnnotations(fs, f.Annotations, fs.currentNamespace())
	return &schema.Field{Name: f.Name.Text, Span: f.Span, Type: ty, Default: def, Annotations: annos}
}

func (c *Compiler) defineEnum(fs *fileState, t *schema.EnumType, d *syntax.DeclEnum, ns *schema.Namespace) {
	if d.BaseType != nil {
		if bt, ok := c.resolveTypeRef(fs, d.BaseType); ok {
			t.BaseType = bt
		}
	} else {
		t.BaseType = c.corePrimitive("int")
	}

	fs.typeScope = t
	next := int64(0)
	for _, it := range d.Items {
		val := next
		if it.Value != nil {
			v := c.translateLiteral(fs, it.Value)
			if iv, ok := valueAsInt(v); ok {
				val = iv
			} else {
				c.log.Error(diag.CategorySemantic, it.Span, "enum item %q's value must be an integer", it.Name.Text)
			}
		}
		annos := c.bindAnnotations(fs, it.Annotations, ns)
		item := &schema.EnumItem{Name: it.Name.Text, Span: it.Span, Value: val, Parent: t, Annotations: annos}
		t.Items = append(t.Items, item)
		next = val + 1
	}

	annos := c.bindAnnotations(fs, d.Annotations, ns)
	annos = c.appendCustomTagAnnotation(annos, d.CustomTag)
	t.SetAnnotations(annos)
	fs.typeScope = nil
	c.makeAvailable(fs.module, t)
}

func (c *Compiler) defineAlias(fs *fileState, t *schema.AliasType, d *syntax.DeclAlias, ns *schema.Namespace) {
	if d.Target != nil {
		if rt, ok := c.resolveTypeRef(fs, d.Target); ok {
			t.RefType = rt
		}
	}
	annos := c.bindAnnotations(fs, d.Annotations, ns)
	annos = c.appendCustomTagAnnotation(annos, d.CustomTag)
	t.SetAnnotations(annos)
	c.makeAvailable(fs.module, t)
}

func (c *Compiler) defineConstant(fs *fileState, d *syntax.DeclConstant, ns *schema.Namespace) {
	ty, _ := c.resolveTypeRef(fs, d.Type)
	val := c.translateDefault(fs, ty, d.Value)
	annos := c.bindAnnotations(fs, d.Annotations, ns)
	annos = c.appendCustomTagAnnotation(annos, d.CustomTag)

	k := &schema.Constant{
		Name:          d.Name.Text,
		QualifiedName: qualify(ns, d.Name.Text),
		Namespace:     nsOrNil(ns),
		Module:        fs.module,
		Type:          ty,
		Value:         val,
		Annotations:   annos,
		Span:          d.Span,
	}
	ns.Constants = append(ns.Constants, k)
	fs.module.Constants = append(fs.module.Constants, k)
	c.makeAvailable(fs.module, ty)
}
