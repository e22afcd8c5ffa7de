package compiler

import "sapc.dev/sapc/internal/schema"

// makeAvailable adds t to m's observable type list if not already present,
// then recursively pulls in every type t depends on, per §4.3.5's visit
// order: annotations, refType, base type, fields (type + default value +
// annotations), specialized arguments, alias target, pointer target, array
// element. The AddType membership check is what makes this idempotent and
// terminating in the presence of import cycles.
func (c *Compiler) makeAvailable(m *schema.Module, t schema.Type) {
	if t == nil || !m.AddType(t) {
		return
	}

	for _, a := range t.TypeAnnotations() {
		c.makeAvailableAnnotation(m, a)
	}

	switch t := t.(type) {
	case *schema.StructType:
		c.makeAvailable(m, t.Base)
		for _, f := range t.Fields {
			c.makeAvailableField(m, f)
		}
	case *schema.UnionType:
		c.makeAvailable(m, t.Base)
		for _, f := range t.Fields {
			c.makeAvailableField(m, f)
		}
	case *schema.AttributeType:
		c.makeAvailable(m, t.Base)
		for _, f := range t.Fields {
			c.makeAvailableField(m, f)
		}
	case *schema.EnumType:
		c.makeAvailable(m, t.BaseType)
		for _, item := range t.Items {
			for _, a := range item.Annotations {
				c.makeAvailableAnnotation(m, a)
			}
		}
	case *schema.AliasType:
		c.makeAvailable(m, t.RefType)
	case *schema.PointerType:
		c.makeAvailable(m, t.RefType)
	case *schema.ArrayType:
		c.makeAvailable(m, t.RefType)
	case *schema.SpecializedType:
		c.makeAvailable(m, t.RefType)
		for _, arg := range t.TypeArgs {
			c.makeAvailable(m, arg)
		}
	}
}

func (c *Compiler) makeAvailableField(m *schema.Module, f *schema.Field) {
	c.makeAvailable(m, f.Type)
	if f.Default != nil {
		c.makeAvailableValue(m, f.Default)
	}
	for _, a := range f.Annotations {
		c.makeAvailableAnnotation(m, a)
	}
}

func (c *Compiler) makeAvailableAnnotation(m *schema.Module, a *schema.Annotation) {
	c.makeAvailable(m, a.Attribute)
	for _, arg := range a.Args {
		c.makeAvailableValue(m, arg)
	}
}

func (c *Compiler) makeAvailableValue(m *schema.Module, v schema.Value) {
	switch v := v.(type) {
	case *schema.ValueTypeRef:
		c.makeAvailable(m, v.Type)
	case *schema.ValueEnumItem:
		c.makeAvailable(m, v.Item.Parent)
	case *schema.ValueList:
		for _, item := range v.Items {
			c.makeAvailableValue(m, item)
		}
	}
}
