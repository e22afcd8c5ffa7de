package compiler

import "sapc.dev/sapc/internal/schema"

// initCore builds the synthetic $sapc module once per Compiler: the five
// primitive types, the $sapc.typeid type backing the reflective `typename`
// marker, and the built-in $sapc.customtag attribute, per §4.3.1.
func (c *Compiler) initCore() {
	m := c.ctx.NewModule("$sapc", "$sapc")
	c.core = m

	for _, name := range []string{"string", "bool", "byte", "int", "float"} {
		t := &schema.PrimitiveType{}
		t.Name = name
		t.QualifiedName = name
		t.Module = m
		m.Root.Types = append(m.Root.Types, t)
		m.AddType(t)
	}

	typeId := &schema.TypeIdType{}
	typeId.Name = "typeid"
	typeId.QualifiedName = "typeid"
	typeId.Module = m
	m.Root.Types = append(m.Root.Types, typeId)
	m.AddType(typeId)
	c.coreTypeId = typeId

	customTag := &schema.AttributeType{}
	customTag.Name = "customtag"
	customTag.QualifiedName = "customtag"
	customTag.Module = m
	customTag.Fields = []*schema.Field{
		{Name: "value", Type: c.corePrimitive("string")},
	}
	m.Root.Types = append(m.Root.Types, customTag)
	m.AddType(customTag)
	c.coreCustomTag = customTag
}

// corePrimitive returns one of the five core primitive types by name.
func (c *Compiler) corePrimitive(name string) schema.Type {
	return c.core.Root.TypeNamed(name)
}
