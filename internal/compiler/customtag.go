package compiler

import "sapc.dev/sapc/internal/schema"

// appendCustomTagAnnotation implements §4.3.7's final step: a type
// introduced through a custom tag gets a synthetic $sapc.customtag("tag
// name") annotation appended after its own bound annotations. (The `use`
// line's own annotations were already cloned onto the declaration by the
// parser, so bindAnnotations has already produced them as ordinary
// annotations by the time this runs.)
func (c *Compiler) appendCustomTagAnnotation(annos []*schema.Annotation, tag string) []*schema.Annotation {
	if tag == "" {
		return annos
	}
	return append(annos, &schema.Annotation{
		Attribute: c.coreCustomTag,
		Args:      []schema.Value{&schema.ValueString{Value: tag}},
	})
}
