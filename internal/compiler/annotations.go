package compiler

import (
	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/syntax"
)

// bindAnnotations resolves and binds each parsed Annotation against its
// Attribute type, per §4.3.6. ns provides the scope the annotation names
// are resolved in (the namespace owning the annotated declaration).
func (c *Compiler) bindAnnotations(fs *fileState, annos []syntax.Annotation, ns *schema.Namespace) []*schema.Annotation {
	if len(annos) == 0 {
		return nil
	}
	out := make([]*schema.Annotation, 0, len(annos))
	for _, a := range annos {
		bound := c.bindAnnotation(fs, a)
		if bound != nil {
			out = append(out, bound)
		}
	}
	return out
}

func (c *Compiler) bindAnnotation(fs *fileState, a syntax.Annotation) *schema.Annotation {
	r := c.resolveQualifiedId(fs, a.Name)
	attr, ok := r.Type.(*schema.AttributeType)
	if r.Kind != schema.ResolveType || !ok {
		c.log.Error(diag.CategoryResolution, a.Span, "%q does not name an attribute", a.Name.String())
		c.reportAnnotationTarget(r, a.Name)
		return nil
	}

	args := make([]schema.Value, len(a.Args))
	for i, lit := range a.Args {
		var argType schema.Type
		if i < len(attr.Fields) {
			argType = attr.Fields[i].Type
		}
		args[i] = c.translateDefault(fs, argType, lit)
	}

	if len(args) > len(attr.Fields) {
		c.log.Error(diag.CategoryBinding, a.Span, "too many arguments to %q: expected %d, got %d", attr.Name, len(attr.Fields), len(args))
		return &schema.Annotation{Attribute: attr, Args: args[:len(attr.Fields)], Span: a.Span}
	}

	for i := len(args); i < len(attr.Fields); i++ {
		field := attr.Fields[i]
		if field.Default == nil {
			c.log.Error(diag.CategoryBinding, a.Span, "missing argument %q to %q (no default)", field.Name, attr.Name)
			args = append(args, &schema.ValueNull{Span: a.Span})
			continue
		}
		args = append(args, respan(field.Default, a.Span))
	}

	return &schema.Annotation{Attribute: attr, Args: args, Span: a.Span}
}

func (c *Compiler) reportAnnotationTarget(r schema.ResolveResult, name syntax.QualifiedId) {
	switch r.Kind {
	case schema.ResolveType:
		c.log.Info(diag.CategoryResolution, r.Type.TypeSpan(), "%q declared here", name.String())
	case schema.ResolveConstant:
		c.log.Info(diag.CategoryResolution, r.Constant.Span, "%q declared here", name.String())
	case schema.ResolveNamespace:
		c.log.Info(diag.CategoryResolution, diag.Span{}, "%q is a namespace", name.String())
	}
}
