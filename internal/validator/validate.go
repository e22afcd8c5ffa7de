// Package validator runs schema-level invariant checks over a compiled
// root module: the checks that depend on the whole linked type graph being
// in place, rather than on a single declaration in isolation.
package validator

import (
	"path/filepath"
	"strings"

	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
)

// Validate runs every built-in check against m, appending diagnostics to log.
// It assumes m compiled with no errors; callers should not call Validate
// otherwise.
func Validate(log *diag.Log, m *schema.Module) {
	checkModuleName(log, m)
	for _, t := range m.Types {
		checkFieldNames(log, t)
	}
	for _, t := range m.Types {
		checkAnnotationArity(log, t)
	}
	for _, k := range m.Constants {
		checkAnnotationArityOn(log, k.Annotations, "")
	}
}

// checkModuleName implements §4.4's name-matches-file-stem rule: empty is an
// error, a mismatch against the source file's stem is an info diagnostic
// (spec.md calls this a "warning"; sapc's two-severity model has no warning
// tier, so a non-fatal mismatch is recorded as info — see SPEC_FULL.md's
// Open Question decisions).
func checkModuleName(log *diag.Log, m *schema.Module) {
	if m.Name == "" {
		log.Error(diag.CategorySemantic, m.Span, "module name must not be empty")
		return
	}
	if m.SourcePath == "" {
		return
	}
	stem := strings.TrimSuffix(filepath.Base(m.SourcePath), filepath.Ext(m.SourcePath))
	if m.Name != stem {
		log.Info(diag.CategorySemantic, m.Span, "module name %q does not match source file stem %q", m.Name, stem)
	}
}

// checkFieldNames implements the duplicate-field-name check, error plus an
// info note pointing at the earlier occurrence.
func checkFieldNames(log *diag.Log, t schema.Type) {
	var fields []*schema.Field
	switch t := t.(type) {
	case *schema.StructType:
		fields = t.Fields
	case *schema.UnionType:
		fields = t.Fields
	case *schema.AttributeType:
		fields = t.Fields
	case *schema.EnumType:
		checkEnumItemNames(log, t)
		return
	default:
		return
	}

	seen := make(map[string]*schema.Field, len(fields))
	for _, f := range fields {
		if prev, ok := seen[f.Name]; ok {
			log.Error(diag.CategorySemantic, f.Span, "duplicate field %q in %q", f.Name, t.TypeQualifiedName())
			log.Info(diag.CategorySemantic, prev.Span, "%q first declared here", f.Name)
			continue
		}
		seen[f.Name] = f
	}
}

// checkEnumItemNames applies the same duplicate-name convention to enum
// items, per SPEC_FULL.md §9's "applied uniformly" supplement.
func checkEnumItemNames(log *diag.Log, t *schema.EnumType) {
	seen := make(map[string]*schema.EnumItem, len(t.Items))
	for _, item := range t.Items {
		if prev, ok := seen[item.Name]; ok {
			log.Error(diag.CategorySemantic, item.Span, "duplicate enum item %q in %q", item.Name, t.TypeQualifiedName())
			log.Info(diag.CategorySemantic, prev.Span, "%q first declared here", item.Name)
			continue
		}
		seen[item.Name] = item
	}
}

// checkAnnotationArity re-checks that every bound annotation's argument list
// matches its attribute's field count. The compiler already enforces this
// while binding (§4.3.6); this is a defense-in-depth pass over the final
// linked graph, per §4.4's "every annotation argument list length equals its
// attribute's field list length" as a standing invariant, not just a
// binding-time check.
func checkAnnotationArity(log *diag.Log, t schema.Type) {
	checkAnnotationArityOn(log, t.TypeAnnotations(), t.TypeQualifiedName())

	switch t := t.(type) {
	case *schema.StructType:
		for _, f := range t.Fields {
			checkAnnotationArityOn(log, f.Annotations, t.TypeQualifiedName()+"."+f.Name)
		}
	case *schema.UnionType:
		for _, f := range t.Fields {
			checkAnnotationArityOn(log, f.Annotations, t.TypeQualifiedName()+"."+f.Name)
		}
	case *schema.AttributeType:
		for _, f := range t.Fields {
			checkAnnotationArityOn(log, f.Annotations, t.TypeQualifiedName()+"."+f.Name)
		}
	case *schema.EnumType:
		for _, item := range t.Items {
			checkAnnotationArityOn(log, item.Annotations, t.TypeQualifiedName()+"."+item.Name)
		}
	}
}

func checkAnnotationArityOn(log *diag.Log, annos []*schema.Annotation, owner string) {
	for _, a := range annos {
		if len(a.Args) != len(a.Attribute.Fields) {
			log.Error(diag.CategorySemantic, a.Span, "annotation %q on %q has %d argument(s), attribute expects %d",
				a.Attribute.TypeQualifiedName(), owner, len(a.Args), len(a.Attribute.Fields))
		}
	}
}
