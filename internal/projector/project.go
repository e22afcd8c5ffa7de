// Package projector turns a compiled schema.Module into the deterministic
// JSON document described by §4.5: one object with a fixed key order, built
// as an ordered, field-tagged struct tree so key order is a property of the
// type rather than of map iteration, then marshaled once with encoding/json.
package projector

import (
	"encoding/json"

	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
)

// SchemaURL is the fixed "$schema" value written into every document.
const SchemaURL = "https://sapc.dev/schema/v1"

// Document is the top-level projected JSON object.
type Document struct {
	Schema      string          `json:"$schema"`
	Module      moduleObject    `json:"module"`
	Types       []typeObject    `json:"types"`
	Constants   []constantObject `json:"constants"`
	Namespaces  []namespaceObject `json:"namespaces"`
}

type moduleObject struct {
	Name        string             `json:"name"`
	SourcePath  string             `json:"sourcePath,omitempty"`
	Annotations []annotationObject `json:"annotations"`
	Imports     []string           `json:"imports"`
}

type namespaceObject struct {
	Name       string            `json:"name"`
	Qualified  string            `json:"qualified"`
	Namespaces []namespaceObject `json:"namespaces,omitempty"`
}

type locationObject struct {
	Filename  string `json:"filename"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	LineEnd   int    `json:"lineEnd,omitempty"`
	ColumnEnd int    `json:"columnEnd,omitempty"`
}

type annotationObject struct {
	Name string          `json:"name"`
	Args []json.RawMessage `json:"args"`
}

type fieldObject struct {
	Name        string            `json:"name"`
	Location    locationObject    `json:"location"`
	Type        string            `json:"type"`
	Default     json.RawMessage   `json:"default,omitempty"`
	Annotations []annotationObject `json:"annotations"`
}

type enumItemObject struct {
	Name        string            `json:"name"`
	Location    locationObject    `json:"location"`
	Value       int64             `json:"value"`
	Annotations []annotationObject `json:"annotations"`
}

// typeObject is the union of every kind's JSON shape; fields irrelevant to a
// given kind are omitted via omitempty/omitzero-style nil checks.
type typeObject struct {
	Name        string            `json:"name"`
	Qualified   string            `json:"qualified"`
	Module      string            `json:"module"`
	Namespace   string            `json:"namespace,omitempty"`
	Kind        string            `json:"kind"`
	Location    locationObject    `json:"location"`
	Annotations []annotationObject `json:"annotations"`

	Base       string   `json:"base,omitempty"`
	TypeParams []string `json:"typeParams,omitempty"`
	Fields     []fieldObject `json:"fields,omitempty"`

	Items []enumItemObject `json:"items,omitempty"`

	RefType  string   `json:"refType,omitempty"`
	TypeArgs []string `json:"typeArgs,omitempty"`
}

type constantObject struct {
	Name        string            `json:"name"`
	Qualified   string            `json:"qualified"`
	Location    locationObject    `json:"location"`
	Type        string            `json:"type"`
	Value       json.RawMessage   `json:"value"`
	Annotations []annotationObject `json:"annotations"`
}

// Project builds the full Document for m.
func Project(m *schema.Module) *Document {
	doc := &Document{
		Schema: SchemaURL,
		Module: moduleObject{
			Name:        m.Name,
			SourcePath:  m.SourcePath,
			Annotations: projectAnnotations(m.Annotations),
			Imports:     importNames(m.Imports),
		},
	}
	for _, t := range m.Types {
		doc.Types = append(doc.Types, projectType(t))
	}
	for _, k := range m.Constants {
		doc.Constants = append(doc.Constants, projectConstant(k))
	}
	for _, ns := range m.Root.Namespaces {
		doc.Namespaces = append(doc.Namespaces, projectNamespace(ns))
	}
	return doc
}

// Marshal serializes doc with two-space indentation for readable output.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func importNames(imports []*schema.Module) []string {
	names := make([]string, len(imports))
	for i, imp := range imports {
		names[i] = imp.Name
	}
	return names
}

func projectNamespace(ns *schema.Namespace) namespaceObject {
	out := namespaceObject{Name: ns.Name, Qualified: ns.QualifiedName}
	for _, child := range ns.Namespaces {
		out.Namespaces = append(out.Namespaces, projectNamespace(child))
	}
	return out
}

func projectLocation(span diag.Span) locationObject {
	loc := locationObject{Filename: span.Filename}
	if span.Start.Line > 0 {
		loc.Line = span.Start.Line
	}
	if span.Start.Column > 0 {
		loc.Column = span.Start.Column
	}
	if span.End.Line > 0 && span.End.Line != span.Start.Line {
		loc.LineEnd = span.End.Line
	}
	if span.End.Line >= span.Start.Line && span.End.Column != span.Start.Column {
		loc.ColumnEnd = span.End.Column
	}
	return loc
}

func projectAnnotations(annos []*schema.Annotation) []annotationObject {
	out := make([]annotationObject, 0, len(annos))
	for _, a := range annos {
		args := make([]json.RawMessage, len(a.Args))
		for i, v := range a.Args {
			args[i] = projectValue(v)
		}
		out = append(out, annotationObject{Name: a.Attribute.TypeQualifiedName(), Args: args})
	}
	return out
}

// projectValue renders a Value as raw JSON: primitives marshal directly,
// typename/enum references as a small tagged object, per §4.5.
func projectValue(v schema.Value) json.RawMessage {
	switch v := v.(type) {
	case *schema.ValueNull:
		return json.RawMessage("null")
	case *schema.ValueBool:
		return mustMarshal(v.Value)
	case *schema.ValueInt:
		return mustMarshal(v.Value)
	case *schema.ValueString:
		return mustMarshal(v.Value)
	case *schema.ValueTypeRef:
		return mustMarshal(struct {
			Kind string `json:"kind"`
			Type string `json:"type"`
		}{"typename", v.Type.TypeQualifiedName()})
	case *schema.ValueEnumItem:
		return mustMarshal(struct {
			Kind  string `json:"kind"`
			Type  string `json:"type"`
			Name  string `json:"name"`
			Value int64  `json:"value"`
		}{"enum", v.Item.Parent.TypeQualifiedName(), v.Item.Name, v.Item.Value})
	case *schema.ValueList:
		items := make([]json.RawMessage, len(v.Items))
		for i, item := range v.Items {
			items[i] = projectValue(item)
		}
		return mustMarshal(items)
	}
	return json.RawMessage("null")
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func projectField(f *schema.Field) fieldObject {
	out := fieldObject{
		Name:        f.Name,
		Location:    projectLocation(f.Span),
		Type:        typeRefString(f.Type),
		Annotations: projectAnnotations(f.Annotations),
	}
	if f.Default != nil {
		out.Default = projectValue(f.Default)
	}
	return out
}

func typeRefString(t schema.Type) string {
	if t == nil {
		return ""
	}
	return t.TypeQualifiedName()
}

func typeParamNames(params []*schema.GenericType) []string {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func projectType(t schema.Type) typeObject {
	out := typeObject{
		Name:        t.TypeName(),
		Qualified:   t.TypeQualifiedName(),
		Module:      moduleName(t.TypeModule()),
		Kind:        t.TypeKind().String(),
		Location:    projectLocation(t.TypeSpan()),
		Annotations: projectAnnotations(t.TypeAnnotations()),
	}
	if ns := t.TypeNamespace(); ns != nil {
		out.Namespace = ns.QualifiedName
	}

	switch t := t.(type) {
	case *schema.StructType:
		out.Base = typeRefString(t.Base)
		out.TypeParams = typeParamNames(t.TypeParams)
		for _, f := range t.Fields {
			out.Fields = append(out.Fields, projectField(f))
		}
	case *schema.UnionType:
		out.TypeParams = typeParamNames(t.TypeParams)
		for _, f := range t.Fields {
			out.Fields = append(out.Fields, projectField(f))
		}
	case *schema.AttributeType:
		out.Base = typeRefString(t.Base)
		out.TypeParams = typeParamNames(t.TypeParams)
		for _, f := range t.Fields {
			out.Fields = append(out.Fields, projectField(f))
		}
	case *schema.EnumType:
		out.Base = typeRefString(t.BaseType)
		for _, item := range t.Items {
			out.Items = append(out.Items, enumItemObject{
				Name:        item.Name,
				Location:    projectLocation(item.Span),
				Value:       item.Value,
				Annotations: projectAnnotations(item.Annotations),
			})
		}
	case *schema.AliasType:
		out.RefType = typeRefString(t.RefType)
	case *schema.PointerType:
		out.RefType = typeRefString(t.RefType)
	case *schema.ArrayType:
		out.RefType = typeRefString(t.RefType)
	case *schema.SpecializedType:
		out.RefType = typeRefString(t.RefType)
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = typeRefString(a)
		}
		out.TypeArgs = args
	}
	return out
}

func moduleName(m *schema.Module) string {
	if m == nil {
		return ""
	}
	return m.Name
}

func projectConstant(k *schema.Constant) constantObject {
	return constantObject{
		Name:        k.Name,
		Qualified:   k.QualifiedName,
		Location:    projectLocation(k.Span),
		Type:        typeRefString(k.Type),
		Value:       projectValue(k.Value),
		Annotations: projectAnnotations(k.Annotations),
	}
}
