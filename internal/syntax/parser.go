package syntax

import (
	"strconv"

	"sapc.dev/sapc/internal/diag"
)

type scopeKind int

const (
	scopeModule scopeKind = iota
	scopeNamespace
)

// customTagInfo records what a `use NAME : KEYWORD;` registration means:
// which of the five keyword kinds NAME stands for, and the annotations
// carried on the `use` line that must be cloned onto every declaration
// introduced through NAME.
type customTagInfo struct {
	Keyword     TokenKind
	Annotations []Annotation
}

// ParseOptions configures a single parse, primarily to supply the
// cross-module custom-tag harvesting callback required by §4.2.1: when the
// parser encounters `import NAME;`, it must resolve NAME's compiled custom
// tags before continuing, since a later line in this file may invoke one of
// them.
type ParseOptions struct {
	// ResolveImportTags is invoked immediately when `import NAME;` is
	// parsed. It should (recursively, if necessary) parse and compile the
	// named module and return every custom tag visible from it. A nil
	// return (or a nil ResolveImportTags) means no tags are harvested; the
	// compiler phase will raise the real "import not found" diagnostic
	// later, so the parser does not need to report one here.
	ResolveImportTags func(moduleName string, span diag.Span) map[string]TokenKind
}

// Parse parses a single source file into a ModuleUnit, along with every
// diagnostic raised while doing so.
func Parse(filename string, src []byte, opts ParseOptions) (*ModuleUnit, *diag.Log) {
	p := &parser{
		lx:         NewLexer(filename, src),
		filename:   filename,
		log:        &diag.Log{},
		customTags: make(map[string]customTagInfo),
		opts:       opts,
	}
	p.advance()
	unit := p.parseUnit()
	return unit, p.log
}

type parser struct {
	lx         *Lexer
	filename   string
	tok        Token
	log        *diag.Log
	customTags map[string]customTagInfo
	opts       ParseOptions
}

func (p *parser) advance() {
	tok, d := p.lx.Next()
	for d != nil {
		p.log.Add(d)
		if tok.Kind != T_UNKNOWN {
			break
		}
		tok, d = p.lx.Next()
	}
	p.tok = tok
}

func (p *parser) errf(span diag.Span, format string, args ...any) {
	p.log.Error(diag.CategorySyntactic, span, format, args...)
}

func (p *parser) expect(kind TokenKind) (Token, bool) {
	if p.tok.Kind != kind {
		p.errf(p.tok.Span, "expected %s, got %s", kind, p.tok.Kind)
		return Token{}, false
	}
	tok := p.tok
	p.advance()
	return tok, true
}

func (p *parser) expectIdent() (Identifier, bool) {
	tok, ok := p.expect(T_IDENT)
	if !ok {
		return Identifier{}, false
	}
	return Identifier{Text: tok.Text, Span: tok.Span}, true
}

// skipToRecoveryPoint discards tokens after a syntax error until a plausible
// declaration boundary, so one bad declaration doesn't cascade into
// unrelated diagnostics for the rest of the file.
func (p *parser) skipToRecoveryPoint() {
	depth := 0
	for {
		switch p.tok.Kind {
		case T_EOF:
			return
		case T_LBRACE:
			depth++
		case T_RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case T_SEMI:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parser) parseUnit() *ModuleUnit {
	unit := &ModuleUnit{Filename: p.filename}
	unit.Decls = p.parseDecls(scopeModule, unit)
	return unit
}

func (p *parser) parseDecls(scope scopeKind, unit *ModuleUnit) []Declaration {
	var decls []Declaration
	for {
		if scope == scopeNamespace && p.tok.Kind == T_RBRACE {
			return decls
		}
		if scope == scopeModule && p.tok.Kind == T_EOF {
			return decls
		}

		annos := p.parseLeadingAnnotations()

		switch p.tok.Kind {
		case T_MODULE:
			decl := p.parseModuleDecl(annos)
			if scope != scopeModule {
				p.errf(decl.Span, "'module' is not allowed inside a namespace")
				continue
			}
			if unit.ModuleName != nil {
				p.errf(decl.Span, "duplicate 'module' declaration")
				continue
			}
			name := decl.Name
			unit.ModuleName = &name
			unit.ModuleAnnos = decl.Annotations
		case T_IMPORT:
			decl := p.parseImportDecl()
			if scope != scopeModule {
				p.errf(decl.Span, "'import' is not allowed inside a namespace")
				continue
			}
			decls = append(decls, decl)
		case T_ATTRIBUTE:
			if len(annos) != 0 {
				p.errf(p.tok.Span, "'attribute' declarations cannot be annotated")
			}
			decl := p.parseAttributeDecl()
			if scope != scopeModule {
				p.errf(decl.Span, "'attribute' is not allowed inside a namespace")
				continue
			}
			decls = append(decls, decl)
		case T_NAMESPACE:
			decls = append(decls, p.parseNamespaceDecl(annos))
		case T_CONST:
			decls = append(decls, p.parseConstDecl(annos, ""))
		case T_STRUCT:
			decls = append(decls, p.parseStructDecl(annos, ""))
		case T_UNION:
			decls = append(decls, p.parseUnionDecl(annos, ""))
		case T_USING:
			decls = append(decls, p.parseAliasDecl(annos, ""))
		case T_ENUM:
			decls = append(decls, p.parseEnumDecl(annos, ""))
		case T_USE:
			decl := p.parseUseRegistration(annos)
			if scope != scopeModule {
				if decl != nil {
					p.errf(decl.Span, "'use' is not allowed inside a namespace")
				}
				continue
			}
		case T_IDENT:
			if info, ok := p.customTags[p.tok.Text]; ok {
				decls = append(decls, p.parseCustomTaggedDecl(info, annos))
			} else {
				p.errf(p.tok.Span, "unexpected identifier %q: not a declaration keyword or registered custom tag", p.tok.Text)
				p.skipToRecoveryPoint()
			}
		default:
			p.errf(p.tok.Span, "expected a declaration, got %s", p.tok.Kind)
			p.skipToRecoveryPoint()
		}
	}
}

func (p *parser) parseLeadingAnnotations() []Annotation {
	var out []Annotation
	for p.tok.Kind == T_LBRACKET {
		out = append(out, p.parseAnnotationGroup()...)
	}
	return out
}

func (p *parser) parseAnnotationGroup() []Annotation {
	var out []Annotation
	p.advance() // '['
	for {
		out = append(out, p.parseAnnotation())
		if p.tok.Kind == T_COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(T_RBRACKET)
	return out
}

func (p *parser) parseAnnotation() Annotation {
	start := p.tok.Span
	name := p.parseQualifiedId()
	var args []Literal
	if p.tok.Kind == T_LPAREN {
		p.advance()
		if p.tok.Kind != T_RPAREN {
			for {
				args = append(args, p.parseLiteral())
				if p.tok.Kind == T_COMMA {
					p.advance()
					continue
				}
				break
			}
		}
		p.expect(T_RPAREN)
	}
	return Annotation{Name: name, Args: args, Span: spanFrom(start, p.prevEndSpan())}
}

// prevEndSpan returns a span ending at the position just consumed; used to
// compute a declaration's full extent after its last consumed token.
func (p *parser) prevEndSpan() diag.Span {
	return p.tok.Span
}

func spanFrom(start, end diag.Span) diag.Span {
	return diag.Span{Filename: start.Filename, Start: start.Start, End: end.End}
}

func (p *parser) parseQualifiedId() QualifiedId {
	var q QualifiedId
	if id, ok := p.expectIdent(); ok {
		q.Parts = append(q.Parts, id)
	} else {
		return q
	}
	for p.tok.Kind == T_DOT {
		p.advance()
		if id, ok := p.expectIdent(); ok {
			q.Parts = append(q.Parts, id)
		} else {
			break
		}
	}
	return q
}

func (p *parser) parseModuleDecl(annos []Annotation) *DeclModule {
	start := p.tok.Span
	p.advance() // 'module'
	name, _ := p.expectIdent()
	p.expect(T_SEMI)
	return &DeclModule{Name: name, Annotations: annos, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseImportDecl() *DeclImport {
	start := p.tok.Span
	p.advance() // 'import'
	name, _ := p.expectIdent()
	p.expect(T_SEMI)
	decl := &DeclImport{Name: name, Span: spanFrom(start, p.prevEndSpan())}
	if p.opts.ResolveImportTags != nil {
		if tags := p.opts.ResolveImportTags(name.Text, decl.Span); tags != nil {
			for tagName, kind := range tags {
				if _, exists := p.customTags[tagName]; !exists {
					p.customTags[tagName] = customTagInfo{Keyword: kind}
				}
			}
		}
	}
	return decl
}

func (p *parser) parseNamespaceDecl(annos []Annotation) *DeclNamespace {
	start := p.tok.Span
	p.advance() // 'namespace'
	name, _ := p.expectIdent()
	p.expect(T_LBRACE)
	var unit ModuleUnit
	decls := p.parseDecls(scopeNamespace, &unit)
	p.expect(T_RBRACE)
	return &DeclNamespace{Name: name, Decls: decls, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseAttributeDecl() *DeclAttribute {
	start := p.tok.Span
	p.advance() // 'attribute'
	name, _ := p.expectIdent()
	if p.tok.Kind == T_SEMI {
		p.advance()
		return &DeclAttribute{Name: name, Opaque: true, Span: spanFrom(start, p.prevEndSpan())}
	}
	p.expect(T_LBRACE)
	var fields []Field
	for p.tok.Kind != T_RBRACE && p.tok.Kind != T_EOF {
		fields = append(fields, p.parseField())
	}
	p.expect(T_RBRACE)
	return &DeclAttribute{Name: name, Fields: fields, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseTypeParams() []Identifier {
	if p.tok.Kind != T_LANGLE {
		return nil
	}
	p.advance()
	var params []Identifier
	for {
		if id, ok := p.expectIdent(); ok {
			params = append(params, id)
		}
		if p.tok.Kind == T_COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(T_RANGLE)
	return params
}

func (p *parser) parseStructDecl(annos []Annotation, customTag string) *DeclStruct {
	start := p.tok.Span
	p.advance() // 'struct'
	name, _ := p.expectIdent()
	typeParams := p.parseTypeParams()
	var base TypeRef
	if p.tok.Kind == T_COLON {
		p.advance()
		base = p.parseType()
	}
	decl := &DeclStruct{
		Name:        name,
		TypeParams:  typeParams,
		Base:        base,
		Annotations: annos,
		CustomTag:   customTag,
	}
	if p.tok.Kind == T_SEMI {
		p.advance()
		decl.Opaque = true
	} else {
		p.expect(T_LBRACE)
		for p.tok.Kind != T_RBRACE && p.tok.Kind != T_EOF {
			decl.Fields = append(decl.Fields, p.parseField())
		}
		p.expect(T_RBRACE)
	}
	decl.Span = spanFrom(start, p.prevEndSpan())
	return decl
}

func (p *parser) parseUnionDecl(annos []Annotation, customTag string) *DeclUnion {
	start := p.tok.Span
	p.advance() // 'union'
	name, _ := p.expectIdent()
	typeParams := p.parseTypeParams()
	decl := &DeclUnion{Name: name, TypeParams: typeParams, Annotations: annos, CustomTag: customTag}
	p.expect(T_LBRACE)
	for p.tok.Kind != T_RBRACE && p.tok.Kind != T_EOF {
		decl.Fields = append(decl.Fields, p.parseField())
	}
	p.expect(T_RBRACE)
	decl.Span = spanFrom(start, p.prevEndSpan())
	return decl
}

func (p *parser) parseAliasDecl(annos []Annotation, customTag string) *DeclAlias {
	start := p.tok.Span
	p.advance() // 'using'
	name, _ := p.expectIdent()
	var target TypeRef
	if p.tok.Kind == T_EQUALS {
		p.advance()
		target = p.parseType()
	}
	p.expect(T_SEMI)
	return &DeclAlias{Name: name, Target: target, Annotations: annos, CustomTag: customTag, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseConstDecl(annos []Annotation, customTag string) *DeclConstant {
	start := p.tok.Span
	p.advance() // 'const'
	ty := p.parseType()
	name, _ := p.expectIdent()
	p.expect(T_EQUALS)
	value := p.parseLiteral()
	p.expect(T_SEMI)
	return &DeclConstant{Name: name, Type: ty, Value: value, Annotations: annos, CustomTag: customTag, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseEnumDecl(annos []Annotation, customTag string) *DeclEnum {
	start := p.tok.Span
	p.advance() // 'enum'
	name, _ := p.expectIdent()
	var baseType TypeRef
	if p.tok.Kind == T_COLON {
		p.advance()
		baseType = p.parseType()
	}
	p.expect(T_LBRACE)
	var items []EnumItem
	for {
		if p.tok.Kind == T_RBRACE || p.tok.Kind == T_EOF {
			break
		}
		items = append(items, p.parseEnumItem())
		if p.tok.Kind == T_COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(T_RBRACE)
	return &DeclEnum{Name: name, BaseType: baseType, Items: items, Annotations: annos, CustomTag: customTag, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseEnumItem() EnumItem {
	annos := p.parseLeadingAnnotations()
	start := p.tok.Span
	name, _ := p.expectIdent()
	var value Literal
	if p.tok.Kind == T_EQUALS {
		p.advance()
		value = p.parseLiteral()
	}
	return EnumItem{Name: name, Value: value, Annotations: annos, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseUseRegistration(annos []Annotation) *DeclCustomTagDecl {
	start := p.tok.Span
	p.advance() // 'use'
	name, ok := p.expectIdent()
	if !ok {
		p.skipToRecoveryPoint()
		return nil
	}
	p.expect(T_COLON)
	var kind TokenKind
	switch p.tok.Kind {
	case T_STRUCT, T_UNION, T_ENUM, T_USING, T_CONST:
		kind = p.tok.Kind
		p.advance()
	default:
		p.errf(p.tok.Span, "expected one of 'struct', 'union', 'enum', 'using', 'const', got %s", p.tok.Kind)
		p.skipToRecoveryPoint()
		return nil
	}
	p.expect(T_SEMI)
	if _, exists := p.customTags[name.Text]; exists {
		p.errf(name.Span, "custom tag %q is already registered", name.Text)
	} else {
		p.customTags[name.Text] = customTagInfo{Keyword: kind, Annotations: annos}
	}
	return &DeclCustomTagDecl{Tag: name, Keyword: kind, Annotations: annos, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseCustomTaggedDecl(info customTagInfo, useSiteAnnos []Annotation) Declaration {
	tagName := p.tok.Text
	p.advance() // consume the tag identifier in place of the keyword

	annos := make([]Annotation, 0, len(info.Annotations)+len(useSiteAnnos))
	annos = append(annos, info.Annotations...)
	annos = append(annos, useSiteAnnos...)

	switch info.Keyword {
	case T_STRUCT:
		return p.parseStructBody(annos, tagName)
	case T_UNION:
		return p.parseUnionBody(annos, tagName)
	case T_ENUM:
		return p.parseEnumBody(annos, tagName)
	case T_USING:
		return p.parseAliasBody(annos, tagName)
	case T_CONST:
		return p.parseConstBody(annos, tagName)
	default:
		panic("unreachable: invalid custom tag keyword kind")
	}
}

// The *Body variants parse a declaration's tail after its introducing
// keyword (or custom-tag identifier standing in for it) has already been
// consumed.
func (p *parser) parseStructBody(annos []Annotation, customTag string) *DeclStruct {
	start := p.tok.Span
	name, _ := p.expectIdent()
	typeParams := p.parseTypeParams()
	var base TypeRef
	if p.tok.Kind == T_COLON {
		p.advance()
		base = p.parseType()
	}
	decl := &DeclStruct{Name: name, TypeParams: typeParams, Base: base, Annotations: annos, CustomTag: customTag}
	if p.tok.Kind == T_SEMI {
		p.advance()
		decl.Opaque = true
	} else {
		p.expect(T_LBRACE)
		for p.tok.Kind != T_RBRACE && p.tok.Kind != T_EOF {
			decl.Fields = append(decl.Fields, p.parseField())
		}
		p.expect(T_RBRACE)
	}
	decl.Span = spanFrom(start, p.prevEndSpan())
	return decl
}

func (p *parser) parseUnionBody(annos []Annotation, customTag string) *DeclUnion {
	start := p.tok.Span
	name, _ := p.expectIdent()
	typeParams := p.parseTypeParams()
	decl := &DeclUnion{Name: name, TypeParams: typeParams, Annotations: annos, CustomTag: customTag}
	p.expect(T_LBRACE)
	for p.tok.Kind != T_RBRACE && p.tok.Kind != T_EOF {
		decl.Fields = append(decl.Fields, p.parseField())
	}
	p.expect(T_RBRACE)
	decl.Span = spanFrom(start, p.prevEndSpan())
	return decl
}

func (p *parser) parseEnumBody(annos []Annotation, customTag string) *DeclEnum {
	start := p.tok.Span
	name, _ := p.expectIdent()
	var baseType TypeRef
	if p.tok.Kind == T_COLON {
		p.advance()
		baseType = p.parseType()
	}
	p.expect(T_LBRACE)
	var items []EnumItem
	for {
		if p.tok.Kind == T_RBRACE || p.tok.Kind == T_EOF {
			break
		}
		items = append(items, p.parseEnumItem())
		if p.tok.Kind == T_COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(T_RBRACE)
	return &DeclEnum{Name: name, BaseType: baseType, Items: items, Annotations: annos, CustomTag: customTag, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseAliasBody(annos []Annotation, customTag string) *DeclAlias {
	start := p.tok.Span
	name, _ := p.expectIdent()
	var target TypeRef
	if p.tok.Kind == T_EQUALS {
		p.advance()
		target = p.parseType()
	}
	p.expect(T_SEMI)
	return &DeclAlias{Name: name, Target: target, Annotations: annos, CustomTag: customTag, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseConstBody(annos []Annotation, customTag string) *DeclConstant {
	start := p.tok.Span
	ty := p.parseType()
	name, _ := p.expectIdent()
	p.expect(T_EQUALS)
	value := p.parseLiteral()
	p.expect(T_SEMI)
	return &DeclConstant{Name: name, Type: ty, Value: value, Annotations: annos, CustomTag: customTag, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseField() Field {
	annos := p.parseLeadingAnnotations()
	start := p.tok.Span
	ty := p.parseType()
	name, _ := p.expectIdent()
	var def Literal
	if p.tok.Kind == T_EQUALS {
		p.advance()
		def = p.parseLiteral()
	}
	p.expect(T_SEMI)
	return Field{Name: name, Type: ty, Default: def, Annotations: annos, Span: spanFrom(start, p.prevEndSpan())}
}

func (p *parser) parseType() TypeRef {
	if p.tok.Kind == T_TYPENAME {
		span := p.tok.Span
		p.advance()
		return &TypeRefTypeName{Span: span}
	}

	start := p.tok.Span
	name := p.parseQualifiedId()
	var base TypeRef = &TypeRefName{Name: name, Span: spanFrom(start, p.prevEndSpan())}

	if p.tok.Kind == T_LANGLE {
		p.advance()
		var args []TypeRef
		for {
			args = append(args, p.parseType())
			if p.tok.Kind == T_COMMA {
				p.advance()
				continue
			}
			break
		}
		p.expect(T_RANGLE)
		base = &TypeRefGeneric{Base: base, Args: args, Span: spanFrom(start, p.prevEndSpan())}
	}

	if p.tok.Kind == T_STAR {
		p.advance()
		base = &TypeRefPointer{Elem: base, Span: spanFrom(start, p.prevEndSpan())}
	}

	if p.tok.Kind == T_LBRACKET {
		p.advance()
		hasSize := false
		var size uint64
		if p.tok.Kind == T_INT {
			hasSize = true
			size = p.parseUintLiteral()
		}
		p.expect(T_RBRACKET)
		base = &TypeRefArray{Elem: base, HasSize: hasSize, Size: size, Span: spanFrom(start, p.prevEndSpan())}
	}

	return base
}

func (p *parser) parseUintLiteral() uint64 {
	text := p.tok.Text
	p.advance()
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (p *parser) parseLiteral() Literal {
	switch p.tok.Kind {
	case T_NULL:
		span := p.tok.Span
		p.advance()
		return &LiteralNull{Span: span}
	case T_TRUE:
		span := p.tok.Span
		p.advance()
		return &LiteralBool{Value: true, Span: span}
	case T_FALSE:
		span := p.tok.Span
		p.advance()
		return &LiteralBool{Value: false, Span: span}
	case T_INT:
		text := p.tok.Text
		span := p.tok.Span
		p.advance()
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			p.errf(span, "integer literal %q out of range", text)
			v = 0
		}
		return &LiteralInt{Value: v, Span: span}
	case T_STRING:
		span := p.tok.Span
		text := p.tok.Text
		p.advance()
		return &LiteralString{Value: text, Span: span}
	case T_IDENT:
		name := p.parseQualifiedId()
		return &LiteralIdent{Name: name}
	case T_LBRACKET:
		start := p.tok.Span
		p.advance()
		var items []Literal
		if p.tok.Kind != T_RBRACKET {
			for {
				items = append(items, p.parseLiteral())
				if p.tok.Kind == T_COMMA {
					p.advance()
					continue
				}
				break
			}
		}
		p.expect(T_RBRACKET)
		return &LiteralList{Items: items, Span: spanFrom(start, p.prevEndSpan())}
	default:
		span := p.tok.Span
		p.errf(span, "expected a literal value, got %s", p.tok.Kind)
		p.advance()
		return &LiteralNull{Span: span}
	}
}
