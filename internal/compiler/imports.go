package compiler

import (
	"path/filepath"

	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/syntax"
)

// resolveImportPath runs the external file resolver against name+".sap",
// per §6's resolve(target, base_dir, search_paths) contract.
func (c *Compiler) resolveImportPath(name, baseDir string) (string, bool) {
	if c.resolver == nil {
		return "", false
	}
	return c.resolver.Resolve(name+".sap", baseDir, c.search)
}

// harvestImportTags is the callback the parser invokes immediately upon
// seeing `import NAME;`, so that a later custom-tag use in the same file
// can be recognized (§4.2.1). It recursively compiles the imported module
// if necessary and returns every custom tag registered while parsing it.
func (c *Compiler) harvestImportTags(name, baseDir string, span diag.Span) map[string]syntax.TokenKind {
	path, ok := c.resolveImportPath(name, baseDir)
	if !ok {
		return nil
	}
	return c.compileForTags(path, span)
}

// compileForTags parses (and, if not already in flight, fully compiles) the
// module at path, returning its harvested custom tags. Results are cached
// alongside the module compilation itself via tagsByPath.
func (c *Compiler) compileForTags(path string, span diag.Span) map[string]syntax.TokenKind {
	if tags, ok := c.tagsByPath[path]; ok {
		return tags
	}
	if c.tagsByPath == nil {
		c.tagsByPath = make(map[string]map[string]syntax.TokenKind)
	}
	// Mark in progress with a nil map so a cyclic import harvesting tags
	// from this same path doesn't recurse forever; it simply sees no tags
	// yet, matching the partially-populated-during-cycles semantics of
	// §4.3.2.
	c.tagsByPath[path] = nil

	src, ok := c.readSource(path)
	if !ok {
		return nil
	}
	baseDir := filepath.Dir(path)
	unit, plog := syntax.Parse(path, src, syntax.ParseOptions{
		ResolveImportTags: func(name string, importSpan diag.Span) map[string]syntax.TokenKind {
			p, ok := c.resolveImportPath(name, baseDir)
			if !ok {
				return nil
			}
			return c.compileForTags(p, importSpan)
		},
	})
	tags := collectTags(unit)
	c.tagsByPath[path] = tags
	_ = plog // diagnostics from this speculative parse surface again when compilePath parses the same file for real
	return tags
}

func collectTags(unit *syntax.ModuleUnit) map[string]syntax.TokenKind {
	tags := make(map[string]syntax.TokenKind)
	var walk func([]syntax.Declaration)
	walk = func(decls []syntax.Declaration) {
		for _, d := range decls {
			switch d := d.(type) {
			case *syntax.DeclCustomTagDecl:
				tags[d.Tag.Text] = d.Keyword
			case *syntax.DeclNamespace:
				walk(d.Decls)
			}
		}
	}
	walk(unit.Decls)
	return tags
}

// compileImports walks unit's DeclImport nodes, resolving and compiling
// each one (if not already compiled) and recording it on the module, in
// source order, per §4.3.2.
func (c *Compiler) compileImports(fs *fileState, unit *syntax.ModuleUnit, baseDir string) {
	for _, d := range unit.Decls {
		imp, ok := d.(*syntax.DeclImport)
		if !ok {
			continue
		}
		path, found := c.resolveImportPath(imp.Name.Text, baseDir)
		if !found {
			c.log.Error(diag.CategoryResolution, imp.Span, "import %q not found in search path", imp.Name.Text)
			continue
		}
		dep := c.compilePath(path, imp.Span)
		if dep == nil {
			continue
		}
		fs.module.Imports = append(fs.module.Imports, dep)
	}
}

