// Package compiler implements the sapc linker: it walks a parsed
// ModuleUnit, recursively compiles its imports, constructs and interns the
// schema, resolves every identifier, and binds annotations. This is the
// heart of the system (§4.3 of the design).
package compiler

import (
	"os"
	"path/filepath"

	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/schema"
	"sapc.dev/sapc/internal/syntax"
)

// Resolver maps a logical import target to an absolute source path,
// matching §6's file resolver contract. It is supplied by the driver
// (typically cmd/sapc); the compiler never touches the filesystem except to
// read the bytes at a path a Resolver has already produced.
type Resolver interface {
	Resolve(target, baseDir string, searchPaths []string) (string, bool)
}

// CompileOption configures a Compile invocation.
type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(o *CompileOptions) { f(o) }

// CompileOptions holds every knob a CompileOption can set.
type CompileOptions struct {
	resolver    Resolver
	searchPaths []string
}

// WithResolver supplies the file resolver used to locate imported modules.
func WithResolver(r Resolver) CompileOption {
	return compileOption(func(o *CompileOptions) { o.resolver = r })
}

// WithSearchPaths supplies the -I search path list, in order.
func WithSearchPaths(paths []string) CompileOption {
	return compileOption(func(o *CompileOptions) { o.searchPaths = append([]string(nil), paths...) })
}

// Result is everything a Compile call produces.
type Result struct {
	Module      *schema.Module
	Diagnostics *diag.Log
	// Dependencies lists every source path compiled, in the order each was
	// first compiled, suitable for a make-style dependency file.
	Dependencies []string
}

// Compile compiles the file at path (as given on the command line, i.e. not
// yet resolved against search paths) into a root Module.
func Compile(path string, opts ...CompileOption) Result {
	o := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(o)
	}
	c := &Compiler{
		ctx:      schema.NewContext(),
		log:      &diag.Log{},
		resolver: o.resolver,
		search:   o.searchPaths,
	}
	c.initCore()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	m := c.compilePath(abs, diag.Span{})
	return Result{
		Module:       m,
		Diagnostics:  c.log,
		Dependencies: c.deps,
	}
}

// Compiler is the per-invocation linker state: the schema arena, the
// diagnostics log, the resolver, and the set of paths already compiled (for
// cycle termination and dependency tracking).
type Compiler struct {
	ctx      *schema.Context
	log      *diag.Log
	resolver Resolver
	search   []string

	core          *schema.Module
	coreTypeId    *schema.TypeIdType
	coreCustomTag *schema.AttributeType

	deps       []string
	tagsByPath map[string]map[string]syntax.TokenKind
}

func (c *Compiler) readSource(path string) ([]byte, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		c.log.Error(diag.CategoryIO, diag.Span{Filename: path}, "cannot open source file %q: %v", path, err)
		return nil, false
	}
	return src, true
}

// compilePath parses and compiles the file at an already-resolved absolute
// path, short-circuiting if it has already been compiled (or is currently
// being compiled, for cyclic imports). importSpan is the location of the
// import that triggered this call, used only for diagnostics; it is zero
// for the root file.
func (c *Compiler) compilePath(path string, importSpan diag.Span) *schema.Module {
	if m, ok := c.ctx.ModulesByPath[path]; ok {
		return m
	}

	src, ok := c.readSource(path)
	if !ok {
		if importSpan.Filename != "" {
			c.log.Info(diag.CategoryIO, importSpan, "imported here")
		}
		return nil
	}

	// Allocate the Module before parsing so a cyclic import that reaches
	// back to this path sees (and links against) the same object, per
	// §4.3.2.
	m := c.ctx.NewModule(filepath.Base(path), path)
	c.deps = append(c.deps, path)

	baseDir := filepath.Dir(path)

	unit, plog := syntax.Parse(path, src, syntax.ParseOptions{
		ResolveImportTags: func(name string, span diag.Span) map[string]syntax.TokenKind {
			return c.harvestImportTags(name, baseDir, span)
		},
	})
	c.log.Merge(plog)
	if plog.HasErrors() {
		return m
	}

	if unit.ModuleName == nil {
		c.log.Error(diag.CategorySyntactic, diag.Span{Filename: path}, "missing 'module' declaration")
		return m
	}
	m.Name = unit.ModuleName.Text
	m.Span = unit.ModuleName.Span

	fs := &fileState{
		compiler: c,
		module:   m,
		shells:   make(map[syntax.Declaration]schema.Type),
	}
	fs.nsStack = []*schema.Namespace{m.Root}

	c.compileImports(fs, unit, baseDir)

	m.Annotations = c.bindAnnotations(fs, unit.ModuleAnnos, m.Root)

	c.declareDecls(fs, unit.Decls, m.Root)
	c.defineDecls(fs, unit.Decls, m.Root)

	return m
}

// fileState tracks the namespace stack and shell registry while one file is
// being compiled.
type fileState struct {
	compiler *Compiler
	module   *schema.Module
	nsStack  []*schema.Namespace

	// shells maps a type-introducing declaration to the schema Type object
	// created for it during the declare pass, so the define pass can fill
	// in the same object rather than creating a second one.
	shells map[syntax.Declaration]schema.Type

	// typeScope, when non-nil, is the aggregate currently being defined;
	// name resolution inside a field/default value/enum item searches its
	// generic type parameters (and, for enums, its items) before climbing
	// to the namespace chain, per §4.3.3 step 1.
	typeScope schema.Type
}

func (fs *fileState) currentNamespace() *schema.Namespace {
	return fs.nsStack[len(fs.nsStack)-1]
}

func (fs *fileState) pushNamespace(n *schema.Namespace) {
	fs.nsStack = append(fs.nsStack, n)
}

func (fs *fileState) popNamespace() {
	fs.nsStack = fs.nsStack[:len(fs.nsStack)-1]
}

func qualify(ns *schema.Namespace, name string) string {
	if ns == nil || ns.QualifiedName == "" {
		return name
	}
	return ns.QualifiedName + "." + name
}
