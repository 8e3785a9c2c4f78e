package transform

import (
	"strings"

	"github.com/uiforge/catalyze/internal/tsx"
)

// BuildRenames runs the three map-building scans over one file, mutating
// exported declaration names in place and recording their renames in the
// shared context. It must run for every file in the directory before any
// rewrite pass runs for any file, because a name exported in one file may be
// referenced from a sibling.
func BuildRenames(ctx *Context, fileName string, file *tsx.File) {
	scanExports(ctx, fileName, file)
	scanExcludedImports(ctx, file)
	scanTypeAliases(ctx, fileName, file)
	synthesizePropsRenames(ctx)
}

// scanExports renames top-level exported functions and consts in place. A
// declaration that already carries the prefix instead records the reverse
// derivation (base -> prefixed) so re-running on transformed output is a
// no-op.
func scanExports(ctx *Context, fileName string, file *tsx.File) {
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *tsx.SFunction:
			if !s.IsExport || s.Fn.Name == "" {
				continue
			}
			s.Fn.Name = recordDeclRename(ctx, fileName, "function", s.Fn.Name)
		case *tsx.SVar:
			if !s.IsExport {
				continue
			}
			for i := range s.Decls {
				ident, ok := s.Decls[i].Binding.(*tsx.BIdent)
				if !ok {
					continue
				}
				renamed := recordDeclRename(ctx, fileName, "const", ident.Name)
				s.Decls[i].Binding = &tsx.BIdent{Name: renamed}
			}
		}
	}
}

// recordDeclRename applies the prefix/reverse-derivation rule to one
// declaration name and returns the (possibly new) declaration-site name.
func recordDeclRename(ctx *Context, fileName, kind, name string) string {
	if ctx.IsProtected(name) {
		return name
	}
	if ctx.HasPrefix(name) {
		// already transformed: record the reverse derivation silently, the
		// change log tracks source modifications only
		ctx.AddRename(ctx.Base(name), name)
		return name
	}
	renamed := ctx.Prefixed(name)
	if ctx.AddRename(name, renamed) {
		ctx.logf("%s: renamed exported %s %s -> %s", fileName, kind, name, renamed)
	}
	return renamed
}

// scanExcludedImports protects every named import from the excluded module.
// Namespace imports contribute a qualifier instead of individual names; the
// reference passes block qualified access structurally.
func scanExcludedImports(ctx *Context, file *tsx.File) {
	for _, stmt := range file.Stmts {
		imp, ok := stmt.(*tsx.SImport)
		if !ok || imp.Path != ctx.opts.ExcludedModule {
			continue
		}
		if imp.Namespace != "" {
			ctx.AddQualifier(imp.Namespace)
		}
		if imp.Default != "" {
			ctx.Protect(imp.Default)
		}
		for _, spec := range imp.Named {
			ctx.Protect(spec.Local())
		}
	}
}

func scanTypeAliases(ctx *Context, fileName string, file *tsx.File) {
	for _, stmt := range file.Stmts {
		alias, ok := stmt.(*tsx.STypeAlias)
		if !ok {
			continue
		}
		if ctx.IsProtected(alias.Name) {
			continue
		}
		if ctx.HasPrefix(alias.Name) {
			ctx.AddRename(ctx.Base(alias.Name), alias.Name)
			continue
		}
		renamed := ctx.Prefixed(alias.Name)
		if ctx.AddRename(alias.Name, renamed) {
			alias.Name = renamed
			ctx.logf("%s: renamed type alias %s -> %s", fileName, ctx.Base(renamed), renamed)
		} else if mapped, ok := ctx.Rename(alias.Name); ok {
			alias.Name = mapped
		}
	}
}

// synthesizePropsRenames guarantees a component and its conventional
// prop-type name rename together even when the prop type was declared in a
// different file or never declared at all.
func synthesizePropsRenames(ctx *Context) {
	for _, pair := range ctx.RenamePairs() {
		base, prefixed := pair[0], pair[1]
		if strings.HasSuffix(base, "Props") {
			continue
		}
		propsName := base + "Props"
		if ctx.IsProtected(propsName) {
			continue
		}
		if _, ok := ctx.Rename(propsName); ok {
			continue
		}
		ctx.AddRename(propsName, prefixed+"Props")
	}
}
