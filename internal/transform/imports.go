package transform

import (
	"path"
	"strings"

	"github.com/uiforge/catalyze/internal/tsx"
)

// RewriteImportPaths updates same-directory relative import and re-export
// declarations: the final path segment gains the path prefix and every
// specifier is renamed through the shared map. Bare package specifiers,
// parent-relative paths, and the excluded module are left untouched.
// Side-effect imports still get their path rewritten.
func RewriteImportPaths(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	out := &tsx.File{Stmts: make([]tsx.Stmt, 0, len(file.Stmts))}
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *tsx.SImport:
			if !rewritableSpecifier(ctx, s.Path) {
				out.Stmts = append(out.Stmts, s)
				continue
			}
			c := *s
			c.Path = prefixPath(ctx, s.Path)
			if !c.SideEffectOnly() {
				c.Default = renameImportedName(ctx, s.Default)
				c.Named = renameSpecifiers(ctx, s.Named)
			}
			if c.Path != s.Path {
				ctx.logf("%s: import %s -> %s", fileName, s.Path, c.Path)
			}
			out.Stmts = append(out.Stmts, &c)
		case *tsx.SExportClause:
			if !s.HasPath || !rewritableSpecifier(ctx, s.Path) {
				out.Stmts = append(out.Stmts, s)
				continue
			}
			c := *s
			c.Path = prefixPath(ctx, s.Path)
			c.Named = renameSpecifiers(ctx, s.Named)
			if c.Path != s.Path {
				ctx.logf("%s: re-export %s -> %s", fileName, s.Path, c.Path)
			}
			out.Stmts = append(out.Stmts, &c)
		case *tsx.SExportStar:
			if !rewritableSpecifier(ctx, s.Path) {
				out.Stmts = append(out.Stmts, s)
				continue
			}
			c := *s
			c.Path = prefixPath(ctx, s.Path)
			if c.Path != s.Path {
				ctx.logf("%s: re-export %s -> %s", fileName, s.Path, c.Path)
			}
			out.Stmts = append(out.Stmts, &c)
		default:
			out.Stmts = append(out.Stmts, stmt)
		}
	}
	return out
}

// rewritableSpecifier reports whether a module specifier is a
// same-directory relative path eligible for prefixing.
func rewritableSpecifier(ctx *Context, spec string) bool {
	if spec == ctx.Options().ExcludedModule {
		return false
	}
	return strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../")
}

// prefixPath inserts the path prefix in front of the final segment:
// ./button -> ./catalyst-button, ./utils/cn.css -> ./utils/catalyst-cn.css.
// Already-prefixed segments pass through so a second run is a no-op.
func prefixPath(ctx *Context, spec string) string {
	dir, last := path.Split(spec)
	if last == "" || strings.HasPrefix(last, ctx.Options().PathPrefix) {
		return spec
	}
	return dir + ctx.Options().PathPrefix + last
}

func renameSpecifiers(ctx *Context, named []tsx.ImportSpecifier) []tsx.ImportSpecifier {
	if named == nil {
		return nil
	}
	out := make([]tsx.ImportSpecifier, 0, len(named))
	for _, spec := range named {
		spec.Name = renameImportedName(ctx, spec.Name)
		if spec.Alias != "" {
			spec.Alias = renameImportedName(ctx, spec.Alias)
		}
		out = append(out, spec)
	}
	return out
}

// renameImportedName resolves a specifier through the map, falling back to
// direct prefix application for uppercase names that have no entry yet. The
// fallback is additive: the mapping is recorded so later passes see it.
func renameImportedName(ctx *Context, name string) string {
	if name == "" || ctx.IsProtected(name) {
		return name
	}
	if renamed, ok := ctx.Rename(name); ok {
		return renamed
	}
	if !upperInitial(name) || ctx.HasPrefix(name) {
		return name
	}
	renamed := ctx.Prefixed(name)
	ctx.AddRename(name, renamed)
	return renamed
}

// DestinationName maps a source file name to its installed name:
// button.tsx -> catalyst-button.tsx.
func DestinationName(ctx *Context, fileName string) string {
	if strings.HasPrefix(fileName, ctx.Options().PathPrefix) {
		return fileName
	}
	return ctx.Options().PathPrefix + fileName
}
