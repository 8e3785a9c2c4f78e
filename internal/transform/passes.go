package transform

import (
	"strings"

	"github.com/uiforge/catalyze/internal/tsx"
)

// RewriteAll applies the five reference-rewrite passes in order and returns
// the resulting tree. Each pass consumes the output of the previous one; all
// of them only read the rename map, so repeated application is a no-op once
// nothing is left to rewrite.
func RewriteAll(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	out := RewriteParamPropTypes(ctx, fileName, file)
	out = RewriteTypeofReferences(ctx, fileName, out)
	out = RewriteJSXReferences(ctx, fileName, out)
	out = RewriteTypeReferences(ctx, fileName, out)
	out = RewriteIdentifiers(ctx, fileName, out)
	return out
}

// RewriteParamPropTypes handles one narrow shape: a top-level variable
// declaration whose bound name already carries the prefix and whose
// initializer is a component function, possibly wrapped in forwardRef. The
// first parameter's destructured-object annotation is renamed when it is a
// bare identifier ending in Props or one of the configured generic names.
// Intersections, unions, and qualified annotations stay untouched.
func RewriteParamPropTypes(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	out := hooks{}.rewriteFile(file)
	for _, stmt := range out.Stmts {
		decl, ok := stmt.(*tsx.SVar)
		if !ok {
			continue
		}
		for i := range decl.Decls {
			ident, ok := decl.Decls[i].Binding.(*tsx.BIdent)
			if !ok || !ctx.HasPrefix(ident.Name) {
				continue
			}
			fn := componentFunction(decl.Decls[i].Init)
			if fn == nil {
				continue
			}
			rewriteFirstParamType(ctx, fileName, ident.Name, fn)
		}
	}
	return out
}

// componentFunction unwraps an initializer down to its parameter list,
// looking through forwardRef(fn) and React.forwardRef(fn) wrappers.
func componentFunction(init tsx.Expr) []tsx.Param {
	switch e := init.(type) {
	case *tsx.EArrow:
		return e.Params
	case *tsx.EFunction:
		return e.Fn.Params
	case *tsx.ECall:
		if !isForwardRef(e.Target) || len(e.Args) == 0 {
			return nil
		}
		switch inner := e.Args[0].(type) {
		case *tsx.EArrow:
			return inner.Params
		case *tsx.EFunction:
			return inner.Fn.Params
		}
	}
	return nil
}

func isForwardRef(target tsx.Expr) bool {
	switch t := target.(type) {
	case *tsx.EIdent:
		return t.Name == "forwardRef"
	case *tsx.EMember:
		return t.Name == "forwardRef"
	}
	return false
}

func rewriteFirstParamType(ctx *Context, fileName, componentName string, params []tsx.Param) {
	if len(params) == 0 {
		return
	}
	param := &params[0]
	if _, ok := param.Binding.(*tsx.BObject); !ok {
		return
	}
	ref, ok := param.Type.(*tsx.TRef)
	if !ok || !ref.Bare() {
		return
	}
	name := ref.Head()
	if ctx.IsProtected(name) || ctx.HasPrefix(name) {
		return
	}
	if !strings.HasSuffix(name, "Props") && !isGenericPropType(ctx, name) {
		return
	}
	renamed := ctx.Prefixed(ctx.Base(componentName)) + "Props"
	ref.Parts[0] = renamed
	if ctx.AddRename(name, renamed) {
		ctx.logf("%s: prop type %s -> %s", fileName, name, renamed)
	}
}

func isGenericPropType(ctx *Context, name string) bool {
	for _, generic := range ctx.Options().GenericPropTypes {
		if name == generic {
			return true
		}
	}
	return false
}

// RewriteTypeofReferences renames typeof operands in both expression and
// type position: typeof Button and const x: typeof Button.
func RewriteTypeofReferences(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	n := 0
	h := hooks{
		excluded: ctx.IsExcludedQualifier,
		ident: func(name string, pos identPos) (string, bool) {
			if !pos.TypeofOperand {
				return "", false
			}
			renamed, ok := ctx.Rename(name)
			if ok {
				n++
			}
			return renamed, ok
		},
		typeofType: func(name string) (string, bool) {
			renamed, ok := ctx.Rename(name)
			if ok {
				n++
			}
			return renamed, ok
		},
	}
	out := h.rewriteFile(file)
	if n > 0 {
		ctx.logf("%s: rewrote %d typeof reference(s)", fileName, n)
	}
	return out
}

// RewriteJSXReferences renames identifier JSX tags and braced identifier
// attribute values. Qualified tags like Namespace.Button are left alone.
func RewriteJSXReferences(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	n := 0
	h := hooks{
		excluded: ctx.IsExcludedQualifier,
		ident: func(name string, pos identPos) (string, bool) {
			if !pos.JSXTag && !pos.JSXAttr {
				return "", false
			}
			renamed, ok := ctx.Rename(name)
			if ok {
				n++
			}
			return renamed, ok
		},
	}
	out := h.rewriteFile(file)
	if n > 0 {
		ctx.logf("%s: rewrote %d JSX reference(s)", fileName, n)
	}
	return out
}

// RewriteTypeReferences renames bare type references anywhere in type
// position. Qualified references keep their qualifier and everything under
// an excluded qualifier is skipped wholesale.
func RewriteTypeReferences(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	n := 0
	h := hooks{
		excluded: ctx.IsExcludedQualifier,
		typeRef: func(name string) (string, bool) {
			renamed, ok := ctx.Rename(name)
			if ok {
				n++
			}
			return renamed, ok
		},
	}
	out := h.rewriteFile(file)
	if n > 0 {
		ctx.logf("%s: rewrote %d type reference(s)", fileName, n)
	}
	return out
}

// RewriteIdentifiers is the catch-all: any remaining plain identifier that
// is in the map and starts with an uppercase letter. Positions handled by
// the earlier passes, declaration sites, property names, and the object
// side of member accesses are structurally excluded by the traversal.
func RewriteIdentifiers(ctx *Context, fileName string, file *tsx.File) *tsx.File {
	n := 0
	h := hooks{
		excluded: ctx.IsExcludedQualifier,
		ident: func(name string, pos identPos) (string, bool) {
			if pos.any() || !upperInitial(name) {
				return "", false
			}
			renamed, ok := ctx.Rename(name)
			if ok {
				n++
			}
			return renamed, ok
		},
	}
	out := h.rewriteFile(file)
	if n > 0 {
		ctx.logf("%s: rewrote %d identifier(s)", fileName, n)
	}
	return out
}
