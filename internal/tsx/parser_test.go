package tsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImports(t *testing.T) {
	t.Run("named import", func(t *testing.T) {
		file, err := Parse("import { Button, Input as TextInput } from './button';\n")
		require.NoError(t, err)
		require.Len(t, file.Stmts, 1)

		imp, ok := file.Stmts[0].(*SImport)
		require.True(t, ok)
		assert.Equal(t, "./button", imp.Path)
		assert.True(t, imp.HasBraces)
		require.Len(t, imp.Named, 2)
		assert.Equal(t, "Button", imp.Named[0].Name)
		assert.Equal(t, "Input", imp.Named[1].Name)
		assert.Equal(t, "TextInput", imp.Named[1].Alias)
		assert.Equal(t, "TextInput", imp.Named[1].Local())
	})

	t.Run("default and namespace", func(t *testing.T) {
		file, err := Parse("import React from 'react';\nimport * as Headless from '@headlessui/react';\n")
		require.NoError(t, err)
		require.Len(t, file.Stmts, 2)

		def := file.Stmts[0].(*SImport)
		assert.Equal(t, "React", def.Default)
		assert.False(t, def.SideEffectOnly())

		ns := file.Stmts[1].(*SImport)
		assert.Equal(t, "Headless", ns.Namespace)
		assert.Equal(t, "@headlessui/react", ns.Path)
	})

	t.Run("side effect only", func(t *testing.T) {
		file, err := Parse("import './styles.css';\n")
		require.NoError(t, err)

		imp := file.Stmts[0].(*SImport)
		assert.True(t, imp.SideEffectOnly())
		assert.Equal(t, "./styles.css", imp.Path)
	})

	t.Run("type only", func(t *testing.T) {
		file, err := Parse("import type { ButtonProps } from './button';\n")
		require.NoError(t, err)

		imp := file.Stmts[0].(*SImport)
		assert.True(t, imp.TypeOnly)
		require.Len(t, imp.Named, 1)
		assert.Equal(t, "ButtonProps", imp.Named[0].Name)
	})
}

func TestParseExports(t *testing.T) {
	t.Run("exported function", func(t *testing.T) {
		file, err := Parse("export function Button() {\n  return null;\n}\n")
		require.NoError(t, err)

		fn, ok := file.Stmts[0].(*SFunction)
		require.True(t, ok)
		assert.True(t, fn.IsExport)
		assert.Equal(t, "Button", fn.Fn.Name)
	})

	t.Run("exported const arrow", func(t *testing.T) {
		file, err := Parse("export const Button = () => null;\n")
		require.NoError(t, err)

		decl, ok := file.Stmts[0].(*SVar)
		require.True(t, ok)
		assert.True(t, decl.IsExport)
		assert.Equal(t, "const", decl.Kind)
		require.Len(t, decl.Decls, 1)
		ident := decl.Decls[0].Binding.(*BIdent)
		assert.Equal(t, "Button", ident.Name)
		_, isArrow := decl.Decls[0].Init.(*EArrow)
		assert.True(t, isArrow)
	})

	t.Run("export clause with path", func(t *testing.T) {
		file, err := Parse("export { Button, Input } from './fields';\n")
		require.NoError(t, err)

		clause, ok := file.Stmts[0].(*SExportClause)
		require.True(t, ok)
		assert.True(t, clause.HasPath)
		assert.Equal(t, "./fields", clause.Path)
		assert.Len(t, clause.Named, 2)
	})

	t.Run("export star", func(t *testing.T) {
		file, err := Parse("export * from './all';\n")
		require.NoError(t, err)

		star, ok := file.Stmts[0].(*SExportStar)
		require.True(t, ok)
		assert.Equal(t, "./all", star.Path)
	})
}

func TestParseTypes(t *testing.T) {
	t.Run("type alias", func(t *testing.T) {
		file, err := Parse("export type ButtonProps = { color: string; disabled?: boolean };\n")
		require.NoError(t, err)

		alias, ok := file.Stmts[0].(*STypeAlias)
		require.True(t, ok)
		assert.True(t, alias.IsExport)
		assert.Equal(t, "ButtonProps", alias.Name)

		obj, ok := alias.Type.(*TObject)
		require.True(t, ok)
		require.Len(t, obj.Members, 2)
		assert.Equal(t, "color", obj.Members[0].Name)
		assert.True(t, obj.Members[1].Optional)
	})

	t.Run("union and qualified reference", func(t *testing.T) {
		file, err := Parse("type Color = 'red' | 'blue' | Headless.ButtonProps;\n")
		require.NoError(t, err)

		alias := file.Stmts[0].(*STypeAlias)
		union, ok := alias.Type.(*TUnion)
		require.True(t, ok)
		require.Len(t, union.Types, 3)

		ref, ok := union.Types[2].(*TRef)
		require.True(t, ok)
		assert.Equal(t, []string{"Headless", "ButtonProps"}, ref.Parts)
		assert.False(t, ref.Bare())
	})

	t.Run("typeof query", func(t *testing.T) {
		file, err := Parse("type B = typeof Button;\n")
		require.NoError(t, err)

		alias := file.Stmts[0].(*STypeAlias)
		query, ok := alias.Type.(*TTypeof)
		require.True(t, ok)
		assert.Equal(t, []string{"Button"}, query.Parts)
	})

	t.Run("generic reference", func(t *testing.T) {
		file, err := Parse("type Handler = React.ComponentProps<typeof Button>;\n")
		require.NoError(t, err)

		alias := file.Stmts[0].(*STypeAlias)
		ref := alias.Type.(*TRef)
		assert.Equal(t, []string{"React", "ComponentProps"}, ref.Parts)
		require.Len(t, ref.TypeArgs, 1)
		_, isTypeof := ref.TypeArgs[0].(*TTypeof)
		assert.True(t, isTypeof)
	})

	t.Run("interface", func(t *testing.T) {
		file, err := Parse("export interface CardProps extends BaseProps {\n  title: string;\n}\n")
		require.NoError(t, err)

		iface, ok := file.Stmts[0].(*SInterface)
		require.True(t, ok)
		assert.Equal(t, "CardProps", iface.Name)
		require.Len(t, iface.Extends, 1)
		require.Len(t, iface.Members, 1)
		assert.Equal(t, "title", iface.Members[0].Name)
	})
}

func TestParseJSX(t *testing.T) {
	t.Run("self closing element with attrs", func(t *testing.T) {
		file, err := Parse("const x = <Button color=\"red\" disabled onClick={fn} {...rest} />;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		el, ok := decl.Decls[0].Init.(*EJSXElement)
		require.True(t, ok)
		assert.True(t, el.SelfClosing)

		tag := el.Tag.(*EIdent)
		assert.Equal(t, "Button", tag.Name)

		require.Len(t, el.Attrs, 4)
		assert.Equal(t, "color", el.Attrs[0].Name)
		assert.False(t, el.Attrs[0].Braced)
		assert.Equal(t, "disabled", el.Attrs[1].Name)
		assert.Nil(t, el.Attrs[1].Value)
		assert.Equal(t, "onClick", el.Attrs[2].Name)
		assert.True(t, el.Attrs[2].Braced)
		assert.True(t, el.Attrs[3].IsSpread)
	})

	t.Run("member tag", func(t *testing.T) {
		file, err := Parse("const x = <Headless.Button />;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		el := decl.Decls[0].Init.(*EJSXElement)
		member, ok := el.Tag.(*EMember)
		require.True(t, ok)
		assert.Equal(t, "Button", member.Name)
		assert.Equal(t, "Headless", member.Target.(*EIdent).Name)
	})

	t.Run("fragment with children", func(t *testing.T) {
		file, err := Parse("const x = <><Button />{label}</>;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		el := decl.Decls[0].Init.(*EJSXElement)
		assert.Nil(t, el.Tag)
		require.Len(t, el.Children, 2)
		_, isElement := el.Children[0].(*EJSXElement)
		assert.True(t, isElement)
		expr, isExpr := el.Children[1].(*JSXExpr)
		require.True(t, isExpr)
		assert.Equal(t, "label", expr.Value.(*EIdent).Name)
	})

	t.Run("statement resumes after element", func(t *testing.T) {
		file, err := Parse("export function Button() {\n  return <button/>;\n}\n")
		require.NoError(t, err)

		fn := file.Stmts[0].(*SFunction)
		ret := fn.Fn.Body.Stmts[0].(*SReturn)
		el, ok := ret.Value.(*EJSXElement)
		require.True(t, ok)
		assert.True(t, el.SelfClosing)
	})

	t.Run("element in conditional arms", func(t *testing.T) {
		file, err := Parse("const x = open ? <Panel /> : <Button />;\nconst y = 1;\n")
		require.NoError(t, err)
		require.Len(t, file.Stmts, 2)

		decl := file.Stmts[0].(*SVar)
		cond, ok := decl.Decls[0].Init.(*ECond)
		require.True(t, ok)
		_, isElement := cond.Yes.(*EJSXElement)
		assert.True(t, isElement)
		_, isElement = cond.No.(*EJSXElement)
		assert.True(t, isElement)
	})

	t.Run("nested element keeps text", func(t *testing.T) {
		file, err := Parse("const x = <button>Click me</button>;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		el := decl.Decls[0].Init.(*EJSXElement)
		require.Len(t, el.Children, 1)
		text := el.Children[0].(*JSXText)
		assert.Equal(t, "Click me", text.Raw)
	})
}

func TestParseExpressions(t *testing.T) {
	t.Run("typeof operand", func(t *testing.T) {
		file, err := Parse("const k = typeof Button;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		unary, ok := decl.Decls[0].Init.(*EUnary)
		require.True(t, ok)
		assert.Equal(t, "typeof", unary.Op)
		assert.Equal(t, "Button", unary.Value.(*EIdent).Name)
	})

	t.Run("forwardRef call", func(t *testing.T) {
		file, err := Parse("export const Button = forwardRef(function Button(props, ref) {\n  return null;\n});\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		call, ok := decl.Decls[0].Init.(*ECall)
		require.True(t, ok)
		assert.Equal(t, "forwardRef", call.Target.(*EIdent).Name)
		require.Len(t, call.Args, 1)
		_, isFn := call.Args[0].(*EFunction)
		assert.True(t, isFn)
	})

	t.Run("member access chain", func(t *testing.T) {
		file, err := Parse("const x = Headless.Button;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		member := decl.Decls[0].Init.(*EMember)
		assert.Equal(t, "Button", member.Name)
	})

	t.Run("template literal", func(t *testing.T) {
		file, err := Parse("const cls = `btn ${variant} large`;\n")
		require.NoError(t, err)

		decl := file.Stmts[0].(*SVar)
		tmpl, ok := decl.Decls[0].Init.(*ETemplate)
		require.True(t, ok)
		assert.Equal(t, "btn ", tmpl.Head)
		require.Len(t, tmpl.Parts, 1)
		assert.Equal(t, " large", tmpl.Parts[0].Tail)
	})
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"const = 1;\n",
		"import { from './x';\n",
		"export function () {}\n",
	}
	for _, src := range cases {
		_, err := Parse(src)
		assert.Error(t, err, "source: %q", src)
	}
}
