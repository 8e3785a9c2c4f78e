package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiforge/catalyze/internal/tsx"
)

func parseFile(t *testing.T, src string) *tsx.File {
	t.Helper()
	file, err := tsx.Parse(src)
	require.NoError(t, err)
	return file
}

func TestBuildRenamesExports(t *testing.T) {
	ctx := NewContext(Options{})
	file := parseFile(t, "export function Button() {\n  return null;\n}\nexport const Input = () => null;\n")

	BuildRenames(ctx, "button.tsx", file)

	renamed, ok := ctx.Rename("Button")
	require.True(t, ok)
	assert.Equal(t, "CatalystButton", renamed)

	renamed, ok = ctx.Rename("Input")
	require.True(t, ok)
	assert.Equal(t, "CatalystInput", renamed)

	// declaration sites are renamed in place
	fn := file.Stmts[0].(*tsx.SFunction)
	assert.Equal(t, "CatalystButton", fn.Fn.Name)
	decl := file.Stmts[1].(*tsx.SVar)
	assert.Equal(t, "CatalystInput", decl.Decls[0].Binding.(*tsx.BIdent).Name)
}

func TestBuildRenamesSynthesizesPropsNames(t *testing.T) {
	ctx := NewContext(Options{})
	file := parseFile(t, "export function Button() {\n  return null;\n}\n")

	BuildRenames(ctx, "button.tsx", file)

	renamed, ok := ctx.Rename("ButtonProps")
	require.True(t, ok)
	assert.Equal(t, "CatalystButtonProps", renamed)

	// no derived entry from the derived entry itself
	_, ok = ctx.Rename("ButtonPropsProps")
	assert.False(t, ok)
}

func TestBuildRenamesTypeAliases(t *testing.T) {
	ctx := NewContext(Options{})
	file := parseFile(t, "export type ButtonProps = { x: number };\ntype Variant = 'solid';\n")

	BuildRenames(ctx, "types.tsx", file)

	renamed, ok := ctx.Rename("ButtonProps")
	require.True(t, ok)
	assert.Equal(t, "CatalystButtonProps", renamed)

	alias := file.Stmts[0].(*tsx.STypeAlias)
	assert.Equal(t, "CatalystButtonProps", alias.Name)

	renamed, ok = ctx.Rename("Variant")
	require.True(t, ok)
	assert.Equal(t, "CatalystVariant", renamed)
}

func TestBuildRenamesReverseDerivation(t *testing.T) {
	// files that already carry the prefix record the base mapping instead,
	// so a second run over transformed output changes nothing
	ctx := NewContext(Options{})
	file := parseFile(t, "export function CatalystButton() {\n  return null;\n}\n")

	BuildRenames(ctx, "catalyst-button.tsx", file)

	renamed, ok := ctx.Rename("Button")
	require.True(t, ok)
	assert.Equal(t, "CatalystButton", renamed)

	fn := file.Stmts[0].(*tsx.SFunction)
	assert.Equal(t, "CatalystButton", fn.Fn.Name)
}

func TestBuildRenamesProtectsExcludedImports(t *testing.T) {
	ctx := NewContext(Options{})
	file := parseFile(t, "import { Button, Dialog as Modal } from '@headlessui/react';\nimport * as Headless from '@headlessui/react';\nexport function Button() {\n  return null;\n}\n")

	BuildRenames(ctx, "dialog.tsx", file)

	// Button is imported from the excluded module, so it must never
	// resolve through the map even though it is also exported here
	_, ok := ctx.Rename("Button")
	assert.False(t, ok)
	assert.True(t, ctx.IsProtected("Button"))
	assert.True(t, ctx.IsProtected("Modal"))
	assert.True(t, ctx.IsExcludedQualifier("Headless"))
}

func TestAddRenameNeverOverwrites(t *testing.T) {
	ctx := NewContext(Options{})
	require.True(t, ctx.AddRename("Button", "CatalystButton"))
	assert.False(t, ctx.AddRename("Button", "OtherButton"))

	renamed, _ := ctx.Rename("Button")
	assert.Equal(t, "CatalystButton", renamed)
}

func TestRenamePairsKeepDiscoveryOrder(t *testing.T) {
	ctx := NewContext(Options{})
	ctx.AddRename("Button", "CatalystButton")
	ctx.AddRename("Input", "CatalystInput")
	ctx.AddRename("Avatar", "CatalystAvatar")

	pairs := ctx.RenamePairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, "Button", pairs[0][0])
	assert.Equal(t, "Input", pairs[1][0])
	assert.Equal(t, "Avatar", pairs[2][0])
}

func TestProtectedNameWinsOverRename(t *testing.T) {
	ctx := NewContext(Options{})
	ctx.Protect("Button")
	assert.False(t, ctx.AddRename("Button", "CatalystButton"))
	_, ok := ctx.Rename("Button")
	assert.False(t, ok)
}
