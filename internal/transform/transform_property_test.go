//go:build property
// +build property

package transform

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/uiforge/catalyze/internal/tsx"
)

// TestNamingProperties tests prefix application and stripping properties
func TestNamingProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("prefix round trip", prop.ForAll(
		func(name string) bool {
			ctx := NewContext(Options{})
			prefixed := ctx.Prefixed(name)
			return ctx.HasPrefix(prefixed) && ctx.Base(prefixed) == name
		},
		gen.RegexMatch(`^[A-Z][a-zA-Z0-9]{0,12}$`),
	))

	properties.Property("rename map never overwrites", prop.ForAll(
		func(name, first, second string) bool {
			if first == name || second == name {
				return true // AddRename rejects identity mappings
			}
			ctx := NewContext(Options{})
			ctx.AddRename(name, first)
			ctx.AddRename(name, second)
			renamed, ok := ctx.Rename(name)
			return ok && renamed == first
		},
		gen.RegexMatch(`^[A-Z][a-zA-Z0-9]{0,8}$`),
		gen.RegexMatch(`^[A-Z][a-zA-Z0-9]{0,8}$`),
		gen.RegexMatch(`^[A-Z][a-zA-Z0-9]{0,8}$`),
	))

	properties.Property("protection beats the map", prop.ForAll(
		func(name string) bool {
			ctx := NewContext(Options{})
			ctx.AddRename(name, ctx.Prefixed(name))
			ctx.Protect(name)
			_, ok := ctx.Rename(name)
			return !ok
		},
		gen.RegexMatch(`^[A-Z][a-zA-Z0-9]{0,8}$`),
	))

	properties.Property("destination name is idempotent", prop.ForAll(
		func(base string) bool {
			ctx := NewContext(Options{})
			once := DestinationName(ctx, base+".tsx")
			return DestinationName(ctx, once) == once
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]{0,12}$`),
	))

	properties.Property("path prefix is idempotent", prop.ForAll(
		func(segment string) bool {
			ctx := NewContext(Options{})
			once := prefixPath(ctx, "./"+segment)
			return prefixPath(ctx, once) == once
		},
		gen.RegexMatch(`^[a-z][a-z0-9-]{0,12}$`),
	))

	properties.TestingRun(t)
}

// TestTransformIdempotenceProperties tests that a second transform run over
// already-transformed output changes nothing
func TestTransformIdempotenceProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("component transform idempotence", prop.ForAll(
		func(name string) bool {
			src := fmt.Sprintf(
				"import { clsx } from 'clsx';\nexport type %sProps = { active: boolean };\nexport function %s(props: %sProps) {\n  return <button {...props} />;\n}\n",
				name, name, name)

			first, ok := runComponent(name+".tsx", src)
			if !ok {
				return false
			}
			ctx := NewContext(Options{})
			second, ok := runComponent(DestinationName(ctx, name+".tsx"), first)
			return ok && second == first
		},
		gen.RegexMatch(`^[A-Z][a-zA-Z]{0,8}$`),
	))

	properties.Property("printed output reparses", prop.ForAll(
		func(name string) bool {
			src := fmt.Sprintf("export const %s = () => <div>%s</div>;\n", name, name)
			out, ok := runComponent(name+".tsx", src)
			if !ok {
				return false
			}
			_, err := tsx.Parse(out)
			return err == nil
		},
		gen.RegexMatch(`^[A-Z][a-zA-Z]{0,8}$`),
	))

	properties.TestingRun(t)
}

// TestSpreadCollapseProperties tests text-tier spread collapsing properties
func TestSpreadCollapseProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated spreads collapse to one", prop.ForAll(
		func(ident string, repeats int) bool {
			if repeats < 1 || repeats > 6 {
				return true
			}
			spread := "{..." + ident + "}"
			in := "<button " + strings.TrimSpace(strings.Repeat(spread+" ", repeats)) + " />"
			ctx := NewContext(Options{})
			return CollapseDuplicateSpreads(ctx, "a.tsx", in) == "<button "+spread+" />"
		},
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]{0,8}$`),
		gen.IntRange(1, 6),
	))

	properties.Property("collapse is idempotent", prop.ForAll(
		func(ident string) bool {
			in := "<button {..." + ident + "} {..." + ident + "} />"
			ctx := NewContext(Options{})
			once := CollapseDuplicateSpreads(ctx, "a.tsx", in)
			return CollapseDuplicateSpreads(ctx, "a.tsx", once) == once
		},
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]{0,8}$`),
	))

	properties.TestingRun(t)
}

// runComponent executes the full per-file transform sequence on one source.
func runComponent(fileName, src string) (string, bool) {
	tree, err := tsx.Parse(src)
	if err != nil {
		return "", false
	}
	ctx := NewContext(Options{})
	BuildRenames(ctx, fileName, tree)
	tree = RewriteAll(ctx, fileName, tree)
	tree = RewriteImportPaths(ctx, fileName, tree)
	return CollapseDuplicateSpreads(ctx, fileName, tsx.Print(tree)), true
}
