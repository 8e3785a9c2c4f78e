// Package transform implements the source-rewriting pipeline for installing
// a third-party TSX component kit under a project-owned prefix: a global
// rename-map builder, five reference-rewrite passes, a relative-import
// rewriter, and a narrow text tier for duplicate prop spreads.
package transform

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// Options configures a transform run.
type Options struct {
	// Prefix is prepended to renamed exports and type aliases (Button ->
	// CatalystButton).
	Prefix string
	// PathPrefix is inserted before the final segment of same-directory
	// relative import paths. Derived from Prefix when empty.
	PathPrefix string
	// ExcludedModule is the package whose exports must never be renamed.
	ExcludedModule string
	// ExcludedQualifier is the conventional namespace-import name for the
	// excluded module, blocked in qualified references even when the import
	// is in another file.
	ExcludedQualifier string
	// GenericPropTypes are prop-type names the parameter-type pass may
	// rewrite even though they do not end in Props.
	GenericPropTypes []string
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = "Catalyst"
	}
	if o.PathPrefix == "" {
		o.PathPrefix = strings.ToLower(o.Prefix) + "-"
	}
	if o.ExcludedModule == "" {
		o.ExcludedModule = "@headlessui/react"
	}
	if o.ExcludedQualifier == "" {
		o.ExcludedQualifier = "Headless"
	}
	return o
}

// Context carries the state shared across every file of one pipeline run:
// the global rename map, the protected-name set, and the audit trails. The
// map is built by the scan phase for all files before any rewrite pass
// runs; the mutex covers the few additive writes the rewrite phase still
// makes (import-specifier fallbacks, change log entries) so files can be
// rewritten in parallel.
type Context struct {
	mu         sync.Mutex
	opts       Options
	order      []string // rename keys in discovery order
	renames    map[string]string
	protected  map[string]struct{}
	qualifiers map[string]struct{}

	// ChangeLog is an append-only record of applied changes, for reporting
	// and verification only, never for control flow.
	ChangeLog []string
	// Warnings collects non-fatal conditions that reduce confidence in the
	// transform's completeness.
	Warnings []string
}

// NewContext creates a transform context with defaulted options.
func NewContext(opts Options) *Context {
	opts = opts.withDefaults()
	c := &Context{
		opts:       opts,
		renames:    make(map[string]string),
		protected:  make(map[string]struct{}),
		qualifiers: make(map[string]struct{}),
	}
	c.qualifiers[opts.ExcludedQualifier] = struct{}{}
	return c
}

// Options returns the effective (defaulted) options.
func (c *Context) Options() Options { return c.opts }

// AddRename records old -> new unless old is protected or already mapped.
// The protection check precedes every insertion.
func (c *Context) AddRename(old, new string) bool {
	if old == "" || old == new {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.protected[old]; ok {
		return false
	}
	if _, ok := c.renames[old]; ok {
		return false
	}
	c.renames[old] = new
	c.order = append(c.order, old)
	return true
}

// Rename resolves a name through the map. Protected names never resolve.
func (c *Context) Rename(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.protected[name]; ok {
		return "", false
	}
	renamed, ok := c.renames[name]
	return renamed, ok
}

// Protect marks a name as originating from the excluded module.
func (c *Context) Protect(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.protected[name] = struct{}{}
}

// IsProtected reports whether the name came from the excluded module.
func (c *Context) IsProtected(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.protected[name]
	return ok
}

// AddQualifier registers a namespace-import local name for the excluded
// module; qualified references through it are structurally blocked.
func (c *Context) AddQualifier(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.qualifiers[name] = struct{}{}
}

// IsExcludedQualifier reports whether name is a blocked namespace qualifier.
func (c *Context) IsExcludedQualifier(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.qualifiers[name]
	return ok
}

// RenamePairs returns the map content in discovery order. Names protected
// after insertion are omitted, matching what Rename would resolve.
func (c *Context) RenamePairs() [][2]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	pairs := make([][2]string, 0, len(c.order))
	for _, old := range c.order {
		if _, ok := c.protected[old]; ok {
			continue
		}
		pairs = append(pairs, [2]string{old, c.renames[old]})
	}
	return pairs
}

// RenameCount returns the number of mapped names.
func (c *Context) RenameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.renames)
}

func (c *Context) logf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ChangeLog = append(c.ChangeLog, fmt.Sprintf(format, args...))
}

func (c *Context) warnf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Prefixed returns name with the canonical prefix applied.
func (c *Context) Prefixed(name string) string {
	return c.opts.Prefix + name
}

// HasPrefix reports whether name already carries the canonical prefix with
// a real base after it.
func (c *Context) HasPrefix(name string) bool {
	return strings.HasPrefix(name, c.opts.Prefix) && len(name) > len(c.opts.Prefix)
}

// Base strips the canonical prefix from an already-prefixed name.
func (c *Context) Base(name string) string {
	return strings.TrimPrefix(name, c.opts.Prefix)
}

func upperInitial(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
