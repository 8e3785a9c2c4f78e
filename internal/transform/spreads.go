package transform

import (
	"regexp"
	"strings"
)

// duplicateSpread matches two identical spread attributes on one line with
// only whitespace between them: {...props} {...props}.
var duplicateSpread = regexp.MustCompile(`\{\.\.\.([A-Za-z_$][A-Za-z0-9_$]*)\}([ \t]*)\{\.\.\.([A-Za-z_$][A-Za-z0-9_$]*)\}`)

// CollapseDuplicateSpreads is a best-effort text tier run after printing:
// it collapses immediately repeated identical spread attributes in JSX.
// It deliberately stays out of the syntax tree; the pattern is narrow and
// a structural edit would not preserve surrounding text as faithfully.
// Spreads split across lines are left alone and reported as a warning.
func CollapseDuplicateSpreads(ctx *Context, fileName, source string) string {
	for {
		next := duplicateSpread.ReplaceAllStringFunc(source, func(match string) string {
			parts := duplicateSpread.FindStringSubmatch(match)
			if parts[1] != parts[3] {
				return match
			}
			ctx.logf("%s: collapsed duplicate spread {...%s}", fileName, parts[1])
			return "{..." + parts[1] + "}"
		})
		if next == source {
			break
		}
		source = next
	}
	if multilineDuplicateSpread(source) {
		ctx.warnf("%s: possible duplicate spread across lines left in place", fileName)
	}
	return source
}

// multilineDuplicateSpread detects the same spread expression ending one
// line and starting the next inside a JSX tag.
func multilineDuplicateSpread(source string) bool {
	lines := strings.Split(source, "\n")
	for i := 0; i+1 < len(lines); i++ {
		cur := lastSpread(lines[i])
		if cur == "" {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if strings.HasPrefix(next, "{..."+cur+"}") {
			return true
		}
	}
	return false
}

var trailingSpread = regexp.MustCompile(`\{\.\.\.([A-Za-z_$][A-Za-z0-9_$]*)\}\s*$`)

func lastSpread(line string) string {
	m := trailingSpread.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}
