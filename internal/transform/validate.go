package transform

import (
	"strings"

	"github.com/uiforge/catalyze/internal/errors"
	"github.com/uiforge/catalyze/internal/tsx"
)

// CountExports counts top-level export statements in a tree.
func CountExports(file *tsx.File) int {
	n := 0
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *tsx.SExportClause, *tsx.SExportStar, *tsx.SExportDefault:
			n++
		case *tsx.SFunction:
			if s.IsExport {
				n++
			}
		case *tsx.SVar:
			if s.IsExport {
				n++
			}
		case *tsx.STypeAlias:
			if s.IsExport {
				n++
			}
		case *tsx.SInterface:
			if s.IsExport {
				n++
			}
		}
	}
	return n
}

// ValidateOutput is the post-transform sanity check: the printed content
// must not be empty and a file with exports going in must have exports
// coming out. A failed check is a hard error for the file; the result is
// never written.
func ValidateOutput(fileName, output string, exportsIn, exportsOut int) error {
	if strings.TrimSpace(output) == "" {
		return &errors.ValidationError{File: fileName, Reason: "transformed content is empty"}
	}
	if exportsIn > 0 && exportsOut == 0 {
		return &errors.ValidationError{File: fileName, Reason: "exports lost during transform"}
	}
	return nil
}
