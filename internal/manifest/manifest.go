// Package manifest reads and writes the upstream hash manifest: a versioned
// mapping from component file name to the content hash recorded when the
// kit release was built.
package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/spf13/afero"

	xerrors "github.com/uiforge/catalyze/internal/errors"
)

// hashPattern is the only accepted hash form. An entry that fails it makes
// the whole manifest invalid rather than being skipped.
var hashPattern = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)

// Manifest is the on-disk manifest document.
type Manifest struct {
	Version string            `json:"version"`
	Files   map[string]string `json:"files"`
}

// Load reads and validates a manifest file.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &xerrors.IOError{Op: "read manifest", Path: path, NotFound: isNotExist(fs, path), Err: err}
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func isNotExist(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && !ok
}

// Validate checks the structural invariants: a version, at least the files
// map, and every hash in canonical sha256 form.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("missing version")
	}
	if m.Files == nil {
		return fmt.Errorf("missing files map")
	}
	for name, hash := range m.Files {
		if !hashPattern.MatchString(hash) {
			return fmt.Errorf("entry %q: malformed hash %q", name, hash)
		}
	}
	return nil
}

// FileNames returns the manifest's file names sorted for stable output.
func (m *Manifest) FileNames() []string {
	names := make([]string, 0, len(m.Files))
	for name := range m.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the manifest as indented JSON with sorted keys.
func (m *Manifest) Save(fs afero.Fs, path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return &xerrors.IOError{Op: "write manifest", Path: path, Err: err}
	}
	return nil
}
