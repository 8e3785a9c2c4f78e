// Package files provides the narrow filesystem surface the pipeline
// consumes: read, write, list, and backup. Everything goes through afero
// so tests run against an in-memory filesystem.
package files

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	xerrors "github.com/uiforge/catalyze/internal/errors"
)

// Store wraps a filesystem root for component kit operations.
type Store struct {
	fs afero.Fs
}

// NewStore wraps an afero filesystem.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOSStore wraps the real filesystem.
func NewOSStore() *Store {
	return NewStore(afero.NewOsFs())
}

// Fs exposes the underlying filesystem for collaborators that hash or
// inspect files directly.
func (s *Store) Fs() afero.Fs { return s.fs }

// Read returns a file's content.
func (s *Store) Read(filePath string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filePath)
	if err != nil {
		return nil, &xerrors.IOError{Op: "read", Path: filePath, NotFound: os.IsNotExist(err), Err: err}
	}
	return data, nil
}

// Write creates or replaces a file, creating parent directories as needed.
func (s *Store) Write(filePath string, data []byte) error {
	if dir := path.Dir(filePath); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return &xerrors.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	if err := afero.WriteFile(s.fs, filePath, data, 0o644); err != nil {
		return &xerrors.IOError{Op: "write", Path: filePath, Err: err}
	}
	return nil
}

// WriteWithBackup writes a file, first moving any existing content aside
// to a timestamped .bak sibling so an install never destroys local edits.
// It returns the backup path when one was made.
func (s *Store) WriteWithBackup(filePath string, data []byte) (string, error) {
	exists, err := afero.Exists(s.fs, filePath)
	if err != nil {
		return "", &xerrors.IOError{Op: "stat", Path: filePath, Err: err}
	}
	backup := ""
	if exists {
		old, err := s.Read(filePath)
		if err != nil {
			return "", err
		}
		backup = fmt.Sprintf("%s.%s.bak", filePath, time.Now().Format("20060102-150405"))
		if err := afero.WriteFile(s.fs, backup, old, 0o644); err != nil {
			return "", &xerrors.IOError{Op: "write backup", Path: backup, Err: err}
		}
	}
	if err := s.Write(filePath, data); err != nil {
		return backup, err
	}
	return backup, nil
}

// List returns the names of regular files directly under dir whose
// extension is one of exts (with leading dot), sorted. A missing directory
// is reported as a not-found I/O error.
func (s *Store) List(dir string, exts ...string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, &xerrors.IOError{Op: "list", Path: dir, NotFound: os.IsNotExist(err), Err: err}
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(exts) == 0 || hasExt(entry.Name(), exts) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func hasExt(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Exists reports whether a path is present.
func (s *Store) Exists(filePath string) (bool, error) {
	return afero.Exists(s.fs, filePath)
}
