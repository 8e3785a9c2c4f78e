// Package verify computes content hashes of an installed component kit and
// compares them against the release manifest. Verification gates the
// transform pipeline: a mismatch is a hard stop, never a best-effort
// continuation.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	xerrors "github.com/uiforge/catalyze/internal/errors"
	"github.com/uiforge/catalyze/internal/manifest"
)

// Mismatch is one file whose current content differs from the manifest.
type Mismatch struct {
	FileName     string
	ExpectedHash string
	ActualHash   string
}

// Result is the outcome of comparing expected against actual hashes.
// Extra files alone never invalidate.
type Result struct {
	IsValid    bool
	Mismatches []Mismatch
	Missing    []string
	Extra      []string
}

// CalculateFileHash digests a file's bytes and returns the canonical
// sha256:<hex> form. Deterministic for identical bytes.
func CalculateFileHash(fs afero.Fs, filePath string) (string, error) {
	data, err := afero.ReadFile(fs, filePath)
	if err != nil {
		exists, _ := afero.Exists(fs, filePath)
		return "", &xerrors.IOError{Op: "read", Path: filePath, NotFound: !exists, Err: err}
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// hashJob and hashResult carry work through the hashing pool.
type hashJob struct {
	name string
	path string
}

type hashResult struct {
	name string
	hash string
	err  error
}

// syncThreshold is the file count below which the goroutine overhead of
// the pool outweighs the parallelism.
const syncThreshold = 5

// CalculateHashes hashes the named files under dir. Files that do not
// exist are simply absent from the returned map (they surface as missing
// in the comparison); any other read failure is a hard error.
func CalculateHashes(fs afero.Fs, dir string, names []string) (map[string]string, error) {
	if len(names) <= syncThreshold {
		return calculateHashesSync(fs, dir, names)
	}

	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8
	}

	jobQueue := make(chan hashJob, workerCount*2)
	results := make(chan hashResult, len(names))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				hash, err := CalculateFileHash(fs, job.path)
				results <- hashResult{name: job.name, hash: hash, err: err}
			}
		}()
	}

	for _, name := range names {
		jobQueue <- hashJob{name: name, path: path.Join(dir, name)}
	}
	close(jobQueue)
	wg.Wait()
	close(results)

	actual := make(map[string]string, len(names))
	for res := range results {
		if res.err != nil {
			if xerrors.IsNotFound(res.err) {
				continue
			}
			return nil, res.err
		}
		actual[res.name] = res.hash
	}
	return actual, nil
}

func calculateHashesSync(fs afero.Fs, dir string, names []string) (map[string]string, error) {
	actual := make(map[string]string, len(names))
	for _, name := range names {
		hash, err := CalculateFileHash(fs, path.Join(dir, name))
		if err != nil {
			if xerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		actual[name] = hash
	}
	return actual, nil
}

// CompareHashes is a pure set comparison of expected against actual.
func CompareHashes(expected, actual map[string]string) Result {
	result := Result{}
	for _, name := range sortedKeys(expected) {
		actualHash, ok := actual[name]
		if !ok {
			result.Missing = append(result.Missing, name)
			continue
		}
		if actualHash != expected[name] {
			result.Mismatches = append(result.Mismatches, Mismatch{
				FileName:     name,
				ExpectedHash: expected[name],
				ActualHash:   actualHash,
			})
		}
	}
	for _, name := range sortedKeys(actual) {
		if _, ok := expected[name]; !ok {
			result.Extra = append(result.Extra, name)
		}
	}
	result.IsValid = len(result.Mismatches) == 0 && len(result.Missing) == 0
	return result
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// componentFile reports whether a directory entry belongs to the kit and
// should count as extra when absent from the manifest.
func componentFile(name string) bool {
	switch path.Ext(name) {
	case ".tsx", ".ts", ".css":
		return true
	}
	return false
}

// Directory verifies every manifest entry against dir and reports kit
// files present on disk but absent from the manifest as extra. A missing
// directory is a hard error, distinct from individual missing files. A
// version mismatch is returned as a warning, not a failure.
func Directory(fs afero.Fs, m *manifest.Manifest, dir, expectedVersion string) (Result, []string, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return Result{}, nil, &xerrors.IOError{Op: "stat", Path: dir, Err: err}
	}
	if !exists {
		return Result{}, nil, &xerrors.IOError{Op: "stat", Path: dir, NotFound: true,
			Err: fmt.Errorf("component directory does not exist")}
	}

	names := m.FileNames()
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return Result{}, nil, &xerrors.IOError{Op: "list", Path: dir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !componentFile(entry.Name()) {
			continue
		}
		if _, ok := m.Files[entry.Name()]; !ok {
			names = append(names, entry.Name())
		}
	}

	actual, err := CalculateHashes(fs, dir, names)
	if err != nil {
		return Result{}, nil, err
	}

	var warnings []string
	if expectedVersion != "" && m.Version != expectedVersion {
		warnings = append(warnings,
			fmt.Sprintf("manifest version %q does not match expected release %q", m.Version, expectedVersion))
	}
	return CompareHashes(m.Files, actual), warnings, nil
}

// Error converts an invalid result into the error carried to the caller.
// Valid results return nil.
func (r Result) Error() error {
	if r.IsValid {
		return nil
	}
	verr := &xerrors.VerificationError{Missing: r.Missing, Extra: r.Extra}
	for _, m := range r.Mismatches {
		verr.Mismatched = append(verr.Mismatched, m.FileName)
	}
	return verr
}

// Describe renders a human-readable account of an invalid result,
// including remediation guidance.
func (r Result) Describe(upstream string) string {
	if r.IsValid {
		return "all files verified"
	}
	var b strings.Builder
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "mismatched: %s (expected %s, got %s)\n", m.FileName, m.ExpectedHash, m.ActualHash)
	}
	for _, name := range r.Missing {
		fmt.Fprintf(&b, "missing: %s\n", name)
	}
	for _, name := range r.Extra {
		fmt.Fprintf(&b, "extra: %s\n", name)
	}
	if upstream != "" {
		fmt.Fprintf(&b, "re-fetch the upstream kit from %s and retry\n", upstream)
	}
	return b.String()
}
