//go:build property
// +build property

package verify

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/afero"

	"github.com/uiforge/catalyze/internal/manifest"
)

// TestHashProperties tests file hashing invariants
func TestHashProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("hash matches content digest", prop.ForAll(
		func(content string) bool {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "kit/a.tsx", []byte(content), 0644); err != nil {
				return false
			}
			got, err := CalculateFileHash(fs, "kit/a.tsx")
			if err != nil {
				return false
			}
			want := fmt.Sprintf("sha256:%x", sha256.Sum256([]byte(content)))
			return got == want
		},
		gen.AnyString(),
	))

	properties.Property("hash is deterministic", prop.ForAll(
		func(content string) bool {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "kit/a.tsx", []byte(content), 0644); err != nil {
				return false
			}
			first, err1 := CalculateFileHash(fs, "kit/a.tsx")
			second, err2 := CalculateFileHash(fs, "kit/a.tsx")
			return err1 == nil && err2 == nil && first == second
		},
		gen.AnyString(),
	))

	properties.Property("identical trees compare clean", prop.ForAll(
		func(content string) bool {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "kit/a.tsx", []byte(content), 0644); err != nil {
				return false
			}
			hash, err := CalculateFileHash(fs, "kit/a.tsx")
			if err != nil {
				return false
			}
			result := CompareHashes(map[string]string{"a.tsx": hash}, map[string]string{"a.tsx": hash})
			return result.IsValid && len(result.Mismatches) == 0 && len(result.Missing) == 0
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestManifestRoundTripProperties tests that save/load preserves hashes
func TestManifestRoundTripProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("manifest survives a save/load cycle", prop.ForAll(
		func(content string) bool {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "kit/a.tsx", []byte(content), 0644); err != nil {
				return false
			}
			hash, err := CalculateFileHash(fs, "kit/a.tsx")
			if err != nil {
				return false
			}
			m := &manifest.Manifest{Version: "1", Files: map[string]string{"a.tsx": hash}}
			if err := m.Save(fs, "kit/manifest.json"); err != nil {
				return false
			}
			loaded, err := manifest.Load(fs, "kit/manifest.json")
			if err != nil {
				return false
			}
			return loaded.Version == m.Version && loaded.Files["a.tsx"] == hash
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
