package verify

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/uiforge/catalyze/internal/errors"
	"github.com/uiforge/catalyze/internal/manifest"
)

func writeKit(t *testing.T, fs afero.Fs, dir string, contents map[string]string) *manifest.Manifest {
	t.Helper()
	m := &manifest.Manifest{Version: "1", Files: map[string]string{}}
	for name, content := range contents {
		require.NoError(t, afero.WriteFile(fs, dir+"/"+name, []byte(content), 0o644))
		hash, err := CalculateFileHash(fs, dir+"/"+name)
		require.NoError(t, err)
		m.Files[name] = hash
	}
	return m
}

func TestCalculateFileHash(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "kit/button.tsx", []byte("export const x = 1;\n"), 0o644))

	hash, err := CalculateFileHash(fs, "kit/button.tsx")
	require.NoError(t, err)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, hash)

	again, err := CalculateFileHash(fs, "kit/button.tsx")
	require.NoError(t, err)
	assert.Equal(t, hash, again, "same bytes must hash identically")
}

func TestCalculateFileHashNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := CalculateFileHash(fs, "kit/absent.tsx")
	require.Error(t, err)
	assert.True(t, xerrors.IsNotFound(err))
}

func TestDirectoryAllValid(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := writeKit(t, fs, "kit", map[string]string{
		"button.tsx": "export const Button = 1;\n",
		"input.tsx":  "export const Input = 2;\n",
		"theme.css":  ".btn {}\n",
	})

	result, warnings, err := Directory(fs, m, "kit", "1")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Mismatches)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Extra)
}

func TestDirectorySingleByteChange(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := writeKit(t, fs, "kit", map[string]string{
		"button.tsx": "export const Button = 1;\n",
		"input.tsx":  "export const Input = 2;\n",
	})
	require.NoError(t, afero.WriteFile(fs, "kit/button.tsx", []byte("export const Button = 9;\n"), 0o644))

	result, _, err := Directory(fs, m, "kit", "1")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "button.tsx", result.Mismatches[0].FileName)
	assert.NotEqual(t, result.Mismatches[0].ExpectedHash, result.Mismatches[0].ActualHash)
	assert.Empty(t, result.Missing)
}

func TestDirectoryMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := writeKit(t, fs, "kit", map[string]string{
		"button.tsx": "export const Button = 1;\n",
		"input.tsx":  "export const Input = 2;\n",
	})
	require.NoError(t, fs.Remove("kit/input.tsx"))

	result, _, err := Directory(fs, m, "kit", "1")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"input.tsx"}, result.Missing)
	assert.Empty(t, result.Mismatches)
}

func TestDirectoryExtraFileStaysValid(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := writeKit(t, fs, "kit", map[string]string{
		"button.tsx": "export const Button = 1;\n",
	})
	require.NoError(t, afero.WriteFile(fs, "kit/local.tsx", []byte("export const Local = 1;\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "kit/notes.txt", []byte("ignored\n"), 0o644))

	result, _, err := Directory(fs, m, "kit", "1")
	require.NoError(t, err)
	assert.True(t, result.IsValid, "extra files alone never invalidate")
	assert.Equal(t, []string{"local.tsx"}, result.Extra, "non-kit extensions are not reported")
}

func TestDirectoryVersionMismatchWarns(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := writeKit(t, fs, "kit", map[string]string{
		"button.tsx": "export const Button = 1;\n",
	})

	result, warnings, err := Directory(fs, m, "kit", "2")
	require.NoError(t, err)
	assert.True(t, result.IsValid, "version mismatch is a warning, not a failure")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"2"`)
}

func TestDirectoryMissingDirIsHardError(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := &manifest.Manifest{Version: "1", Files: map[string]string{}}

	_, _, err := Directory(fs, m, "nope", "1")
	require.Error(t, err)
	assert.True(t, xerrors.IsNotFound(err))
}

func TestCalculateHashesParallelMatchesSync(t *testing.T) {
	fs := afero.NewMemMapFs()
	names := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("file%02d.tsx", i)
		require.NoError(t, afero.WriteFile(fs, "kit/"+name, []byte(fmt.Sprintf("export const v = %d;\n", i)), 0o644))
		names = append(names, name)
	}

	parallel, err := CalculateHashes(fs, "kit", names)
	require.NoError(t, err)
	sequential, err := calculateHashesSync(fs, "kit", names)
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
	assert.Len(t, parallel, 12)
}

func TestCompareHashes(t *testing.T) {
	expected := map[string]string{"a.tsx": "sha256:aa", "b.tsx": "sha256:bb"}
	actual := map[string]string{"a.tsx": "sha256:aa", "b.tsx": "sha256:xx", "c.tsx": "sha256:cc"}

	result := CompareHashes(expected, actual)
	assert.False(t, result.IsValid)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "b.tsx", result.Mismatches[0].FileName)
	assert.Equal(t, []string{"c.tsx"}, result.Extra)
	assert.Empty(t, result.Missing)
}

func TestResultError(t *testing.T) {
	assert.NoError(t, Result{IsValid: true}.Error())

	err := Result{
		Mismatches: []Mismatch{{FileName: "a.tsx"}},
		Missing:    []string{"b.tsx"},
	}.Error()
	require.Error(t, err)
	var verr *xerrors.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"a.tsx"}, verr.Mismatched)
	assert.Equal(t, []string{"b.tsx"}, verr.Missing)
}

func TestResultDescribe(t *testing.T) {
	r := Result{
		Mismatches: []Mismatch{{FileName: "a.tsx", ExpectedHash: "sha256:aa", ActualHash: "sha256:bb"}},
		Missing:    []string{"b.tsx"},
	}
	out := r.Describe("https://example.com/kit")
	assert.Contains(t, out, "mismatched: a.tsx")
	assert.Contains(t, out, "missing: b.tsx")
	assert.Contains(t, out, "https://example.com/kit")
}
