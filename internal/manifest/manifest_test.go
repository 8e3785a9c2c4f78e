package manifest

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/uiforge/catalyze/internal/errors"
)

const goodHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

func TestLoadValidManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `{"version":"1","files":{"button.tsx":"` + goodHash + `"}}`
	require.NoError(t, afero.WriteFile(fs, "manifest.json", []byte(doc), 0o644))

	m, err := Load(fs, "manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "1", m.Version)
	assert.Equal(t, goodHash, m.Files["button.tsx"])
}

func TestLoadMissingManifest(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "manifest.json")
	require.Error(t, err)
	assert.True(t, xerrors.IsNotFound(err))
}

func TestLoadMalformedJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "manifest.json", []byte("{not json"), 0o644))

	_, err := Load(fs, "manifest.json")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		m       Manifest
		wantErr string
	}{
		{
			name: "valid",
			m:    Manifest{Version: "1", Files: map[string]string{"a.tsx": goodHash}},
		},
		{
			name: "empty files map is valid",
			m:    Manifest{Version: "1", Files: map[string]string{}},
		},
		{
			name:    "missing version",
			m:       Manifest{Files: map[string]string{}},
			wantErr: "missing version",
		},
		{
			name:    "missing files map",
			m:       Manifest{Version: "1"},
			wantErr: "missing files map",
		},
		{
			name:    "malformed hash rejects whole manifest",
			m:       Manifest{Version: "1", Files: map[string]string{"a.tsx": "sha256:short"}},
			wantErr: "malformed hash",
		},
		{
			name:    "wrong algorithm prefix",
			m:       Manifest{Version: "1", Files: map[string]string{"a.tsx": "md5:" + strings.Repeat("0", 64)}},
			wantErr: "malformed hash",
		},
		{
			name:    "uppercase hex rejected",
			m:       Manifest{Version: "1", Files: map[string]string{"a.tsx": "sha256:" + strings.Repeat("A", 64)}},
			wantErr: "malformed hash",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := &Manifest{Version: "2", Files: map[string]string{
		"button.tsx": goodHash,
		"input.tsx":  goodHash,
	}}
	require.NoError(t, m.Save(fs, "out/manifest.json"))

	loaded, err := Load(fs, "out/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	data, err := afero.ReadFile(fs, "out/manifest.json")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestSaveRejectsInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := &Manifest{Version: "", Files: map[string]string{}}
	assert.Error(t, m.Save(fs, "manifest.json"))
}

func TestFileNamesSorted(t *testing.T) {
	m := &Manifest{Version: "1", Files: map[string]string{
		"zeta.tsx":  goodHash,
		"alpha.tsx": goodHash,
		"mid.css":   goodHash,
	}}
	assert.Equal(t, []string{"alpha.tsx", "mid.css", "zeta.tsx"}, m.FileNames())
}
