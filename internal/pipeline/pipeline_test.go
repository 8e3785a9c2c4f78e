package pipeline

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiforge/catalyze/internal/config"
	xerrors "github.com/uiforge/catalyze/internal/errors"
	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/logging"
	"github.com/uiforge/catalyze/internal/manifest"
	"github.com/uiforge/catalyze/internal/verify"
)

const (
	buttonSrc = "import { Icon } from './icon';\nexport function Button() {\n  return <button><Icon /></button>;\n}\n"
	iconSrc   = "export function Icon() {\n  return <svg />;\n}\n"
	themeSrc  = ".btn { color: red; }\n"
)

// testPipeline seeds an in-memory kit directory with a matching manifest
// and returns a pipeline over it.
func testPipeline(t *testing.T, sources map[string]string) (*Pipeline, *files.Store, *config.Config) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := files.NewStore(fs)

	cfg := config.Default()
	cfg.Kit.SourceDir = "vendor-kit"
	cfg.Kit.ManifestPath = "vendor-kit/manifest.json"
	cfg.Kit.Version = "1"
	cfg.Install.DestDir = "src/components"

	m := &manifest.Manifest{Version: "1", Files: map[string]string{}}
	for name, content := range sources {
		require.NoError(t, store.Write("vendor-kit/"+name, []byte(content)))
		hash, err := verify.CalculateFileHash(fs, "vendor-kit/"+name)
		require.NoError(t, err)
		m.Files[name] = hash
	}
	require.NoError(t, m.Save(fs, cfg.Kit.ManifestPath))

	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelError, Format: "text", Output: nullWriter{}})
	return New(cfg, store, logger), store, cfg
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func kitSources() map[string]string {
	return map[string]string{
		"button.tsx": buttonSrc,
		"icon.tsx":   iconSrc,
		"theme.css":  themeSrc,
	}
}

func TestRunInstallsTransformedFiles(t *testing.T) {
	p, store, _ := testPipeline(t, kitSources())

	result, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.NotNil(t, result.Verification)
	assert.True(t, result.Verification.IsValid)
	assert.False(t, result.Failed())
	assert.Len(t, result.Files, 3)
	assert.Positive(t, result.RenameCount)

	button, err := store.Read("src/components/catalyst-button.tsx")
	require.NoError(t, err)
	assert.Contains(t, string(button), "export function CatalystButton()")
	assert.Contains(t, string(button), "import { CatalystIcon } from './catalyst-icon';")
	assert.Contains(t, string(button), "<CatalystIcon />")

	theme, err := store.Read("src/components/catalyst-theme.css")
	require.NoError(t, err)
	assert.Equal(t, themeSrc, string(theme), "non-code files install unchanged")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	p, store, _ := testPipeline(t, kitSources())

	result, err := p.Run(context.Background(), RunOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, result.Files, 3)
	for _, fr := range result.Files {
		assert.NotEmpty(t, fr.Output)
	}

	exists, err := store.Exists("src/components/catalyst-button.tsx")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunVerificationGate(t *testing.T) {
	p, store, _ := testPipeline(t, kitSources())
	require.NoError(t, store.Write("vendor-kit/button.tsx", []byte("export const Tampered = 1;\n")))

	result, err := p.Run(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.True(t, xerrors.IsVerification(err))
	require.NotNil(t, result.Verification)
	assert.False(t, result.Verification.IsValid)
	assert.Empty(t, result.Files, "no transform runs after a failed gate")

	exists, _ := store.Exists("src/components/catalyst-button.tsx")
	assert.False(t, exists)
}

func TestRunForceOverridesGate(t *testing.T) {
	p, store, _ := testPipeline(t, kitSources())
	require.NoError(t, store.Write("vendor-kit/button.tsx", []byte("export function Button() {\n  return null;\n}\n")))

	result, err := p.Run(context.Background(), RunOptions{Force: true})
	require.NoError(t, err)
	assert.False(t, result.Verification.IsValid)
	assert.False(t, result.Failed())

	exists, err := store.Exists("src/components/catalyst-button.tsx")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRunSkipVerifyWithoutManifest(t *testing.T) {
	p, store, cfg := testPipeline(t, kitSources())
	require.NoError(t, store.Fs().Remove(cfg.Kit.ManifestPath))

	_, err := p.Run(context.Background(), RunOptions{})
	require.Error(t, err, "missing manifest is a hard stop")
	assert.True(t, xerrors.IsNotFound(err))

	result, err := p.Run(context.Background(), RunOptions{SkipVerify: true})
	require.NoError(t, err)
	assert.Nil(t, result.Verification)
	assert.False(t, result.Failed())
}

func TestRunCollectsParseFailures(t *testing.T) {
	sources := kitSources()
	sources["broken.tsx"] = "export function (((\n"
	p, store, _ := testPipeline(t, sources)

	result, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err, "a bad file does not abort the batch")
	assert.True(t, result.Failed())

	var failed *FileResult
	for i := range result.Files {
		if result.Files[i].Err != nil {
			failed = &result.Files[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "broken.tsx", failed.SourceName)

	exists, err := store.Exists("src/components/catalyst-button.tsx")
	require.NoError(t, err)
	assert.True(t, exists, "siblings still install")
	broken, _ := store.Exists("src/components/catalyst-broken.tsx")
	assert.False(t, broken)
}

func TestRunBackupPreservesLocalEdits(t *testing.T) {
	p, store, cfg := testPipeline(t, kitSources())
	cfg.Install.Backup = true
	require.NoError(t, store.Write("src/components/catalyst-button.tsx", []byte("local edits\n")))

	result, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	var backupPath string
	for _, fr := range result.Files {
		if fr.DestName == "catalyst-button.tsx" {
			backupPath = fr.BackupPath
		}
	}
	require.NotEmpty(t, backupPath)
	saved, err := store.Read(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "local edits\n", string(saved))
}

func TestRunIsIdempotent(t *testing.T) {
	p, store, _ := testPipeline(t, kitSources())

	first, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.False(t, first.Failed())

	// second pipeline over the installed output
	fs := store.Fs()
	cfg2 := config.Default()
	cfg2.Kit.SourceDir = "src/components"
	cfg2.Install.DestDir = "round-two"
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelError, Format: "text", Output: nullWriter{}})
	p2 := New(cfg2, files.NewStore(fs), logger)

	second, err := p2.Run(context.Background(), RunOptions{SkipVerify: true})
	require.NoError(t, err)
	require.False(t, second.Failed())
	assert.Empty(t, second.ChangeLog, "second run applies no changes")

	for _, fr := range first.Files {
		if fr.Output == nil {
			continue
		}
		again, err := afero.ReadFile(fs, "round-two/"+fr.DestName)
		require.NoError(t, err)
		assert.Equal(t, string(fr.Output), string(again), "re-running over %s must change nothing", fr.DestName)
	}
}

func TestRunEmptySourceDir(t *testing.T) {
	p, _, _ := testPipeline(t, nil)

	_, err := p.Run(context.Background(), RunOptions{SkipVerify: true})
	require.Error(t, err)
}
