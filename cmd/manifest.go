package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/manifest"
	"github.com/uiforge/catalyze/internal/verify"
)

var manifestVersion string

var manifestCmd = &cobra.Command{
	Use:   "manifest [dir]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Generate a hash manifest from the kit source directory",
	Long: `Manifest hashes every kit file in the source directory and writes a fresh
manifest. This is the release-side counterpart of verify: run it against a
trusted copy of the upstream kit, commit the result, and installs will be
checked against it.

Examples:
  catalyze manifest --kit-version 2.1.0`,
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)

	manifestCmd.Flags().StringVar(&manifestVersion, "kit-version", "1", "Version recorded in the manifest")
}

func runManifest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	store := files.NewOSStore()
	names, err := store.List(cfg.Kit.SourceDir, cfg.Kit.Extensions...)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no kit files found in %s", cfg.Kit.SourceDir)
	}

	m := &manifest.Manifest{Version: manifestVersion, Files: make(map[string]string, len(names))}
	for _, name := range names {
		hash, err := verify.CalculateFileHash(store.Fs(), path.Join(cfg.Kit.SourceDir, name))
		if err != nil {
			return err
		}
		m.Files[name] = hash
	}

	if err := m.Save(store.Fs(), cfg.Kit.ManifestPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s with %d entr(ies)\n", cfg.Kit.ManifestPath, len(m.Files))
	return nil
}
