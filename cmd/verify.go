package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uiforge/catalyze/internal/config"
	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/manifest"
	"github.com/uiforge/catalyze/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:     "verify [dir]",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"v"},
	Short:   "Verify kit files against the hash manifest",
	Long: `Verify computes the SHA-256 hash of every file named in the manifest and
compares it to the recorded value. Missing and mismatched files fail
verification; files present on disk but absent from the manifest are
reported as extra without failing.

Exit status is 1 when verification fails.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	store := files.NewOSStore()
	m, err := manifest.Load(store.Fs(), cfg.Kit.ManifestPath)
	if err != nil {
		return err
	}

	result, warnings, err := verify.Directory(store.Fs(), m, cfg.Kit.SourceDir, cfg.Kit.Version)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(cmd.Context(), nil, w)
	}

	if !result.IsValid {
		printVerificationFailure(cfg, result)
		return fmt.Errorf("verification failed")
	}

	fmt.Printf("verified %d file(s)\n", len(m.Files))
	for _, name := range result.Extra {
		fmt.Printf("extra (not in manifest): %s\n", name)
	}
	return nil
}

func printVerificationFailure(cfg *config.Config, result verify.Result) {
	fmt.Fprint(os.Stderr, result.Describe(cfg.Kit.UpstreamURL))
}
