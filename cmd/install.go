package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xerrors "github.com/uiforge/catalyze/internal/errors"
	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/pipeline"
)

var (
	installDryRun     bool
	installSkipVerify bool
	installForce      bool
)

var installCmd = &cobra.Command{
	Use:     "install [dir]",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"i"},
	Short:   "Verify, transform, and install the component kit",
	Long: `Install runs the full pipeline: verify every kit file against the hash
manifest, build the global rename map across all files, apply the rewrite
passes to each file, and write the transformed sources into the destination
directory under prefixed file names.

Verification failure stops the run before anything is rewritten. Use
--force to proceed anyway, or --skip-verify to skip the gate entirely.

Examples:
  catalyze install                # Full verified install
  catalyze install --dry-run      # Report changes, write nothing
  catalyze install --prefix Acme  # Override the rename prefix
  catalyze install --force        # Install despite hash mismatches`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Compute and report changes without writing files")
	installCmd.Flags().BoolVar(&installSkipVerify, "skip-verify", false, "Skip manifest verification")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Proceed even when verification fails")
	installCmd.Flags().String("prefix", "", "Rename prefix (overrides config)")
	installCmd.Flags().String("source", "", "Kit source directory (overrides config)")
	installCmd.Flags().String("dest", "", "Destination directory (overrides config)")
	viper.BindPFlag("transform.prefix", installCmd.Flags().Lookup("prefix"))
	viper.BindPFlag("kit.source_dir", installCmd.Flags().Lookup("source"))
	viper.BindPFlag("install.dest_dir", installCmd.Flags().Lookup("dest"))
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	store := files.NewOSStore()
	p := pipeline.New(cfg, store, logger)

	result, err := p.Run(cmd.Context(), pipeline.RunOptions{
		DryRun:     installDryRun,
		SkipVerify: installSkipVerify,
		Force:      installForce,
	})
	if err != nil {
		if xerrors.IsVerification(err) && result != nil && result.Verification != nil {
			printVerificationFailure(cfg, *result.Verification)
		}
		return err
	}

	printReport(result, installDryRun)
	if result.Failed() {
		return fmt.Errorf("one or more files failed to transform")
	}
	return nil
}

func printReport(result *pipeline.Result, dryRun bool) {
	for _, entry := range result.ChangeLog {
		fmt.Println(entry)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}
	written := 0
	for _, fr := range result.Files {
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", fr.SourceName, fr.Err)
			continue
		}
		if fr.BackupPath != "" {
			fmt.Printf("backed up %s\n", fr.BackupPath)
		}
		written++
	}
	verb := "installed"
	if dryRun {
		verb = "would install"
	}
	fmt.Printf("%s %d file(s), %d rename(s)\n", verb, written, result.RenameCount)
}
