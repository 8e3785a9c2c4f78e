package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/pipeline"
	"github.com/uiforge/catalyze/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:     "watch [dir]",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"w"},
	Short:   "Re-install whenever kit source files change",
	Long: `Watch runs an install, then keeps watching the kit source directory and
re-runs the pipeline each time a .tsx, .ts, or .css file changes. Changes
arriving in a burst are debounced into one run.

The manifest gate applies to every run; edit-verify cycles usually want
--skip-verify here.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Delay before a change burst triggers a run")
	watchCmd.Flags().BoolVar(&installSkipVerify, "skip-verify", false, "Skip manifest verification")
	watchCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Report changes without writing files")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := files.NewOSStore()
	p := pipeline.New(cfg, store, logger)
	opts := pipeline.RunOptions{DryRun: installDryRun, SkipVerify: installSkipVerify}

	runOnce := func() {
		result, err := p.Run(ctx, opts)
		if err != nil {
			logger.Error(ctx, err, "install failed")
			return
		}
		printReport(result, installDryRun)
	}
	runOnce()

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.KitFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		logger.Info(ctx, "kit changed, re-running", "events", len(events))
		runOnce()
		return nil
	})
	if err := fw.AddPath(cfg.Kit.SourceDir); err != nil {
		return err
	}
	fw.Start(ctx)

	fmt.Printf("watching %s (ctrl-c to stop)\n", cfg.Kit.SourceDir)
	<-ctx.Done()
	return nil
}
