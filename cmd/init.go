package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/uiforge/catalyze/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .catalyze.yml",
	Long: `Init writes a .catalyze.yml with every option at its default value, as a
starting point for editing. It refuses to overwrite an existing file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(afero.NewOsFs(), ".catalyze.yml"); err != nil {
		return err
	}
	fmt.Println("wrote .catalyze.yml")
	return nil
}
