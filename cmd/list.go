package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uiforge/catalyze/internal/files"
	"github.com/uiforge/catalyze/internal/transform"
	"github.com/uiforge/catalyze/internal/tsx"
)

var (
	listFormat      string
	listWithRenames bool
)

// listEntry is one kit file in list output.
type listEntry struct {
	Source  string   `json:"source" yaml:"source"`
	Dest    string   `json:"dest" yaml:"dest"`
	Renames []string `json:"renames,omitempty" yaml:"renames,omitempty"`
}

var listCmd = &cobra.Command{
	Use:     "list [dir]",
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"l"},
	Short:   "List kit files and their install targets",
	Long: `List shows every kit file in the source directory alongside the file name
it would be installed under, and optionally the identifier renames the
transform would perform.

Examples:
  catalyze list                   # Table of source -> destination
  catalyze list -f json           # Output as JSON
  catalyze list --with-renames    # Include the rename map`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().VarP(newEnumValue(&listFormat, "table", "table", "json", "yaml"), "format", "f", "Output format (table, json, yaml)")
	listCmd.Flags().BoolVar(&listWithRenames, "with-renames", false, "Include per-run rename map entries")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	store := files.NewOSStore()
	names, err := store.List(cfg.Kit.SourceDir, cfg.Kit.Extensions...)
	if err != nil {
		return err
	}

	tctx := transform.NewContext(transform.Options{
		Prefix:            cfg.Transform.Prefix,
		ExcludedModule:    cfg.Transform.ExcludedModule,
		ExcludedQualifier: cfg.Transform.ExcludedQualifier,
		GenericPropTypes:  cfg.Transform.GenericPropTypes,
	})

	entries := make([]listEntry, 0, len(names))
	for _, name := range names {
		entry := listEntry{Source: name, Dest: transform.DestinationName(tctx, name)}
		if listWithRenames && (path.Ext(name) == ".tsx" || path.Ext(name) == ".ts") {
			data, err := store.Read(path.Join(cfg.Kit.SourceDir, name))
			if err != nil {
				return err
			}
			tree, err := tsx.Parse(string(data))
			if err != nil {
				entry.Renames = []string{fmt.Sprintf("unparseable: %v", err)}
				entries = append(entries, entry)
				continue
			}
			seen := make(map[string]bool)
			for _, pair := range tctx.RenamePairs() {
				seen[pair[0]] = true
			}
			transform.BuildRenames(tctx, name, tree)
			for _, pair := range tctx.RenamePairs() {
				if !seen[pair[0]] {
					entry.Renames = append(entry.Renames, fmt.Sprintf("%s -> %s", pair[0], pair[1]))
				}
			}
		}
		entries = append(entries, entry)
	}

	switch listFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(entries)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tDEST")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\n", entry.Source, entry.Dest)
			for _, rename := range entry.Renames {
				fmt.Fprintf(w, "\t  %s\n", rename)
			}
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", listFormat)
	}
}
