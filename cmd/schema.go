package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/catalog"
	"github.com/VoxDroid/sunprep/internal/exporter"
)

var schemaCmd = &cobra.Command{
	Use:       "schema [descriptor|catalog]",
	Short:     "Print a JSON Schema (default: the Sunshine descriptor)",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"descriptor", "catalog"},
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := exporter.GenerateDescriptorSchema
		if len(args) == 1 && args[0] == "catalog" {
			gen = catalog.GenerateJSONSchema
		}
		data, err := gen()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
