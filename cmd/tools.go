package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/devices"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which helper executables are present in the tools directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rep := devices.ToolsStatus(appConfig.ToolsDir)
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		p := painterFor(out)
		fmt.Fprintln(out, p.render(headingStyle, "Tools in "+appConfig.ToolsDir))
		for _, t := range rep.Tools {
			if t.Available {
				fmt.Fprintf(out, "  %s %-26s %s\n", p.render(okStyle, "✓"), t.Filename, t.SizeLabel)
			} else {
				fmt.Fprintf(out, "  %s %-26s %s\n", p.render(missStyle, "✗"), t.Filename, p.render(dimStyle, "missing"))
			}
		}
		fmt.Fprintf(out, "%d of %d available\n", rep.Summary.Available, rep.Summary.Total)
		return nil
	},
}

func init() {
	toolsCmd.Flags().Bool("json", false, "Print the report as JSON")
	rootCmd.AddCommand(toolsCmd)
}
