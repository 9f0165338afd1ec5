package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/devices"
)

var optionsCmd = &cobra.Command{
	Use:   "options [variable]",
	Short: "List suggested values for a variable",
	Long: "List suggested values for a variable, or the variables that have\n" +
		"suggestions when none is given. Device variables enumerate the local\n" +
		"displays or audio endpoints. Example:\n  sunprep options display_device_id",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prov := newProvider()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, v := range prov.Variables() {
				fmt.Fprintln(out, v)
			}
			return nil
		}
		if !prov.HasOptions(args[0]) {
			fmt.Fprintf(out, "no options for %q\n", args[0])
			return nil
		}
		p := painterFor(out)
		for _, o := range prov.Options(cmd.Context(), args[0]) {
			fmt.Fprintf(out, "%s\t%s\n", o.Value, p.render(dimStyle, o.Label))
		}
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the runtime tokens Sunshine substitutes at launch",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		for _, t := range devices.RuntimeTokens() {
			fmt.Fprintf(out, "%s\t%s\n", t.Token, t.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(tokensCmd)
}
