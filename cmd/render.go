package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/exporter"
	"github.com/VoxDroid/sunprep/internal/logging"
	"github.com/VoxDroid/sunprep/internal/project"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

var renderCmd = &cobra.Command{
	Use:   "render <project.json>",
	Short: "Render a saved project into batch files or the Sunshine descriptor",
	Long: "Render a saved project document offline.\n\n" +
		"By default the before/after batch files are written to the output directory;\n" +
		"--json writes the Sunshine descriptor instead. --stdout prints instead of writing.\n" +
		"Example:\n  sunprep render couch.json --json --copy",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.LoadDocument(args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		toStdout, _ := cmd.Flags().GetBool("stdout")
		toClipboard, _ := cmd.Flags().GetBool("copy")
		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = appConfig.OutputDir
		}
		tools := appConfig.ToolsDir
		out := cmd.OutOrStdout()

		pv, err := exporter.BuildPreview(p, tools)
		if err != nil {
			return err
		}
		if toClipboard {
			if err := copyToClipboard(pv.JSONConfig); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			logging.FromContext(cmd.Context()).Info("descriptor copied to clipboard")
		}

		if toStdout {
			if asJSON {
				fmt.Fprintln(out, pv.JSONConfig)
				return nil
			}
			for _, slot := range project.Slots {
				if len(p.Sequence(slot)) == 0 {
					continue
				}
				fmt.Fprint(out, exporter.RenderScriptFile(slot, p.Name, exporter.RenderSlot(p, slot, tools)))
			}
			return nil
		}

		var res exporter.Result
		if asJSON {
			res, err = exporter.WriteDescriptor(dir, p, tools)
		} else {
			res, err = exporter.WriteScripts(dir, p, tools)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, res.Message)
		for _, f := range res.Files {
			fmt.Fprintf(out, "- %s\n", f)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().String("out", "", "Output directory (default: configured output dir)")
	renderCmd.Flags().Bool("json", false, "Render the Sunshine descriptor instead of batch files")
	renderCmd.Flags().Bool("stdout", false, "Print instead of writing files")
	renderCmd.Flags().Bool("copy", false, "Copy the descriptor JSON to the clipboard")
	rootCmd.AddCommand(renderCmd)
}
