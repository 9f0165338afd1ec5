package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the action catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog actions",
	Long:  "List catalog actions. Example:\n  sunprep catalog list --category Audio --filter mute",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		filter, _ := cmd.Flags().GetString("filter")

		out := cmd.OutOrStdout()
		p := painterFor(out)
		for _, a := range catalog.Search(cat.Filter(category), filter) {
			fmt.Fprintf(out, "- %s %s\n", a.Name, p.render(dimStyle, "["+a.Category+"]"))
		}
		return nil
	},
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, c := range cat.Categories() {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one catalog action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		a, ok := cat.Find(args[0])
		if !ok {
			return fmt.Errorf("action %q not found", args[0])
		}

		out := cmd.OutOrStdout()
		p := painterFor(out)
		fmt.Fprintln(out, p.render(headingStyle, a.Name))
		fmt.Fprintf(out, "%s %s\n", p.render(keyStyle, "Category:"), a.Category)
		fmt.Fprintf(out, "%s %s\n", p.render(keyStyle, "Description:"), a.Description)
		fmt.Fprintf(out, "%s %s\n", p.render(keyStyle, "Command:"), a.Command)
		if len(a.Variables) > 0 {
			fmt.Fprintf(out, "%s %s\n", p.render(keyStyle, "Variables:"), strings.Join(a.Variables, ", "))
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file (default: the configured catalog)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig.CatalogFile
		if len(args) == 1 {
			path = args[0]
		}
		label := path
		if label == "" {
			label = "built-in catalog"
		}

		cat, err := catalog.Load(path)
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			out := cmd.OutOrStdout()
			for _, prob := range verr.Problems {
				fmt.Fprintln(out, prob.Error())
			}
			return fmt.Errorf("%s: %d problem(s)", label, len(verr.Problems))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d actions)\n", label, cat.Len())
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("category", "", "Filter by category")
	catalogListCmd.Flags().String("filter", "", "Fuzzy filter over name and description")
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}
