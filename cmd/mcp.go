package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/mcpserver"
	"github.com/VoxDroid/sunprep/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalog and renderer as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		s := mcpserver.NewServer(version.Version, &mcpserver.Handlers{Catalog: cat, Devices: newProvider()})
		return mcpserver.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
