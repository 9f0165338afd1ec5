package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/config"
	"github.com/VoxDroid/sunprep/internal/db"
	"github.com/VoxDroid/sunprep/internal/logging"
	"github.com/VoxDroid/sunprep/internal/project"
	"github.com/VoxDroid/sunprep/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project builder API",
	Long:  "Serve the project builder HTTP API. Example:\n  sunprep serve --listen :3000 --static ./public",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if v, _ := cmd.Flags().GetString("listen"); v != "" {
			appConfig.Listen = v
		}
		if v, _ := cmd.Flags().GetString("static"); v != "" {
			appConfig.StaticDir = v
			if err := appConfig.Finalize(); err != nil {
				return err
			}
		}
		log := logging.FromContext(cmd.Context())

		for _, dir := range []string{appConfig.ToolsDir, appConfig.OutputDir} {
			if err := config.EnsureDir(dir); err != nil {
				return err
			}
		}

		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		conn, err := db.OpenMemory()
		if err != nil {
			return err
		}
		store, err := project.NewStore(cmd.Context(), conn, appConfig.ProjectName)
		if err != nil {
			_ = conn.Close()
			return err
		}
		defer func() { _ = store.Close() }()

		srv := server.New(server.Options{
			ToolsDir:  appConfig.ToolsDir,
			OutputDir: appConfig.OutputDir,
			StaticDir: appConfig.StaticDir,
		}, cat, store, newProvider(), log)

		log.Info("starting sunprep",
			"actions", cat.Len(),
			"tools_dir", appConfig.ToolsDir,
			"output_dir", appConfig.OutputDir)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, appConfig.Listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (default :3000)")
	serveCmd.Flags().String("static", "", "Directory of static UI files served at /")
	rootCmd.AddCommand(serveCmd)
}
