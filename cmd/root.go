package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/sunprep/internal/config"
	"github.com/VoxDroid/sunprep/internal/logging"
)

// appConfig is loaded before every command runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "sunprep",
	Short: "sunprep builds prep scripts for Sunshine game streaming sessions",
	Long: "sunprep assembles before/after batch scripts and the Sunshine prep descriptor\n" +
		"from a catalog of parameterized Windows actions.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("log-level"); v != "" {
			cfg.LogLevel = v
		}
		if v, _ := cmd.Flags().GetString("log-format"); v != "" {
			cfg.LogFormat = v
		}
		if err := cfg.Finalize(); err != nil {
			return err
		}
		appConfig = cfg

		log := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		cmd.SetContext(logging.WithLogger(cmd.Context(), log))
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default <data dir>/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}
