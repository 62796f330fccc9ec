package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sagarc03/appshelf/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "appshelf",
	Short:   "Serve a catalog of downloadable app packages",
	Long: `appshelf serves .apk packages from a directory tree, together with
HTML pages listing them by category. Pages are built on every request from
a metadata catalog, the category directories and a page template.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadEnvFiles()

		var configFiles []string
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			configFiles = []string{configFile}
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg, os.Stderr)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-path", "", "directory to serve (default: ., env: APPSHELF_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("apps-dir", "", "apps root inside the storage path (default: apps)")
	rootCmd.PersistentFlags().String("catalog", "", "metadata catalog inside the storage path (default: apps_metadata.json)")
	rootCmd.PersistentFlags().String("templates-dir", "", "page templates inside the storage path (default: templates)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: info, env: APPSHELF_LOG_LEVEL)")
}

// loadEnvFiles loads environment variables from .env files. Variables that
// are already set win, and .env.local is read before .env so it takes
// precedence.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
