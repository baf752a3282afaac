// attendance-backend serves the attendance API.
//
// Usage:
//
//	attendance-backend serve   [--config=config/config.yaml]
//	attendance-backend migrate [--config=config/config.yaml]
//	attendance-backend version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"attendance-backend/internal/platform/config"
	"attendance-backend/internal/platform/logging"
)

// -ldflags "-X main.version=..." で上書き
var version = "dev"

var rootFlags struct {
	configPath string
}

var rootCmd = &cobra.Command{
	Use:           "attendance-backend",
	Short:         "Attendance API server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config and initialises the default logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
