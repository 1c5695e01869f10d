package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aula/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	cfg        *config.Config
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aula",
		Short: "Aula - accessible course site",
		Long: `Aula serves an accessible educational site: adaptive visuals,
a simulated screen reader and role-based sessions stored per browser.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(
		serveCmd(),
		profileCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Aula %s\n", version)
		},
	}
}
