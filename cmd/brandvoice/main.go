package main

import (
	"fmt"
	"os"

	"github.com/spacesedan/brandvoice/config"
	internalconfig "github.com/spacesedan/brandvoice/internal/config"
	"github.com/spacesedan/brandvoice/internal/logging"
	"github.com/spf13/cobra"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var cfg *internalconfig.AppConfig

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brandvoice",
	Short: "Share of Voice and Share of Positive Voice for brands on YouTube",
	Long: `brandvoice searches YouTube for a set of keywords, tags videos and comments
with brand mentions, scores comment sentiment and reports each brand's
engagement-weighted Share of Voice and Share of Positive Voice.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)

		var err error
		cfg, err = internalconfig.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.LogLevel
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logging.InitLogger(logging.ParseLevel(level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(chartsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brandvoice %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
	},
}
