package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/receipt-feed/internal/config"
	"github.com/foxxcyber/receipt-feed/internal/logger"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "receipts",
		Short:         "Parse and import vendor receipt text",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level, _ := cmd.Flags().GetString("log-level")
			json, _ := cmd.Flags().GetBool("log-json")
			logger.Setup(level, json)
		},
	}

	root.PersistentFlags().String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().Bool("log-json", cfg.LogJSON, "Emit logs as JSON")

	root.AddCommand(
		parseCmd(),
		importCmd(cfg),
	)

	return root
}
