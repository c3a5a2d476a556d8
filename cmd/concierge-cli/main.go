// Package main provides the Concierge Engine command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/veralis-ai/concierge-engine/internal/config"
	"github.com/veralis-ai/concierge-engine/internal/observability"
)

var version = "dev"

var (
	cfgPath string
	cfg     *config.Config
	logger  *observability.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "concierge-cli",
		Short: "Concierge Engine command-line interface",
		Long: "Interact with the Concierge Engine from the terminal: chat with the\n" +
			"pipeline, qualify a transcript and manage the knowledge base.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger = observability.NewLogger(observability.LogConfig{
				Level:       "warn", // keep the terminal clean for UI output
				Format:      "console",
				ServiceName: cfg.Observability.ServiceName,
			})
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newQualifyCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("concierge-cli %s\n", version)
		},
	}
}
