package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bistro_back_end/internal/config"
)

var (
	envFile   string
	logLevel  string
	logFormat string
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bistro",
		Short:         "Bistro Boss ordering backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFile(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")

	serve := newServeCommand()
	// sans sous-commande : serve
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newTokenCommand(), newPromoteCommand(), newVersionCommand())
	return root
}

func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applique les flags de logging par-dessus l'environnement.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
