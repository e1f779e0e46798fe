package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/cmd/vaulthook/commands"
	"github.com/systmms/vaulthook/internal/config"
	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "vaulthook",
		Short: "Read and write Vault secrets through named connections",
		Long: `vaulthook resolves a named connection (host, port, token, client
certificate) and talks to HashiCorp Vault with it.

Connections come from VAULTHOOK_CONN_<ID> environment variables, a
connections file or the orchestrator metadata database, as configured
in vaulthook.yaml.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "vaulthook.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&cfg.ConnID, "conn-id", "", "Connection id (default \"vault_default\")")
	rootCmd.PersistentFlags().BoolVar(&cfg.DisableTLS, "no-tls", false, "Talk to Vault over plain http")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewReadCommand(cfg),
		commands.NewWriteCommand(cfg),
		commands.NewDeleteCommand(cfg),
		commands.NewAuthCommand(cfg),
		commands.NewConnectionsCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
