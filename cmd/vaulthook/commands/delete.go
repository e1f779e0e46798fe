package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/internal/config"
)

func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			ctx := cmd.Context()

			hook, closeFn, err := newHook(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			if err := hook.Delete(ctx, key); err != nil {
				return vaultFailure(cfg, "delete", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Success! Data deleted (if it existed) at: %s\n", key)
			return err
		},
	}
}
