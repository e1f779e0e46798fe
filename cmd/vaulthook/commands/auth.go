package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/internal/config"
	dserrors "github.com/systmms/vaulthook/internal/errors"
)

func NewAuthCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Check that the connection's token is accepted",
		Long: `Ask Vault whether the connection's token is valid.

Prints "authenticated" and exits 0, or prints "not authenticated" and
exits 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			hook, closeFn, err := newHook(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			ok, err := hook.IsAuthenticated(ctx)
			if err != nil {
				return vaultFailure(cfg, "token lookup", err)
			}

			out := cmd.OutOrStdout()
			if !ok {
				_, _ = fmt.Fprintln(out, "not authenticated")
				return dserrors.UserError{
					Message:    fmt.Sprintf("Vault rejected the token of connection '%s'", hook.ConnID()),
					Suggestion: fmt.Sprintf("Store a fresh token with 'vaulthook login %s'", hook.ConnID()),
				}
			}

			_, err = fmt.Fprintln(out, "authenticated")
			return err
		},
	}
}
