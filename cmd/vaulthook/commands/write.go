package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/internal/config"
	dserrors "github.com/systmms/vaulthook/internal/errors"
)

func NewWriteCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <key> field=value...",
		Short: "Write a secret",
		Long: `Write fields to a Vault path, replacing what is stored there.

Examples:
  vaulthook write secret/foo bar=bar
  vaulthook write secret/db username=airflow password=s3cret`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			hook, closeFn, err := newHook(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			if _, err := hook.Write(ctx, key, fields); err != nil {
				return vaultFailure(cfg, "write", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Success! Data written to: %s\n", key)
			return err
		},
	}

	return cmd
}

func parseFields(args []string) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, dserrors.UserError{
				Message:    fmt.Sprintf("Invalid field '%s'", arg),
				Suggestion: "Fields are given as name=value",
			}
		}
		fields[name] = value
	}
	return fields, nil
}
