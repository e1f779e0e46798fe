package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/internal/config"
	dserrors "github.com/systmms/vaulthook/internal/errors"
)

func NewReadCommand(cfg *config.Config) *cobra.Command {
	var (
		field      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "read <key>",
		Short: "Read a secret",
		Long: `Read the secret stored at a Vault path.

By default every field is printed as key=value, one per line, sorted by
field name.

Examples:
  vaulthook read secret/foo
  vaulthook read secret/foo --field password
  vaulthook read secret/foo --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			ctx := cmd.Context()

			hook, closeFn, err := newHook(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			secret, err := hook.Read(ctx, key)
			if err != nil {
				return vaultFailure(cfg, "read", err)
			}
			if secret == nil {
				return dserrors.UserError{
					Message:    fmt.Sprintf("No secret found at '%s'", key),
					Suggestion: "Check the path. KV version 2 mounts need the 'data/' segment",
				}
			}

			out := cmd.OutOrStdout()

			if field != "" {
				value, ok := secret.Data[field]
				if !ok {
					return dserrors.UserError{
						Message:    fmt.Sprintf("Field '%s' not present in secret '%s'", field, key),
						Suggestion: fmt.Sprintf("Available fields: %v", fieldNames(secret.Data)),
					}
				}
				_, err := fmt.Fprint(out, value)
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(secret.Data); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			}

			for _, name := range fieldNames(secret.Data) {
				if _, err := fmt.Fprintf(out, "%s=%v\n", name, secret.Data[name]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Print only this field's raw value")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the secret data as JSON")

	return cmd
}

func fieldNames(data map[string]interface{}) []string {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
