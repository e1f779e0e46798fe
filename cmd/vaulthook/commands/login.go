package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/internal/config"
	"github.com/systmms/vaulthook/internal/connections"
	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/logging"
	"github.com/systmms/vaulthook/internal/secure"
	"github.com/systmms/vaulthook/pkg/vaulthook"
)

// storeToken is swapped out in tests.
var storeToken = connections.StoreToken

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "login [conn-id]",
		Short: "Store a Vault token for a connection in the OS keyring",
		Long: `Read a token from stdin and store it in the OS keyring under the
connection id. Connections without a token of their own pick it up when
the keyring source is enabled.

Examples:
  vault print token | vaulthook login vault_default`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Logger == nil {
				cfg.Logger = logging.Discard()
			}
			id := cfg.EffectiveConnID()
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				id = vaulthook.DefaultConnID
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return dserrors.UserError{
					Message:    "No token given on stdin",
					Suggestion: "Pipe the token in, e.g. 'vault print token | vaulthook login'",
				}
			}

			token := secure.NewSecureString(strings.TrimSpace(line))
			defer token.Destroy()
			if token.Empty() {
				return dserrors.UserError{Message: "Token is empty"}
			}

			plain, err := token.Reveal()
			if err != nil {
				return err
			}
			cfg.Logger.Debug("storing token %s for conn id %q", logging.Secret(plain), id)
			if err := storeToken(id, plain); err != nil {
				return dserrors.UserError{
					Message:    "Failed to store token in the OS keyring",
					Details:    logging.Redact(err.Error(), []string{plain}),
					Suggestion: "Check that a keyring service (Secret Service, Keychain) is available",
					Err:        err,
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Token stored for connection %s\n", id)
			return err
		},
	}
}
