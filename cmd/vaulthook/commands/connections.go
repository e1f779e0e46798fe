package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/vaulthook/internal/config"
	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/pkg/connection"
	"github.com/systmms/vaulthook/pkg/vaulthook"
	"gopkg.in/yaml.v3"
)

func NewConnectionsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Inspect configured connections",
	}

	cmd.AddCommand(
		newConnectionsListCommand(cfg),
		newConnectionsShowCommand(cfg),
	)

	return cmd
}

func newConnectionsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connections from sources that can enumerate them",
		Long: `List connections from the connections file and the metadata
database. Environment connections are not listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, closeFn, err := loadLookup(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			lister, ok := lookup.(connection.Lister)
			if !ok {
				return dserrors.UserError{Message: "No configured source can list connections"}
			}

			records, err := lister.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, err := fmt.Fprintln(out, "No connections found")
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "CONN ID\tTYPE\tHOST\tPORT\tTOKEN")
			for _, r := range records {
				token := "no"
				if r.Password != "" {
					token = "yes"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Host, r.Port, token)
			}
			return w.Flush()
		},
	}
}

func newConnectionsShowCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show [conn-id]",
		Short: "Show a connection with its token redacted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, closeFn, err := loadLookup(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			id := cfg.EffectiveConnID()
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				id = vaulthook.DefaultConnID
			}

			rec, err := lookup.Lookup(cmd.Context(), id)
			if err != nil {
				return dserrors.VaultError("connection lookup", err)
			}

			data, err := yaml.Marshal(map[string]connection.Record{id: rec.Redacted()})
			if err != nil {
				return fmt.Errorf("failed to encode connection: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
