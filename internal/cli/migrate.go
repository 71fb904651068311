package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// MigrateResult reports the schema state after migrating.
type MigrateResult struct {
	Driver  string `json:"driver"`
	Version int64  `json:"version"`
}

// RenderText implements TextRenderer.
func (r MigrateResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Schema at version %d (%s)\n", r.Version, r.Driver)
	return err
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply pending schema migrations and print the resulting version.

Every command migrates on startup; migrate does nothing else.

Example:
  roster migrate --db ./roster.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSession(cmd, rootOpts, func(s *session) (any, error) {
				version, err := s.store.SchemaVersion(cmd.Context())
				if err != nil {
					return nil, err
				}
				return MigrateResult{Driver: string(s.store.Dialect()), Version: version}, nil
			})
		},
	}
}
