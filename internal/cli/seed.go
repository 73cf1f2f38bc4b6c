package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alanyang/agent-marketplace/internal/adapter/embedded"
	"github.com/alanyang/agent-marketplace/internal/adapter/file"
	pgdb "github.com/alanyang/agent-marketplace/internal/adapter/postgres"
	pgcatalog "github.com/alanyang/agent-marketplace/internal/adapter/postgres/catalog"
	portcatalog "github.com/alanyang/agent-marketplace/internal/port/catalog"
)

func newSeedCmd() *cobra.Command {
	var (
		from        string
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the Postgres catalog with the bundled data or a data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = cfg.Catalog.DatabaseURL
			}
			if databaseURL == "" {
				return errors.New("no database: set catalog.databaseURL, DATABASE_URL or --database-url")
			}

			var src portcatalog.Source = embedded.New()
			if from != "" {
				src = file.New(from)
			}
			data, err := src.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name(), err)
			}

			pool, err := pgdb.Connect(cmd.Context(), databaseURL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			if err := pgdb.Migrate(cmd.Context(), pool); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
			if err := pgcatalog.New(pool).Seed(cmd.Context(), data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d agents and %d mock responses from %s\n",
				len(data.Agents), len(data.MockResponses), src.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "directory holding agents.json and mockResponses.json (default: bundled data)")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (overrides catalog.databaseURL)")
	return cmd
}
