package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"neptune/internal/catalog"
	"neptune/internal/repository"
)

// newSeedCmd creates the seed subcommand.
func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the provider table and load a catalog into PostgreSQL",
		Long: `Seed applies the service_providers schema and upserts every provider from
the embedded dataset (or --file) so the server can run with CATALOG_SOURCE=postgres.
Records are validated before anything is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			var (
				cat *catalog.Catalog
				err error
			)
			if file != "" {
				cat, err = catalog.LoadFile(file)
			} else {
				cat, err = catalog.Default()
			}
			if err != nil {
				return err
			}

			repo, err := repository.NewPostgresRepository(
				cfg.GetPostgreSQLDSN(),
				cfg.PostgreSQL.MaxConnections,
				cfg.PostgreSQL.MaxIdleConnections,
			)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			if err := repo.UpsertProviders(ctx, cat.Providers()); err != nil {
				return err
			}

			log.WithField("providers", cat.Len()).Info("catalog seeded")
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"providers": cat.Len()})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d providers\n", cat.Len())
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to load instead of the embedded dataset")

	return cmd
}
