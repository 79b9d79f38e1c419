package main

import (
	"fmt"

	"github.com/Veraticus/pay-the-piper/internal/cli"
	"github.com/Veraticus/pay-the-piper/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Applies any pending schema migrations to the bill database and seeds default categories.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// initStorage already migrates and seeds; this command exists so
			// upgrades can be applied explicitly before other commands run.
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Database is at schema version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}
}
