package main

// Run database migrations:
//   go run ./cmd/migrate up

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect the database schema",
}

func withDB(fn func(ctx context.Context, sqlDB *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		sqlDB, err := db.Connect(cmd.Context(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer sqlDB.Close()
		return fn(cmd.Context(), sqlDB)
	}
}

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  withDB(db.RunMigrations),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE:  withDB(db.RollbackMigration),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				v, err := db.MigrationVersion(ctx, sqlDB)
				if err != nil {
					return err
				}
				fmt.Println(v)
				return nil
			}),
		},
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
