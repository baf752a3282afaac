package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attendance-backend/internal/platform/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := db.Open(cmd.Context(), cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Migrate(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", conn.Dialect)
	return nil
}
