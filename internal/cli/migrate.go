package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/replywatch/replywatch/internal/infrastructure/config"
	"github.com/replywatch/replywatch/internal/infrastructure/database"
	"github.com/replywatch/replywatch/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations against the hosted store.

Without arguments, runs all pending migrations. With a version number,
rolls back to that version.

Examples:
  replywatch migrate      # Apply all pending migrations
  replywatch migrate 0    # Roll back everything`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	runner := migrate.NewRunner(db.DB)

	current, dirty, err := runner.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}
	fmt.Printf("Current version: %d\n", current)

	if len(args) == 1 {
		target, err := strconv.Atoi(args[0])
		if err != nil || target < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		if target >= current {
			return fmt.Errorf("version %d is not below current version %d", target, current)
		}
		if err := runner.DownTo(ctx, target); err != nil {
			return err
		}
		fmt.Printf("Rolled back to version %d\n", target)
		return nil
	}

	applied, err := runner.Up(ctx)
	if err != nil {
		return err
	}
	if applied == 0 {
		fmt.Println("No migrations to run")
		return nil
	}

	newVersion, _, err := runner.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Migrated to version %d (%d migrations applied)\n", newVersion, applied)
	return nil
}
