package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/libraryhub/internal/config"
	"github.com/mrlokans/libraryhub/internal/database"
)

// SeedCommand inserts the default subscription plans and books
type SeedCommand struct {
	Database config.Database
	Out      io.Writer
}

func NewSeedCommand(cfg config.Database) *SeedCommand {
	return &SeedCommand{Database: cfg, Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.Database.Driver, "driver", cmd.Database.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.Database.Path, "db", cmd.Database.Path, "Path to the SQLite database file")
	fs.StringVar(&cmd.Database.DSN, "dsn", cmd.Database.DSN, "Postgres connection string")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the schema and insert default plans and books into empty tables.\n")
		fmt.Fprintf(os.Stderr, "Existing rows are left untouched, so the command can be run repeatedly.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the seed command
func (cmd *SeedCommand) Run() error {
	dbCfg := cmd.Database
	dbCfg.Seed = false

	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	store := db.Store()
	plans, err := store.Plans.Count(ctx)
	if err != nil {
		return err
	}
	books, err := store.Books.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Database ready: %d subscription plans, %d books\n", plans, books)
	return nil
}
