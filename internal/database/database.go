package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/libraryhub/internal/config"
	"github.com/mrlokans/libraryhub/internal/entities"
)

var defaultPlans = []entities.SubscriptionPlan{
	{
		Name:     "Basic",
		Price:    "499.00",
		Duration: 1,
		Features: entities.NewFeatureList([]string{
			"Borrow up to 3 books",
			"14-day checkout period",
			"Email support",
			"Access to digital catalog",
		}),
	},
	{
		Name:     "Premium",
		Price:    "999.00",
		Duration: 1,
		Features: entities.NewFeatureList([]string{
			"Borrow up to 10 books",
			"30-day checkout period",
			"Priority support",
			"Early access to new releases",
			"Hold up to 5 books",
		}),
	},
	{
		Name:     "Annual",
		Price:    "9999.00",
		Duration: 12,
		Features: entities.NewFeatureList([]string{
			"Unlimited book borrowing",
			"60-day checkout period",
			"24/7 priority support",
			"Exclusive events access",
			"Free late fee waivers (2x/year)",
		}),
	},
}

var defaultBooks = []entities.Book{
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0-7432-7356-5", Category: "Fiction", TotalCopies: 5, AvailableCopies: 3, PublishedYear: intPtr(1925)},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0-06-112008-4", Category: "Fiction", TotalCopies: 4, AvailableCopies: 2, PublishedYear: intPtr(1960)},
	{Title: "1984", Author: "George Orwell", ISBN: "978-0-452-28423-4", Category: "Fiction", TotalCopies: 6, AvailableCopies: 4, PublishedYear: intPtr(1949)},
	{Title: "Sapiens", Author: "Yuval Noah Harari", ISBN: "978-0-06-231609-7", Category: "Non-Fiction", TotalCopies: 3, AvailableCopies: 1, PublishedYear: intPtr(2011)},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", ISBN: "978-0-13-595705-9", Category: "Technology", TotalCopies: 4, AvailableCopies: 4, PublishedYear: intPtr(1999)},
}

// Models lists every table managed by AutoMigrate, parents first.
var Models = []any{
	&entities.Student{},
	&entities.Book{},
	&entities.SubscriptionPlan{},
	&entities.Subscription{},
	&entities.Checkout{},
	&entities.Fee{},
	&entities.Payment{},
	&entities.AuditEvent{},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if cfg.Seed {
		if err := database.Seed(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	log.Printf("Database initialized successfully (%s)", cfg.Driver)

	return database, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	case config.DriverSQLite, "":
		return sqlite.Open(SQLiteDSN(cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN enables foreign key enforcement, which SQLite leaves off by default.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Store returns repositories bound to the shared connection pool.
func (d *Database) Store() *Store {
	return NewStore(d.DB)
}

// WithinTransaction runs fn with repositories bound to a single transaction.
// The transaction is rolled back when fn returns an error or panics.
func (d *Database) WithinTransaction(ctx context.Context, fn func(store *Store) error) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Seed inserts the default plans and books when their tables are empty.
func (d *Database) Seed(ctx context.Context) error {
	store := d.Store()

	planCount, err := store.Plans.Count(ctx)
	if err != nil {
		return err
	}
	if planCount == 0 {
		for _, plan := range defaultPlans {
			if err := store.Plans.Create(ctx, &plan); err != nil {
				return fmt.Errorf("failed to create plan %s: %w", plan.Name, err)
			}
			log.Printf("Created subscription plan: %s", plan.Name)
		}
	}

	bookCount, err := store.Books.Count(ctx)
	if err != nil {
		return err
	}
	if bookCount == 0 {
		for _, book := range defaultBooks {
			if err := store.Books.Create(ctx, &book); err != nil {
				return fmt.Errorf("failed to create book %s: %w", book.Title, err)
			}
		}
		log.Printf("Seeded %d books", len(defaultBooks))
	}

	return nil
}

func intPtr(v int) *int {
	return &v
}
