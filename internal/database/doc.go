// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, default seeds
//	├── store.go         # Store bundling every repository
//	├── students/        # Members, billing refs, cascade delete
//	├── books/           # Catalogue and copy accounting
//	├── plans/           # Subscription plans
//	├── subscriptions/   # Student subscriptions
//	├── checkouts/       # Book loans
//	├── fees/            # Charges owed by students
//	├── payments/        # Received payments
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type over a *gorm.DB. Store groups
// them so services can depend on a single value:
//
//	db, err := database.NewDatabase(cfg.Database)
//	store := db.Store()
//	book, err := store.Books.GetByID(ctx, id)
//
// # Transactions
//
// WithinTransaction hands the callback a Store bound to one transaction.
// Multi-row workflows (checkout, return, payment settlement, enrollment)
// run inside it so a failure leaves no partial writes:
//
//	err := db.WithinTransaction(ctx, func(tx *database.Store) error {
//		ok, err := tx.Books.DecrementAvailable(ctx, bookID)
//		...
//		return tx.Checkouts.Create(ctx, checkout)
//	})
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the repository in Store and the entity in Models
package database
