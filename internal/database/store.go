package database

import (
	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/database/audit"
	"github.com/mrlokans/libraryhub/internal/database/books"
	"github.com/mrlokans/libraryhub/internal/database/checkouts"
	"github.com/mrlokans/libraryhub/internal/database/fees"
	"github.com/mrlokans/libraryhub/internal/database/payments"
	"github.com/mrlokans/libraryhub/internal/database/plans"
	"github.com/mrlokans/libraryhub/internal/database/students"
	"github.com/mrlokans/libraryhub/internal/database/subscriptions"
)

// Store groups the per-table repositories over one *gorm.DB, which may be
// the pool or an open transaction.
type Store struct {
	Students      *students.Repository
	Books         *books.Repository
	Plans         *plans.Repository
	Subscriptions *subscriptions.Repository
	Checkouts     *checkouts.Repository
	Fees          *fees.Repository
	Payments      *payments.Repository
	Audit         *audit.Repository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Students:      students.NewRepository(db),
		Books:         books.NewRepository(db),
		Plans:         plans.NewRepository(db),
		Subscriptions: subscriptions.NewRepository(db),
		Checkouts:     checkouts.NewRepository(db),
		Fees:          fees.NewRepository(db),
		Payments:      payments.NewRepository(db),
		Audit:         audit.NewRepository(db),
	}
}
