package http

import (
	"github.com/mrlokans/libraryhub/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Members   Members
	Catalog   Catalog
	Lending   Lending
	Billing   Billing
	Dashboard Dashboard
	Renewals  Renewals

	// Audit trail (optional)
	Audit AuditReader

	// Reminder sweep trigger (optional)
	Reminders ReminderTrigger

	// Task queue (optional)
	Tasks TaskStatusReader
	Queue QueueChecker

	// Application info
	Version string
}
