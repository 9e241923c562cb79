// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access
//
//   - UnitOfWork: repository access, optionally inside one transaction
//     (internal/services/interfaces.go). Implemented by *database.Database.
//
// ## HTTP Controllers
//
// Each controller depends on a narrow service interface (internal/http/stores.go):
// Members, Catalog, Lending, Billing, Dashboard, Renewals, ReminderTrigger,
// TaskStatusReader, QueueChecker and AuditReader.
//
// ## Fee Reminders
//
//   - Notifier: delivers one reminder (internal/services/interfaces.go).
//     SMTPNotifier, LogNotifier and BreakerNotifier live in internal/notify.
//   - ReminderDispatcher: hands a reminder off for delivery. DirectDispatcher
//     sends inline; *tasks.Client enqueues a send_fee_reminder task.
//   - ReminderRunner: one sweep, run by the cron scheduler (internal/scheduler).
//
// ## Audit Trail
//
//   - AuditRecorder: workflow events from services (internal/services/interfaces.go).
//   - AuditEventCleaner: retention cleanup run as a background task.
//
// # Adding a New Notification Channel
//
// To send reminders over another channel (e.g. SMS):
//
//  1. Implement Notifier in internal/notify/
//
//     type SMSNotifier struct {
//         client *sms.Client
//     }
//
//     func (n *SMSNotifier) Send(ctx context.Context, email, name, amount string, dueDate time.Time) error
//
//  2. Wrap it with NewBreakerNotifier and select it in notify.New
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add it to database.Store and the model to database.Models
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
