package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/libraryhub/internal/audit"
	"github.com/mrlokans/libraryhub/internal/database"
	"github.com/mrlokans/libraryhub/internal/http"
	"github.com/mrlokans/libraryhub/internal/notify"
	"github.com/mrlokans/libraryhub/internal/scheduler"
	"github.com/mrlokans/libraryhub/internal/services"
	"github.com/mrlokans/libraryhub/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.UnitOfWork = (*database.Database)(nil)

// =============================================================================
// HTTP Controllers
// =============================================================================

var _ http.Members = (*services.MemberService)(nil)
var _ http.Catalog = (*services.CatalogService)(nil)
var _ http.Lending = (*services.CheckoutService)(nil)
var _ http.Billing = (*services.BillingService)(nil)
var _ http.Dashboard = (*services.DashboardService)(nil)
var _ http.Renewals = (*services.RenewalService)(nil)
var _ http.ReminderTrigger = (*scheduler.FeeReminderScheduler)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.QueueChecker = (*tasks.Client)(nil)
var _ http.AuditReader = (*audit.Service)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ services.AuditRecorder = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Fee Reminders
// =============================================================================

// Notifier implementations
var _ services.Notifier = (*notify.SMTPNotifier)(nil)
var _ services.Notifier = (*notify.LogNotifier)(nil)
var _ services.Notifier = (*notify.BreakerNotifier)(nil)

// ReminderDispatcher implementations
var _ services.ReminderDispatcher = (*services.DirectDispatcher)(nil)
var _ services.ReminderDispatcher = (*tasks.Client)(nil)

var _ scheduler.ReminderRunner = (*services.ReminderService)(nil)
var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)
