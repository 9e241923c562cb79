package entrypoint

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/libraryhub/internal/audit"
	"github.com/mrlokans/libraryhub/internal/config"
	"github.com/mrlokans/libraryhub/internal/database"
	"github.com/mrlokans/libraryhub/internal/notify"
	"github.com/mrlokans/libraryhub/internal/scheduler"
	"github.com/mrlokans/libraryhub/internal/services"
	"github.com/mrlokans/libraryhub/internal/tasks"
)

// App holds the wired components shared by the server and CLI commands.
type App struct {
	Config *config.Config

	Database  *database.Database
	Audit     *audit.Service
	Notifier  notify.Notifier
	Tasks     *tasks.Client
	Scheduler *scheduler.FeeReminderScheduler

	Members   *services.MemberService
	Catalog   *services.CatalogService
	Checkouts *services.CheckoutService
	Billing   *services.BillingService
	Dashboard *services.DashboardService
	Renewals  *services.RenewalService
	Reminders *services.ReminderService
}

// NewApp opens the database and wires every service. The task queue is only
// created here; Start launches its workers.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:   cfg,
		Database: db,
		Audit:    audit.NewService(db.Store().Audit),
	}

	app.Notifier, err = notify.New(cfg.SMTP)
	if err != nil {
		db.Close()
		return nil, err
	}

	var dispatcher services.ReminderDispatcher = services.NewDirectDispatcher(app.Notifier, app.Audit)
	if cfg.Tasks.Enabled {
		app.Tasks, err = tasks.NewClient(tasksDBPath(cfg.Database), tasks.FromConfig(cfg.Tasks))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.Tasks.Register(
			tasks.NewSendFeeReminderQueue(app.Notifier, app.Audit),
			tasks.NewCleanupAuditEventsQueue(app.Audit),
		)
		dispatcher = app.Tasks
	} else {
		log.Println("Task queue disabled, reminders are sent inline")
	}

	app.Members = services.NewMemberService(db, app.Audit)
	app.Catalog = services.NewCatalogService(db)
	app.Checkouts = services.NewCheckoutService(db, app.Audit, cfg.Billing.LateFeePerDay)
	app.Billing = services.NewBillingService(db, app.Audit, cfg.Billing.SettleRequiresCompleted)
	app.Dashboard = services.NewDashboardService(db)
	app.Renewals = services.NewRenewalService(db)
	app.Reminders = services.NewReminderService(db, dispatcher, cfg.Reminders.Window)

	var cleaner scheduler.AuditCleanupEnqueuer
	if app.Tasks != nil {
		cleaner = app.Tasks
	}
	app.Scheduler = scheduler.NewFeeReminderScheduler(app.Reminders, cleaner, scheduler.Settings{
		Enabled:       cfg.Reminders.Enabled,
		Schedule:      cfg.Reminders.Schedule,
		RetentionDays: cfg.Audit.RetentionDays,
	})

	return app, nil
}

// Start launches the task workers and the reminder scheduler.
func (a *App) Start(ctx context.Context) error {
	if a.Tasks != nil {
		a.Tasks.Start(ctx)
	}
	return a.Scheduler.Start(ctx)
}

// Shutdown stops background work, flushes pending audit writes and closes
// the databases.
func (a *App) Shutdown(ctx context.Context) {
	a.Scheduler.Stop()
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
	a.Audit.Wait()
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Failed to close task database: %v", err)
		}
	}
	if err := a.Database.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}

// tasksDBPath keeps the queue file next to the SQLite database, or in the
// working directory when the library runs on Postgres.
func tasksDBPath(cfg config.Database) string {
	if cfg.Driver == config.DriverSQLite && cfg.Path != "" {
		return cfg.Path
	}
	return config.DefaultDatabasePath
}
