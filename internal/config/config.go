package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Tasks
		Reminders
		SMTP
		Billing
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   string // "sqlite" or "postgres"
		Path     string // SQLite file path
		DSN      string // Postgres connection string
		LogLevel string // silent, error, warn, info
		Seed     bool   // Insert default plans and books into empty tables
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Reminders struct {
		Enabled  bool
		Schedule string        // Cron format: "0 9 * * *" = daily at 09:00
		Window   time.Duration // Fees due within this window get a reminder
	}
	SMTP struct {
		Host            string // Empty host switches to the log-only notifier
		Port            int
		User            string
		Pass            string
		From            string
		BreakerFailures uint32        // Consecutive failures before the breaker opens
		BreakerTimeout  time.Duration // How long the breaker stays open
	}
	Billing struct {
		// When true only completed payments settle the linked fee.
		SettleRequiresCompleted bool
		LateFeePerDay           decimal.Decimal
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
)

func NewConfig() *Config {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("database_seed", true)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Reminder defaults
	v.SetDefault("reminders_enabled", true)
	v.SetDefault("reminders_schedule", "0 9 * * *")
	v.SetDefault("reminders_window", "72h")

	// SMTP defaults
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_from", "library@example.com")
	v.SetDefault("smtp_breaker_failures", 5)
	v.SetDefault("smtp_breaker_timeout", "1m")

	// Billing defaults
	v.SetDefault("fee_settle_requires_completed", false)
	v.SetDefault("late_fee_per_day", "1.00")

	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   v.GetString("DATABASE_DRIVER"),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
			Seed:     v.GetBool("DATABASE_SEED"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Reminders: Reminders{
			Enabled:  v.GetBool("REMINDERS_ENABLED"),
			Schedule: v.GetString("REMINDERS_SCHEDULE"),
			Window:   v.GetDuration("REMINDERS_WINDOW"),
		},
		SMTP: SMTP{
			Host:            v.GetString("SMTP_HOST"),
			Port:            v.GetInt("SMTP_PORT"),
			User:            v.GetString("SMTP_USER"),
			Pass:            v.GetString("SMTP_PASS"),
			From:            v.GetString("SMTP_FROM"),
			BreakerFailures: v.GetUint32("SMTP_BREAKER_FAILURES"),
			BreakerTimeout:  v.GetDuration("SMTP_BREAKER_TIMEOUT"),
		},
		Billing: Billing{
			SettleRequiresCompleted: v.GetBool("FEE_SETTLE_REQUIRES_COMPLETED"),
			LateFeePerDay:           parseLateFee(v.GetString("LATE_FEE_PER_DAY")),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}

func parseLateFee(raw string) decimal.Decimal {
	fee, err := decimal.NewFromString(raw)
	if err != nil || fee.IsNegative() {
		log.Printf("Invalid LATE_FEE_PER_DAY %q, using 1.00", raw)
		return decimal.NewFromInt(1)
	}
	return fee
}
