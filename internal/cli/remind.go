package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/libraryhub/internal/config"
	"github.com/mrlokans/libraryhub/internal/entrypoint"
)

// RemindCommand runs one fee reminder sweep and exits
type RemindCommand struct {
	Config *config.Config
	Out    io.Writer

	DryRun bool
}

func NewRemindCommand(cfg *config.Config) *RemindCommand {
	return &RemindCommand{Config: cfg, Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *RemindCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)

	fs.StringVar(&cmd.Config.Database.Path, "db", cmd.Config.Database.Path, "Path to the SQLite database file")
	fs.DurationVar(&cmd.Config.Reminders.Window, "window", cmd.Config.Reminders.Window, "Remind about fees due within this window")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Log reminders instead of sending email")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s remind [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Send reminders for pending and overdue fees, then mark past-due fees overdue.\n")
		fmt.Fprintf(os.Stderr, "Reminders are sent inline; the task queue is not used.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the remind command
func (cmd *RemindCommand) Run() error {
	cfg := *cmd.Config
	cfg.Tasks.Enabled = false
	cfg.Reminders.Enabled = false
	if cmd.DryRun {
		cfg.SMTP.Host = ""
	}

	app, err := entrypoint.NewApp(&cfg)
	if err != nil {
		return err
	}
	defer app.Shutdown(context.Background())

	started := time.Now()
	result, err := app.Scheduler.RunNow()
	if err != nil {
		return fmt.Errorf("reminder sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Fee reminders (%s)\n", time.Since(started).Round(time.Millisecond))
	fmt.Fprintf(cmd.Out, "  considered:     %d\n", result.Considered)
	fmt.Fprintf(cmd.Out, "  dispatched:     %d\n", result.Dispatched)
	fmt.Fprintf(cmd.Out, "  skipped:        %d\n", result.Skipped)
	fmt.Fprintf(cmd.Out, "  failed:         %d\n", result.Failed)
	fmt.Fprintf(cmd.Out, "  marked overdue: %d\n", result.MarkedOverdue)
	return nil
}
