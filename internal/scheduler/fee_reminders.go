package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/libraryhub/internal/services"
)

const DefaultAuditCleanupSchedule = "0 3 * * *"

// ErrSweepInProgress is returned by RunNow while another sweep is running.
var ErrSweepInProgress = errors.New("reminder sweep already in progress")

// ReminderRunner performs one fee reminder sweep.
type ReminderRunner interface {
	Run(ctx context.Context) (*services.ReminderRunResult, error)
}

// AuditCleanupEnqueuer schedules pruning of old audit events.
type AuditCleanupEnqueuer interface {
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error)
}

// Settings controls FeeReminderScheduler.
type Settings struct {
	Enabled  bool
	Schedule string
	// SweepTimeout bounds a single sweep. Default: 10m
	SweepTimeout time.Duration

	// CleanupSchedule runs audit cleanup when a cleaner is configured.
	CleanupSchedule string
	RetentionDays   int
}

// FeeReminderScheduler runs the fee reminder sweep on a cron schedule
// and, optionally, a daily audit cleanup.
type FeeReminderScheduler struct {
	runner   ReminderRunner
	cleaner  AuditCleanupEnqueuer
	settings Settings

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	lastRun    *SweepStatus
	cancelFunc context.CancelFunc
}

// SweepStatus describes the outcome of the most recent sweep.
type SweepStatus struct {
	StartedAt time.Time                   `json:"startedAt"`
	Duration  string                      `json:"duration"`
	Result    *services.ReminderRunResult `json:"result,omitempty"`
	Error     string                      `json:"error,omitempty"`
}

// NewFeeReminderScheduler creates a new scheduler. cleaner may be nil.
func NewFeeReminderScheduler(runner ReminderRunner, cleaner AuditCleanupEnqueuer, settings Settings) *FeeReminderScheduler {
	if settings.SweepTimeout <= 0 {
		settings.SweepTimeout = 10 * time.Minute
	}
	if settings.CleanupSchedule == "" {
		settings.CleanupSchedule = DefaultAuditCleanupSchedule
	}
	return &FeeReminderScheduler{
		runner:   runner,
		cleaner:  cleaner,
		settings: settings,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if reminders are enabled
func (s *FeeReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.settings.Enabled {
		log.Printf("[REMINDER] Scheduler disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.settings.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.settings.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.settings.Schedule, func() {
		_, _ = s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.entryID = entryID

	if s.cleaner != nil {
		if _, err := s.cron.AddFunc(s.settings.CleanupSchedule, s.enqueueCleanup); err != nil {
			return fmt.Errorf("failed to schedule audit cleanup: %w", err)
		}
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.settings.Schedule, time.Now())
	log.Printf("[REMINDER] Scheduler started with schedule '%s' (%s). Next run: %v",
		s.settings.Schedule,
		GetCronDescription(s.settings.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sweep and stops the scheduler
func (s *FeeReminderScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Sweeps take the lock, so wait for them outside of it
	done := s.cron.Stop()
	<-done.Done()
	if cancel != nil {
		cancel()
	}

	log.Printf("[REMINDER] Scheduler stopped")
}

// RunNow performs a sweep immediately and returns its result
func (s *FeeReminderScheduler) RunNow() (*services.ReminderRunResult, error) {
	return s.runSweep()
}

// IsRunning returns whether the scheduler is active
func (s *FeeReminderScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSweeping returns whether a sweep is currently in progress
func (s *FeeReminderScheduler) IsSweeping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSweeping
}

// LastRun returns the status of the most recent sweep, or nil
func (s *FeeReminderScheduler) LastRun() *SweepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// GetNextRunTime returns when the next sweep will occur
func (s *FeeReminderScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *FeeReminderScheduler) runSweep() (*services.ReminderRunResult, error) {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("[REMINDER] Sweep skipped (already running)")
		return nil, ErrSweepInProgress
	}
	s.isSweeping = true
	s.mu.Unlock()

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.settings.SweepTimeout)
	defer cancel()

	result, err := s.runner.Run(ctx)

	status := &SweepStatus{
		StartedAt: startTime,
		Duration:  time.Since(startTime).Round(time.Millisecond).String(),
		Result:    result,
	}
	if err != nil {
		status.Error = err.Error()
		log.Printf("[REMINDER] Sweep failed: %v", err)
	} else {
		log.Printf("[REMINDER] Sweep took %s", status.Duration)
	}

	s.mu.Lock()
	s.isSweeping = false
	s.lastRun = status
	s.mu.Unlock()

	return result, err
}

func (s *FeeReminderScheduler) enqueueCleanup() {
	id, err := s.cleaner.EnqueueAuditCleanup(context.Background(), s.settings.RetentionDays)
	if err != nil {
		log.Printf("[AUDIT] Failed to enqueue cleanup: %v", err)
		return
	}
	log.Printf("[AUDIT] Cleanup enqueued as task %s", id)
}
