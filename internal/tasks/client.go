package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client runs the reminder and audit queues on top of backlite.
type Client struct {
	queue *backlite.Client
	db    *sql.DB
	cfg   Config

	mu      sync.RWMutex
	started bool
}

// TasksDBPath returns the path of the queue database kept next to mainDBPath,
// e.g. "./libraryhub.db" becomes "libraryhub-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return filepath.Clean(strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext)
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens (or creates) the queue database next to mainDBPath and
// installs the backlite schema. The queue always lives in SQLite, even when
// the library tables are on Postgres.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, cfg: cfg}, nil
}

// Register adds queues to the client. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("[TASK] Queue started with %d workers", c.cfg.Workers)
	c.queue.Start(ctx)
}

// Stop waits for in-flight reminders and cleanups to finish. It reports
// false when ctx expired first.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	if !c.queue.Stop(ctx) {
		log.Println("[TASK] Queue stop timed out, some reminders may not have been sent")
		return false
	}
	log.Println("[TASK] Queue stopped")
	return true
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Ping checks the queue database connection.
func (c *Client) Ping() error {
	return c.db.Ping()
}

// Status returns the status of a task, e.g. a reminder enqueued by a sweep.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// enqueue saves a single task and returns its ID.
func (c *Client) enqueue(ctx context.Context, task backlite.Task) (string, error) {
	ids, err := c.queue.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
