// Package audit stores the audit trail of checkouts, returns, payments,
// enrollments, deletions and reminder deliveries.
package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/libraryhub/internal/entities"
)

const defaultEventsLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EventFilter narrows GetEvents. Zero values match everything.
type EventFilter struct {
	EventType entities.AuditEventType
	EntityID  string
	Status    entities.AuditStatus
}

func (f EventFilter) apply(query *gorm.DB) *gorm.DB {
	if f.EventType != "" {
		query = query.Where("event_type = ?", f.EventType)
	}
	if f.EntityID != "" {
		query = query.Where("entity_id = ?", f.EntityID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	return query
}

// LogEvent inserts an event, stamping CreatedAt when the caller left it empty.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvents returns one page of matching events, newest first, along with
// the total number of matches.
func (r *Repository) GetEvents(ctx context.Context, filter EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	offset = max(offset, 0)

	query := filter.apply(r.db.WithContext(ctx).Model(&entities.AuditEvent{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AuditEvent{}, 0, nil
	}

	var events []entities.AuditEvent
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes events created before cutoff and reports how many went.
func (r *Repository) DeleteOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
