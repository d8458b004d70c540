package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventRecordCreated      EventType = "record.created"
	EventRecordUpdated      EventType = "record.updated"
	EventRecordDeleted      EventType = "record.deleted"
	EventPortfolioPublished EventType = "portfolio.published"
	EventPortfolioHidden    EventType = "portfolio.unpublished"
)

// Event describes a record lifecycle change for downstream consumers.
type Event struct {
	Type       EventType `json:"type"`
	RecordID   uuid.UUID `json:"record_id"`
	UserID     uuid.UUID `json:"user_id"`
	Kind       Kind      `json:"kind"`
	Slug       string    `json:"slug,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
