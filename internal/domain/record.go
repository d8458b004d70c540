package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrSlugTaken = errors.New("slug already taken")
	// ErrEmptyView means the resume view produced nothing to capture.
	ErrEmptyView = errors.New("nothing to export")
)

type Kind string

const (
	KindResume    Kind = "resume"
	KindPortfolio Kind = "portfolio"
)

// Table is the storage table backing the kind.
func (k Kind) Table() string {
	if k == KindPortfolio {
		return "portfolios"
	}
	return "resumes"
}

func (k Kind) Valid() bool { return k == KindResume || k == KindPortfolio }

// Record is a persisted, templated wrapper around a serialized profile.
// Slug and IsPublished are only meaningful for portfolios.
type Record struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Kind        Kind            `json:"kind"`
	Title       string          `json:"title"`
	Template    string          `json:"template"`
	Data        json.RawMessage `json:"data"`
	Slug        string          `json:"slug,omitempty"`
	IsPublished bool            `json:"is_published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
