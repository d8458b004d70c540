package domain

import (
	"time"

	"ai-folio/internal/model"

	"github.com/google/uuid"
)

// Draft is a wizard session kept between requests. ResumeID and
// PortfolioID point at the records a save should update instead of create.
type Draft struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	Step        int           `json:"step"`
	Profile     model.Profile `json:"profile"`
	ResumeID    *uuid.UUID    `json:"resume_id,omitempty"`
	PortfolioID *uuid.UUID    `json:"portfolio_id,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
