package usecase

import (
	"context"
	"fmt"

	"ai-folio/internal/domain"
	"ai-folio/internal/model"
	"ai-folio/internal/wizard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftView is a draft plus the wizard's derived navigation state.
type DraftView struct {
	ID          uuid.UUID     `json:"id"`
	Step        int           `json:"step"`
	StepName    string        `json:"stepName"`
	StepCount   int           `json:"stepCount"`
	Progress    float64       `json:"progress"`
	IsLast      bool          `json:"isLast"`
	Missing     []string      `json:"missing"`
	Profile     model.Profile `json:"profile"`
	ResumeID    *uuid.UUID    `json:"resumeId,omitempty"`
	PortfolioID *uuid.UUID    `json:"portfolioId,omitempty"`
}

func viewOf(d *domain.Draft) *DraftView {
	w := wizard.Restore(d.Step, d.Profile)
	return &DraftView{
		ID:          d.ID,
		Step:        int(w.Step()),
		StepName:    w.Step().String(),
		StepCount:   wizard.StepCount,
		Progress:    w.Progress(),
		IsLast:      w.IsLast(),
		Missing:     w.Missing(),
		Profile:     w.Profile(),
		ResumeID:    d.ResumeID,
		PortfolioID: d.PortfolioID,
	}
}

// NewDraft opens a wizard session. Records named in ex are merged over the
// defaults, resume first, so an edit starts from what was saved.
func (s *Service) NewDraft(ctx context.Context, userID uuid.UUID, ex Existing) (*DraftView, error) {
	p := model.Defaults()
	for _, src := range []struct {
		kind domain.Kind
		id   *uuid.UUID
	}{{domain.KindResume, ex.ResumeID}, {domain.KindPortfolio, ex.PortfolioID}} {
		if src.id == nil {
			continue
		}
		rec, err := s.records.Get(ctx, src.kind, *src.id, userID)
		if err != nil {
			return nil, fmt.Errorf("load %s %s: %w", src.kind, src.id, err)
		}
		merged, err := model.MergeOver(p, rec.Data)
		if err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", src.kind, src.id, err)
		}
		p = merged
		if rec.Template != "" {
			if src.kind == domain.KindResume {
				p.ResumeTemplate = rec.Template
			} else {
				p.PortfolioTemplate = rec.Template
			}
		}
	}

	d := &domain.Draft{
		ID:          uuid.New(),
		UserID:      userID,
		Profile:     wizard.Restore(0, p).Profile(),
		ResumeID:    ex.ResumeID,
		PortfolioID: ex.PortfolioID,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.drafts.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	s.log.Debug("draft opened", zap.Stringer("draft_id", d.ID), zap.Stringer("user_id", userID))
	return viewOf(d), nil
}

// loadDraft returns the draft only to its owner.
func (s *Service) loadDraft(ctx context.Context, userID, id uuid.UUID) (*domain.Draft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (s *Service) Draft(ctx context.Context, userID, id uuid.UUID) (*DraftView, error) {
	d, err := s.loadDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return viewOf(d), nil
}

// DraftProfile returns the draft's current profile.
func (s *Service) DraftProfile(ctx context.Context, userID, id uuid.UUID) (model.Profile, error) {
	d, err := s.loadDraft(ctx, userID, id)
	if err != nil {
		return model.Profile{}, err
	}
	return d.Profile, nil
}

// MutateDraft runs fn against a wizard restored from the draft and stores
// the result. An error from fn leaves the draft untouched.
func (s *Service) MutateDraft(ctx context.Context, userID, id uuid.UUID, fn func(w *wizard.Wizard) error) (*DraftView, error) {
	d, err := s.loadDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	w := wizard.Restore(d.Step, d.Profile)
	if err := fn(w); err != nil {
		return nil, err
	}
	d.Step = int(w.Step())
	d.Profile = w.Profile()
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	return viewOf(d), nil
}

// SaveDraft persists the draft's profile and remembers the ids of the
// records written, so the next save updates them in place.
func (s *Service) SaveDraft(ctx context.Context, userID, id uuid.UUID) (SaveResult, *DraftView, error) {
	d, err := s.loadDraft(ctx, userID, id)
	if err != nil {
		return SaveResult{}, nil, err
	}
	res, err := s.Save(ctx, userID, d.Profile, Existing{ResumeID: d.ResumeID, PortfolioID: d.PortfolioID})
	if err != nil {
		return SaveResult{}, nil, err
	}
	if res.Resume != nil && res.Resume.Record != nil {
		rid := res.Resume.Record.ID
		d.ResumeID = &rid
	}
	if res.Portfolio != nil && res.Portfolio.Record != nil {
		pid := res.Portfolio.Record.ID
		d.PortfolioID = &pid
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Put(ctx, d); err != nil {
		s.log.Warn("store draft after save failed", zap.Stringer("draft_id", d.ID), zap.Error(err))
	}
	return res, viewOf(d), nil
}

func (s *Service) DiscardDraft(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.loadDraft(ctx, userID, id); err != nil {
		return err
	}
	return s.drafts.Delete(ctx, id)
}
