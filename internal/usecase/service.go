package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-folio/internal/composer"
	"ai-folio/internal/domain"
	"ai-folio/internal/infrastructure/metrics"
	"ai-folio/internal/model"
	"ai-folio/internal/render"
	"ai-folio/internal/slug"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSlugAttempts bounds how many ordinals a portfolio save tries before
// giving up on a taken slug.
const MaxSlugAttempts = 20

// ErrExportDisabled is returned when the service runs without an exporter.
var ErrExportDisabled = errors.New("pdf export is not configured")

type Service struct {
	records  Records
	renderer *render.Renderer
	exporter Exporter
	events   EventPublisher
	cache    PortfolioCache
	drafts   DraftStore
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithExporter(e Exporter) Option { return func(s *Service) { s.exporter = e } }

func WithEvents(p EventPublisher) Option { return func(s *Service) { s.events = p } }

func WithCache(c PortfolioCache) Option { return func(s *Service) { s.cache = c } }

func WithMetrics(m *metrics.Collector) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(records Records, drafts DraftStore, renderer *render.Renderer, opts ...Option) *Service {
	s := &Service{
		records:  records,
		drafts:   drafts,
		renderer: renderer,
		events:   noopPublisher{},
		cache:    noopCache{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector("folio")
	}
	return s
}

func (s *Service) Renderer() *render.Renderer { return s.renderer }

// Existing names the records a save should update rather than create.
type Existing struct {
	ResumeID    *uuid.UUID
	PortfolioID *uuid.UUID
}

// KindResult is the outcome of saving one document kind.
type KindResult struct {
	Record *domain.Record `json:"record,omitempty"`
	Err    error          `json:"-"`
}

func (k *KindResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Saved  bool           `json:"saved"`
		Record *domain.Record `json:"record,omitempty"`
		Error  string         `json:"error,omitempty"`
	}{Saved: k.Err == nil, Record: k.Record}
	if k.Err != nil {
		out.Error = k.Err.Error()
	}
	return json.Marshal(out)
}

// SaveResult reports each kind independently. A nil entry means the
// document type did not ask for that kind.
type SaveResult struct {
	Resume    *KindResult `json:"resume,omitempty"`
	Portfolio *KindResult `json:"portfolio,omitempty"`
}

// Err joins the per-kind failures, or returns nil when every write landed.
func (r SaveResult) Err() error {
	var errs []error
	if r.Resume != nil && r.Resume.Err != nil {
		errs = append(errs, fmt.Errorf("resume: %w", r.Resume.Err))
	}
	if r.Portfolio != nil && r.Portfolio.Err != nil {
		errs = append(errs, fmt.Errorf("portfolio: %w", r.Portfolio.Err))
	}
	return errors.Join(errs...)
}

// titleBase is the full name, or "Untitled" without one.
func titleBase(p model.Profile) string {
	if name := strings.TrimSpace(p.PersonalDetails.FullName); name != "" {
		return name
	}
	return "Untitled"
}

// Save writes the records the profile's document type asks for. Resume and
// portfolio writes are independent: one failing never undoes the other.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, p model.Profile, ex Existing) (SaveResult, error) {
	if p.DocumentType == "" {
		p.DocumentType = model.DocumentResume
	}
	model.EnsureIDs(&p)
	data, err := json.Marshal(p)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode profile: %w", err)
	}
	if err := model.ValidateJSON(data); err != nil {
		return SaveResult{}, err
	}

	base := titleBase(p)
	var res SaveResult
	if p.DocumentType.WantsResume() {
		rec := &domain.Record{
			UserID:   userID,
			Kind:     domain.KindResume,
			Title:    base + " - Resume",
			Template: p.ResumeTemplate,
			Data:     data,
		}
		res.Resume = s.record(domain.KindResume, s.saveResume(ctx, rec, ex.ResumeID), rec)
	}
	if p.DocumentType.WantsPortfolio() {
		rec := &domain.Record{
			UserID:   userID,
			Kind:     domain.KindPortfolio,
			Title:    base + " - Portfolio",
			Template: p.PortfolioTemplate,
			Data:     data,
		}
		res.Portfolio = s.record(domain.KindPortfolio, s.savePortfolio(ctx, rec, base, ex.PortfolioID), rec)
	}
	return res, nil
}

func (s *Service) record(kind domain.Kind, err error, rec *domain.Record) *KindResult {
	if err != nil {
		s.metrics.RecordsSaved.WithLabelValues(string(kind), "error").Inc()
		s.log.Error("save record failed", zap.String("kind", string(kind)), zap.Stringer("user_id", rec.UserID), zap.Error(err))
		return &KindResult{Err: err}
	}
	s.metrics.RecordsSaved.WithLabelValues(string(kind), "ok").Inc()
	return &KindResult{Record: rec}
}

func (s *Service) saveResume(ctx context.Context, rec *domain.Record, existing *uuid.UUID) error {
	if existing != nil {
		rec.ID = *existing
		err := s.records.Update(ctx, rec)
		if err == nil {
			s.publish(ctx, domain.EventRecordUpdated, rec)
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.log.Warn("resume to update is gone, creating a new one", zap.Stringer("id", *existing))
	}
	rec.ID = uuid.Nil
	if err := s.records.Create(ctx, rec); err != nil {
		return err
	}
	s.publish(ctx, domain.EventRecordCreated, rec)
	return nil
}

func (s *Service) savePortfolio(ctx context.Context, rec *domain.Record, base string, existing *uuid.UUID) error {
	var prev *domain.Record
	if existing != nil {
		old, err := s.records.Get(ctx, domain.KindPortfolio, *existing, rec.UserID)
		switch {
		case err == nil:
			prev = old
		case errors.Is(err, domain.ErrNotFound):
			s.log.Warn("portfolio to update is gone, creating a new one", zap.Stringer("id", *existing))
		default:
			return err
		}
	}

	write := s.records.Create
	if prev != nil {
		rec.ID = prev.ID
		rec.IsPublished = prev.IsPublished
		write = s.records.Update
	} else {
		rec.ID = uuid.Nil
		rec.IsPublished = true
	}

	var err error
	for n := 1; n <= MaxSlugAttempts; n++ {
		rec.Slug = slug.WithOrdinal(base, n)
		if err = write(ctx, rec); !errors.Is(err, domain.ErrSlugTaken) {
			break
		}
		s.metrics.SlugCollisions.Inc()
	}
	if err != nil {
		return err
	}

	if prev != nil {
		s.invalidate(ctx, prev.Slug)
		s.publish(ctx, domain.EventRecordUpdated, rec)
	} else {
		s.publish(ctx, domain.EventRecordCreated, rec)
	}
	s.invalidate(ctx, rec.Slug)
	return nil
}

// Load returns the record's profile merged over the defaults, with the
// record's template taking over the matching template preference.
func (s *Service) Load(ctx context.Context, userID uuid.UUID, kind domain.Kind, id uuid.UUID) (model.Profile, *domain.Record, error) {
	rec, err := s.records.Get(ctx, kind, id, userID)
	if err != nil {
		return model.Profile{}, nil, err
	}
	p, err := profileOf(rec)
	if err != nil {
		return model.Profile{}, nil, err
	}
	return p, rec, nil
}

func profileOf(rec *domain.Record) (model.Profile, error) {
	p, err := model.FromRecordData(rec.Data)
	if err != nil {
		return model.Profile{}, fmt.Errorf("decode %s %s: %w", rec.Kind, rec.ID, err)
	}
	if rec.Template != "" {
		switch rec.Kind {
		case domain.KindResume:
			p.ResumeTemplate = rec.Template
		case domain.KindPortfolio:
			p.PortfolioTemplate = rec.Template
		}
	}
	return p, nil
}

// Dashboard lists a user's records, most recently updated first.
type Dashboard struct {
	Resumes    []domain.Record `json:"resumes"`
	Portfolios []domain.Record `json:"portfolios"`
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) (Dashboard, error) {
	resumes, err := s.records.List(ctx, domain.KindResume, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list resumes: %w", err)
	}
	portfolios, err := s.records.List(ctx, domain.KindPortfolio, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list portfolios: %w", err)
	}
	if resumes == nil {
		resumes = []domain.Record{}
	}
	if portfolios == nil {
		portfolios = []domain.Record{}
	}
	return Dashboard{Resumes: resumes, Portfolios: portfolios}, nil
}

func (s *Service) Delete(ctx context.Context, userID uuid.UUID, kind domain.Kind, id uuid.UUID) error {
	rec, err := s.records.Get(ctx, kind, id, userID)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, kind, id, userID); err != nil {
		return err
	}
	s.metrics.RecordsDeleted.WithLabelValues(string(kind)).Inc()
	if kind == domain.KindPortfolio {
		s.invalidate(ctx, rec.Slug)
	}
	s.publish(ctx, domain.EventRecordDeleted, rec)
	return nil
}

// SetPublished toggles whether a portfolio is reachable on its public slug.
func (s *Service) SetPublished(ctx context.Context, userID, id uuid.UUID, published bool) (*domain.Record, error) {
	rec, err := s.records.Get(ctx, domain.KindPortfolio, id, userID)
	if err != nil {
		return nil, err
	}
	if rec.IsPublished == published {
		return rec, nil
	}
	rec.IsPublished = published
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidate(ctx, rec.Slug)
	if published {
		s.publish(ctx, domain.EventPortfolioPublished, rec)
	} else {
		s.publish(ctx, domain.EventPortfolioHidden, rec)
	}
	return rec, nil
}

// PublicPortfolio resolves a published portfolio by slug. Unknown and
// unpublished slugs both yield domain.ErrNotFound.
func (s *Service) PublicPortfolio(ctx context.Context, slug string) (*domain.Record, error) {
	if rec, err := s.cache.Get(ctx, slug); err != nil {
		s.log.Warn("portfolio cache read failed", zap.String("slug", slug), zap.Error(err))
	} else if rec != nil {
		s.metrics.CacheHits.Inc()
		s.metrics.PublicViews.WithLabelValues("found").Inc()
		return rec, nil
	}
	s.metrics.CacheMisses.Inc()

	rec, err := s.records.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.PublicViews.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}
	if !rec.IsPublished {
		s.metrics.PublicViews.WithLabelValues("not_found").Inc()
		return nil, domain.ErrNotFound
	}
	if err := s.cache.Set(ctx, rec); err != nil {
		s.log.Warn("portfolio cache write failed", zap.String("slug", slug), zap.Error(err))
	} else if !s.stillPublished(ctx, rec) {
		s.invalidate(ctx, slug)
		s.metrics.PublicViews.WithLabelValues("not_found").Inc()
		return nil, domain.ErrNotFound
	}
	s.metrics.PublicViews.WithLabelValues("found").Inc()
	return rec, nil
}

// stillPublished re-reads rec after it was cached. An unpublish or delete
// whose invalidation ran before our cache write would otherwise leave the
// stale entry in place until it expires.
func (s *Service) stillPublished(ctx context.Context, rec *domain.Record) bool {
	fresh, err := s.records.GetPublishedBySlug(ctx, rec.Slug)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return false
	case err != nil:
		s.log.Warn("portfolio recheck failed", zap.String("slug", rec.Slug), zap.Error(err))
		return true
	}
	return fresh.IsPublished && fresh.ID == rec.ID
}

// PublicPortfolioHTML renders the published portfolio behind slug.
func (s *Service) PublicPortfolioHTML(ctx context.Context, slug string) (string, error) {
	rec, err := s.PublicPortfolio(ctx, slug)
	if err != nil {
		return "", err
	}
	p, err := profileOf(rec)
	if err != nil {
		return "", err
	}
	return s.renderer.Portfolio(composer.Portfolio(p), rec.Template)
}

// RenderRecord renders one of the user's records with its stored template.
func (s *Service) RenderRecord(ctx context.Context, userID uuid.UUID, kind domain.Kind, id uuid.UUID) (string, error) {
	p, rec, err := s.Load(ctx, userID, kind, id)
	if err != nil {
		return "", err
	}
	return s.RenderProfile(kind, p, rec.Template)
}

// RenderProfile renders p as the given kind. An empty templateID uses the
// profile's own preference for that kind.
func (s *Service) RenderProfile(kind domain.Kind, p model.Profile, templateID string) (string, error) {
	if kind == domain.KindPortfolio {
		if templateID == "" {
			templateID = p.PortfolioTemplate
		}
		return s.renderer.Portfolio(composer.Portfolio(p), templateID)
	}
	if templateID == "" {
		templateID = p.ResumeTemplate
	}
	return s.renderer.Resume(composer.Resume(p), templateID)
}

// Export is a finished PDF ready for download.
type Export struct {
	Filename string
	PDF      []byte
}

// ExportResume renders a saved resume to PDF. A nil Export with a nil
// error means the view had nothing to capture.
func (s *Service) ExportResume(ctx context.Context, userID, id uuid.UUID) (*Export, error) {
	p, rec, err := s.Load(ctx, userID, domain.KindResume, id)
	if err != nil {
		return nil, err
	}
	return s.ExportProfile(ctx, p, rec.Template)
}

func (s *Service) ExportProfile(ctx context.Context, p model.Profile, templateID string) (*Export, error) {
	if s.exporter == nil {
		return nil, ErrExportDisabled
	}
	html, err := s.RenderProfile(domain.KindResume, p, templateID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	pdf, err := s.exporter.Export(ctx, html)
	s.metrics.ExportDuration.Observe(s.now().Sub(start).Seconds())
	switch {
	case errors.Is(err, domain.ErrEmptyView):
		s.metrics.Exports.WithLabelValues("empty").Inc()
		s.log.Info("export skipped, nothing to capture")
		return nil, nil
	case err != nil:
		s.metrics.Exports.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	s.metrics.Exports.WithLabelValues("ok").Inc()
	return &Export{Filename: ExportFilename(p), PDF: pdf}, nil
}

// ExportFilename is "<full name>-ai-resume.pdf", or "resume-ai-resume.pdf"
// without a name.
func ExportFilename(p model.Profile) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f, r == '"', r == '/', r == '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(p.PersonalDetails.FullName))
	if name == "" {
		name = "resume"
	}
	return name + "-ai-resume.pdf"
}

func (s *Service) invalidate(ctx context.Context, slug string) {
	if slug == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, slug); err != nil {
		s.log.Warn("portfolio cache invalidation failed", zap.String("slug", slug), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, t domain.EventType, rec *domain.Record) {
	ev := domain.Event{
		Type:       t,
		RecordID:   rec.ID,
		UserID:     rec.UserID,
		Kind:       rec.Kind,
		Slug:       rec.Slug,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish event failed", zap.String("type", string(t)), zap.Stringer("record_id", rec.ID), zap.Error(err))
	}
}
