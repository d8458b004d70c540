package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"ai-folio/internal/domain"
	"ai-folio/internal/infrastructure/metrics"
	"ai-folio/internal/model"
	"ai-folio/internal/render"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      *Service
	records  *fakeRecords
	drafts   *fakeDrafts
	events   *fakeEvents
	cache    *fakeCache
	exporter *fakeExporter
	metrics  *metrics.Collector
	user     uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	r, err := render.New()
	require.NoError(t, err)
	h := &harness{
		records:  newFakeRecords(),
		drafts:   newFakeDrafts(),
		events:   &fakeEvents{},
		cache:    newFakeCache(),
		exporter: &fakeExporter{pdf: []byte("%PDF-1.4 fake")},
		metrics:  metrics.NewCollector("test"),
		user:     uuid.New(),
	}
	h.svc = NewService(h.records, h.drafts, r,
		WithEvents(h.events),
		WithCache(h.cache),
		WithExporter(h.exporter),
		WithMetrics(h.metrics),
	)
	return h
}

func profile(name string, dt model.DocumentType) model.Profile {
	p := model.Defaults()
	p.PersonalDetails.FullName = name
	p.PersonalDetails.Email = "x@example.com"
	p.TargetRole = "ML Engineer"
	p.DocumentType = dt
	return p
}

func TestSaveWritesKindsForDocumentType(t *testing.T) {
	tests := []struct {
		name          string
		dt            model.DocumentType
		wantResume    bool
		wantPortfolio bool
	}{
		{"resume", model.DocumentResume, true, false},
		{"portfolio", model.DocumentPortfolio, false, true},
		{"both", model.DocumentBoth, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			res, err := h.svc.Save(context.Background(), h.user, profile("Jane Doe", tt.dt), Existing{})
			require.NoError(t, err)
			require.NoError(t, res.Err())
			assert.Equal(t, tt.wantResume, res.Resume != nil)
			assert.Equal(t, tt.wantPortfolio, res.Portfolio != nil)
		})
	}
}

func TestSaveTitlesTemplatesAndSlug(t *testing.T) {
	h := newHarness(t)
	p := profile("Jane Doe", model.DocumentBoth)
	p.ResumeTemplate = "modern-ai"
	p.PortfolioTemplate = "research"

	res, err := h.svc.Save(context.Background(), h.user, p, Existing{})
	require.NoError(t, err)

	r := res.Resume.Record
	assert.Equal(t, "Jane Doe - Resume", r.Title)
	assert.Equal(t, "modern-ai", r.Template)
	assert.Empty(t, r.Slug)

	pf := res.Portfolio.Record
	assert.Equal(t, "Jane Doe - Portfolio", pf.Title)
	assert.Equal(t, "research", pf.Template)
	assert.Equal(t, "jane-doe-ai", pf.Slug)
	assert.True(t, pf.IsPublished)

	var stored model.Profile
	require.NoError(t, json.Unmarshal(r.Data, &stored))
	assert.Equal(t, "Jane Doe", stored.PersonalDetails.FullName)
}

func TestSaveWithoutNameUsesUntitled(t *testing.T) {
	h := newHarness(t)
	res, err := h.svc.Save(context.Background(), h.user, profile("", model.DocumentBoth), Existing{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled - Resume", res.Resume.Record.Title)
	assert.Equal(t, "untitled-ai", res.Portfolio.Record.Slug)
}

func TestSaveRejectsUnknownDocumentType(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Save(context.Background(), h.user, profile("Jane", "letter"), Existing{})
	require.Error(t, err)
	assert.Zero(t, h.records.creates)
}

func TestSaveUpdatesExistingRecords(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentBoth), Existing{})
	require.NoError(t, err)
	rid, pid := first.Resume.Record.ID, first.Portfolio.Record.ID

	_, err = h.svc.SetPublished(ctx, h.user, pid, false)
	require.NoError(t, err)

	second, err := h.svc.Save(ctx, h.user, profile("Jane Smith", model.DocumentBoth), Existing{ResumeID: &rid, PortfolioID: &pid})
	require.NoError(t, err)
	require.NoError(t, second.Err())

	assert.Equal(t, rid, second.Resume.Record.ID)
	assert.Equal(t, pid, second.Portfolio.Record.ID)
	assert.Equal(t, "jane-smith-ai", second.Portfolio.Record.Slug)
	assert.False(t, second.Portfolio.Record.IsPublished, "update keeps publication state")
	assert.Equal(t, 2, h.records.creates)
	assert.Contains(t, h.cache.invalidated, "jane-doe-ai")
	assert.Contains(t, h.events.types(), domain.EventRecordUpdated)
}

func TestSaveRecreatesVanishedRecord(t *testing.T) {
	h := newHarness(t)
	gone := uuid.New()
	res, err := h.svc.Save(context.Background(), h.user, profile("Jane", model.DocumentResume), Existing{ResumeID: &gone})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.NotEqual(t, gone, res.Resume.Record.ID)
}

func TestSaveKindsAreIndependent(t *testing.T) {
	h := newHarness(t)
	h.records.failOn[domain.KindPortfolio] = errStoreDown

	res, err := h.svc.Save(context.Background(), h.user, profile("Jane Doe", model.DocumentBoth), Existing{})
	require.NoError(t, err)

	require.NotNil(t, res.Resume)
	assert.NoError(t, res.Resume.Err)
	assert.NotNil(t, res.Resume.Record)

	require.NotNil(t, res.Portfolio)
	assert.ErrorIs(t, res.Portfolio.Err, errStoreDown)
	assert.ErrorIs(t, res.Err(), errStoreDown)

	dash, err := h.svc.List(context.Background(), h.user)
	require.NoError(t, err)
	assert.Len(t, dash.Resumes, 1)
	assert.Empty(t, dash.Portfolios)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RecordsSaved.WithLabelValues("portfolio", "error")))
}

func TestSlugCollisionsGetOrdinals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	want := []string{"jane-doe-ai", "jane-doe-2-ai", "jane-doe-3-ai"}
	for _, w := range want {
		res, err := h.svc.Save(ctx, uuid.New(), profile("Jane Doe", model.DocumentPortfolio), Existing{})
		require.NoError(t, err)
		require.NoError(t, res.Err())
		assert.Equal(t, w, res.Portfolio.Record.Slug)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.SlugCollisions))
}

func TestSlugAttemptsAreBounded(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 0; i < MaxSlugAttempts; i++ {
		res, err := h.svc.Save(ctx, uuid.New(), profile("Jane Doe", model.DocumentPortfolio), Existing{})
		require.NoError(t, err)
		require.NoError(t, res.Err())
	}
	res, err := h.svc.Save(ctx, uuid.New(), profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)
	assert.ErrorIs(t, res.Portfolio.Err, domain.ErrSlugTaken)
}

func TestLoadMergesOverDefaultsAndAppliesTemplate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rec := &domain.Record{
		UserID:   h.user,
		Kind:     domain.KindResume,
		Title:    "Old - Resume",
		Template: "fresher-ai",
		Data:     json.RawMessage(`{"personalDetails":{"fullName":"Old"},"resumeTemplate":"classic-ats"}`),
	}
	require.NoError(t, h.records.Create(ctx, rec))

	p, got, err := h.svc.Load(ctx, h.user, domain.KindResume, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Old", p.PersonalDetails.FullName)
	assert.Equal(t, "fresher-ai", p.ResumeTemplate)
	assert.Equal(t, model.DefaultPortfolioTemplate, p.PortfolioTemplate)
	assert.Equal(t, model.DocumentResume, p.DocumentType)
	assert.NotNil(t, p.Projects)
}

func TestLoadIsScopedToOwner(t *testing.T) {
	h := newHarness(t)
	res, err := h.svc.Save(context.Background(), h.user, profile("Jane", model.DocumentResume), Existing{})
	require.NoError(t, err)

	_, _, err = h.svc.Load(context.Background(), uuid.New(), domain.KindResume, res.Resume.Record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, err := h.svc.Save(ctx, h.user, profile("A", model.DocumentResume), Existing{})
	require.NoError(t, err)
	_, err = h.svc.Save(ctx, h.user, profile("B", model.DocumentResume), Existing{})
	require.NoError(t, err)
	aid := a.Resume.Record.ID
	_, err = h.svc.Save(ctx, h.user, profile("A2", model.DocumentResume), Existing{ResumeID: &aid})
	require.NoError(t, err)

	dash, err := h.svc.List(ctx, h.user)
	require.NoError(t, err)
	require.Len(t, dash.Resumes, 2)
	assert.Equal(t, "A2 - Resume", dash.Resumes[0].Title)
	assert.Equal(t, "B - Resume", dash.Resumes[1].Title)
	assert.NotNil(t, dash.Portfolios)
}

func TestDeletePortfolioInvalidatesAndPublishes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)
	id := res.Portfolio.Record.ID

	require.NoError(t, h.svc.Delete(ctx, h.user, domain.KindPortfolio, id))
	assert.Contains(t, h.cache.invalidated, "jane-doe-ai")
	assert.Contains(t, h.events.types(), domain.EventRecordDeleted)

	assert.ErrorIs(t, h.svc.Delete(ctx, h.user, domain.KindPortfolio, id), domain.ErrNotFound)
}

func TestPublicPortfolioOnlyWhenPublished(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)
	id := res.Portfolio.Record.ID

	got, err := h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = h.svc.SetPublished(ctx, h.user, id, false)
	require.NoError(t, err)
	_, err = h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.svc.PublicPortfolio(ctx, "nobody-ai")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, []domain.EventType{domain.EventRecordCreated, domain.EventPortfolioHidden}, h.events.types())
}

func TestPublicPortfolioUsesCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)

	_, err = h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	require.NoError(t, err)
	_, err = h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CacheHits))
}

func TestUnpublishDuringCacheFillDoesNotLeaveStaleEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)
	id := res.Portfolio.Record.ID

	// the owner unpublishes after the reader fetched the row but before the
	// reader's cache write lands
	h.cache.beforeSet = func() {
		_, err := h.svc.SetPublished(ctx, h.user, id, false)
		require.NoError(t, err)
	}
	_, err = h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, h.cache.has("jane-doe-ai"))

	_, err = h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDuringCacheFillDoesNotLeaveStaleEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)
	id := res.Portfolio.Record.ID

	h.cache.beforeSet = func() {
		require.NoError(t, h.svc.Delete(ctx, h.user, domain.KindPortfolio, id))
	}
	_, err = h.svc.PublicPortfolio(ctx, "jane-doe-ai")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, h.cache.has("jane-doe-ai"))
}

func TestPublicPortfolioSurvivesCacheFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Save(ctx, h.user, profile("Jane Doe", model.DocumentPortfolio), Existing{})
	require.NoError(t, err)
	h.cache.getErr = errStoreDown

	html, err := h.svc.PublicPortfolioHTML(ctx, "jane-doe-ai")
	require.NoError(t, err)
	assert.Contains(t, html, "Jane Doe")
}

func TestEventFailureDoesNotFailSave(t *testing.T) {
	h := newHarness(t)
	h.events.err = errStoreDown
	res, err := h.svc.Save(context.Background(), h.user, profile("Jane", model.DocumentBoth), Existing{})
	require.NoError(t, err)
	assert.NoError(t, res.Err())
}

func TestRenderRecordUsesStoredTemplate(t *testing.T) {
	h := newHarness(t)
	p := profile("Jane Doe", model.DocumentResume)
	p.ResumeTemplate = "modern-ai"
	res, err := h.svc.Save(context.Background(), h.user, p, Existing{})
	require.NoError(t, err)

	html, err := h.svc.RenderRecord(context.Background(), h.user, domain.KindResume, res.Resume.Record.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "modern-ai")
	assert.Contains(t, html, `id="resume"`)
}

func TestExportResume(t *testing.T) {
	h := newHarness(t)
	res, err := h.svc.Save(context.Background(), h.user, profile("Jane Doe", model.DocumentResume), Existing{})
	require.NoError(t, err)

	out, err := h.svc.ExportResume(context.Background(), h.user, res.Resume.Record.ID)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Jane Doe-ai-resume.pdf", out.Filename)
	assert.Equal(t, h.exporter.pdf, out.PDF)
	assert.Contains(t, h.exporter.html, `id="resume"`)
}

func TestExportEmptyViewIsNoOp(t *testing.T) {
	h := newHarness(t)
	h.exporter.err = domain.ErrEmptyView
	out, err := h.svc.ExportProfile(context.Background(), model.Defaults(), "")
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Exports.WithLabelValues("empty")))
}

func TestExportWithoutExporter(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)
	svc := NewService(newFakeRecords(), newFakeDrafts(), r)
	_, err = svc.ExportProfile(context.Background(), model.Defaults(), "")
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jane Doe", "Jane Doe-ai-resume.pdf"},
		{"", "resume-ai-resume.pdf"},
		{"  ", "resume-ai-resume.pdf"},
		{`Ja"ne/Doe`, "JaneDoe-ai-resume.pdf"},
	}
	for _, tt := range tests {
		p := model.Defaults()
		p.PersonalDetails.FullName = tt.name
		assert.Equal(t, tt.want, ExportFilename(p), tt.name)
	}
}
