package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"ai-folio/internal/adapter/auth"
	"ai-folio/internal/domain"
	"ai-folio/internal/infrastructure/metrics"
	"ai-folio/internal/model"
	"ai-folio/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator is the slice of the auth provider the handlers use.
type Authenticator interface {
	SignUp(email, password, fullName string) (*auth.User, *auth.Session, error)
	SignIn(email, password string) (*auth.Session, error)
	Verify(token string) (*auth.User, error)
}

type Handler struct {
	svc      *usecase.Service
	auth     Authenticator
	metrics  *metrics.Collector
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(svc *usecase.Service, a Authenticator, m *metrics.Collector, log *zap.Logger) *Handler {
	return &Handler{svc: svc, auth: a, metrics: m, validate: validator.New(), log: log}
}

// Register mounts every route on app. Public routes are registered before
// the authenticated groups so the auth middleware never sees them.
func (h *Handler) Register(app *fiber.App) {
	app.Use(h.observe)

	app.Get("/healthz", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	app.Get("/templates", h.Templates)
	app.Get("/roles", h.Roles)
	app.Post("/auth/signup", h.SignUp)
	app.Post("/auth/signin", h.SignIn)
	app.Get("/p/:slug", h.PublicPage)

	api := app.Group("/api")
	api.Get("/portfolios/public/:slug", h.PublicPortfolio)

	drafts := api.Group("/drafts", h.RequireAuth)
	drafts.Post("/", h.CreateDraft)
	drafts.Get("/:id", h.GetDraft)
	drafts.Patch("/:id", h.PatchDraft)
	drafts.Delete("/:id", h.DeleteDraft)
	drafts.Post("/:id/next", h.NextStep)
	drafts.Post("/:id/prev", h.PrevStep)
	drafts.Post("/:id/goto/:step", h.GotoStep)
	drafts.Post("/:id/projects", h.AddProject)
	drafts.Put("/:id/projects/:pid", h.UpdateProject)
	drafts.Delete("/:id/projects/:pid", h.RemoveProject)
	drafts.Post("/:id/experiences", h.AddExperience)
	drafts.Put("/:id/experiences/:eid", h.UpdateExperience)
	drafts.Delete("/:id/experiences/:eid", h.RemoveExperience)
	drafts.Get("/:id/preview/:kind", h.PreviewDraft)
	drafts.Get("/:id/pdf", h.ExportDraft)
	drafts.Post("/:id/save", h.SaveDraft)

	api.Get("/records", h.RequireAuth, h.ListRecords)

	resumes := api.Group("/resumes", h.RequireAuth)
	resumes.Get("/:id", h.GetRecord(domain.KindResume))
	resumes.Delete("/:id", h.DeleteRecord(domain.KindResume))
	resumes.Get("/:id/html", h.RecordHTML(domain.KindResume))
	resumes.Get("/:id/pdf", h.ExportResume)

	portfolios := api.Group("/portfolios", h.RequireAuth)
	portfolios.Get("/:id", h.GetRecord(domain.KindPortfolio))
	portfolios.Delete("/:id", h.DeleteRecord(domain.KindPortfolio))
	portfolios.Get("/:id/html", h.RecordHTML(domain.KindPortfolio))
	portfolios.Put("/:id/publish", h.SetPublished)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
}

// observe counts requests by matched route so path parameters don't
// explode label cardinality.
func (h *Handler) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	route := c.Route().Path
	h.metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	h.metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
	return err
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without internal detail.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var pe *auth.ProviderError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, model.ErrInvalidProfile):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		return errorJSON(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.As(err, &pe):
		return errorJSON(c, fiber.StatusBadRequest, pe.Message)
	case errors.Is(err, usecase.ErrExportDisabled):
		return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
	}
	h.log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "internal server error")
}

// bind parses the JSON body into dst and runs its validate tags. The
// returned *fiber.Error is rendered by ErrorHandler.
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

// ErrorHandler renders errors that escape a handler as {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
	}
	return errorJSON(c, code, msg)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
