package http

import (
	"strconv"

	"ai-folio/internal/domain"
	"ai-folio/internal/model"
	"ai-folio/internal/usecase"
	"ai-folio/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createDraftReq struct {
	ResumeID    *uuid.UUID `json:"resumeId"`
	PortfolioID *uuid.UUID `json:"portfolioId"`
}

type projectReq struct {
	Title         string `json:"title" validate:"max=200"`
	Problem       string `json:"problem" validate:"max=2000"`
	TechStack     string `json:"techStack" validate:"max=500"`
	Contributions string `json:"contributions" validate:"max=4000"`
	Outcome       string `json:"outcome" validate:"max=2000"`
}

func (r projectReq) project() model.Project {
	return model.Project{
		Title:         r.Title,
		Problem:       r.Problem,
		TechStack:     r.TechStack,
		Contributions: r.Contributions,
		Outcome:       r.Outcome,
	}
}

type experienceReq struct {
	Title       string `json:"title" validate:"max=200"`
	Company     string `json:"company" validate:"max=200"`
	Duration    string `json:"duration" validate:"max=100"`
	Description string `json:"description" validate:"max=4000"`
}

func (r experienceReq) experience() model.Experience {
	return model.Experience{
		Title:       r.Title,
		Company:     r.Company,
		Duration:    r.Duration,
		Description: r.Description,
	}
}

func (h *Handler) draftID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid draft id")
	}
	return id, nil
}

// CreateDraft opens a wizard session, optionally seeded from saved records.
func (h *Handler) CreateDraft(c *fiber.Ctx) error {
	var req createDraftReq
	if len(c.Body()) > 0 {
		if err := h.bind(c, &req); err != nil {
			return err
		}
	}
	view, err := h.svc.NewDraft(c.UserContext(), userID(c), usecase.Existing{
		ResumeID:    req.ResumeID,
		PortfolioID: req.PortfolioID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *Handler) GetDraft(c *fiber.Ctx) error {
	id, err := h.draftID(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Draft(c.UserContext(), userID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

func (h *Handler) DeleteDraft(c *fiber.Ctx) error {
	id, err := h.draftID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DiscardDraft(c.UserContext(), userID(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// mutate loads the draft behind :id, applies fn and responds with the new view.
func (h *Handler) mutate(c *fiber.Ctx, status int, fn func(w *wizard.Wizard) error) error {
	id, err := h.draftID(c)
	if err != nil {
		return err
	}
	view, err := h.svc.MutateDraft(c.UserContext(), userID(c), id, fn)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(status).JSON(view)
}

func (h *Handler) PatchDraft(c *fiber.Ctx) error {
	var patch wizard.Patch
	if err := h.bind(c, &patch); err != nil {
		return err
	}
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		w.Update(patch)
		return nil
	})
}

func (h *Handler) NextStep(c *fiber.Ctx) error {
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		w.Next()
		return nil
	})
}

func (h *Handler) PrevStep(c *fiber.Ctx) error {
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		w.Prev()
		return nil
	})
}

func (h *Handler) GotoStep(c *fiber.Ctx) error {
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid step")
	}
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		w.Goto(step)
		return nil
	})
}

func (h *Handler) AddProject(c *fiber.Ctx) error {
	var req projectReq
	if len(c.Body()) > 0 {
		if err := h.bind(c, &req); err != nil {
			return err
		}
	}
	return h.mutate(c, fiber.StatusCreated, func(w *wizard.Wizard) error {
		w.AddProject(req.project())
		return nil
	})
}

func (h *Handler) UpdateProject(c *fiber.Ctx) error {
	var req projectReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	pid := c.Params("pid")
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		if !w.UpdateProject(pid, func(p *model.Project) { *p = req.project() }) {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (h *Handler) RemoveProject(c *fiber.Ctx) error {
	pid := c.Params("pid")
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		if !w.RemoveProject(pid) {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (h *Handler) AddExperience(c *fiber.Ctx) error {
	var req experienceReq
	if len(c.Body()) > 0 {
		if err := h.bind(c, &req); err != nil {
			return err
		}
	}
	return h.mutate(c, fiber.StatusCreated, func(w *wizard.Wizard) error {
		w.AddExperience(req.experience())
		return nil
	})
}

func (h *Handler) UpdateExperience(c *fiber.Ctx) error {
	var req experienceReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	eid := c.Params("eid")
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		if !w.UpdateExperience(eid, func(e *model.Experience) { *e = req.experience() }) {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (h *Handler) RemoveExperience(c *fiber.Ctx) error {
	eid := c.Params("eid")
	return h.mutate(c, fiber.StatusOK, func(w *wizard.Wizard) error {
		if !w.RemoveExperience(eid) {
			return domain.ErrNotFound
		}
		return nil
	})
}

// PreviewDraft renders the unsaved draft as :kind. The template query
// parameter overrides the profile's own choice.
func (h *Handler) PreviewDraft(c *fiber.Ctx) error {
	id, err := h.draftID(c)
	if err != nil {
		return err
	}
	kind := domain.Kind(c.Params("kind"))
	if !kind.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "kind must be resume or portfolio")
	}
	p, err := h.svc.DraftProfile(c.UserContext(), userID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	html, err := h.svc.RenderProfile(kind, p, c.Query("template"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) ExportDraft(c *fiber.Ctx) error {
	id, err := h.draftID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.DraftProfile(c.UserContext(), userID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	export, err := h.svc.ExportProfile(c.UserContext(), p, c.Query("template"))
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, export)
}

// SaveDraft writes the draft's records. Each kind's outcome is reported
// separately; any failure turns the response into a 500.
func (h *Handler) SaveDraft(c *fiber.Ctx) error {
	id, err := h.draftID(c)
	if err != nil {
		return err
	}
	res, view, err := h.svc.SaveDraft(c.UserContext(), userID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	if saveErr := res.Err(); saveErr != nil {
		h.log.Warn("save incomplete", zap.Stringer("draft_id", id), zap.Error(saveErr))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "failed to save, please try again",
			"results": res,
			"draft":   view,
		})
	}
	return c.JSON(fiber.Map{"results": res, "draft": view})
}
