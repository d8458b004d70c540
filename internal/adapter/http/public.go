package http

import (
	"errors"

	"ai-folio/internal/domain"
	"ai-folio/internal/model"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Templates(c *fiber.Ctx) error {
	return c.JSON(h.svc.Renderer().Catalog())
}

func (h *Handler) Roles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"roles": model.SuggestedRoles})
}

// PublicPage serves a published portfolio as HTML. Unknown and unpublished
// slugs get the not-found page with a 404.
func (h *Handler) PublicPage(c *fiber.Ctx) error {
	html, err := h.svc.PublicPortfolioHTML(c.UserContext(), c.Params("slug"))
	if errors.Is(err, domain.ErrNotFound) {
		page, rerr := h.svc.Renderer().NotFound()
		if rerr != nil {
			return h.fail(c, rerr)
		}
		c.Status(fiber.StatusNotFound)
		html = page
	} else if err != nil {
		return h.fail(c, err)
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) PublicPortfolio(c *fiber.Ctx) error {
	rec, err := h.svc.PublicPortfolio(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	p, err := model.FromRecordData(rec.Data)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"slug":      rec.Slug,
		"title":     rec.Title,
		"template":  rec.Template,
		"updatedAt": rec.UpdatedAt,
		"profile":   p,
	})
}
