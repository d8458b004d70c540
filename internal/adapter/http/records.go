package http

import (
	"fmt"
	"strings"

	"ai-folio/internal/domain"
	"ai-folio/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type publishReq struct {
	Published *bool `json:"published" validate:"required"`
}

func recordID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid record id")
	}
	return id, nil
}

// ListRecords is the dashboard: both kinds, most recently updated first.
func (h *Handler) ListRecords(c *fiber.Ctx) error {
	dash, err := h.svc.List(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dash)
}

func (h *Handler) GetRecord(kind domain.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := recordID(c)
		if err != nil {
			return err
		}
		p, rec, err := h.svc.Load(c.UserContext(), userID(c), kind, id)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(fiber.Map{"record": rec, "profile": p})
	}
}

func (h *Handler) DeleteRecord(kind domain.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := recordID(c)
		if err != nil {
			return err
		}
		if err := h.svc.Delete(c.UserContext(), userID(c), kind, id); err != nil {
			return h.fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (h *Handler) RecordHTML(kind domain.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := recordID(c)
		if err != nil {
			return err
		}
		html, err := h.svc.RenderRecord(c.UserContext(), userID(c), kind, id)
		if err != nil {
			return h.fail(c, err)
		}
		c.Type("html", "utf-8")
		return c.SendString(html)
	}
}

func (h *Handler) ExportResume(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	export, err := h.svc.ExportResume(c.UserContext(), userID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return sendPDF(c, export)
}

// sendPDF answers 204 when the export had nothing to capture.
func sendPDF(c *fiber.Ctx, export *usecase.Export) error {
	if export == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition(export.Filename))
	return c.Send(export.PDF)
}

// contentDisposition carries name as an ASCII filename for old clients and
// as an RFC 5987 filename* for the rest.
func contentDisposition(name string) string {
	var plain, encoded strings.Builder
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			plain.WriteByte('_')
		} else {
			plain.WriteRune(r)
		}
	}
	for _, b := range []byte(name) {
		if attrChar(b) {
			encoded.WriteByte(b)
		} else {
			fmt.Fprintf(&encoded, "%%%02X", b)
		}
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, plain.String(), encoded.String())
}

func attrChar(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", b) >= 0
}

func (h *Handler) SetPublished(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}
	var req publishReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	rec, err := h.svc.SetPublished(c.UserContext(), userID(c), id, *req.Published)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}
