package http

import (
	"errors"

	"ai-folio/internal/adapter/auth"

	"github.com/gofiber/fiber/v2"
)

type signUpReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required,max=200"`
}

type signInReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req signUpReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	user, session, err := h.auth.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		return h.authFailure(c, fiber.StatusBadRequest, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":                 user,
		"session":              session,
		"confirmationRequired": session == nil,
	})
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req signInReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	session, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		return h.authFailure(c, fiber.StatusUnauthorized, err)
	}
	return c.JSON(session)
}

// authFailure surfaces the provider's message verbatim.
func (h *Handler) authFailure(c *fiber.Ctx, status int, err error) error {
	var pe *auth.ProviderError
	if errors.As(err, &pe) {
		return errorJSON(c, status, pe.Message)
	}
	return h.fail(c, err)
}
