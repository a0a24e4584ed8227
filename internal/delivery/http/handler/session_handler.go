package handler

import (
	"jobboard-admin/internal/delivery/http/dto"
	"jobboard-admin/internal/delivery/http/middleware"
	"jobboard-admin/internal/pkg/response"
	"jobboard-admin/internal/store/session"

	"github.com/gofiber/fiber/v3"
)

type SessionHandler struct {
	session *session.Store
}

func NewSessionHandler(s *session.Store) *SessionHandler {
	return &SessionHandler{session: s}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.Get)
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)
}

func (h *SessionHandler) Get(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session.State())
}

func (h *SessionHandler) Login(c fiber.Ctx) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}
	if err := h.session.Login(c.Context(), req.Email, req.Password); err != nil {
		return mapStoreError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session.State())
}

// Register creates the account only; the caller logs in afterwards.
func (h *SessionHandler) Register(c fiber.Ctx) error {
	req, err := bindCredentials(c)
	if err != nil {
		return err
	}
	if err := h.session.Register(c.Context(), req.Email, req.Password); err != nil {
		return mapStoreError(err)
	}
	return response.Success(c, fiber.StatusCreated, "registered, please sign in", h.session.State())
}

func (h *SessionHandler) Logout(c fiber.Ctx) error {
	h.session.Logout(c.Context())
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.session.State())
}

func bindCredentials(c fiber.Ctx) (dto.CredentialsRequest, error) {
	var req dto.CredentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return req, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return req, mapValidationError(err)
	}
	return req, nil
}
