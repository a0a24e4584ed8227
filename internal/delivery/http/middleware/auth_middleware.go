package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// SessionReader reports whether the session store is authenticated.
type SessionReader interface {
	IsAuthenticated() bool
}

type AuthMiddleware struct {
	session SessionReader
}

func NewAuthMiddleware(session SessionReader) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

// Middleware rejects requests with 401 while the session is unauthenticated.
// Identity is held by the session store, not by the caller's headers.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil || m.session == nil || !m.session.IsAuthenticated() {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return c.Next()
	}
}
