package v1

import (
	"jobboard-admin/internal/delivery/http/handler"
	"jobboard-admin/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, session *handler.SessionHandler, jobs *handler.JobsHandler, auth *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	if session != nil {
		session.RegisterRoutes(r.Group("/session"))
	}

	protected := r.Group("", auth.Middleware())
	RegisterJobs(protected, jobs)
}
