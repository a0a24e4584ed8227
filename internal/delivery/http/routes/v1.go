package routes

import (
	"jobboard-admin/internal/delivery/http/handler"
	"jobboard-admin/internal/delivery/http/middleware"
	v1 "jobboard-admin/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, session *handler.SessionHandler, jobs *handler.JobsHandler, auth *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	v1.Register(r, session, jobs, auth)
}
