package routes

import (
	"jobboard-admin/internal/delivery/http/handler"
	"jobboard-admin/internal/delivery/http/middleware"
	"jobboard-admin/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health  *handler.HealthHandler
	session *handler.SessionHandler
	jobs    *handler.JobsHandler
	ws      *ws.Handler
	auth    *middleware.AuthMiddleware
}

func NewRegistry(session *handler.SessionHandler, jobs *handler.JobsHandler, wsHandler *ws.Handler, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{
		health:  handler.NewHealthHandler(),
		session: session,
		jobs:    jobs,
		ws:      wsHandler,
		auth:    auth,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws == nil {
		return
	}
	app.Get("/ws", r.ws.HandleStateWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.session, r.jobs, r.auth)
}
