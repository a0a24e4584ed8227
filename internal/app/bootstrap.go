package app

import (
	"context"
	"fmt"
	"strings"

	"jobboard-admin/internal/config"
	"jobboard-admin/internal/delivery/http/handler"
	"jobboard-admin/internal/delivery/http/middleware"
	"jobboard-admin/internal/delivery/http/routes"
	"jobboard-admin/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Hub       *ws.Hub
	Container *Container
}

// New builds the view bridge on top of c. Call Start to begin pushing store
// snapshots to websocket clients.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})
	hub := ws.NewHub(c.Logger)

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c, hub)

	return &App{Fiber: f, Hub: hub, Container: c}
}

// Start runs the hub and forwards both stores to it until ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.Hub.Run(ctx)

	sessionUpdates, cancelSession := a.Container.Session.Subscribe()
	jobUpdates, cancelJobs := a.Container.Jobs.Subscribe()
	go func() {
		<-ctx.Done()
		cancelSession()
		cancelJobs()
	}()

	go ws.Forward(ctx, a.Hub, ws.EventSessionState, sessionUpdates)
	go ws.Forward(ctx, a.Hub, ws.EventJobsState, jobUpdates)
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := New(c)
	app.Start(ctx)

	if err := c.Session.Initialize(ctx); err != nil {
		c.Logger.WithError(err).Warn("[App] session initialize failed")
	}
	if c.Session.IsAuthenticated() {
		go func() {
			if err := c.Jobs.FetchAll(ctx); err != nil {
				c.Logger.WithError(err).Warn("[App] initial job fetch failed")
			}
		}()
	}

	cleanup := func() error {
		cancel()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container, hub *ws.Hub) {
	if app == nil {
		return
	}

	registry := routes.NewRegistry(
		handler.NewSessionHandler(c.Session),
		handler.NewJobsHandler(c.Jobs),
		ws.NewHandler(hub, c.Logger),
		middleware.NewAuthMiddleware(c.Session),
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
