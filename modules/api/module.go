package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/task-tracker/modules/task"
	"github.com/example/task-tracker/modules/user"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config holds HTTP server settings.
type Config struct {
	Port         int
	CORSOrigin   string
	CookieName   string
	SecureCookie bool
	CookieMaxAge time.Duration
}

// HealthChecker is a module whose health is reported by GET /health.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// Module is the driving adapter that exposes the REST endpoints.
// It calls into the user and task modules through their ports.
type Module struct {
	cfg    Config
	app    *fiber.App
	users  user.UserPort
	tasks  task.TaskPort
	checks []HealthChecker
	logger zerolog.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new api Module. checks are reported by GET /health.
func NewModule(cfg Config, logger zerolog.Logger, checks ...HealthChecker) *Module {
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:3001"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "AUTH_TOKEN"
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = time.Hour
	}
	return &Module{
		cfg:    cfg,
		checks: checks,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"user", "task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "user":
		m.users = user.NewUserAdapter(container)
	case "task":
		m.tasks = task.NewTaskAdapter(container)
	}
}

// Start builds the Fiber app and serves it in the background.
func (m *Module) Start(_ context.Context) error {
	if m.users == nil {
		return fmt.Errorf("user dependency not set")
	}
	if m.tasks == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = m.newApp()

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	m.logger.Info().Str("addr", addr).Msg("HTTP server started")
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info().Msg("shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// newApp builds the Fiber app with middleware and routes.
func (m *Module) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(m.logger))
	app.Use(cors.New(corsConfig(m.cfg.CORSOrigin)))

	m.setupRoutes(app)
	return app
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origin,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}
	// Fiber rejects credentials with a wildcard origin.
	if strings.Contains(origin, "*") {
		cfg.AllowCredentials = false
	}
	return cfg
}

// errorHandler renders errors that escape the handlers, including panics
// converted by the recover middleware.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(BaseResponse{
		Success: false,
		Message: message,
	})
}
