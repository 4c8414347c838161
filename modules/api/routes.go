package api

import (
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	auth := app.Group("/auth")
	auth.Get("/health", health("Auth Service Working Fine!"))
	auth.Post("/register", m.register)
	auth.Post("/login", m.login)
	auth.Post("/logout", m.logout)

	users := app.Group("/user")
	users.Get("/health", health("User Service Working Fine!"))
	users.Get("/", m.listUsers)
	users.Get("/:username", m.getUserByUsername)
	users.Put("/:id", m.updateUser)

	tasks := app.Group("/task")
	tasks.Get("/health", health("Task Service Working Fine!"))
	protected := tasks.Group("", AuthMiddleware(m.users, m.cfg.CookieName))
	protected.Get("/recently-deleted/:id?", m.listDeletedTasks)
	protected.Get("/archived/:id?", m.listArchivedTasks)
	protected.Get("/stats/:id?", m.getStats)
	protected.Get("/:id?", m.listActiveTasks)
	protected.Post("/", m.createTask)
	protected.Post("/restore", m.restoreTask)
	protected.Delete("/", m.deleteTask)
	protected.Put("/", m.updateTask)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	modules := make(map[string]ModuleHealth, len(m.checks))
	healthy := true
	for _, check := range m.checks {
		status := check.Health(c.UserContext())
		modules[check.Name()] = ModuleHealth{Healthy: status.Healthy, Message: status.Message}
		healthy = healthy && status.Healthy
	}

	code := fiber.StatusOK
	message := "Server Working Fine!"
	if !healthy {
		code = fiber.StatusServiceUnavailable
		message = "Server Degraded!"
	}
	return c.Status(code).JSON(HealthEnvelope{
		Success: healthy,
		Message: message,
		Modules: modules,
	})
}

func health(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(BaseResponse{Success: true, Message: message})
	}
}
