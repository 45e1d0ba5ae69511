package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/middleware"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/service"
)

// NewApp builds the fiber app with the global middleware stack and all routes.
func NewApp(cfg config.Config, ragSvc *service.RAGService, health *HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "kisan-sathi",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Logging())
	app.Use(middleware.CORS(cfg.CORSAllowOrigins))

	RegisterRoutes(app, ragSvc, health)
	return app
}

// RegisterRoutes mounts /ask at the root (the public contract) and under
// /api/v1, which also carries the retrieval-only /search.
func RegisterRoutes(app *fiber.App, ragSvc *service.RAGService, health *HealthHandler) {
	rag := NewRAGHandler(ragSvc)
	rag.Register(app)

	v1 := app.Group("/api/v1")
	rag.Register(v1)
	NewSearchHandler(ragSvc).Register(v1)

	if health != nil {
		health.Register(app)
	}
}
