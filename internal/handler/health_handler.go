package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/database"
)

// HealthHandler reports the configured backends and database reachability.
type HealthHandler struct {
	searchBackend string
	modelBackend  string
	model         string
	db            *mongo.Client
}

// NewHealthHandler takes a nil db when no backend needs MongoDB.
func NewHealthHandler(searchBackend, modelBackend, model string, db *mongo.Client) *HealthHandler {
	return &HealthHandler{
		searchBackend: searchBackend,
		modelBackend:  modelBackend,
		model:         model,
		db:            db,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"search": h.searchBackend,
		"model": fiber.Map{
			"backend": h.modelBackend,
			"name":    h.model,
		},
		"db": h.checkDB(c.UserContext()),
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) string {
	if h.db == nil {
		return "not_configured"
	}
	if err := database.Ping(ctx, h.db); err != nil {
		return "error"
	}
	return "connected"
}
