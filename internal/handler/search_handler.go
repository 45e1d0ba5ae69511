package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/service"
)

// SearchHandler exposes the retrieval stage on its own, so operators can
// inspect which snippets a question would be grounded on.
type SearchHandler struct {
	ragService *service.RAGService
}

// NewSearchHandler returns a handler instance.
func NewSearchHandler(ragService *service.RAGService) *SearchHandler {
	return &SearchHandler{ragService: ragService}
}

// Register mounts GET /search on the given router group.
func (h *SearchHandler) Register(r fiber.Router) {
	r.Get("/search", h.search)
}

// search handles GET /search?q=some+text
func (h *SearchHandler) search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q (query) parameter is required")
	}

	snippets, err := h.ragService.Sources(c.UserContext(), q)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(fiber.Map{"query": q, "sources": snippets})
}
