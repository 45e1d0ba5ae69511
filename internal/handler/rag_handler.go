package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/service"
)

// RAGHandler wires HTTP → RAGService.
type RAGHandler struct {
	ragService *service.RAGService
}

func NewRAGHandler(ragService *service.RAGService) *RAGHandler {
	return &RAGHandler{
		ragService: ragService,
	}
}

// Register mounts POST /ask on the supplied router.
func (h *RAGHandler) Register(r fiber.Router) {
	r.Post("/ask", h.ask)
}

// ask handles POST /ask  { "question": "...", "conversation_id": "...", "conversation_history": [[msg, is_user], ...] }
func (h *RAGHandler) ask(c *fiber.Ctx) error {
	var req models.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	log.Ctx(ctx).Debug().Str("question", req.Question).Msg("received ask request")

	resp, err := h.ragService.Answer(ctx, req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Error processing request: %v", err))
	}

	return c.JSON(resp)
}
