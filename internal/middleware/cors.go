package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS permits every method and header for the given origins ("*" for all).
// Credentials stay disabled: fiber refuses wildcard origins with credentials.
func CORS(allowOrigins string) fiber.Handler {
	if strings.TrimSpace(allowOrigins) == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodHead,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodPatch,
			fiber.MethodOptions,
		}, ","),
		// Empty AllowHeaders reflects Access-Control-Request-Headers, i.e. all headers.
		AllowHeaders: "",
		MaxAge:       600,
	})
}
