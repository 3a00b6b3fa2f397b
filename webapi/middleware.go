package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/osuhe/remesas/webapi/common"
)

// AdminProtected guards admin routes with the static bearer token. A
// missing or non-bearer Authorization header is 401; a present but wrong
// token is 403.
func AdminProtected(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "authorization token required")
		}
		if strings.TrimPrefix(header, "Bearer ") != token {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "invalid authorization token")
		}
		return c.Next()
	}
}
