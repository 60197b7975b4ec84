package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/registro-go-api/internal/service"
	"github.com/noah-isme/registro-go-api/internal/utils"
)

// Locals keys shared with the handler layer.
const (
	LocalActorName = "actor_name"
	LocalIsAdmin   = "is_admin"
)

// Request headers carrying the actor identity and admin capability.
const (
	HeaderActor     = "X-Actor"
	HeaderAdminCode = "X-Admin-Code"
)

// Actor binds the caller name from the X-Actor header to the request so
// mutations can stamp updated_by/created_by.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalActorName, strings.TrimSpace(c.Get(HeaderActor)))
		return c.Next()
	}
}

// AdminOnly guards administrative routes behind the injected
// Authenticator. Reschedule and delete are unreachable without it.
func AdminOnly(auth service.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Get(HeaderAdminCode))
		if code == "" {
			return utils.Fail(c, fiber.StatusUnauthorized, "admin code required", nil)
		}
		if !auth.Verify(code) {
			return utils.Fail(c, fiber.StatusForbidden, "invalid admin code", nil)
		}

		c.Locals(LocalIsAdmin, true)
		return c.Next()
	}
}
