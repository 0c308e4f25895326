package middleware

import (
	"errors"
	"fmt"

	"quizserver/backend/config"
	"quizserver/backend/models"
	"quizserver/backend/repository"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Ключи c.Locals, которые выставляет AuthMiddleware
const (
	LocalUserID = "userID"
	LocalRole   = "role"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ParseToken(c.Get(fiber.HeaderAuthorization), cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware. The role is read from the user row, so a
// demoted admin loses access before the token expires.
func AdminMiddleware(users repository.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := CurrentUserID(c)
		if userID == 0 {
			return utils.Unauthorized(c, "Unauthorized")
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.Unauthorized(c, "Unauthorized")
			}
			return utils.InternalServerError(c, "Could not query database")
		}
		if !user.IsAdmin() {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}

		c.Locals(LocalRole, models.RoleAdmin)
		return c.Next()
	}
}

func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// IsAdmin reports the role carried by the token (or confirmed by AdminMiddleware).
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(LocalRole).(string)
	return role == models.RoleAdmin
}

// RateLimitKeyByUser keys the limiter by the authenticated user, falling back to the IP.
func RateLimitKeyByUser(c *fiber.Ctx) string {
	if id := CurrentUserID(c); id != 0 {
		return fmt.Sprintf("user:%d", id)
	}
	return c.IP()
}
