package middleware

import (
	"badir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a user is in the session.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Actor(c).IsZero() {
			return response.Unauthorized(c, "يجب تسجيل الدخول أولاً")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the session user has the admin role. Handlers behind it
// still receive the actor explicitly via Actor(c); this gate only short-circuits
// obvious non-admins before any service work.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor.IsZero() {
			return response.Unauthorized(c, "يجب تسجيل الدخول أولاً")
		}
		if !actor.IsAdmin() {
			return response.Error(c, "غير مصرح لك بالوصول إلى هذه الصفحة", fiber.StatusForbidden)
		}
		return c.Next()
	}
}
