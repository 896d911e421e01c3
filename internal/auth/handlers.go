package auth

import (
	"context"
	"encoding/json"

	"badir-backend/internal/domain"
	"badir-backend/internal/middleware"
	"badir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles auth handlers with dependencies.
type Handlers struct {
	Service *Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Signup POST /api/v1/auth/signup
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var in SignupInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "البيانات المدخلة غير صحيحة. يرجى التحقق من جميع الحقول.", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}

	user, err := h.Service.Signup(c.Context(), in)
	if err != nil {
		return response.FromError(c, err, "حدث خطأ أثناء إنشاء الحساب. يرجى المحاولة مرة أخرى.")
	}

	h.establishSession(c, user)

	return response.Created(c, "تم إنشاء الحساب بنجاح", fiber.Map{
		"user":       sessionShape(user),
		"redirectTo": CompleteProfileRoute(user.UserType),
	})
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var in LoginInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.Error(c, "البيانات المدخلة غير صحيحة", fiber.StatusBadRequest)
	}

	user, err := h.Service.Login(c.Context(), in)
	if err != nil {
		return response.FromError(c, err, "حدث خطأ أثناء تسجيل الدخول. يرجى المحاولة مرة أخرى")
	}

	h.establishSession(c, user)

	return response.Success(c, "تم تسجيل الدخول بنجاح", fiber.Map{
		"user": sessionShape(user),
	})
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if actor.IsZero() {
		return response.Unauthorized(c, "يجب تسجيل الدخول أولاً")
	}
	return response.Success(c, "", fiber.Map{
		"user": fiber.Map{
			"id":               actor.UserID,
			"name":             actor.Name,
			"email":            actor.Email,
			"role":             actor.Role,
			"userType":         actor.UserType,
			"profileCompleted": actor.ProfileCompleted,
		},
	})
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sid := middleware.GetSessionID(c); sid != "" && h.Rdb != nil {
		h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sid)
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "تم تسجيل الخروج بنجاح", nil)
}

// establishSession regenerates the session id and stores the user.
func (h *Handlers) establishSession(c *fiber.Ctx, user *domain.User) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:           user.ID.String(),
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		UserType:         string(user.UserType),
		ProfileCompleted: user.ProfileCompleted,
	})
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
}

func sessionShape(u *domain.User) fiber.Map {
	return fiber.Map{
		"id":               u.ID,
		"name":             u.Name,
		"email":            u.Email,
		"role":             u.Role,
		"userType":         u.UserType,
		"profileCompleted": u.ProfileCompleted,
	}
}
