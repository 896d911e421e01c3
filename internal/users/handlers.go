package users

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"badir-backend/internal/middleware"
	"badir-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

// CompleteProfile handles POST /api/v1/users/complete-profile.
func (h *Handlers) CompleteProfile(c *fiber.Ctx) error {
	var in CompleteProfileInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}

	actor := middleware.Actor(c)
	user, err := h.Service.CompleteProfile(c.Context(), actor.UserID, in)
	if err != nil {
		return response.FromError(c, err, "تعذر إكمال الملف الشخصي")
	}

	// Refresh the session copy so role checks see the new state.
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:           user.ID.String(),
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		UserType:         in.UserType,
		ProfileCompleted: true,
	})

	return response.Success(c, "تم إكمال الملف الشخصي بنجاح", fiber.Map{"user": user})
}

// UpdateProfile handles PUT /api/v1/users/profile.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var in UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}

	actor := middleware.Actor(c)
	user, err := h.Service.UpdateProfile(c.Context(), actor.UserID, in)
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث الملف الشخصي")
	}

	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:           user.ID.String(),
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		UserType:         string(user.UserType),
		ProfileCompleted: user.ProfileCompleted,
	})

	return response.Success(c, "تم تحديث الملف الشخصي بنجاح", fiber.Map{"user": user})
}

// Image handles GET /api/v1/users/:id/image.
func (h *Handlers) Image(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المستخدم غير صالح", fiber.StatusBadRequest)
	}
	url, err := h.Service.ImageURL(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب الصورة")
	}
	return response.Success(c, "", fiber.Map{"image": url})
}
