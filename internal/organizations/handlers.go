package organizations

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"badir-backend/internal/domain"
	"badir-backend/internal/middleware"
	"badir-backend/internal/pkg/pagination"
	"badir-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

// Register handles POST /api/v1/organizations.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}

	actor := middleware.Actor(c)
	org, err := h.Service.Register(c.Context(), actor, in)
	if err != nil {
		return response.FromError(c, err, "تعذر تسجيل المنظمة")
	}
	return response.Created(c, "تم تسجيل المنظمة بنجاح، في انتظار موافقة الإدارة", fiber.Map{
		"organization": org,
	})
}

// List handles GET /api/v1/organizations.
func (h *Handlers) List(c *fiber.Ctx) error {
	f := Filters{
		Search: c.Query("search"),
	}
	if v := c.Query("isVerified"); v != "" {
		status := domain.OrganizationStatus(v)
		if !status.Valid() {
			return response.Error(c, "حالة التحقق غير صالحة", fiber.StatusBadRequest)
		}
		f.IsVerified = status
	}
	if v := c.Query("isFeaturedPartner"); v != "" {
		featured := v == "true"
		f.IsFeaturedPartner = &featured
	}
	p := pagination.Params{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 12),
	}

	orgs, meta, err := h.Service.List(c.Context(), f, p)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المنظمات")
	}
	return response.Success(c, "", fiber.Map{
		"organizations": orgs,
		"pagination":    meta,
	})
}

// FeaturedPartners handles GET /api/v1/organizations/partners.
func (h *Handlers) FeaturedPartners(c *fiber.Ctx) error {
	orgs, err := h.Service.FeaturedPartners(c.Context())
	if err != nil {
		return response.FromError(c, err, "تعذر جلب الشركاء")
	}
	return response.Success(c, "", fiber.Map{"partners": orgs})
}

// Mine handles GET /api/v1/organizations/mine.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	org, err := h.Service.GetByOwner(c.Context(), actor.UserID)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المنظمة")
	}
	return response.Success(c, "", fiber.Map{"organization": org})
}

// GetByID handles GET /api/v1/organizations/:id.
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المنظمة غير صالح", fiber.StatusBadRequest)
	}
	org, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المنظمة")
	}
	return response.Success(c, "", fiber.Map{"organization": org})
}
