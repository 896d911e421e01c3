package admin

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

type statusBody struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

// ListOrganizations handles GET /api/v1/admin/organizations.
func (h *Handlers) ListOrganizations(c *fiber.Ctx) error {
	f := OrgFilters{
		Search:           c.Query("search"),
		OrganizationType: c.Query("organizationType"),
		Country:          c.Query("country"),
	}
	if v := c.Query("status"); v != "" {
		status := domain.OrganizationStatus(v)
		if !status.Valid() {
			return response.Error(c, "حالة التحقق غير صالحة", fiber.StatusBadRequest)
		}
		f.Status = status
	}
	p := pagination.Params{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 20)}

	orgs, meta, err := h.Service.ListOrganizations(c.Context(), middleware.Actor(c), f, p)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المنظمات")
	}
	return response.Success(c, "", fiber.Map{"organizations": orgs, "pagination": meta})
}

// GetOrganization handles GET /api/v1/admin/organizations/:id.
func (h *Handlers) GetOrganization(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المنظمة غير صالح", fiber.StatusBadRequest)
	}
	detail, err := h.Service.GetOrganization(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المنظمة")
	}
	return response.Success(c, "", fiber.Map{"organization": detail})
}

// UpdateOrganizationStatus handles PATCH /api/v1/admin/organizations/:id/status.
func (h *Handlers) UpdateOrganizationStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المنظمة غير صالح", fiber.StatusBadRequest)
	}
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	org, err := h.Service.UpdateOrganizationStatus(c.Context(), middleware.Actor(c), id, domain.OrganizationStatus(body.Status), body.RejectionReason)
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث حالة المنظمة")
	}
	message := "تم تحديث حالة المنظمة"
	switch org.IsVerified {
	case domain.OrgApproved:
		message = "تم قبول المنظمة بنجاح"
	case domain.OrgRejected:
		message = "تم رفض المنظمة"
	}
	return response.Success(c, message, fiber.Map{"organization": org})
}

// ListInitiatives handles GET /api/v1/admin/initiatives.
func (h *Handlers) ListInitiatives(c *fiber.Ctx) error {
	f := InitiativeFilters{
		Search: c.Query("search"),
		City:   c.Query("city"),
	}
	if v := c.Query("status"); v != "" {
		status := domain.InitiativeStatus(v)
		if !status.Valid() {
			return response.Error(c, "حالة المبادرة غير صالحة", fiber.StatusBadRequest)
		}
		f.Status = status
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return response.Error(c, "معرّف الفئة غير صالح", fiber.StatusBadRequest)
		}
		f.CategoryID = &id
	}
	p := pagination.Params{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 20)}

	initiatives, meta, err := h.Service.ListInitiatives(c.Context(), middleware.Actor(c), f, p)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المبادرات")
	}
	return response.Success(c, "", fiber.Map{"initiatives": initiatives, "pagination": meta})
}

// GetInitiative handles GET /api/v1/admin/initiatives/:id.
func (h *Handlers) GetInitiative(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	detail, err := h.Service.GetInitiative(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المبادرة")
	}
	return response.Success(c, "", fiber.Map{"initiative": detail})
}

// UpdateInitiativeStatus handles PATCH /api/v1/admin/initiatives/:id/status.
func (h *Handlers) UpdateInitiativeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	initiative, err := h.Service.UpdateInitiativeStatus(c.Context(), middleware.Actor(c), id, domain.InitiativeStatus(body.Status), body.RejectionReason)
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث حالة المبادرة")
	}
	message := "تم تحديث حالة المبادرة"
	switch initiative.Status {
	case domain.InitiativePublished:
		message = "تم نشر المبادرة بنجاح"
	case domain.InitiativeCancelled:
		message = "تم إلغاء المبادرة"
	}
	return response.Success(c, message, fiber.Map{"initiative": initiative})
}

// ListCategories handles GET /api/v1/admin/categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	categories, err := h.Service.ListCategories(c.Context(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err, "تعذر جلب الفئات")
	}
	return response.Success(c, "", fiber.Map{"categories": categories})
}

// CreateCategory handles POST /api/v1/admin/categories.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var in CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}
	category, err := h.Service.CreateCategory(c.Context(), middleware.Actor(c), in)
	if err != nil {
		return response.FromError(c, err, "تعذر إنشاء الفئة")
	}
	return response.Created(c, "تم إنشاء الفئة بنجاح", fiber.Map{"category": category})
}

// UpdateCategory handles PUT /api/v1/admin/categories/:id.
func (h *Handlers) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف الفئة غير صالح", fiber.StatusBadRequest)
	}
	var in CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}
	category, err := h.Service.UpdateCategory(c.Context(), middleware.Actor(c), id, in)
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث الفئة")
	}
	return response.Success(c, "تم تحديث الفئة بنجاح", fiber.Map{"category": category})
}

// DeleteCategory handles DELETE /api/v1/admin/categories/:id.
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف الفئة غير صالح", fiber.StatusBadRequest)
	}
	if err := h.Service.DeleteCategory(c.Context(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err, "تعذر حذف الفئة")
	}
	return response.Success(c, "تم حذف الفئة بنجاح", nil)
}

// Stats handles GET /api/v1/admin/stats.
func (h *Handlers) Stats(c *fiber.Ctx) error {
	stats, err := h.Service.GetStats(c.Context(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err, "تعذر جلب الإحصائيات")
	}
	return response.Success(c, "", fiber.Map{"stats": stats})
}

// ListPartners handles GET /api/v1/admin/partners.
func (h *Handlers) ListPartners(c *fiber.Ctx) error {
	orgs, err := h.Service.ListApprovedOrganizations(c.Context(), middleware.Actor(c), c.Query("search"))
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المنظمات")
	}
	return response.Success(c, "", fiber.Map{"organizations": orgs})
}

// ToggleFeaturedPartner handles PATCH /api/v1/admin/partners/:id.
func (h *Handlers) ToggleFeaturedPartner(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المنظمة غير صالح", fiber.StatusBadRequest)
	}
	var body struct {
		IsFeatured bool `json:"isFeatured"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	org, err := h.Service.ToggleFeaturedPartner(c.Context(), middleware.Actor(c), id, body.IsFeatured)
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث الشريك")
	}
	message := "تمت إضافة الشريك المميز"
	if !org.IsFeaturedPartner {
		message = "تمت إزالة الشريك المميز"
	}
	return response.Success(c, message, fiber.Map{"organization": org})
}
