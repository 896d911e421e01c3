package initiatives

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"badir-backend/internal/middleware"
	"badir-backend/internal/pkg/pagination"
	"badir-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

// Create handles POST /api/v1/initiatives.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}
	if errs := in.Validate(); errs != nil {
		return response.FieldErrors(c, errs)
	}

	actor := middleware.Actor(c)
	initiative, err := h.Service.Create(c.Context(), actor, in)
	if err != nil {
		return response.FromError(c, err, "تعذر إنشاء المبادرة")
	}
	return response.Created(c, "تم إنشاء المبادرة بنجاح", fiber.Map{"initiative": initiative})
}

// List handles GET /api/v1/initiatives.
func (h *Handlers) List(c *fiber.Ctx) error {
	f := Filters{
		Search:            c.Query("search"),
		City:              c.Query("city"),
		Status:            c.Query("status"),
		TargetAudience:    c.Query("targetAudience"),
		OrganizerType:     c.Query("organizerType"),
		HasAvailableSpots: c.Query("hasAvailableSpots") == "true",
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return response.Error(c, "معرّف الفئة غير صالح", fiber.StatusBadRequest)
		}
		f.CategoryID = &id
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.Error(c, "تاريخ البدء غير صالح", fiber.StatusBadRequest)
		}
		f.StartAfter = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return response.Error(c, "تاريخ الانتهاء غير صالح", fiber.StatusBadRequest)
		}
		f.EndBefore = &t
	}
	p := pagination.Params{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 12),
	}

	initiatives, meta, err := h.Service.List(c.Context(), f, p)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المبادرات")
	}
	return response.Success(c, "", fiber.Map{
		"initiatives": initiatives,
		"pagination":  meta,
	})
}

// GetByID handles GET /api/v1/initiatives/:id.
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	actor := middleware.Actor(c)
	details, err := h.Service.GetByID(c.Context(), id, actor.UserID)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المبادرة")
	}
	return response.Success(c, "", fiber.Map{"initiative": details})
}

// Update handles PUT /api/v1/initiatives/:id.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	actor := middleware.Actor(c)
	initiative, err := h.Service.Update(c.Context(), actor, id, in)
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث المبادرة")
	}
	return response.Success(c, "تم تحديث المبادرة بنجاح", fiber.Map{"initiative": initiative})
}

// ByOrganization handles GET /api/v1/organizations/:id/initiatives.
func (h *Handlers) ByOrganization(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المنظمة غير صالح", fiber.StatusBadRequest)
	}
	initiatives, err := h.Service.ByOrganization(c.Context(), orgID)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب مبادرات المنظمة")
	}
	return response.Success(c, "", fiber.Map{"initiatives": initiatives})
}
