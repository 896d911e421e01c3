package participants

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"badir-backend/internal/domain"
	"badir-backend/internal/middleware"
	"badir-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

// Join handles POST /api/v1/initiatives/:id/join.
func (h *Handlers) Join(c *fiber.Ctx) error {
	initiativeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	var in JoinInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	actor := middleware.Actor(c)
	participant, err := h.Service.Join(c.Context(), actor, initiativeID, in)
	if err != nil {
		return response.FromError(c, err, "تعذر التسجيل في المبادرة")
	}
	message := "تم التسجيل في المبادرة، في انتظار موافقة المنظم"
	if participant.Status == domain.ParticipantApproved {
		message = "تم التسجيل في المبادرة بنجاح"
	}
	return response.Created(c, message, fiber.Map{"participant": participant})
}

// List handles GET /api/v1/initiatives/:id/participants.
func (h *Handlers) List(c *fiber.Ctx) error {
	initiativeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	actor := middleware.Actor(c)
	participants, err := h.Service.ListByInitiative(c.Context(), actor, initiativeID)
	if err != nil {
		return response.FromError(c, err, "تعذر جلب المشاركين")
	}
	return response.Success(c, "", fiber.Map{"participants": participants})
}

// SetStatus handles PATCH /api/v1/initiatives/:id/participants/:pid.
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	initiativeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	participantID, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return response.Error(c, "معرّف المشارك غير صالح", fiber.StatusBadRequest)
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	actor := middleware.Actor(c)
	participant, err := h.Service.SetStatus(c.Context(), actor, initiativeID, participantID, domain.ParticipantStatus(in.Status))
	if err != nil {
		return response.FromError(c, err, "تعذر تحديث حالة المشارك")
	}
	message := "تم قبول المشارك بنجاح"
	if participant.Status == domain.ParticipantRejected {
		message = "تم رفض المشارك"
	}
	return response.Success(c, message, fiber.Map{"participant": participant})
}

// Rate handles POST /api/v1/initiatives/:id/rate.
func (h *Handlers) Rate(c *fiber.Ctx) error {
	initiativeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "معرّف المبادرة غير صالح", fiber.StatusBadRequest)
	}
	var in RateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "بيانات غير صالحة", fiber.StatusBadRequest)
	}

	actor := middleware.Actor(c)
	rating, err := h.Service.Rate(c.Context(), actor, initiativeID, in)
	if err != nil {
		return response.FromError(c, err, "تعذر تسجيل التقييم")
	}
	return response.Created(c, "شكراً لتقييمك", fiber.Map{"rating": rating})
}
