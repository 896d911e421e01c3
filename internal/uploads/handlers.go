package uploads

import (
	"badir-backend/internal/middleware"
	"badir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *Service
}

type uploadRequest struct {
	FileName string `json:"fileName"`
}

// SignedUploadURL POST /api/v1/uploads/:bucket
func (h *Handlers) SignedUploadURL(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	if !ValidBucket(bucket) {
		return response.Error(c, "مجلد التخزين غير معروف", fiber.StatusBadRequest)
	}

	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "اسم الملف مطلوب", fiber.StatusBadRequest)
	}

	actor := middleware.Actor(c)
	res, err := h.Service.GetSignedUploadURL(c.Context(), bucket, actor.UserID.String(), req.FileName)
	if err != nil {
		return response.FromError(c, err, "فشل إنشاء رابط الرفع")
	}
	return response.Success(c, "تم إنشاء رابط الرفع", res)
}
