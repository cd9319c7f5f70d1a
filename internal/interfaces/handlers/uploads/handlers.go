package uploads

import (
	"strings"

	uploadsvc "auditnet-backend/internal/application/uploads"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/interfaces/handlers/errmap"
	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

type uploadRequest struct {
	FileName string `json:"file_name"`
	Category string `json:"category"`
}

// UploadDocument POST /api/v1/uploads/document
func (h *Handlers) UploadDocument(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return errmap.Write(c, uploadsvc.ErrFileNameRequired)
	}
	category := domain.DocumentCategory(strings.ToUpper(req.Category))
	if category == "" {
		category = domain.DocumentOther
	}

	res, err := h.Service.SignDocumentUpload(c.UserContext(), category, req.FileName)
	if err != nil {
		if errmap.Status(err) == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("bucket", h.Service.Bucket).Msg("upload: failed to generate signed URL")
			return response.Error(c, "Failed to generate upload URL", fiber.StatusInternalServerError, nil)
		}
		return errmap.Write(c, err)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}
