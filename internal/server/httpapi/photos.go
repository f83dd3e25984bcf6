package httpapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/cesworks/fieldcheck/internal/server/services"
	"github.com/cesworks/fieldcheck/pkg/response"
)

const maxPhotoSize = 20 * 1024 * 1024

type PhotoHandler struct {
	service *services.PhotoService
}

func NewPhotoHandler(svc *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: svc}
}

// Upload handles POST /api/photos/upload (multipart: sessionId, kind, file).
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	sessionID := c.FormValue("sessionId")
	if sessionID == "" {
		return response.ValidationError(c, "sessionId is required")
	}
	kind := c.FormValue("kind")
	if kind == "" {
		return response.ValidationError(c, "kind is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "file is required")
	}
	if file.Size > maxPhotoSize {
		return response.ValidationError(c, "file exceeds the 20MB limit")
	}

	f, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "failed to open upload")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return response.ServiceError(c, "failed to read upload")
	}

	folderURL, err := h.service.Upload(c.Context(), sessionID, kind, file.Filename, content)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"folderUrl": folderURL})
}
