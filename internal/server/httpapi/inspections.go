// Package httpapi exposes the inspection service over HTTP. All writes are
// idempotent: replays of the same payload answer ok:true exactly like first
// deliveries, which is what lets offline clients resend blindly.
package httpapi

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/cesworks/fieldcheck/internal/server/services"
	"github.com/cesworks/fieldcheck/pkg/response"
)

type InspectionHandler struct {
	service   *services.InspectionService
	validator *validator.Validate
}

func NewInspectionHandler(svc *services.InspectionService, v *validator.Validate) *InspectionHandler {
	return &InspectionHandler{service: svc, validator: v}
}

type startRequest struct {
	SessionID  string `json:"sessionId"`
	Code       string `json:"code"`
	EmployeeID string `json:"employeeId"`
}

// Start handles POST /api/inspections/start
func (h *InspectionHandler) Start(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "malformed request body")
	}

	sessionID, reused, err := h.service.Start(c.Context(), req.SessionID, req.Code, req.EmployeeID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"sessionId": sessionID, "reused": reused})
}

// Upsert handles POST /api/inspections. The body is the session snapshot;
// it is merged additively, stored verbatim, and never echoed back.
func (h *InspectionHandler) Upsert(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return response.ValidationError(c, "empty body")
	}
	if err := h.service.Upsert(c.Context(), json.RawMessage(body)); err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, nil)
}

type photoFolderRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
	FolderURL string `json:"folderUrl" validate:"required,url"`
}

// UpsertPhotoFolder handles POST /api/inspections/photos
func (h *InspectionHandler) UpsertPhotoFolder(c *fiber.Ctx) error {
	var req photoFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "malformed request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	if err := h.service.UpsertPhotoFolder(c.Context(), req.SessionID, req.Kind, req.FolderURL); err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, nil)
}

// Get handles GET /api/inspections/:id
func (h *InspectionHandler) Get(c *fiber.Ctx) error {
	insp, folders, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}

	photos := make([]fiber.Map, 0, len(folders))
	for _, f := range folders {
		photos = append(photos, fiber.Map{"kind": f.Kind, "folderUrl": f.FolderURL})
	}
	submitted := ""
	if insp.SubmittedAt.Valid {
		submitted = insp.SubmittedAt.Time.UTC().Format(time.RFC3339)
	}
	return response.OK(c, fiber.Map{
		"sessionId":   insp.SessionID,
		"data":        json.RawMessage(insp.Data),
		"photos":      photos,
		"submittedAt": submitted,
	})
}

type finalizeRequest struct {
	SendTo []string `json:"sendTo" validate:"omitempty,dive,email"`
}

// Finalize handles POST /api/inspections/:id/finalize
func (h *InspectionHandler) Finalize(c *fiber.Ctx) error {
	var req finalizeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.ValidationError(c, "malformed request body")
		}
	}
	if err := h.validator.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	insp, summaryURL, err := h.service.Finalize(c.Context(), c.Params("id"), req.SendTo)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{
		"submittedAt": insp.SubmittedAt.Time.UTC().Format(time.RFC3339),
		"summaryUrl":  summaryURL,
	})
}

// Summary handles GET /api/inspections/:id/summary
func (h *InspectionHandler) Summary(c *fiber.Ctx) error {
	page, err := h.service.RenderSummary(c.Context(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}
