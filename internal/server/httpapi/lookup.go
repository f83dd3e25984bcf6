package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/cesworks/fieldcheck/internal/server/services"
	"github.com/cesworks/fieldcheck/pkg/response"
)

type LookupHandler struct {
	service   *services.LookupService
	validator *validator.Validate
}

func NewLookupHandler(svc *services.LookupService, v *validator.Validate) *LookupHandler {
	return &LookupHandler{service: svc, validator: v}
}

// ResolveQR handles GET /api/qr/resolve?code=
func (h *LookupHandler) ResolveQR(c *fiber.Ctx) error {
	unit, err := h.service.ResolveQR(c.Context(), c.Query("code"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"unit": fiber.Map{
		"unitId":    unit.UnitID,
		"displayId": unit.DisplayID,
		"category":  unit.Category,
		"unitType":  unit.UnitType,
		"sFormNum":  unit.SFormNum,
	}})
}

type verifyRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
}

// VerifyEmployee handles POST /api/employees/verify
func (h *LookupHandler) VerifyEmployee(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "malformed request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	emp, token, err := h.service.VerifyEmployee(c.Context(), req.EmployeeID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{
		"employee": fiber.Map{
			"employeeId":    emp.EmployeeID,
			"name":          emp.Name,
			"preferredName": emp.PreferredName,
			"email":         emp.Email,
			"phone":         emp.Phone,
		},
		"verifiedToken": token,
	})
}
