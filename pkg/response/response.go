// Package response standardizes the API envelope: every JSON reply carries
// ok plus either an error string or the payload's fields at the top level.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cesworks/fieldcheck/internal/common"
)

// OK replies 200 with ok:true merged over the payload fields.
func OK(c *fiber.Ctx, data fiber.Map) error {
	body := fiber.Map{"ok": true}
	for k, v := range data {
		body[k] = v
	}
	return c.JSON(body)
}

// Fail replies with ok:false and the message under the given status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": message})
}

func ValidationError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message)
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, message)
}

// FromError maps a service error onto the envelope using the shared error
// taxonomy: validation means the request can never succeed as sent.
func FromError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, common.ErrValidation):
		return ValidationError(c, err.Error())
	}
	return ServiceError(c, err.Error())
}
