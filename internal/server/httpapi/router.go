package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cesworks/fieldcheck/pkg/response"
)

// Handlers is everything the router mounts.
type Handlers struct {
	Inspections *InspectionHandler
	Photos      *PhotoHandler
	Lookup      *LookupHandler
}

// NewApp builds the fiber app with all routes mounted.
func NewApp(h Handlers, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return response.OK(c, nil)
	})

	api.Post("/inspections/start", h.Inspections.Start)
	api.Post("/inspections", h.Inspections.Upsert)
	api.Post("/inspections/photos", h.Inspections.UpsertPhotoFolder)
	api.Get("/inspections/:id", h.Inspections.Get)
	api.Post("/inspections/:id/finalize", h.Inspections.Finalize)
	api.Get("/inspections/:id/summary", h.Inspections.Summary)

	api.Post("/photos/upload", h.Photos.Upload)

	api.Get("/qr/resolve", h.Lookup.ResolveQR)
	api.Post("/employees/verify", h.Lookup.VerifyEmployee)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return response.Fail(c, code, err.Error())
}
