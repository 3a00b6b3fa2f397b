// Package webapi exposes the HTTP surface: public submission and document
// upload endpoints, the payment provider endpoints and the admin gateway.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/osuhe/remesas/pkg/config"
	"github.com/osuhe/remesas/pkg/provider"
	docsvc "github.com/osuhe/remesas/pkg/service/document"
	txsvc "github.com/osuhe/remesas/pkg/service/transaction"
	"github.com/osuhe/remesas/webapi/common"
)

// Deps bundles the services the HTTP layer depends on.
type Deps struct {
	Transactions *txsvc.Service
	Documents    *docsvc.Service
	Payments     provider.PaymentProvider
	Config       *config.App
}

// New builds the Fiber application with middleware and all routes.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		// Data-URI payloads inflate request bodies well past the decoded
		// document limit.
		BodyLimit: int(deps.Config.Storage.MaxUploadBytes) * 2,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSOrigin,
		AllowHeaders: "Content-Type, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Plain OPTIONS requests (no preflight headers) get an empty 200, the
	// behavior the browser clients were built against.
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Remesas API is up")
	})

	TransactionRoutes(app, deps.Transactions, deps.Config)
	DocumentRoutes(app, deps.Documents, deps.Config)
	PayPalRoutes(app, deps.Payments)

	return app
}
