package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/osuhe/remesas/pkg/provider"
	"github.com/osuhe/remesas/webapi/common"
	"github.com/shopspring/decimal"
)

// PayPalRoutes registers the payment provider endpoints.
//
// Routes:
//   - GET  /paypal/config              : Public client id for the browser SDK.
//   - POST /paypal/orders              : Create a capture-intent order.
//   - POST /paypal/orders/:id/capture  : Capture an approved order.
func PayPalRoutes(app *fiber.App, payments provider.PaymentProvider) {
	app.Get("/paypal/config", PayPalClientConfig(payments))
	app.Post("/paypal/orders", CreatePayPalOrder(payments))
	app.Post("/paypal/orders/:id/capture", CapturePayPalOrder(payments))
}

// PayPalClientConfig hands the browser SDK its client id. The secret stays
// server side.
func PayPalClientConfig(payments provider.PaymentProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"clientId": payments.ClientID()})
	}
}

// CreateOrderRequest carries the USD total to charge.
type CreateOrderRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// CreatePayPalOrder opens a capture-intent order and returns its id.
func CreatePayPalOrder(payments provider.PaymentProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateOrderRequest](c)
		if input == nil {
			return err
		}
		if !input.Amount.IsPositive() {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid amount", "amount must be greater than zero")
		}

		orderID, err := payments.CreateOrder(c.Context(), input.Amount)
		if err != nil {
			log.Errorf("Failed to create payment order: %v", err)
			return common.ErrorResponseJSON(c, fiber.StatusBadGateway, "Failed to create payment order", err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": orderID})
	}
}

// CapturePayPalOrder captures a previously approved order.
func CapturePayPalOrder(payments provider.PaymentProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID := c.Params("id")
		status, err := payments.CaptureOrder(c.Context(), orderID)
		if err != nil {
			log.Errorf("Failed to capture payment order %s: %v", orderID, err)
			return common.ErrorResponseJSON(c, fiber.StatusBadGateway, "Failed to capture payment order", err.Error())
		}
		return c.JSON(fiber.Map{
			"id":     orderID,
			"status": status,
		})
	}
}
