package webapi

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/osuhe/remesas/pkg/config"
	txsvc "github.com/osuhe/remesas/pkg/service/transaction"
	"github.com/osuhe/remesas/webapi/common"
	"github.com/shopspring/decimal"
)

// TransactionRoutes registers the submission endpoint and the admin
// gateway over transaction records.
//
// Routes:
//   - POST   /transactions        : Save a submission (public).
//   - GET    /transactions        : List newest first (admin).
//   - DELETE /transactions/:id    : Delete one record (admin).
//   - POST   /transactions/clear  : Purge storage and records (admin).
func TransactionRoutes(app *fiber.App, svc *txsvc.Service, cfg *config.App) {
	admin := AdminProtected(cfg.Admin.Token)
	app.Post("/transactions", SaveTransaction(svc))
	app.Get("/transactions", admin, ListTransactions(svc))
	app.Delete("/transactions/:id", admin, DeleteTransaction(svc))
	app.Post("/transactions/clear", admin, ClearAll(svc))
}

// FormData is the sender/beneficiary submission form.
type FormData struct {
	SenderName  string `json:"senderName" validate:"required"`
	SenderPhone string `json:"senderPhone" validate:"required"`
	SenderEmail string `json:"senderEmail" validate:"omitempty,email"`

	BeneficiaryName  string `json:"beneficiaryName" validate:"required"`
	BeneficiaryCity  string `json:"beneficiaryCity" validate:"required"`
	DestinationCard  string `json:"destinationCard" validate:"required"`
	DeliveryCurrency string `json:"deliveryCurrency"`

	Amount decimal.Decimal `json:"amount" validate:"required"`
	Fee    decimal.Decimal `json:"fee"`
	Total  decimal.Decimal `json:"total" validate:"required"`

	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CardCVV    string `json:"cardCvv"`
	CardHolder string `json:"cardHolder"`

	BillingAddress string `json:"billingAddress"`
	PostalCode     string `json:"postalCode"`
	BillingCountry string `json:"billingCountry"`

	Notes string `json:"notes"`
}

// PaymentData carries the provider's view of the payment.
type PaymentData struct {
	Ref        string          `json:"ref"`
	OrderID    string          `json:"orderId"`
	Status     string          `json:"status"`
	PayerEmail string          `json:"payerEmail"`
	Amount     decimal.Decimal `json:"amount"`
}

// SaveTransactionRequest is the submission payload.
type SaveTransactionRequest struct {
	Form    FormData    `json:"formData" validate:"required"`
	Payment PaymentData `json:"payment"`

	DocumentFileName string `json:"documentFileName"`
	DocumentDataURI  string `json:"documentDataUri"`

	LocalTime string `json:"localTime"`
	OriginURL string `json:"originUrl"`
}

// SaveTransaction persists a submission, masking card data and attaching
// the identity document when one is included. The raw body is retained on
// the record for audit with its card fields masked.
func SaveTransaction(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SaveTransactionRequest](c)
		if input == nil {
			return err
		}

		raw := json.RawMessage(append([]byte(nil), c.Body()...))
		tx, err := svc.Save(c.Context(), txsvc.SaveInput{
			PaymentRef:       input.Payment.Ref,
			OrderID:          input.Payment.OrderID,
			PaymentStatus:    input.Payment.Status,
			PayerEmail:       input.Payment.PayerEmail,
			SenderName:       input.Form.SenderName,
			SenderPhone:      input.Form.SenderPhone,
			SenderEmail:      input.Form.SenderEmail,
			BeneficiaryName:  input.Form.BeneficiaryName,
			BeneficiaryCity:  input.Form.BeneficiaryCity,
			DestinationCard:  input.Form.DestinationCard,
			DeliveryCurrency: input.Form.DeliveryCurrency,
			Amount:           input.Form.Amount,
			Fee:              input.Form.Fee,
			Total:            input.Form.Total,
			CardNumber:       input.Form.CardNumber,
			CardExpiry:       input.Form.CardExpiry,
			CardCVV:          input.Form.CardCVV,
			CardHolder:       input.Form.CardHolder,
			BillingAddress:   input.Form.BillingAddress,
			PostalCode:       input.Form.PostalCode,
			BillingCountry:   input.Form.BillingCountry,
			Notes:            input.Form.Notes,
			LocalTime:        input.LocalTime,
			UserAgent:        c.Get(fiber.HeaderUserAgent),
			OriginURL:        input.OriginURL,
			DocumentFileName: input.DocumentFileName,
			DocumentDataURI:  input.DocumentDataURI,
			RawPayload:       raw,
		})
		if err != nil {
			log.Errorf("Failed to save transaction: %v", err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Failed to save transaction", err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      tx.ID,
		})
	}
}

// TransactionView is the admin list representation of a record.
type TransactionView struct {
	ID               uuid.UUID       `json:"id"`
	PaymentRef       string          `json:"paymentRef"`
	SenderName       string          `json:"senderName"`
	SenderPhone      string          `json:"senderPhone"`
	SenderEmail      string          `json:"senderEmail"`
	BeneficiaryName  string          `json:"beneficiaryName"`
	BeneficiaryCity  string          `json:"beneficiaryCity"`
	DestinationCard  string          `json:"destinationCard"`
	DeliveryCurrency string          `json:"deliveryCurrency"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	Total            decimal.Decimal `json:"total"`
	PaymentStatus    string          `json:"paymentStatus"`
	DocumentURL      *string         `json:"documentUrl"`
	Notes            string          `json:"notes,omitempty"`
	SubmittedAt      string          `json:"submittedAt"`
	LocalTime        string          `json:"localTime,omitempty"`
}

// ListTransactions returns records newest first with limit/offset paging.
func ListTransactions(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		offset := c.QueryInt("offset", 0)

		records, err := svc.List(c.Context(), limit, offset)
		if err != nil {
			log.Errorf("Failed to list transactions: %v", err)
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError, "Failed to list transactions", err.Error())
		}

		views := make([]TransactionView, 0, len(records))
		for _, tx := range records {
			views = append(views, TransactionView{
				ID:               tx.ID,
				PaymentRef:       tx.PaymentRef,
				SenderName:       tx.SenderName,
				SenderPhone:      tx.SenderPhone,
				SenderEmail:      tx.SenderEmail,
				BeneficiaryName:  tx.BeneficiaryName,
				BeneficiaryCity:  tx.BeneficiaryCity,
				DestinationCard:  tx.DestinationCard,
				DeliveryCurrency: tx.DeliveryCurrency,
				Amount:           tx.Amount,
				Fee:              tx.Fee,
				Total:            tx.Total,
				PaymentStatus:    tx.PaymentStatus,
				DocumentURL:      tx.DocumentURL,
				Notes:            tx.Notes,
				SubmittedAt:      tx.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
				LocalTime:        tx.LocalTime,
			})
		}
		return c.JSON(fiber.Map{
			"success":      true,
			"transactions": views,
		})
	}
}

// DeleteTransaction removes a single record by id.
func DeleteTransaction(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return common.ProblemFromError(c, "Failed to delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}

// ClearAll purges stored documents and records. Partial failure is a normal
// outcome; each operation reports its own status and the summary counts
// them.
func ClearAll(svc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report := svc.ClearAll(c.Context())
		return c.JSON(report)
	}
}
