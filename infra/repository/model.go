package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the GORM model for money-transfer submissions. Card fields
// hold the masked display form only.
type Transaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentRef string    `gorm:"size:64;index"`
	OrderID    string    `gorm:"size:64"`

	SenderName  string `gorm:"size:255"`
	SenderPhone string `gorm:"size:32"`
	SenderEmail string `gorm:"size:255"`

	BeneficiaryName  string `gorm:"size:255"`
	BeneficiaryCity  string `gorm:"size:128"`
	DestinationCard  string `gorm:"size:32"`
	DeliveryCurrency string `gorm:"size:8"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2)"`
	Fee    decimal.Decimal `gorm:"type:numeric(12,2)"`
	Total  decimal.Decimal `gorm:"type:numeric(12,2)"`

	PaymentStatus string `gorm:"size:32"`
	PayerEmail    string `gorm:"size:255"`

	CardNumber string `gorm:"size:32"`
	CardExpiry string `gorm:"size:16"`
	CardCVV    string `gorm:"size:8"`
	CardHolder string `gorm:"size:255"`

	BillingAddress string `gorm:"size:255"`
	PostalCode     string `gorm:"size:16"`
	BillingCountry string `gorm:"size:64"`

	DocumentURL *string `gorm:"size:512"`
	Notes       string

	SubmittedAt time.Time `gorm:"index"`
	LocalTime   string    `gorm:"size:64"`
	UserAgent   string    `gorm:"size:512"`
	OriginURL   string    `gorm:"size:512"`

	RawPayload []byte `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
