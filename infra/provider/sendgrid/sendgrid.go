// Package sendgrid delivers transaction notification emails through the
// SendGrid v3 mail API.
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/osuhe/remesas/pkg/config"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/osuhe/remesas/pkg/provider"
)

// Mailer sends the admin notification for each saved transaction.
type Mailer struct {
	apiKey     string
	baseURL    string
	from       string
	adminEmail string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ provider.EmailSender = (*Mailer)(nil)

// NewMailer builds the SendGrid mailer from configuration.
func NewMailer(cfg config.EmailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		apiKey:     cfg.ApiKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		from:       cfg.FromEmail,
		adminEmail: cfg.AdminEmail,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendTransactionNotification mails the order summary to the admin address.
// The message carries only masked card data.
func (m *Mailer) SendTransactionNotification(ctx context.Context, tx *domain.Transaction) error {
	payload := mailRequest{
		Personalizations: []personalization{{To: []address{{Email: m.adminEmail}}}},
		From:             address{Email: m.from},
		Subject:          fmt.Sprintf("Nueva orden de envio - %s", tx.PaymentRef),
		Content:          []content{{Type: "text/html", Value: renderAdminBody(tx)}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("mail send returned %d: %s", resp.StatusCode, raw)
	}

	m.logger.Info("notification email sent", "payment_ref", tx.PaymentRef, "to", m.adminEmail)
	return nil
}

func renderAdminBody(tx *domain.Transaction) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2>Nueva orden de envio</h2>`)

	section(&b, "Orden", [][2]string{
		{"Referencia", tx.PaymentRef},
		{"Estado", tx.PaymentStatus},
		{"Fecha", tx.SubmittedAt.Format("2006-01-02 15:04:05 UTC")},
	})
	section(&b, "Remitente", [][2]string{
		{"Nombre", tx.SenderName},
		{"Telefono", tx.SenderPhone},
		{"Email", tx.SenderEmail},
	})
	section(&b, "Beneficiario", [][2]string{
		{"Nombre", tx.BeneficiaryName},
		{"Ciudad", tx.BeneficiaryCity},
		{"Tarjeta destino", tx.DestinationCard},
		{"Moneda", tx.DeliveryCurrency},
	})
	section(&b, "Montos", [][2]string{
		{"Monto", tx.Amount.StringFixed(2) + " USD"},
		{"Tarifa", tx.Fee.StringFixed(2) + " USD"},
		{"Total cobrado", tx.Total.StringFixed(2) + " USD"},
	})
	if tx.Notes != "" {
		section(&b, "Notas", [][2]string{{"Notas", tx.Notes}})
	}

	b.WriteString(`</div>`)
	return b.String()
}

func section(b *strings.Builder, title string, rows [][2]string) {
	b.WriteString(`<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 15px 0;">`)
	fmt.Fprintf(b, "<h3>%s</h3>", title)
	for _, row := range rows {
		// Row values are client-supplied; never let them inject markup.
		fmt.Fprintf(b, "<p><strong>%s:</strong> %s</p>", row[0], html.EscapeString(row[1]))
	}
	b.WriteString(`</div>`)
}
