package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"bistro_back_end/internal/config"
	"bistro_back_end/internal/models"
)

// ReceiptSender envoie le reçu d'un paiement enregistré.
type ReceiptSender interface {
	SendPaymentReceipt(ctx context.Context, payment models.Payment) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) SendPaymentReceipt(ctx context.Context, payment models.Payment) error {
	body, err := RenderReceipt(payment)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("receipt from: %w", err)
	}
	if err := msg.To(payment.Email); err != nil {
		return fmt.Errorf("receipt to: %w", err)
	}
	msg.Subject("Bistro Boss - payment receipt")
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send receipt to %s: %w", payment.Email, err)
	}
	return nil
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Payment receipt</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Thank you for your order</h2>
		<p>We received your payment of <strong>${{printf "%.2f" .Price}}</strong>.</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<tr><td style="padding: 6px;">Transaction</td><td style="padding: 6px;">{{.TransactionID}}</td></tr>
			<tr><td style="padding: 6px;">Date</td><td style="padding: 6px;">{{.Date.Format "2006-01-02 15:04 MST"}}</td></tr>
			<tr><td style="padding: 6px;">Items</td><td style="padding: 6px;">{{len .CartItemIDs}}</td></tr>
		</table>
		<p style="color: #777;">Bistro Boss</p>
	</div>
</body>
</html>`))

func RenderReceipt(payment models.Payment) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, payment); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}
