package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

var invoiceEmail = template.Must(template.New("invoice").Parse(`<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #374151;">
<p>Hi {{if .CustomerName}}{{.CustomerName}}{{else}}there{{end}},</p>
<p>Thank you for your order {{.OrderName}}. Your invoice {{.InvoiceNumber}} dated {{.InvoiceDate}} for {{.Total}} is ready.</p>
<p><a href="{{.InvoiceURL}}">Download your invoice</a></p>
<p>{{.CompanyName}}{{if .CompanyEmail}}<br>{{.CompanyEmail}}{{end}}</p>
</body>
</html>`))

// SESSender is the part of the SES v2 client the dispatcher uses
type SESSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESDispatcher emails the invoice link directly
type SESDispatcher struct {
	client SESSender
	sender string
	logger *zap.Logger
}

// NewSESDispatcher creates a new SES dispatcher sending from sender
func NewSESDispatcher(client SESSender, sender string, logger *zap.Logger) *SESDispatcher {
	return &SESDispatcher{
		client: client,
		sender: sender,
		logger: logger,
	}
}

func (d *SESDispatcher) NotifyInvoice(ctx context.Context, data *domain.InvoiceData, url string, cfg *domain.TemplateConfig) (string, error) {
	to := recipient(data)
	if to == "" {
		d.logger.Info("No customer email, skipping invoice notification")
		return "", nil
	}

	msg := NewInvoiceMessage(data, url, cfg)
	var html bytes.Buffer
	if err := invoiceEmail.Execute(&html, msg); err != nil {
		return "", fmt.Errorf("failed to render invoice email: %w", err)
	}
	text := fmt.Sprintf("Your invoice %s for order %s (%s) is ready: %s",
		msg.InvoiceNumber, msg.OrderName, msg.Total, msg.InvoiceURL)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(d.sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject()), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html.String()), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.CompanyEmail != "" {
		input.ReplyToAddresses = []string{msg.CompanyEmail}
	}

	out, err := d.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send invoice email: %w", err)
	}

	d.logger.Info("Invoice email sent",
		zap.String("message_id", aws.ToString(out.MessageId)),
		zap.String("order", msg.OrderName),
	)
	return to, nil
}
