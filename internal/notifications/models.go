package notifications

import (
	"time"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

// Notification types
const (
	TypeInvoiceGenerated = "invoice_generated"
)

// Providers
const (
	ProviderSNS  = "sns"
	ProviderSES  = "ses"
	ProviderNone = "none"
)

// InvoiceMessage is what a customer is told about a generated invoice
type InvoiceMessage struct {
	Type          string    `json:"type"`
	Email         string    `json:"email"`
	CustomerName  string    `json:"customerName"`
	OrderName     string    `json:"orderName"`
	InvoiceNumber string    `json:"invoiceNumber"`
	InvoiceDate   string    `json:"invoiceDate"`
	Total         string    `json:"total"`
	CompanyName   string    `json:"companyName"`
	CompanyEmail  string    `json:"companyEmail,omitempty"`
	InvoiceURL    string    `json:"invoiceUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewInvoiceMessage builds the message for data. The company falls back to
// the same defaults the rendered invoice uses.
func NewInvoiceMessage(data *domain.InvoiceData, url string, cfg *domain.TemplateConfig) InvoiceMessage {
	company := domain.ResolveStyle(cfg, domain.Fonts{}, "").Company

	return InvoiceMessage{
		Type:          TypeInvoiceGenerated,
		Email:         data.Customer.Email,
		CustomerName:  data.Customer.Name,
		OrderName:     data.Order.OrderRef(),
		InvoiceNumber: data.Order.InvoiceRef(),
		InvoiceDate:   data.Order.InvoiceDateText(),
		Total:         data.Totals.Total.String(),
		CompanyName:   company.Name,
		CompanyEmail:  company.Email,
		InvoiceURL:    url,
		CreatedAt:     time.Now().UTC(),
	}
}

// Subject is the email subject line
func (m InvoiceMessage) Subject() string {
	return "Your invoice " + m.InvoiceNumber + " from " + m.CompanyName
}
