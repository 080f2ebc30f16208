// Package notifications tells customers that their invoice is ready
package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/config"
	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

// Dispatcher sends the invoice notification. It returns the recipient, or
// an empty string when the customer has no email address.
type Dispatcher interface {
	NotifyInvoice(ctx context.Context, data *domain.InvoiceData, url string, cfg *domain.TemplateConfig) (string, error)
}

// NewDispatcher builds the dispatcher selected by cfg.Provider
func NewDispatcher(awsCfg aws.Config, cfg config.NotificationsConfig, logger *zap.Logger) (Dispatcher, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderSNS:
		return NewSNSDispatcher(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN, logger), nil
	case ProviderSES:
		return NewSESDispatcher(sesv2.NewFromConfig(awsCfg), cfg.SenderEmail, logger), nil
	case ProviderNone, "":
		return NoopDispatcher{}, nil
	default:
		return nil, fmt.Errorf("unsupported notification provider %q", cfg.Provider)
	}
}

// NoopDispatcher never sends anything
type NoopDispatcher struct{}

func (NoopDispatcher) NotifyInvoice(context.Context, *domain.InvoiceData, string, *domain.TemplateConfig) (string, error) {
	return "", nil
}

func recipient(data *domain.InvoiceData) string {
	if data == nil {
		return ""
	}
	return strings.TrimSpace(data.Customer.Email)
}
