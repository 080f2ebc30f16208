package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

// SNSPublisher is the part of the SNS client the dispatcher uses
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSDispatcher publishes invoice messages to a topic. An email
// subscriber downstream delivers them.
type SNSDispatcher struct {
	client   SNSPublisher
	topicARN string
	logger   *zap.Logger
}

// NewSNSDispatcher creates a new SNS dispatcher
func NewSNSDispatcher(client SNSPublisher, topicARN string, logger *zap.Logger) *SNSDispatcher {
	return &SNSDispatcher{
		client:   client,
		topicARN: topicARN,
		logger:   logger,
	}
}

func (d *SNSDispatcher) NotifyInvoice(ctx context.Context, data *domain.InvoiceData, url string, cfg *domain.TemplateConfig) (string, error) {
	to := recipient(data)
	if to == "" {
		d.logger.Info("No customer email, skipping invoice notification")
		return "", nil
	}

	msg := NewInvoiceMessage(data, url, cfg)
	msg.Email = to
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode notification: %w", err)
	}

	out, err := d.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(d.topicARN),
		Subject:  aws.String(asciiSubject(msg.Subject(), subjectLimit)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type":  {DataType: aws.String("String"), StringValue: aws.String(msg.Type)},
			"email": {DataType: aws.String("String"), StringValue: aws.String(to)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish invoice notification: %w", err)
	}

	d.logger.Info("Invoice notification published",
		zap.String("message_id", aws.ToString(out.MessageId)),
		zap.String("order", msg.OrderName),
	)
	return to, nil
}

// SNS subjects must be ASCII and shorter than 100 characters
const subjectLimit = 99

var currencySymbols = strings.NewReplacer("₹", "Rs.")

// asciiSubject folds s to printable ASCII and cuts it to n characters.
// Accents are dropped from their letters, other runes are removed.
func asciiSubject(s string, n int) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, currencySymbols.Replace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if b.Len() == n {
			break
		}
		if r < ' ' || r > '~' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
