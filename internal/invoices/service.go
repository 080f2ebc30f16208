// Package invoices generates, stores and announces invoice PDFs
package invoices

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/internal/notifications"
	"invoice-pdf/invoice-pdf-backend/internal/templateconfig"
)

// ErrInvalidRequest is returned when invoiceData or shop is missing
var ErrInvalidRequest = errors.New("missing required fields: invoiceData, shop")

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	Preview(ctx context.Context, req GenerateRequest) ([]byte, error)
}

// ConfigLoader reads the shop's stored template config; nil means none
type ConfigLoader interface {
	GetTemplateConfig(ctx context.Context, shop string) (*templateconfig.ShopTemplateConfig, error)
}

// Renderer turns invoice data into PDF bytes
type Renderer interface {
	Generate(ctx context.Context, data *domain.InvoiceData, cfg *domain.TemplateConfig) ([]byte, error)
}

// Uploader stores a rendered invoice and returns its key and URL
type Uploader interface {
	UploadInvoice(ctx context.Context, pdf []byte, orderName, shop string) (string, string, error)
}

type GenerateRequest struct {
	InvoiceData *domain.InvoiceData `json:"invoiceData"`
	Shop        string              `json:"shop"`
	OrderID     string              `json:"orderId"`
	OrderName   string              `json:"orderName"`
}

type GenerateResult struct {
	StatusCode  int       `json:"statusCode"`
	InvoiceID   uuid.UUID `json:"invoiceId"`
	FileName    string    `json:"fileName"`
	S3URL       string    `json:"s3Url"`
	EmailSentTo *string   `json:"emailSentTo"`
}

type invoiceService struct {
	configs  ConfigLoader
	renderer Renderer
	uploader Uploader
	notifier notifications.Dispatcher
	logger   *zap.Logger
}

func NewService(configs ConfigLoader, renderer Renderer, uploader Uploader, notifier notifications.Dispatcher, logger *zap.Logger) Service {
	if notifier == nil {
		notifier = notifications.NoopDispatcher{}
	}
	return &invoiceService{
		configs:  configs,
		renderer: renderer,
		uploader: uploader,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *invoiceService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.InvoiceData == nil || strings.TrimSpace(req.Shop) == "" {
		return nil, ErrInvalidRequest
	}

	invoiceID := uuid.New()
	orderName := req.OrderName
	if orderName == "" {
		orderName = req.InvoiceData.Order.OrderRef()
	}
	logger := s.logger.With(
		zap.String("invoice_id", invoiceID.String()),
		zap.String("shop", req.Shop),
		zap.String("order", orderName),
	)
	logger.Info("Generating invoice", zap.String("order_id", req.OrderID))

	cfg := s.templateConfig(ctx, req.Shop, logger)

	pdf, err := s.renderer.Generate(ctx, req.InvoiceData, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice pdf: %w", err)
	}
	logger.Info("Invoice PDF generated", zap.Float64("size_kb", float64(len(pdf))/1024))

	fileName, url, err := s.uploader.UploadInvoice(ctx, pdf, orderName, req.Shop)
	if err != nil {
		return nil, fmt.Errorf("failed to upload invoice: %w", err)
	}
	logger.Info("Invoice uploaded", zap.String("file", fileName))

	result := &GenerateResult{
		StatusCode: http.StatusOK,
		InvoiceID:  invoiceID,
		FileName:   fileName,
		S3URL:      url,
	}

	to, err := s.notifier.NotifyInvoice(ctx, req.InvoiceData, url, cfg)
	switch {
	case err != nil:
		logger.Warn("Failed to send invoice notification", zap.Error(err))
	case to != "":
		logger.Info("Invoice notification sent", zap.String("email", to))
		result.EmailSentTo = &to
	}

	return result, nil
}

// Preview renders the invoice without storing or announcing it. The shop
// is optional and only selects the stored template config.
func (s *invoiceService) Preview(ctx context.Context, req GenerateRequest) ([]byte, error) {
	if req.InvoiceData == nil {
		return nil, ErrInvalidRequest
	}

	var cfg *domain.TemplateConfig
	if strings.TrimSpace(req.Shop) != "" {
		cfg = s.templateConfig(ctx, req.Shop, s.logger.With(zap.String("shop", req.Shop)))
	}

	pdf, err := s.renderer.Generate(ctx, req.InvoiceData, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice pdf: %w", err)
	}
	return pdf, nil
}

// templateConfig loads the shop config. Store failures fall back to defaults.
func (s *invoiceService) templateConfig(ctx context.Context, shop string, logger *zap.Logger) *domain.TemplateConfig {
	var raw *templateconfig.ShopTemplateConfig
	if s.configs != nil {
		var err error
		raw, err = s.configs.GetTemplateConfig(ctx, shop)
		if err != nil {
			logger.Warn("Failed to load template config, using defaults", zap.Error(err))
			raw = nil
		}
	}

	cfg := templateconfig.FormatForPDF(raw)
	logger.Info("Using template config", zap.String("source", cfg.Source))
	return cfg
}
