// Package templateconfig reads the per-shop invoice template configuration
package templateconfig

import (
	"time"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

// Config sources reported on the formatted config
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
)

// ShopTemplateConfig is the stored template configuration of one shop
type ShopTemplateConfig struct {
	Shop      string                `json:"shop"`
	Template  string                `json:"template"`
	Settings  domain.TemplateConfig `json:"settings"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FormatForPDF turns a stored config into the renderer's config. A nil raw
// config yields an empty config that defers to the process defaults.
func FormatForPDF(raw *ShopTemplateConfig) *domain.TemplateConfig {
	if raw == nil {
		return &domain.TemplateConfig{Source: SourceEnvironment}
	}

	cfg := raw.Settings
	if raw.Template != "" {
		cfg.Template = raw.Template
	}
	cfg.Source = SourceDatabase
	return &cfg
}
