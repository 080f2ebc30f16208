package templateconfig

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Loader fetches shop configs, treating a missing config as "use defaults"
type Loader struct {
	repo   Repository
	logger *zap.Logger
}

// NewLoader creates a loader. repo may be nil when no store is configured.
func NewLoader(repo Repository, logger *zap.Logger) *Loader {
	return &Loader{repo: repo, logger: logger}
}

// GetTemplateConfig returns the shop's config, or nil when it has none
func (l *Loader) GetTemplateConfig(ctx context.Context, shop string) (*ShopTemplateConfig, error) {
	if l.repo == nil {
		return nil, nil
	}

	cfg, err := l.repo.GetByShop(ctx, shop)
	if errors.Is(err, ErrNotFound) {
		l.logger.Debug("No template config for shop, using defaults", zap.String("shop", shop))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
