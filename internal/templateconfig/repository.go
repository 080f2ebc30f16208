package templateconfig

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a shop has no stored template config
var ErrNotFound = errors.New("template config not found")

// Repository reads shop template configs
type Repository interface {
	GetByShop(ctx context.Context, shop string) (*ShopTemplateConfig, error)
}
