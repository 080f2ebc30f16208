package templateconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invoice-pdf/invoice-pdf-backend/internal/config"
)

// templateConfigRow is the Postgres table layout
type templateConfigRow struct {
	Shop      string         `gorm:"primaryKey;column:shop"`
	Template  string         `gorm:"column:template"`
	Settings  datatypes.JSON `gorm:"column:settings;type:jsonb"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// PostgresRepository reads configs from a Postgres table keyed by shop
type PostgresRepository struct {
	db    *gorm.DB
	table string
}

// NewPostgresRepository creates a new gorm backed repository
func NewPostgresRepository(db *gorm.DB, table string) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

// OpenDatabase connects to Postgres with the pool settings from cfg
func OpenDatabase(cfg config.DatabaseConfig, production bool) (*gorm.DB, error) {
	logLevel := logger.Info
	if production {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	return db, nil
}

func (r *PostgresRepository) GetByShop(ctx context.Context, shop string) (*ShopTemplateConfig, error) {
	var row templateConfigRow
	err := r.db.WithContext(ctx).Table(r.table).Where("shop = ?", shop).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template config for %s: %w", shop, err)
	}
	return row.toModel()
}

func (row templateConfigRow) toModel() (*ShopTemplateConfig, error) {
	cfg := &ShopTemplateConfig{
		Shop:      row.Shop,
		Template:  row.Template,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &cfg.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings for %s: %w", row.Shop, err)
		}
	}
	return cfg, nil
}
