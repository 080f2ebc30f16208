package templateconfig

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByShop(ctx context.Context, shop string) (*ShopTemplateConfig, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShopTemplateConfig), args.Error(1)
}

// MockDynamo is a mock implementation of DynamoAPI
type MockDynamo struct {
	mock.Mock
}

func (m *MockDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

// MockCache is a mock implementation of cacheBackend
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

const shop = "abc-fashion.myshopify.com"

func storedConfig() *ShopTemplateConfig {
	return &ShopTemplateConfig{
		Shop:     shop,
		Template: "zen",
		Settings: domain.TemplateConfig{
			Company: &domain.CompanyConfig{Name: "ABC Fashion", Email: "support@abc.com"},
			Colors:  &domain.ColorConfig{Primary: "#6366f1"},
		},
	}
}

func TestFormatForPDF(t *testing.T) {
	cfg := FormatForPDF(nil)
	assert.Equal(t, SourceEnvironment, cfg.Source)
	assert.Empty(t, cfg.Template)
	assert.Nil(t, cfg.Colors)

	cfg = FormatForPDF(storedConfig())
	assert.Equal(t, SourceDatabase, cfg.Source)
	assert.Equal(t, "zen", cfg.Template)
	assert.Equal(t, "ABC Fashion", cfg.Company.Name)
	assert.Equal(t, "#6366f1", cfg.Colors.Primary)

	raw := storedConfig()
	raw.Template = ""
	raw.Settings.Template = "minimalist"
	assert.Equal(t, "minimalist", FormatForPDF(raw).Template)
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("no repository", func(t *testing.T) {
		cfg, err := NewLoader(nil, zap.NewNop()).GetTemplateConfig(ctx, shop)
		assert.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("not found is not an error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByShop", ctx, shop).Return(nil, ErrNotFound)

		cfg, err := NewLoader(repo, zap.NewNop()).GetTemplateConfig(ctx, shop)
		assert.NoError(t, err)
		assert.Nil(t, cfg)
		repo.AssertExpectations(t)
	})

	t.Run("store errors surface", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByShop", ctx, shop).Return(nil, errors.New("throttled"))

		_, err := NewLoader(repo, zap.NewNop()).GetTemplateConfig(ctx, shop)
		assert.EqualError(t, err, "throttled")
	})
}

func TestDynamoRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes nested settings", func(t *testing.T) {
		item, err := attributevalue.MarshalMap(dynamoItem{
			Shop:     shop,
			Template: "zen",
			Settings: map[string]interface{}{
				"company": map[string]interface{}{"name": "ABC Fashion", "includeSignature": false},
				"fonts":   map[string]interface{}{"bodySize": 12},
			},
			UpdatedAt: time.Date(2025, 12, 29, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		client := new(MockDynamo)
		client.On("GetItem", ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			key, ok := in.Key["shop"].(*types.AttributeValueMemberS)
			return *in.TableName == "invoice_template_configs" && ok && key.Value == shop
		})).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		cfg, err := NewDynamoRepository(client, "invoice_template_configs").GetByShop(ctx, shop)
		require.NoError(t, err)

		assert.Equal(t, "zen", cfg.Template)
		assert.Equal(t, "ABC Fashion", cfg.Settings.Company.Name)
		require.NotNil(t, cfg.Settings.Company.IncludeSignature)
		assert.False(t, *cfg.Settings.Company.IncludeSignature)
		assert.Equal(t, 12.0, cfg.Settings.Fonts.BodySize)
		assert.Equal(t, 2025, cfg.UpdatedAt.Year())
		client.AssertExpectations(t)
	})

	t.Run("missing item", func(t *testing.T) {
		client := new(MockDynamo)
		client.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := NewDynamoRepository(client, "configs").GetByShop(ctx, shop)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("client error", func(t *testing.T) {
		boom := errors.New("ResourceNotFoundException")
		client := new(MockDynamo)
		client.On("GetItem", ctx, mock.Anything).Return(nil, boom)

		_, err := NewDynamoRepository(client, "configs").GetByShop(ctx, shop)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostgresRowToModel(t *testing.T) {
	row := templateConfigRow{
		Shop:     shop,
		Template: "minimalist",
		Settings: datatypes.JSON(`{"company":{"name":"ABC Fashion"},"styling":{"headerBackgroundColor":"#111111"}}`),
	}

	cfg, err := row.toModel()
	require.NoError(t, err)
	assert.Equal(t, "minimalist", cfg.Template)
	assert.Equal(t, "ABC Fashion", cfg.Settings.Company.Name)
	assert.Equal(t, "#111111", cfg.Settings.Styling.HeaderBackgroundColor)

	row.Settings = datatypes.JSON(`{"company":`)
	_, err = row.toModel()
	assert.Error(t, err)
}

func TestCachedRepository(t *testing.T) {
	ctx := context.Background()
	key := cacheKey(shop)
	ttl := time.Minute

	t.Run("hit skips the store", func(t *testing.T) {
		encoded, err := json.Marshal(storedConfig())
		require.NoError(t, err)

		cache := new(MockCache)
		cache.On("Get", ctx, key).Return(redis.NewStringResult(string(encoded), nil))
		repo := new(MockRepository)

		cfg, err := NewCachedRepository(repo, cache, ttl, zap.NewNop()).GetByShop(ctx, shop)
		require.NoError(t, err)
		assert.Equal(t, "ABC Fashion", cfg.Settings.Company.Name)
		repo.AssertNotCalled(t, "GetByShop", mock.Anything, mock.Anything)
	})

	t.Run("miss loads and stores", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("Get", ctx, key).Return(redis.NewStringResult("", redis.Nil))
		cache.On("Set", ctx, key, mock.Anything, ttl).Return(redis.NewStatusResult("OK", nil))
		repo := new(MockRepository)
		repo.On("GetByShop", ctx, shop).Return(storedConfig(), nil)

		cfg, err := NewCachedRepository(repo, cache, ttl, zap.NewNop()).GetByShop(ctx, shop)
		require.NoError(t, err)
		assert.Equal(t, "zen", cfg.Template)
		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("absence is cached", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("Get", ctx, key).Return(redis.NewStringResult("", redis.Nil)).Once()
		cache.On("Set", ctx, key, []byte(notFoundMarker), ttl).Return(redis.NewStatusResult("OK", nil))
		repo := new(MockRepository)
		repo.On("GetByShop", ctx, shop).Return(nil, ErrNotFound)

		_, err := NewCachedRepository(repo, cache, ttl, zap.NewNop()).GetByShop(ctx, shop)
		assert.ErrorIs(t, err, ErrNotFound)

		cache.On("Get", ctx, key).Return(redis.NewStringResult(notFoundMarker, nil))
		_, err = NewCachedRepository(repo, cache, ttl, zap.NewNop()).GetByShop(ctx, shop)
		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertNumberOfCalls(t, "GetByShop", 1)
	})

	t.Run("redis outage falls through", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("Get", ctx, key).Return(redis.NewStringResult("", errors.New("connection refused")))
		cache.On("Set", ctx, key, mock.Anything, ttl).Return(redis.NewStatusResult("", errors.New("connection refused")))
		repo := new(MockRepository)
		repo.On("GetByShop", ctx, shop).Return(storedConfig(), nil)

		cfg, err := NewCachedRepository(repo, cache, ttl, zap.NewNop()).GetByShop(ctx, shop)
		require.NoError(t, err)
		assert.Equal(t, shop, cfg.Shop)
	})
}
