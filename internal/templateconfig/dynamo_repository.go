package templateconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
)

// DynamoAPI is the part of the DynamoDB client the repository uses
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// dynamoItem is the table layout; settings is a nested map attribute
type dynamoItem struct {
	Shop      string                 `dynamodbav:"shop"`
	Template  string                 `dynamodbav:"template"`
	Settings  map[string]interface{} `dynamodbav:"settings"`
	UpdatedAt time.Time              `dynamodbav:"updated_at"`
}

// DynamoRepository reads configs from a DynamoDB table keyed by shop
type DynamoRepository struct {
	client DynamoAPI
	table  string
}

// NewDynamoRepository creates a new DynamoDB backed repository
func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) GetByShop(ctx context.Context, shop string) (*ShopTemplateConfig, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"shop": shop})
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            key,
		ConsistentRead: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get template config for %s: %w", shop, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to decode template config for %s: %w", shop, err)
	}

	settings, err := decodeSettings(item.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings for %s: %w", shop, err)
	}

	return &ShopTemplateConfig{
		Shop:      item.Shop,
		Template:  item.Template,
		Settings:  settings,
		UpdatedAt: item.UpdatedAt,
	}, nil
}

// decodeSettings converts the loosely typed attribute map into the typed config
func decodeSettings(raw map[string]interface{}) (domain.TemplateConfig, error) {
	var settings domain.TemplateConfig
	if len(raw) == 0 {
		return settings, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return settings, err
	}
	err = json.Unmarshal(data, &settings)
	return settings, err
}
