package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	AWS           AWSConfig           `json:"aws"`
	Storage       StorageConfig       `json:"storage"`
	Notifications NotificationsConfig `json:"notifications"`
	TemplateStore TemplateStoreConfig `json:"template_store"`
	Cache         CacheConfig         `json:"cache"`
	Invoice       InvoiceConfig       `json:"invoice"`
	Logging       LoggingConfig       `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig is the Postgres template config store
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// AWSConfig holds the shared AWS client settings.
// Static credentials are optional; the default chain is used without them.
type AWSConfig struct {
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	// Endpoint overrides the service endpoint (localstack, minio)
	Endpoint string `json:"endpoint"`
}

// StorageConfig is the S3 bucket for invoices and shop images
type StorageConfig struct {
	Bucket        string        `json:"bucket"`
	PresignExpiry time.Duration `json:"presign_expiry"`
	UsePathStyle  bool          `json:"use_path_style"`
	// MaxImageBytes caps logo and signature downloads
	MaxImageBytes int64 `json:"max_image_bytes"`
}

// NotificationsConfig selects how customers are told about their invoice
type NotificationsConfig struct {
	Provider    string `json:"provider"` // sns, ses, none
	SNSTopicARN string `json:"sns_topic_arn"`
	SenderEmail string `json:"sender_email"`
}

// TemplateStoreConfig selects where shop template configs are read from
type TemplateStoreConfig struct {
	Driver    string `json:"driver"` // dynamodb, postgres, none
	TableName string `json:"table_name"`
}

// CacheConfig is the Redis cache in front of the template store
type CacheConfig struct {
	Enabled  bool          `json:"enabled"`
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

// InvoiceConfig holds the rendering defaults
type InvoiceConfig struct {
	Template        string `json:"template"`
	PrimaryColor    string `json:"primary_color"`
	LocalAssetsPath string `json:"local_assets_path"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           os.Getenv("USER"),
			DBName:         "invoice_pdf",
			SSLMode:        "disable",
			MaxConnections: 10,
			MaxIdleConns:   2,
			MaxLifetime:    30 * time.Minute,
		},
		AWS: AWSConfig{
			Region: "ap-south-1",
		},
		Storage: StorageConfig{
			PresignExpiry: 7 * 24 * time.Hour,
			MaxImageBytes: 5 << 20,
		},
		Notifications: NotificationsConfig{
			Provider: "none",
		},
		TemplateStore: TemplateStoreConfig{
			Driver:    "none",
			TableName: "invoice_template_configs",
		},
		Cache: CacheConfig{
			Host: "localhost",
			Port: 6379,
			TTL:  5 * time.Minute,
		},
		Invoice: InvoiceConfig{
			Template:        "minimalist",
			PrimaryColor:    "#333333",
			LocalAssetsPath: "assets",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func overrideWithEnv(config *Config) {
	setString(&config.Server.Host, "SERVER_HOST")
	setInt(&config.Server.Port, "SERVER_PORT")

	setString(&config.Database.Host, "DATABASE_HOST")
	setInt(&config.Database.Port, "DATABASE_PORT")
	setString(&config.Database.User, "DATABASE_USER")
	setString(&config.Database.Password, "DATABASE_PASSWORD")
	setString(&config.Database.DBName, "DATABASE_DBNAME")
	setString(&config.Database.SSLMode, "DATABASE_SSLMODE")

	setString(&config.AWS.Region, "AWS_REGION")
	setString(&config.AWS.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.AWS.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setString(&config.AWS.SessionToken, "AWS_SESSION_TOKEN")
	setString(&config.AWS.Endpoint, "AWS_ENDPOINT_URL")

	setString(&config.Storage.Bucket, "S3_BUCKET_NAME")
	setDuration(&config.Storage.PresignExpiry, "S3_PRESIGN_EXPIRY")
	setBool(&config.Storage.UsePathStyle, "S3_USE_PATH_STYLE")

	setString(&config.Notifications.Provider, "NOTIFICATION_PROVIDER")
	setString(&config.Notifications.SNSTopicARN, "SNS_TOPIC_ARN")
	setString(&config.Notifications.SenderEmail, "SES_SENDER_EMAIL")

	setString(&config.TemplateStore.Driver, "TEMPLATE_STORE_DRIVER")
	setString(&config.TemplateStore.TableName, "TEMPLATE_CONFIG_TABLE")

	setBool(&config.Cache.Enabled, "REDIS_ENABLED")
	setString(&config.Cache.Host, "REDIS_HOST")
	setInt(&config.Cache.Port, "REDIS_PORT")
	setString(&config.Cache.Password, "REDIS_PASSWORD")
	setInt(&config.Cache.DB, "REDIS_DB")
	setDuration(&config.Cache.TTL, "REDIS_TTL")

	setString(&config.Invoice.Template, "INVOICE_TEMPLATE")
	setString(&config.Invoice.PrimaryColor, "INVOICE_PRIMARY_COLOR")
	setString(&config.Invoice.LocalAssetsPath, "LOCAL_ASSETS_PATH")

	setString(&config.Logging.Level, "LOG_LEVEL")
}

// Validate checks the values that have a fixed set of choices
func (c *Config) Validate() error {
	switch strings.ToLower(c.Notifications.Provider) {
	case "", "none", "sns", "ses":
	default:
		return fmt.Errorf("unsupported notification provider %q", c.Notifications.Provider)
	}
	switch strings.ToLower(c.TemplateStore.Driver) {
	case "", "none", "dynamodb", "postgres":
	default:
		return fmt.Errorf("unsupported template store driver %q", c.TemplateStore.Driver)
	}
	if strings.EqualFold(c.Notifications.Provider, "sns") && c.Notifications.SNSTopicARN == "" {
		return fmt.Errorf("SNS_TOPIC_ARN is required for the sns notification provider")
	}
	if strings.EqualFold(c.Notifications.Provider, "ses") && c.Notifications.SenderEmail == "" {
		return fmt.Errorf("SES_SENDER_EMAIL is required for the ses notification provider")
	}
	return nil
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func setBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func setDuration(target *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetRedisAddr returns the redis address
func (c *CacheConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
