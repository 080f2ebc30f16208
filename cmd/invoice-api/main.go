package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/assets"
	"invoice-pdf/invoice-pdf-backend/internal/awsclient"
	"invoice-pdf/invoice-pdf-backend/internal/config"
	"invoice-pdf/invoice-pdf-backend/internal/invoices"
	"invoice-pdf/invoice-pdf-backend/internal/invoices/render"
	"invoice-pdf/invoice-pdf-backend/internal/notifications"
	"invoice-pdf/invoice-pdf-backend/internal/templateconfig"
	"invoice-pdf/invoice-pdf-backend/pkg/storage"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	awsCfg, err := awsclient.Load(ctx, cfg.AWS)
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	if cfg.Storage.Bucket == "" {
		logger.Fatal("S3_BUCKET_NAME is required")
	}

	s3Client := storage.NewS3Client(awsCfg, cfg.Storage.UsePathStyle)

	repo, closeRepo, err := buildRepository(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize template config store", zap.Error(err))
	}
	defer closeRepo()

	dispatcher, err := notifications.NewDispatcher(awsCfg, cfg.Notifications, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifications", zap.Error(err))
	}

	imageStore := assets.NewStore(s3Client, cfg.Storage.Bucket, cfg.Invoice.LocalAssetsPath, cfg.Storage.MaxImageBytes)
	generator := render.NewGenerator(render.Defaults{
		Template:     cfg.Invoice.Template,
		PrimaryColor: cfg.Invoice.PrimaryColor,
	}, logger, render.WithImageSource(imageStore))

	configLoader := templateconfig.NewLoader(repo, logger)
	invoiceService := invoices.NewService(
		configLoader,
		generator,
		invoices.NewStorageProvider(s3Client, cfg.Storage.Bucket, cfg.Storage.PresignExpiry),
		dispatcher,
		logger,
	)
	invoiceHandler := invoices.NewHandler(invoiceService)
	configHandler := templateconfig.NewHandler(configLoader)

	// Setup Router
	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	{
		invoiceHandler.RegisterRoutes(api)
		configHandler.RegisterRoutes(api)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("addr", srv.Addr),
		zap.String("template", cfg.Invoice.Template),
		zap.String("template_store", cfg.TemplateStore.Driver),
		zap.String("notifications", cfg.Notifications.Provider),
	)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

// buildRepository wires the configured template store, optionally behind
// the Redis cache. A nil repository means every shop uses the defaults.
func buildRepository(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (templateconfig.Repository, func(), error) {
	var (
		repo    templateconfig.Repository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch strings.ToLower(cfg.TemplateStore.Driver) {
	case "dynamodb":
		repo = templateconfig.NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.TemplateStore.TableName)
	case "postgres":
		db, err := templateconfig.OpenDatabase(cfg.Database, !strings.EqualFold(cfg.Logging.Level, "debug"))
		if err != nil {
			return nil, closeAll, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { sqlDB.Close() })
		}
		repo = templateconfig.NewPostgresRepository(db, cfg.TemplateStore.TableName)
	default:
		logger.Info("No template config store configured, using defaults for every shop")
		return nil, closeAll, nil
	}

	if cfg.Cache.Enabled {
		client, err := templateconfig.NewRedisClient(ctx, cfg.Cache.GetRedisAddr(), cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			logger.Warn("Template config cache disabled", zap.Error(err))
			return repo, closeAll, nil
		}
		closers = append(closers, func() { client.Close() })
		repo = templateconfig.NewCachedRepository(repo, client, cfg.Cache.TTL, logger)
	}

	return repo, closeAll, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
