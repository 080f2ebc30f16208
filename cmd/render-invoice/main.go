// Command render-invoice renders an invoice JSON file to a local PDF using
// the bundled assets directory instead of S3.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/assets"
	"invoice-pdf/invoice-pdf-backend/internal/config"
	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/internal/invoices/render"
)

func main() {
	_ = godotenv.Load()

	var (
		input      = flag.String("input", "", "invoice data JSON file (required)")
		output     = flag.String("output", "", "output PDF path (default invoice-<timestamp>.pdf)")
		template   = flag.String("template", "", "template name, overrides INVOICE_TEMPLATE")
		configFile = flag.String("config", "", "template config JSON file")
		assetsDir  = flag.String("assets", "", "logo and signature directory, overrides LOCAL_ASSETS_PATH")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *assetsDir != "" {
		cfg.Invoice.LocalAssetsPath = *assetsDir
	}
	if *output == "" {
		*output = fmt.Sprintf("invoice-%d.pdf", time.Now().UnixMilli())
	}

	var data domain.InvoiceData
	if err := readJSON(*input, &data); err != nil {
		logger.Fatal("Failed to read invoice data", zap.String("file", *input), zap.Error(err))
	}

	var templateConfig *domain.TemplateConfig
	if *configFile != "" {
		templateConfig = &domain.TemplateConfig{}
		if err := readJSON(*configFile, templateConfig); err != nil {
			logger.Fatal("Failed to read template config", zap.String("file", *configFile), zap.Error(err))
		}
	}
	if *template != "" {
		if templateConfig == nil {
			templateConfig = &domain.TemplateConfig{}
		}
		templateConfig.Template = *template
	}

	images := assets.NewStore(nil, "", cfg.Invoice.LocalAssetsPath, cfg.Storage.MaxImageBytes)
	generator := render.NewGenerator(render.Defaults{
		Template:     cfg.Invoice.Template,
		PrimaryColor: cfg.Invoice.PrimaryColor,
	}, logger, render.WithImageSource(images))

	pdf, err := generator.Generate(context.Background(), &data, templateConfig)
	if err != nil {
		logger.Fatal("Failed to render invoice", zap.Error(err))
	}

	if err := os.WriteFile(*output, pdf, 0o644); err != nil {
		logger.Fatal("Failed to write invoice", zap.String("file", *output), zap.Error(err))
	}

	logger.Info("Invoice written",
		zap.String("file", *output),
		zap.Float64("size_kb", float64(len(pdf))/1024),
	)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
