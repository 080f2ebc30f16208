// Package render runs an invoice template against a fresh canvas and
// returns the finished PDF.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/internal/invoices/templates"
	"invoice-pdf/invoice-pdf-backend/pkg/pdf"
)

// ErrNoInvoiceData is returned when Generate is called without data
var ErrNoInvoiceData = errors.New("invoice data is required")

// Defaults are the process wide fallbacks used when a render has no config
type Defaults struct {
	// Template is used when the config names none
	Template string `json:"template"`
	// PrimaryColor seeds the palette when the config has no colors
	PrimaryColor string `json:"primary_color"`
}

// CanvasFactory creates the drawing surface of one render
type CanvasFactory func() pdf.Canvas

// Option configures a Generator
type Option func(*Generator)

// WithCanvasFactory replaces the gofpdf canvas
func WithCanvasFactory(factory CanvasFactory) Option {
	return func(g *Generator) {
		g.newCanvas = factory
	}
}

// WithImageSource sets where logos and signatures are loaded from
func WithImageSource(images templates.ImageSource) Option {
	return func(g *Generator) {
		g.images = images
	}
}

// Generator renders invoices. It only holds read-only settings and is safe
// for concurrent use; every call owns its canvas.
type Generator struct {
	defaults  Defaults
	logger    *zap.Logger
	newCanvas CanvasFactory
	images    templates.ImageSource
}

// NewGenerator creates a new invoice generator
func NewGenerator(defaults Defaults, logger *zap.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		defaults: defaults,
		logger:   logger,
		newCanvas: func() pdf.Canvas {
			return pdf.NewDocument(pdf.DefaultOptions())
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SelectTemplate picks the named template, then the process default, then
// minimalist. Unknown names fall back to minimalist.
func (g *Generator) SelectTemplate(name string) templates.Template {
	if name == "" {
		name = g.defaults.Template
	}
	if name == "" {
		return templates.Default()
	}

	tmpl, ok := templates.Lookup(name)
	if !ok {
		g.logger.Warn("Unknown invoice template, using default",
			zap.String("template", name),
			zap.String("default", templates.DefaultName))
		return templates.Default()
	}
	return tmpl
}

type stage struct {
	name string
	run  func(y float64) (float64, error)
}

// Generate renders data with the template and style selected by cfg.
// cfg may be nil.
func (g *Generator) Generate(ctx context.Context, data *domain.InvoiceData, cfg *domain.TemplateConfig) (out []byte, err error) {
	if data == nil {
		return nil, ErrNoInvoiceData
	}

	var name string
	if cfg != nil {
		name = cfg.Template
	}
	tmpl := g.SelectTemplate(name)

	var colors templates.ColorScheme
	if cfg != nil && cfg.Colors != nil {
		colors = tmpl.ResolveColors(cfg.Colors.Primary, cfg.Colors)
	} else {
		colors = tmpl.ResolveColors(g.defaults.PrimaryColor, nil)
	}

	doc := &templates.Document{
		Canvas: g.newCanvas(),
		Data:   data,
		Colors: colors,
		Style:  domain.ResolveStyle(cfg, tmpl.DefaultFonts(), colors.Primary),
		Regime: data.Totals.Regime(),
		Images: g.images,
		Logger: g.logger,
	}

	g.logDiagnostics(tmpl, doc, cfg)

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Invoice rendering panicked", zap.Any("panic", r))
			out, err = nil, fmt.Errorf("invoice rendering panicked: %v", r)
		}
	}()

	stages := []stage{
		{"header", func(float64) (float64, error) { return tmpl.RenderHeader(ctx, doc) }},
		{"order info", func(y float64) (float64, error) { return tmpl.RenderOrderInfo(doc, y) }},
		{"line items", func(y float64) (float64, error) { return tmpl.RenderLineItems(doc, y) }},
		{"totals", func(y float64) (float64, error) { return tmpl.RenderTotals(doc, y) }},
		{"signature", func(y float64) (float64, error) { return tmpl.RenderSignature(ctx, doc, y) }},
		{"footer", func(y float64) (float64, error) { return tmpl.RenderFooter(doc, y) }},
	}

	var y float64
	for _, s := range stages {
		if y, err = s.run(y); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", s.name, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Canvas.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to finalize invoice pdf: %w", err)
	}

	g.logger.Info("Invoice rendered",
		zap.String("template", tmpl.Name()),
		zap.String("order", data.Order.OrderRef()),
		zap.Int("pages", doc.Canvas.PageCount()),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (g *Generator) logDiagnostics(tmpl templates.Template, doc *templates.Document, cfg *domain.TemplateConfig) {
	g.logger.Debug("Generating invoice",
		zap.String("template", tmpl.Name()),
		zap.String("order", doc.Data.Order.OrderRef()),
		zap.String("customer", doc.Data.Customer.Name),
		zap.Int("line_items", len(doc.Data.LineItems)),
		zap.String("tax_regime", doc.Regime.String()),
		zap.Stringer("config", cfg),
		zap.String("primary_color", doc.Colors.Primary))
}
