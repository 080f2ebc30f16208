// Package templates holds the invoice layouts. A template is a bundle of six
// drawing stages chained by a vertical cursor, plus its palette and fonts.
package templates

import (
	"context"

	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/pkg/pdf"
)

// ImageSource loads logo and signature images
type ImageSource interface {
	// Fetch loads an image from the remote blob store
	Fetch(ctx context.Context, ref string) ([]byte, error)
	// FetchLocal loads a bundled image by file name
	FetchLocal(name string) ([]byte, error)
}

// Document is everything a stage needs for one render
type Document struct {
	Canvas pdf.Canvas
	Data   *domain.InvoiceData
	Colors ColorScheme
	Style  domain.Style
	Regime domain.TaxRegime
	Images ImageSource
	Logger *zap.Logger
}

func (d *Document) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Template renders an invoice in one visual style.
// Each stage receives the cursor y and returns where the next stage starts.
type Template interface {
	Name() string
	DefaultFonts() domain.Fonts
	ResolveColors(seed string, colors *domain.ColorConfig) ColorScheme

	RenderHeader(ctx context.Context, doc *Document) (float64, error)
	RenderOrderInfo(doc *Document, y float64) (float64, error)
	RenderLineItems(doc *Document, y float64) (float64, error)
	RenderTotals(doc *Document, y float64) (float64, error)
	RenderSignature(ctx context.Context, doc *Document, y float64) (float64, error)
	RenderFooter(doc *Document, y float64) (float64, error)
}
