package templates

import (
	"context"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/pkg/pdf"
)

// minimalistTemplate is the default layout: tinted banner, square boxes and
// a grayscale palette.
type minimalistTemplate struct{}

var minimalistPalette = ColorScheme{
	Primary:    "#333333",
	Secondary:  "#6b7280",
	Accent:     "#111827",
	Border:     "#e5e7eb",
	Background: "#f9fafb",
	Success:    "#047857",
	Warning:    "#b45309",
	Error:      "#b91c1c",
}

const minimalistBannerHeight = 120.0

var minimalistTable = tableLayout{
	headerHeight: 26,
	singleOffset: 9,
	doubleOffset: 4,
	rowHeight:    30,
	cellOffset:   10,
}

var minimalistColumns = map[domain.TaxRegime][]column{
	domain.RegimeCGSTSGST: {
		{title: "Item", x: 55, width: 100, value: itemName},
		{title: "Qty", x: 160, width: 22, align: pdf.AlignCenter, value: itemQuantity},
		{title: "MRP", x: 186, width: 48, align: pdf.AlignRight, value: itemMRP},
		{title: "Discount", x: 238, width: 46, align: pdf.AlignRight, tone: toneDiscount, value: itemDiscount},
		{title: "Price\nbefore tax", x: 288, width: 54, align: pdf.AlignRight, value: itemBefore},
		{title: "CGST", x: 346, width: 44, align: pdf.AlignRight, value: itemCGST},
		{title: "SGST", x: 394, width: 44, align: pdf.AlignRight, value: itemSGST},
		{title: "Price after tax", x: 442, width: 98, align: pdf.AlignRight, tone: toneSuccess, value: itemAfter},
	},
	domain.RegimeIGST: {
		{title: "Item", x: 55, width: 115, value: itemName},
		{title: "Qty", x: 174, width: 22, align: pdf.AlignCenter, value: itemQuantity},
		{title: "MRP", x: 200, width: 52, align: pdf.AlignRight, value: itemMRP},
		{title: "Discount", x: 256, width: 50, align: pdf.AlignRight, tone: toneDiscount, value: itemDiscount},
		{title: "Price\nbefore tax", x: 310, width: 60, align: pdf.AlignRight, value: itemBefore},
		{title: "IGST", x: 374, width: 56, align: pdf.AlignRight, value: itemIGST},
		{title: "Price after tax", x: 434, width: 106, align: pdf.AlignRight, tone: toneSuccess, value: itemAfter},
	},
	domain.RegimeGeneric: {
		{title: "Item", x: 55, width: 115, value: itemName},
		{title: "Qty", x: 174, width: 24, align: pdf.AlignCenter, value: itemQuantity},
		{title: "MRP", x: 202, width: 54, align: pdf.AlignRight, value: itemMRP},
		{title: "Discount", x: 260, width: 54, align: pdf.AlignRight, tone: toneDiscount, value: itemDiscount},
		{title: "Selling price\nbefore tax", x: 318, width: 62, align: pdf.AlignRight, value: itemBefore},
		{title: "Tax", x: 384, width: 50, align: pdf.AlignRight, value: itemTax},
		{title: "Selling price\nafter tax", x: 438, width: 102, align: pdf.AlignRight, tone: toneSuccess, value: itemAfter},
	},
}

func (minimalistTemplate) Name() string { return Minimalist }

func (minimalistTemplate) DefaultFonts() domain.Fonts {
	return domain.Fonts{
		Family:      "Helvetica",
		TitleSize:   24,
		HeadingSize: 14,
		BodySize:    10,
		TableSize:   8,
	}
}

func (minimalistTemplate) ResolveColors(seed string, colors *domain.ColorConfig) ColorScheme {
	return resolvePalette(minimalistPalette, seed, colors)
}

func (minimalistTemplate) RenderHeader(ctx context.Context, doc *Document) (float64, error) {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	company := doc.Style.Company
	pageWidth, _ := c.PageSize()

	c.SetFillColor(doc.Colors.Background)
	c.Rect(0, 0, pageWidth, minimalistBannerHeight, pdf.StyleFill)
	c.SetFillColor(doc.Style.Styling.DocumentHeaderBg)
	c.Rect(0, minimalistBannerHeight-4, pageWidth, 4, pdf.StyleFill)

	y := 25.0
	c.SetFont(fonts.Family, true, fonts.TitleSize)
	c.SetTextColor(doc.Colors.Accent)
	c.Text(company.Name, marginLeft, y, pdf.TextOptions{Width: 380, MaxHeight: fonts.TitleSize * 1.2})
	y += fonts.TitleSize * 1.2

	lh := fonts.BodySize * 1.25
	c.SetFont(fonts.Family, false, fonts.BodySize)
	c.SetTextColor(doc.Colors.Secondary)
	for _, line := range companyLines(company) {
		c.Text(line, marginLeft, y, pdf.TextOptions{Width: 380})
		y += lh
	}
	if company.GSTIN != "" {
		c.SetFont(fonts.Family, true, fonts.BodySize-1)
		c.SetTextColor(doc.Colors.Primary)
		c.Text("GSTIN: "+company.GSTIN, marginLeft, y, pdf.TextOptions{Width: 380})
	}

	drawLogo(ctx, doc, 445, 20, pdf.ImageBox{Width: 100, Height: 80, Align: pdf.AlignRight})

	return minimalistBannerHeight + 20, c.Err()
}

func (minimalistTemplate) RenderOrderInfo(doc *Document, y float64) (float64, error) {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	lh := fonts.BodySize * 1.35

	c.SetFont(fonts.Family, true, fonts.HeadingSize+4)
	c.SetTextColor(doc.Colors.Accent)
	c.Text("INVOICE", marginLeft, y, pdf.TextOptions{Width: 220})

	c.SetStrokeColor(doc.Colors.Primary)
	c.SetLineWidth(1)
	c.Line(marginLeft, y+26, marginLeft+40, y+26)

	top := y
	last := drawOrderDetails(doc, y+36, orderDetailsLook{labelColor: doc.Colors.Secondary, gap: 6})

	end := drawBillTo(doc, billToBox{
		x:       320,
		y:       top,
		width:   225,
		inset:   10,
		pad:     10,
		floor:   80,
		heading: doc.Colors.Primary,
	})

	return max(last+lh+4, end+15), c.Err()
}

func (minimalistTemplate) RenderLineItems(doc *Document, y float64) (float64, error) {
	c := doc.Canvas
	fonts := doc.Style.Fonts

	y += 20
	c.SetFont(fonts.Family, true, fonts.HeadingSize)
	c.SetTextColor(doc.Colors.Primary)
	c.Text("Order Items", marginLeft, y, pdf.TextOptions{Width: contentWidth})

	c.SetStrokeColor(doc.Colors.Border)
	c.SetLineWidth(1)
	c.Line(marginLeft, y+22, marginRight, y+22)
	y += 32

	columns := minimalistColumns[doc.Regime]
	y = drawTableHeader(doc, y, minimalistTable, columns)
	y = drawItemRows(doc, y, minimalistTable, columns)

	return y, c.Err()
}

func (minimalistTemplate) RenderTotals(doc *Document, y float64) (float64, error) {
	y = drawTotals(doc, y, totalsLook{
		x:           330,
		width:       215,
		height:      150,
		inset:       10,
		borderColor: doc.Colors.Border,
		borderWidth: 1,
		labelTotal:  doc.Colors.Accent,
		valueTotal:  doc.Colors.Primary,
	})
	return y, doc.Canvas.Err()
}

func (minimalistTemplate) RenderSignature(ctx context.Context, doc *Document, y float64) (float64, error) {
	y = drawSignature(ctx, doc, y, signatureLook{ruleColor: doc.Colors.Accent})
	return y, doc.Canvas.Err()
}

func (minimalistTemplate) RenderFooter(doc *Document, y float64) (float64, error) {
	y = drawFooter(doc, y, footerLook{heading: doc.Colors.Primary})
	return y, doc.Canvas.Err()
}
