package templates

import (
	"context"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/pkg/pdf"
)

// zenTemplate is the colorful layout: filled banner, badges and rounded boxes
type zenTemplate struct{}

var zenPalette = ColorScheme{
	Primary:    "#6366f1",
	Secondary:  "#8b5cf6",
	Accent:     "#ec4899",
	Border:     "#e0e7ff",
	Background: "#faf5ff",
	Success:    "#10b981",
	Warning:    "#f59e0b",
	Error:      "#ef4444",
}

const zenBannerHeight = 140.0

var zenTable = tableLayout{
	headerHeight: 35,
	headerRadius: 4,
	singleOffset: 12,
	doubleOffset: 8,
	rowHeight:    40,
	cellOffset:   15,
}

var zenColumns = map[domain.TaxRegime][]column{
	domain.RegimeCGSTSGST: {
		{title: "Item", x: 55, width: 90, value: itemName},
		{title: "Qty", x: 150, width: 20, align: pdf.AlignCenter, value: itemQuantity},
		{title: "MRP", x: 175, width: 48, align: pdf.AlignRight, value: itemMRP},
		{title: "Discount", x: 228, width: 40, align: pdf.AlignRight, tone: toneDiscount, value: itemDiscount},
		{title: "Price\nbefore tax", x: 273, width: 50, align: pdf.AlignRight, value: itemBefore},
		{title: "CGST", x: 328, width: 40, align: pdf.AlignRight, value: itemCGST},
		{title: "SGST", x: 373, width: 40, align: pdf.AlignRight, value: itemSGST},
		{title: "Price after tax", x: 418, width: 87, align: pdf.AlignRight, tone: toneSuccess, value: itemAfter},
	},
	domain.RegimeIGST: {
		{title: "Item", x: 55, width: 105, value: itemName},
		{title: "Qty", x: 165, width: 20, align: pdf.AlignCenter, value: itemQuantity},
		{title: "MRP", x: 190, width: 50, align: pdf.AlignRight, value: itemMRP},
		{title: "Discount", x: 245, width: 45, align: pdf.AlignRight, tone: toneDiscount, value: itemDiscount},
		{title: "Price\nbefore tax", x: 295, width: 55, align: pdf.AlignRight, value: itemBefore},
		{title: "IGST", x: 355, width: 50, align: pdf.AlignRight, value: itemIGST},
		{title: "Price after tax", x: 408, width: 97, align: pdf.AlignRight, tone: toneSuccess, value: itemAfter},
	},
	domain.RegimeGeneric: {
		{title: "Item", x: 55, width: 110, value: itemName},
		{title: "Qty", x: 170, width: 25, align: pdf.AlignCenter, value: itemQuantity},
		{title: "MRP", x: 200, width: 55, align: pdf.AlignRight, value: itemMRP},
		{title: "Discount", x: 260, width: 55, align: pdf.AlignRight, tone: toneDiscount, value: itemDiscount},
		{title: "Selling price\nbefore tax", x: 320, width: 60, align: pdf.AlignRight, value: itemBefore},
		{title: "Tax", x: 385, width: 45, align: pdf.AlignRight, value: itemTax},
		{title: "Selling price\nafter tax", x: 435, width: 70, align: pdf.AlignRight, tone: toneSuccess, value: itemAfter},
	},
}

func (zenTemplate) Name() string { return Zen }

func (zenTemplate) DefaultFonts() domain.Fonts {
	return domain.Fonts{
		Family:      "Helvetica",
		TitleSize:   32,
		HeadingSize: 18,
		BodySize:    11,
		TableSize:   8,
	}
}

func (zenTemplate) ResolveColors(seed string, colors *domain.ColorConfig) ColorScheme {
	return resolvePalette(zenPalette, seed, colors)
}

func (zenTemplate) RenderHeader(ctx context.Context, doc *Document) (float64, error) {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	company := doc.Style.Company
	pageWidth, _ := c.PageSize()

	c.SetFillColor(doc.Style.Styling.DocumentHeaderBg)
	c.Rect(0, 0, pageWidth, zenBannerHeight, pdf.StyleFill)
	c.SetFillColor(doc.Colors.Accent)
	c.Rect(0, zenBannerHeight-4, pageWidth, 4, pdf.StyleFill)

	y := 30.0
	c.SetFont(fonts.Family, true, fonts.TitleSize)
	c.SetTextColor(doc.Style.Styling.HeaderText)
	c.Text(company.Name, marginLeft, y, pdf.TextOptions{Width: 380, MaxHeight: fonts.TitleSize * 1.2})
	y += fonts.TitleSize*1.2 - 5

	lh := fonts.BodySize*1.35 - 1
	c.SetFont(fonts.Family, false, fonts.BodySize)
	for _, line := range companyLines(company) {
		c.Text(line, marginLeft, y, pdf.TextOptions{Width: 380})
		y += lh
	}
	if company.GSTIN != "" {
		c.SetFont(fonts.Family, false, fonts.BodySize-1)
		c.Text("GSTIN: "+company.GSTIN, marginLeft, y, pdf.TextOptions{Width: 380})
	}

	drawLogo(ctx, doc, 445, 30, pdf.ImageBox{Width: 100, Height: 80, Align: pdf.AlignRight})

	return zenBannerHeight + 20, c.Err()
}

func (zenTemplate) RenderOrderInfo(doc *Document, y float64) (float64, error) {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	lh := fonts.BodySize * 1.35

	const badgeWidth, badgeHeight = 120.0, 35.0
	c.SetFillColor(doc.Colors.Accent)
	c.RoundedRect(marginLeft, y, badgeWidth, badgeHeight, 8, pdf.StyleFill)
	c.SetFont(fonts.Family, true, 20)
	c.SetTextColor("#ffffff")
	c.Text("INVOICE", marginLeft, y+9, pdf.TextOptions{Width: badgeWidth, Align: pdf.AlignCenter})

	y += badgeHeight + 15
	last := drawOrderDetails(doc, y, orderDetailsLook{labelColor: doc.Colors.Primary, gap: 8})

	end := drawBillTo(doc, billToBox{
		x:       300,
		y:       last - 6*lh - 8,
		width:   245,
		inset:   10,
		pad:     12,
		floor:   90,
		radius:  6,
		heading: doc.Colors.Secondary,
	})

	return max(last+lh+4, end+15), c.Err()
}

func (zenTemplate) RenderLineItems(doc *Document, y float64) (float64, error) {
	c := doc.Canvas
	fonts := doc.Style.Fonts

	y += 20
	c.SetFont(fonts.Family, true, fonts.HeadingSize)
	c.SetTextColor(doc.Colors.Primary)
	c.Text("Order Items", marginLeft, y, pdf.TextOptions{Width: contentWidth})

	c.SetStrokeColor(doc.Colors.Accent)
	c.SetLineWidth(2)
	c.Line(marginLeft, y+25, marginRight, y+25)
	y += 40

	columns := zenColumns[doc.Regime]
	y = drawTableHeader(doc, y, zenTable, columns)
	y = drawItemRows(doc, y, zenTable, columns)

	return y, c.Err()
}

func (zenTemplate) RenderTotals(doc *Document, y float64) (float64, error) {
	y = drawTotals(doc, y, totalsLook{
		x:           340,
		width:       205,
		height:      150,
		radius:      8,
		inset:       10,
		borderColor: doc.Colors.Primary,
		borderWidth: 1.5,
		labelTotal:  doc.Colors.Primary,
		valueTotal:  doc.Colors.Accent,
	})
	return y, doc.Canvas.Err()
}

func (zenTemplate) RenderSignature(ctx context.Context, doc *Document, y float64) (float64, error) {
	y = drawSignature(ctx, doc, y, signatureLook{radius: 6, ruleColor: doc.Colors.Primary})
	return y, doc.Canvas.Err()
}

func (zenTemplate) RenderFooter(doc *Document, y float64) (float64, error) {
	y = drawFooter(doc, y, footerLook{bandRadius: 6, heading: doc.Colors.Secondary})
	return y, doc.Canvas.Err()
}
