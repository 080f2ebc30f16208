package templates

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"invoice-pdf/invoice-pdf-backend/internal/invoices/domain"
	"invoice-pdf/invoice-pdf-backend/pkg/pdf"
)

// Page geometry in points (A4)
const (
	pageTop      = 50.0
	pageBottom   = 50.0
	tableBreakY  = 700.0
	marginLeft   = 50.0
	marginRight  = 545.0
	contentWidth = marginRight - marginLeft
)

// Neutral text colors shared by both templates
const (
	textDark  = "#111827"
	textBody  = "#374151"
	textMuted = "#6b7280"
)

const (
	currencyPrefix  = "Rs."
	notAvailable    = "N/A"
	contactTemplate = "If you have any questions, please contact at %s"
	disclaimerText  = "All disputes are subject to %s jurisdiction only. Goods once sold will only be taken back or exchanged as per the store's exchange/return policy"
)

// summaryLineFactor is the line height multiple of the totals, signature and footer stages
const summaryLineFactor = 1.5

// ensureRoom starts a new page when a block of height h at y would cross the bottom margin
func ensureRoom(c pdf.Canvas, y, h float64) float64 {
	_, pageHeight := c.PageSize()
	if y+h > pageHeight-pageBottom {
		c.AddPage()
		return pageTop
	}
	return y
}

func shape(c pdf.Canvas, x, y, w, h, radius float64, style pdf.Style) {
	if radius > 0 {
		c.RoundedRect(x, y, w, h, radius, style)
		return
	}
	c.Rect(x, y, w, h, style)
}

// companyLines are the banner lines under the company name, empty ones skipped
func companyLines(company domain.Company) []string {
	var lines []string
	for _, s := range []string{
		company.LegalName,
		company.Address.Line1,
		company.Address.Line2,
		company.Address.Locality(),
	} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// drawLogo fetches the configured logo and fits it into box at (x, y).
// Failures are logged and the header renders without it.
func drawLogo(ctx context.Context, doc *Document, x, y float64, box pdf.ImageBox) {
	ref := doc.Style.Company.Logo
	if doc.Images == nil || ref == "" {
		return
	}

	data, err := doc.Images.Fetch(ctx, ref)
	if err != nil {
		doc.logger().Warn("Failed to load logo", zap.String("logo", ref), zap.Error(err))
		return
	}
	if err := doc.Canvas.Image(data, x, y, box); err != nil {
		doc.logger().Warn("Failed to draw logo", zap.String("logo", ref), zap.Error(err))
	}
}

// fetchSignature loads a signature from the blob store when ref is a key
// path, otherwise from the bundled assets.
func fetchSignature(ctx context.Context, doc *Document, ref string) ([]byte, error) {
	if doc.Images == nil {
		return nil, fmt.Errorf("no image source configured")
	}
	if strings.Contains(ref, "/") {
		return doc.Images.Fetch(ctx, ref)
	}
	return doc.Images.FetchLocal(ref)
}

// orderDetailsLook styles the invoice number/date/order number column
type orderDetailsLook struct {
	labelColor string
	gap        float64
}

// drawOrderDetails draws the left column starting at y and returns the top
// of the last value line.
func drawOrderDetails(doc *Document, y float64, look orderDetailsLook) float64 {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	lh := fonts.BodySize * 1.35
	order := doc.Data.Order

	rows := []struct{ label, value string }{
		{"Invoice Number:", order.InvoiceRef()},
		{"Invoice Date:", order.InvoiceDateText()},
		{"Order Number:", order.OrderRef()},
	}
	for i, row := range rows {
		if i > 0 {
			y += lh + look.gap
		}
		c.SetFont(fonts.Family, true, fonts.BodySize)
		c.SetTextColor(look.labelColor)
		c.Text(row.label, marginLeft, y, pdf.TextOptions{Width: 220})

		y += lh
		c.SetFont(fonts.Family, false, fonts.BodySize)
		c.SetTextColor(textDark)
		c.Text(row.value, marginLeft, y, pdf.TextOptions{Width: 220})
	}
	return y
}

// billToBox describes the customer box geometry
type billToBox struct {
	x       float64
	y       float64
	width   float64
	inset   float64 // horizontal text inset
	pad     float64 // vertical padding above and below the text
	floor   float64 // minimum height
	radius  float64
	heading string
}

// drawBillTo lays the customer box out in two passes: the first measures the
// wrapped text without drawing, then the box is drawn at the measured height
// and the text is drawn on top. It returns the y after the last text line.
func drawBillTo(doc *Document, box billToBox) float64 {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	lh := fonts.BodySize * 1.35
	customer := doc.Data.Customer
	address := doc.Data.ShippingAddress

	textX := box.x + box.inset
	textWidth := box.width - 2*box.inset
	opts := pdf.TextOptions{Width: textWidth}

	walk := func(draw bool) float64 {
		y := box.y + box.pad
		text := func(s string) {
			if draw {
				c.Text(s, textX, y, opts)
			}
		}

		c.SetFont(fonts.Family, true, fonts.BodySize+1)
		c.SetTextColor(box.heading)
		text("Bill To:")
		y += lh + 4

		c.SetFont(fonts.Family, true, fonts.BodySize)
		c.SetTextColor(textDark)
		text(orNA(customer.Name))
		y += lh

		c.SetFont(fonts.Family, false, fonts.BodySize-1)
		c.SetTextColor(textBody)
		for _, line := range []string{address.Address, address.CityStateZip()} {
			if strings.TrimSpace(line) == "" {
				continue
			}
			text(line)
			y += c.HeightOfString(line, textWidth) + 3
		}
		if customer.Phone != "" {
			text("Phone: " + customer.Phone)
			y += lh
		}
		return y
	}

	end := walk(false)
	height := math.Max(box.floor, end-box.y+box.pad)

	c.SetFillColor(doc.Colors.Background)
	c.SetStrokeColor(doc.Colors.Border)
	c.SetLineWidth(1)
	shape(c, box.x, box.y, box.width, height, box.radius, pdf.StyleFillStroke)

	return walk(true)
}

type tone int

const (
	toneText tone = iota
	toneDiscount
	toneSuccess
)

// column is one items table column; the header and the cells share x and width
type column struct {
	title string
	x     float64
	width float64
	align pdf.Align
	tone  tone
	value func(domain.LineItem) string
}

func itemName(li domain.LineItem) string     { return li.DisplayName() }
func itemQuantity(li domain.LineItem) string { return li.Quantity.String() }
func itemMRP(li domain.LineItem) string      { return li.MRP.String() }
func itemDiscount(li domain.LineItem) string { return li.Discount.String() }
func itemBefore(li domain.LineItem) string   { return li.SellingPrice.String() }
func itemAfter(li domain.LineItem) string    { return li.SellingPriceAfterTax.String() }
func itemTax(li domain.LineItem) string      { return li.Tax.String() }
func itemCGST(li domain.LineItem) string     { return taxCell(li.CGST) }
func itemSGST(li domain.LineItem) string     { return taxCell(li.SGST) }
func itemIGST(li domain.LineItem) string     { return taxCell(li.IGST) }

func taxCell(a domain.Amount) string {
	return currencyPrefix + domain.FormatTaxAmount(a)
}

// tableLayout is the geometry of an items table
type tableLayout struct {
	headerHeight float64
	headerRadius float64
	// title offsets from the header top for one and two line titles
	singleOffset float64
	doubleOffset float64
	rowHeight    float64
	cellOffset   float64
}

func drawTableHeader(doc *Document, y float64, layout tableLayout, columns []column) float64 {
	c := doc.Canvas
	fonts := doc.Style.Fonts

	c.SetFillColor(doc.Style.Styling.TableHeaderBg)
	shape(c, marginLeft, y, contentWidth, layout.headerHeight, layout.headerRadius, pdf.StyleFill)

	c.SetFont(fonts.Family, false, fonts.TableSize)
	c.SetTextColor(doc.Style.Styling.HeaderText)
	for _, col := range columns {
		offset := layout.singleOffset
		if strings.Contains(col.title, "\n") {
			offset = layout.doubleOffset
		}
		c.Text(col.title, col.x, y+offset, pdf.TextOptions{Width: col.width, Align: col.align})
	}
	return y + layout.headerHeight
}

// drawItemRows draws the rows in input order. The page break check runs
// before anything of the row is drawn.
func drawItemRows(doc *Document, y float64, layout tableLayout, columns []column) float64 {
	c := doc.Canvas
	fonts := doc.Style.Fonts

	for i, item := range doc.Data.LineItems {
		if y > tableBreakY {
			c.AddPage()
			y = pageTop
		}

		if i%2 == 0 {
			c.SetFillColor(doc.Colors.Background)
			c.Rect(marginLeft, y, contentWidth, layout.rowHeight, pdf.StyleFill)
		}

		c.SetFont(fonts.Family, false, fonts.TableSize-0.5)
		for _, col := range columns {
			c.SetTextColor(doc.toneColor(col.tone))
			c.Text(col.value(item), col.x, y+layout.cellOffset, pdf.TextOptions{
				Width:     col.width,
				Align:     col.align,
				MaxHeight: layout.rowHeight - layout.cellOffset,
			})
		}

		y += layout.rowHeight
		c.SetStrokeColor(doc.Colors.Border)
		c.SetLineWidth(0.5)
		c.Line(marginLeft, y, marginRight, y)
	}
	return y
}

func (d *Document) toneColor(t tone) string {
	switch t {
	case toneDiscount:
		return d.Colors.Error
	case toneSuccess:
		return d.Colors.Success
	default:
		return textDark
	}
}

// totalsLook describes the summary box of a template
type totalsLook struct {
	x           float64
	width       float64
	height      float64
	radius      float64
	inset       float64
	borderColor string
	borderWidth float64
	labelTotal  string
	valueTotal  string
}

// drawTotals draws the fixed size summary box and returns the y below it
func drawTotals(doc *Document, y float64, look totalsLook) float64 {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	totals := doc.Data.Totals
	lh := fonts.BodySize * summaryLineFactor

	top := ensureRoom(c, y+20, look.height)

	c.SetFillColor(doc.Colors.Background)
	shape(c, look.x, top, look.width, look.height, look.radius, pdf.StyleFill)
	c.SetStrokeColor(look.borderColor)
	c.SetLineWidth(look.borderWidth)
	shape(c, look.x, top, look.width, look.height, look.radius, pdf.StyleStroke)

	leftX := look.x + look.inset
	rightX := look.x + look.width - look.inset
	valueOpts := pdf.TextOptions{Width: rightX - leftX, Align: pdf.AlignRight}

	y = top + 15
	line := func(label string, value domain.Amount, color string) {
		c.SetTextColor(color)
		c.Text(label, leftX, y, pdf.TextOptions{Width: rightX - leftX})
		c.Text(value.String(), leftX, y, valueOpts)
		y += lh + 2
	}

	c.SetFont(fonts.Family, false, fonts.BodySize)
	line("Subtotal:", totals.Subtotal, textBody)
	if totals.Discount.Present() {
		line("Discount:", totals.Discount, doc.Colors.Error)
	}
	if totals.Shipping.Present() {
		line("Shipping:", totals.Shipping, textBody)
	}

	switch doc.Regime {
	case domain.RegimeCGSTSGST:
		line("CGST:", totals.CGST, textBody)
		line("SGST:", totals.SGST, textBody)
	case domain.RegimeIGST:
		line("IGST:", totals.IGST, textBody)
	default:
		if totals.GST.Present() {
			line("GST:", totals.GST, textBody)
		}
	}

	y += 5
	c.SetStrokeColor(look.borderColor)
	c.SetLineWidth(1)
	c.Line(leftX, y, rightX, y)
	y += 10

	c.SetFont(fonts.Family, true, fonts.BodySize+3)
	c.SetTextColor(look.labelTotal)
	c.Text("Total:", leftX, y, pdf.TextOptions{Width: rightX - leftX})
	c.SetTextColor(look.valueTotal)
	c.Text(totals.Total.String(), leftX, y, valueOpts)

	return top + look.height + 20
}

// signatureLook describes the signature block of a template
type signatureLook struct {
	radius    float64
	ruleColor string
}

const (
	signatureBoxX      = 380.0
	signatureBoxWidth  = 165.0
	signatureBoxHeight = 80.0
)

// drawSignature renders the signature block when one is configured and loads.
// A missing or unreadable signature leaves y unchanged.
func drawSignature(ctx context.Context, doc *Document, y float64, look signatureLook) float64 {
	company := doc.Style.Company
	if !company.IncludeSignature || company.Signature == "" {
		doc.logger().Debug("Signature disabled or not configured")
		return y
	}

	data, err := fetchSignature(ctx, doc, company.Signature)
	if err != nil {
		doc.logger().Warn("Failed to load signature, skipping",
			zap.String("signature", company.Signature), zap.Error(err))
		return y
	}

	c := doc.Canvas
	fonts := doc.Style.Fonts
	lh := fonts.BodySize * summaryLineFactor

	y += 3 * lh
	y = ensureRoom(c, y-10, signatureBoxHeight) + 10

	c.SetFillColor(doc.Colors.Background)
	c.SetStrokeColor(doc.Colors.Border)
	c.SetLineWidth(1)
	shape(c, signatureBoxX, y-10, signatureBoxWidth, signatureBoxHeight, look.radius, pdf.StyleFillStroke)

	c.SetFont(fonts.Family, false, fonts.BodySize-1)
	c.SetTextColor(doc.Colors.Secondary)
	c.Text("Authorized Signatory", signatureBoxX+10, y, pdf.TextOptions{Width: signatureBoxWidth - 20, Align: pdf.AlignCenter})

	box := pdf.ImageBox{Width: 115, Height: 40, Align: pdf.AlignCenter}
	if err := c.Image(data, signatureBoxX+25, y+15, box); err != nil {
		doc.logger().Warn("Failed to draw signature", zap.String("signature", company.Signature), zap.Error(err))
	}

	c.SetStrokeColor(look.ruleColor)
	c.SetLineWidth(1.5)
	c.Line(signatureBoxX+10, y+60, signatureBoxX+signatureBoxWidth-10, y+60)

	return y + signatureBoxHeight
}

// footerLook describes the notes band of a template
type footerLook struct {
	bandRadius float64
	heading    string
}

const footerTextWidth = 475.0

// drawFooter advances past the gap after the previous stage and, when the
// order has notes, draws the notes block with contact and disclaimer lines.
func drawFooter(doc *Document, y float64, look footerLook) float64 {
	c := doc.Canvas
	fonts := doc.Style.Fonts
	company := doc.Style.Company
	lh := fonts.BodySize * summaryLineFactor

	y += 2 * lh

	notes := strings.TrimSpace(doc.Data.Order.Notes)
	if notes == "" {
		return y
	}

	contact := ""
	if company.Email != "" {
		contact = fmt.Sprintf(contactTemplate, company.Email)
	}
	disclaimer := fmt.Sprintf(disclaimerText, company.Jurisdiction)

	measure := func(size float64, s string) float64 {
		c.SetFont(fonts.Family, false, size)
		return c.HeightOfString(s, footerTextWidth)
	}
	notesHeight := measure(fonts.BodySize-1, notes)
	firstNotesLine := measure(fonts.BodySize-1, "M")
	disclaimerHeight := measure(fonts.BodySize-2, disclaimer)
	block := lh + 18 + notesHeight + lh + disclaimerHeight
	if contact != "" {
		block += lh + 5
	}

	// a block taller than a page starts where it is and flows onto new pages
	_, pageHeight := c.PageSize()
	if block <= pageHeight-pageTop-pageBottom {
		y = ensureRoom(c, y, block)
	} else {
		y = ensureRoom(c, y, lh+18+firstNotesLine)
	}

	c.SetFillColor(doc.Colors.Background)
	c.SetStrokeColor(doc.Colors.Border)
	c.SetLineWidth(1)
	shape(c, marginLeft, y, contentWidth, 10, look.bandRadius, pdf.StyleFillStroke)

	c.SetFont(fonts.Family, true, fonts.HeadingSize-4)
	c.SetTextColor(look.heading)
	c.Text("NOTES", marginLeft+10, y+15, pdf.TextOptions{Width: footerTextWidth})

	textX := marginLeft + 10
	opts := pdf.TextOptions{Width: footerTextWidth}

	y += lh + 18
	c.SetFont(fonts.Family, false, fonts.BodySize-1)
	c.SetTextColor(textDark)
	y = flowText(c, notes, textX, y, opts)
	y += lh

	if contact != "" {
		c.SetTextColor(textBody)
		y = flowText(c, contact, textX, y, opts)
		y += lh + 5
	}

	c.SetFont(fonts.Family, false, fonts.BodySize-2)
	c.SetTextColor(textMuted)
	y = flowText(c, disclaimer, textX, y, opts)

	return y + 3*lh
}

// flowText draws txt from y with the current font, continuing on new pages
// when it reaches the bottom margin. It returns the y below the last line.
func flowText(c pdf.Canvas, txt string, x, y float64, opts pdf.TextOptions) float64 {
	lines := c.SplitText(txt, opts.Width)
	lineHeight := c.HeightOfString("M", opts.Width)
	_, pageHeight := c.PageSize()
	bottom := pageHeight - pageBottom

	if y+float64(len(lines))*lineHeight <= bottom {
		c.Text(txt, x, y, opts)
		return y + float64(len(lines))*lineHeight
	}

	for len(lines) > 0 {
		if y+lineHeight > bottom {
			c.AddPage()
			y = pageTop
		}
		fit := int((bottom - y + 1e-9) / lineHeight)
		if fit > len(lines) {
			fit = len(lines)
		}
		c.Text(strings.Join(lines[:fit], "\n"), x, y, opts)
		y += float64(fit) * lineHeight
		lines = lines[fit:]
	}
	return y
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
