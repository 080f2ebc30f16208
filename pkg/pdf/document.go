package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jung-kurt/gofpdf"
)

var (
	// ErrEmptyImage is returned when an image payload has no bytes
	ErrEmptyImage = errors.New("image data is empty")
	// ErrUnsupportedImage is returned for payloads that are not PNG, JPEG or GIF
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// Options configures the PDF document
type Options struct {
	PageSize    string  `json:"page_size"`   // A4, Letter, Legal
	Orientation string  `json:"orientation"` // portrait, landscape
	Title       string  `json:"title"`
	Author      string  `json:"author,omitempty"`
	Creator     string  `json:"creator,omitempty"`
	LineSpacing float64 `json:"line_spacing"` // line height as a multiple of the font size
	Margins     Margins `json:"margins"`
}

// Margins represents page margins in points
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultOptions returns A4 portrait options with 50pt margins
func DefaultOptions() Options {
	return Options{
		PageSize:    "A4",
		Orientation: "portrait",
		Title:       "Invoice",
		Creator:     "invoice-pdf-backend",
		LineSpacing: 1.15,
		Margins: Margins{
			Left:   50,
			Right:  50,
			Top:    50,
			Bottom: 50,
		},
	}
}

// Document is the gofpdf backed Canvas
type Document struct {
	pdf       *gofpdf.Fpdf
	options   Options
	translate func(string) string
	fontSize  float64
	images    int
}

var _ Canvas = (*Document)(nil)

// NewDocument creates a document with its first page already added.
// Automatic page breaks are disabled: callers paginate explicitly.
func NewDocument(options Options) *Document {
	orientation := "P"
	if options.Orientation == "landscape" {
		orientation = "L"
	}
	if options.LineSpacing <= 0 {
		options.LineSpacing = 1.15
	}

	pdf := gofpdf.New(orientation, "pt", options.PageSize, "")
	pdf.SetMargins(options.Margins.Left, options.Margins.Top, options.Margins.Right)
	pdf.SetAutoPageBreak(false, options.Margins.Bottom)
	pdf.SetTitle(options.Title, true)
	if options.Author != "" {
		pdf.SetAuthor(options.Author, true)
	}
	if options.Creator != "" {
		pdf.SetCreator(options.Creator, true)
	}

	d := &Document{
		pdf:       pdf,
		options:   options,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.AddPage()
	d.SetFont("Helvetica", false, 11)

	return d
}

// PageSize returns the page dimensions in points
func (d *Document) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

// AddPage starts a new page
func (d *Document) AddPage() {
	d.pdf.AddPage()
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// SetFont selects one of the core font families
func (d *Document) SetFont(family string, bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	d.fontSize = size
	d.pdf.SetFont(CoreFamily(family), style, size)
}

func (d *Document) SetFillColor(hex string) {
	c := colorOr(hex, RGB{R: 255, G: 255, B: 255})
	d.pdf.SetFillColor(c.R, c.G, c.B)
}

func (d *Document) SetStrokeColor(hex string) {
	c := colorOr(hex, RGB{})
	d.pdf.SetDrawColor(c.R, c.G, c.B)
}

func (d *Document) SetTextColor(hex string) {
	c := colorOr(hex, RGB{})
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *Document) SetLineWidth(width float64) {
	d.pdf.SetLineWidth(width)
}

func (d *Document) Rect(x, y, w, h float64, style Style) {
	d.pdf.Rect(x, y, w, h, string(style))
}

// RoundedRect draws a rectangle with all four corners rounded by r
func (d *Document) RoundedRect(x, y, w, h, r float64, style Style) {
	r = math.Min(r, math.Min(w, h)/2)
	if r <= 0 {
		d.Rect(x, y, w, h, style)
		return
	}

	// control point distance for a quarter circle
	c := r * 0.5523

	p := d.pdf
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CurveBezierCubicTo(x+w-r+c, y, x+w, y+r-c, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CurveBezierCubicTo(x+w, y+h-r+c, x+w-r+c, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CurveBezierCubicTo(x+r-c, y+h, x, y+h-r+c, x, y+h-r)
	p.LineTo(x, y+r)
	p.CurveBezierCubicTo(x, y+r-c, x+r-c, y, x+r, y)
	p.ClosePath()
	p.DrawPath(string(style))
}

func (d *Document) Line(x1, y1, x2, y2 float64) {
	d.pdf.Line(x1, y1, x2, y2)
}

// Text writes txt wrapped to opts.Width, one cell per line
func (d *Document) Text(txt string, x, y float64, opts TextOptions) {
	width := d.textWidth(x, opts.Width)
	lineHeight := d.lineHeight()

	lines := d.SplitText(txt, width)
	if opts.MaxHeight > 0 {
		maxLines := int(opts.MaxHeight / lineHeight)
		if maxLines < 1 {
			maxLines = 1
		}
		if len(lines) > maxLines {
			lines = lines[:maxLines]
		}
	}

	align := opts.Align
	if align == "" {
		align = AlignLeft
	}

	for i, line := range lines {
		d.pdf.SetXY(x, y+float64(i)*lineHeight)
		d.pdf.CellFormat(width, lineHeight, d.translate(line), "", 0, string(align), false, 0, "")
	}
}

// HeightOfString returns the height txt occupies when wrapped to width with the current font
func (d *Document) HeightOfString(txt string, width float64) float64 {
	return float64(len(d.SplitText(txt, width))) * d.lineHeight()
}

// SplitText wraps txt at word boundaries. Words wider than a line are
// broken between runes. Explicit newlines are kept.
func (d *Document) SplitText(txt string, width float64) []string {
	if width <= 0 {
		width = d.textWidth(d.options.Margins.Left, 0)
	}
	// cells pad their text on both sides
	width -= 2 * d.pdf.GetCellMargin()

	var lines []string
	for _, paragraph := range strings.Split(ReplaceUnsupported(txt), "\n") {
		lines = append(lines, d.wrapParagraph(paragraph, width)...)
	}
	return lines
}

// Image registers and draws an encoded image fitted into box
func (d *Document) Image(data []byte, x, y float64, box ImageBox) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyImage
	}

	imageType, err := detectImageType(data)
	if err != nil {
		return err
	}

	d.images++
	name := fmt.Sprintf("image-%d", d.images)
	options := gofpdf.ImageOptions{ImageType: imageType}

	info := d.pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(data))
	if err := d.pdf.Error(); err != nil {
		// keep the document usable; the caller decides whether to continue
		d.pdf.ClearError()
		return fmt.Errorf("failed to decode %s image: %w", imageType, err)
	}
	if info == nil {
		return fmt.Errorf("failed to register %s image", imageType)
	}

	w, h := fitInto(info.Width(), info.Height(), box.Width, box.Height)
	switch box.Align {
	case AlignRight:
		x += box.Width - w
	case AlignCenter:
		x += (box.Width - w) / 2
	}

	d.pdf.ImageOptions(name, x, y, w, h, false, options, 0, "")
	return d.pdf.Error()
}

// Err returns the first error recorded by gofpdf
func (d *Document) Err() error {
	return d.pdf.Error()
}

// Output closes the document and writes it to w
func (d *Document) Output(w io.Writer) error {
	return d.pdf.Output(w)
}

// OutputToBytes returns the PDF as bytes
func (d *Document) OutputToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) lineHeight() float64 {
	return d.fontSize * d.options.LineSpacing
}

func (d *Document) textWidth(x, width float64) float64 {
	if width > 0 {
		return width
	}
	pageWidth, _ := d.pdf.GetPageSize()
	return pageWidth - d.options.Margins.Right - x
}

func (d *Document) wrapParagraph(paragraph string, width float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if d.stringWidth(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		for word != "" && d.stringWidth(word) > width {
			cut := d.fitPrefix(word, width)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func (d *Document) stringWidth(s string) float64 {
	return d.pdf.GetStringWidth(d.translate(s))
}

// fitPrefix returns the byte length of the longest prefix of s that fits
// width, never less than one rune
func (d *Document) fitPrefix(s string, width float64) int {
	cut := 0
	for i, r := range s {
		end := i + utf8.RuneLen(r)
		if cut > 0 && d.stringWidth(s[:end]) > width {
			break
		}
		cut = end
	}
	return cut
}

// CoreFamily maps a configured font family onto a PDF core font.
// Families without a core equivalent use Helvetica.
func CoreFamily(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "times", "times-roman", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// ReplaceUnsupported rewrites characters the core fonts cannot encode
func ReplaceUnsupported(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs.")
}

func detectImageType(data []byte) (string, error) {
	mime := mimetype.Detect(data)
	switch {
	case mime.Is("image/png"):
		return "png", nil
	case mime.Is("image/jpeg"):
		return "jpg", nil
	case mime.Is("image/gif"):
		return "gif", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime.String())
	}
}

// fitInto scales (w, h) to fit inside (maxW, maxH)
func fitInto(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := math.Min(maxW/w, maxH/h)
	return w * scale, h * scale
}
