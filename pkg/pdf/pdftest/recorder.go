// Package pdftest provides a recording pdf.Canvas for layout tests.
package pdftest

import (
	"io"
	"math"
	"strings"

	"invoice-pdf/invoice-pdf-backend/pkg/pdf"
)

// Op kinds
const (
	OpRect        = "rect"
	OpRoundedRect = "rounded_rect"
	OpLine        = "line"
	OpText        = "text"
	OpImage       = "image"
	OpPage        = "page"
)

// Op is one recorded drawing call
type Op struct {
	Kind  string
	Page  int
	Text  string
	X     float64
	Y     float64
	W     float64
	H     float64
	Style pdf.Style
	Align pdf.Align
	Fill  string
	Color string
	Bold  bool
	Size  float64
}

// Recorder implements pdf.Canvas by recording every call.
// Text metrics are deterministic: each rune is half the font size wide and a
// line is LineSpacing times the font size high.
type Recorder struct {
	Ops []Op

	Width       float64
	Height      float64
	LineSpacing float64

	// ImageErr is returned by Image when set
	ImageErr error
	// Fail makes Err and Output report this error
	Fail error

	pages     int
	bold      bool
	size      float64
	fill      string
	stroke    string
	textColor string
	outputs   int
}

var _ pdf.Canvas = (*Recorder)(nil)

// New returns a recorder sized as an A4 page in points
func New() *Recorder {
	return &Recorder{
		Width:       595.28,
		Height:      841.89,
		LineSpacing: 1.15,
		pages:       1,
		size:        11,
	}
}

func (r *Recorder) PageSize() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) AddPage() {
	r.pages++
	r.Ops = append(r.Ops, Op{Kind: OpPage, Page: r.pages})
}

func (r *Recorder) PageCount() int { return r.pages }

func (r *Recorder) SetFont(family string, bold bool, size float64) {
	r.bold = bold
	r.size = size
}

func (r *Recorder) SetFillColor(hex string)   { r.fill = hex }
func (r *Recorder) SetStrokeColor(hex string) { r.stroke = hex }
func (r *Recorder) SetTextColor(hex string)   { r.textColor = hex }
func (r *Recorder) SetLineWidth(float64)      {}

func (r *Recorder) Rect(x, y, w, h float64, style pdf.Style) {
	r.record(Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Style: style, Fill: r.fill, Color: r.stroke})
}

func (r *Recorder) RoundedRect(x, y, w, h, _ float64, style pdf.Style) {
	r.record(Op{Kind: OpRoundedRect, X: x, Y: y, W: w, H: h, Style: style, Fill: r.fill, Color: r.stroke})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.record(Op{Kind: OpLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Color: r.stroke})
}

func (r *Recorder) Text(txt string, x, y float64, opts pdf.TextOptions) {
	r.record(Op{
		Kind:  OpText,
		Text:  txt,
		X:     x,
		Y:     y,
		W:     opts.Width,
		Align: opts.Align,
		Color: r.textColor,
		Bold:  r.bold,
		Size:  r.size,
	})
}

func (r *Recorder) HeightOfString(txt string, width float64) float64 {
	return float64(r.lineCount(txt, width)) * r.LineHeight()
}

func (r *Recorder) Image(data []byte, x, y float64, box pdf.ImageBox) error {
	if r.ImageErr != nil {
		return r.ImageErr
	}
	r.record(Op{Kind: OpImage, X: x, Y: y, W: box.Width, H: box.Height, Align: box.Align})
	return nil
}

func (r *Recorder) Err() error { return r.Fail }

func (r *Recorder) Output(w io.Writer) error {
	r.outputs++
	if r.Fail != nil {
		return r.Fail
	}
	_, err := io.WriteString(w, "%PDF-recorded\n")
	return err
}

// Outputs returns how many times Output was called
func (r *Recorder) Outputs() int { return r.outputs }

// LineHeight is the height of one line at the current font size
func (r *Recorder) LineHeight() float64 {
	return r.size * r.LineSpacing
}

// Texts returns every string drawn, in order
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// FindText returns the first text op containing substr
func (r *Recorder) FindText(substr string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == OpText && strings.Contains(op.Text, substr) {
			return op, true
		}
	}
	return Op{}, false
}

// HasText reports whether any drawn text contains substr
func (r *Recorder) HasText(substr string) bool {
	_, ok := r.FindText(substr)
	return ok
}

// OfKind returns all ops of the given kind
func (r *Recorder) OfKind(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Count returns the number of ops of the given kind
func (r *Recorder) Count(kind string) int {
	return len(r.OfKind(kind))
}

func (r *Recorder) record(op Op) {
	op.Page = r.pages
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) lineCount(txt string, width float64) int {
	return len(r.SplitText(txt, width))
}

// SplitText breaks every paragraph into lines of as many runes as fit width
func (r *Recorder) SplitText(txt string, width float64) []string {
	perLine := 0
	if width > 0 {
		perLine = int(math.Floor(width/(r.size*0.5) + 1e-9))
		if perLine < 1 {
			perLine = 1
		}
	}

	var lines []string
	for _, paragraph := range strings.Split(txt, "\n") {
		runes := []rune(paragraph)
		for perLine > 0 && len(runes) > perLine {
			lines = append(lines, string(runes[:perLine]))
			runes = runes[perLine:]
		}
		lines = append(lines, string(runes))
	}
	return lines
}
