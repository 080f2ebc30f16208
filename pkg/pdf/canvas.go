package pdf

import (
	"io"
)

// Style selects how a closed shape is painted
type Style string

const (
	StyleFill       Style = "F"
	StyleStroke     Style = "D"
	StyleFillStroke Style = "FD"
)

// Align is the horizontal alignment of text inside its box
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// TextOptions controls placement of a text block
type TextOptions struct {
	Width     float64 // wrap width; 0 wraps at the right page margin
	Align     Align
	MaxHeight float64 // lines that would exceed this height are dropped; 0 means unlimited
}

// ImageBox is the area an image is fitted into, keeping its aspect ratio
type ImageBox struct {
	Width  float64
	Height float64
	Align  Align
}

// Canvas is a single-use, append-only drawing surface.
// Coordinates are in points with the origin at the top-left of the current page.
// Text is placed by the top of its first line.
type Canvas interface {
	PageSize() (width, height float64)
	AddPage()
	PageCount() int

	SetFont(family string, bold bool, size float64)
	SetFillColor(hex string)
	SetStrokeColor(hex string)
	SetTextColor(hex string)
	SetLineWidth(width float64)

	Rect(x, y, w, h float64, style Style)
	RoundedRect(x, y, w, h, r float64, style Style)
	Line(x1, y1, x2, y2 float64)
	Text(txt string, x, y float64, opts TextOptions)
	HeightOfString(txt string, width float64) float64
	// SplitText wraps txt to width with the current font, the way Text
	// lays it out. Joining the lines with newlines yields the same layout.
	SplitText(txt string, width float64) []string

	// Image draws an encoded PNG, JPEG or GIF. A decode failure is returned
	// and leaves the canvas usable.
	Image(data []byte, x, y float64, box ImageBox) error

	// Err reports the first drawing error; once set, later drawing is ignored.
	Err() error

	// Output finalizes the document and writes it to w. It must be called once.
	Output(w io.Writer) error
}
