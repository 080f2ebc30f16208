package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 99, G: 102, B: 241, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseHexColor(t *testing.T) {
	c, ok := ParseHexColor("#6366f1")
	assert.True(t, ok)
	assert.Equal(t, RGB{R: 99, G: 102, B: 241}, c)

	c, ok = ParseHexColor("fff")
	assert.True(t, ok)
	assert.Equal(t, RGB{R: 255, G: 255, B: 255}, c)

	_, ok = ParseHexColor("rgba(255, 255, 255, 0.9)")
	assert.False(t, ok)

	_, ok = ParseHexColor("#zzzzzz")
	assert.False(t, ok)
}

func TestCoreFamily(t *testing.T) {
	assert.Equal(t, "Helvetica", CoreFamily("Helvetica"))
	assert.Equal(t, "Helvetica", CoreFamily("Inter"))
	assert.Equal(t, "Times", CoreFamily("Times-Roman"))
	assert.Equal(t, "Courier", CoreFamily(" courier "))
}

func TestDocumentOutput(t *testing.T) {
	doc := NewDocument(DefaultOptions())
	doc.SetFont("Helvetica", true, 18)
	doc.SetFillColor("#6366f1")
	doc.RoundedRect(50, 50, 200, 40, 6, StyleFillStroke)
	doc.Text("Order Items ₹104.29", 50, 100, TextOptions{Width: 200})
	doc.Line(50, 130, 545, 130)
	doc.AddPage()
	doc.Text("second page", 50, 50, TextOptions{})

	assert.Equal(t, 2, doc.PageCount())

	out, err := doc.OutputToBytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDocumentHeightOfString(t *testing.T) {
	doc := NewDocument(DefaultOptions())
	doc.SetFont("Helvetica", false, 10)

	one := doc.HeightOfString("short", 200)
	assert.InDelta(t, 11.5, one, 0.001)

	long := doc.HeightOfString("Flat 12, Sunrise Apartments, Linking Road, Bandra West, near the old post office", 100)
	assert.Greater(t, long, one)

	assert.InDelta(t, 2*one, doc.HeightOfString("Price\nbefore tax", 200), 0.001)
}

func TestDocumentSplitText(t *testing.T) {
	doc := NewDocument(DefaultOptions())
	doc.SetFont("Helvetica", false, 10)

	txt := strings.Repeat("Please handle with care. ", 40)
	lines := doc.SplitText(txt, 200)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, doc.stringWidth(line), 200.0)
	}
	assert.Equal(t, strings.Fields(txt), strings.Fields(strings.Join(lines, " ")))
	assert.InDelta(t, float64(len(lines))*11.5, doc.HeightOfString(txt, 200), 0.001)

	word := strings.Repeat("x", 300)
	broken := doc.SplitText(word, 100)
	require.Greater(t, len(broken), 1)
	assert.Equal(t, word, strings.Join(broken, ""))
}

func TestDocumentImage(t *testing.T) {
	doc := NewDocument(DefaultOptions())

	err := doc.Image(pngBytes(t, 40, 20), 445, 30, ImageBox{Width: 100, Height: 80, Align: AlignRight})
	require.NoError(t, err)

	out, err := doc.OutputToBytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDocumentImageFailureKeepsDocumentUsable(t *testing.T) {
	doc := NewDocument(DefaultOptions())

	err := doc.Image([]byte("definitely not an image"), 0, 0, ImageBox{Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	assert.ErrorIs(t, doc.Image(nil, 0, 0, ImageBox{}), ErrEmptyImage)

	assert.NoError(t, doc.Err())
	doc.Text("still drawing", 50, 50, TextOptions{})
	_, err = doc.OutputToBytes()
	assert.NoError(t, err)
}

func TestFitInto(t *testing.T) {
	w, h := fitInto(200, 100, 100, 80)
	assert.InDelta(t, 100, w, 0.001)
	assert.InDelta(t, 50, h, 0.001)

	w, h = fitInto(0, 0, 115, 40)
	assert.Equal(t, 115.0, w)
	assert.Equal(t, 40.0, h)
}
