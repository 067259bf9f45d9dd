package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/iconlabel/layout"
)

func solidGlyph(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestMeasureGrowsWithText(t *testing.T) {
	r := NewRenderer("")
	font := layout.DefaultFont()

	short, h, err := r.Measure("doc", font)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	long, _, err := r.Measure("document.pdf", font)
	if err != nil {
		t.Fatalf("Measure error: %v", err)
	}
	if short <= 0 || h <= 0 {
		t.Fatalf("expected positive metrics, got %gx%g", short, h)
	}
	if long <= short {
		t.Fatalf("longer text should be wider: %g <= %g", long, short)
	}
	// 行高应与像素字号同量级
	if h < font.Size*0.8 || h > font.Size*2 {
		t.Fatalf("line height %g not in pixel scale for size %g", h, font.Size)
	}
}

// 第一行宽度恰好等于限宽时仍应放在同一行，下一词换到新行。
func TestWrapInclusiveBoundaryWithRealFont(t *testing.T) {
	r := NewRenderer("")
	font := layout.DefaultFont()

	first := "SAMPLE-A"
	limit, _, err := r.Measure(first, font)
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	res, err := layout.Wrap(first+" SAMPLE-B", font, limit, layout.WrapOptions{Metrics: r})
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	got := res.Contents()
	if len(got) != 2 || got[0] != first || got[1] != "SAMPLE-B" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestMeasureRejectsBadFont(t *testing.T) {
	r := NewRenderer("")
	if _, _, err := r.Measure("x", layout.FontDescriptor{Src: "embed:missing", Size: 13}); err == nil {
		t.Fatalf("expected error for unknown embedded font")
	}
	if _, _, err := r.Measure("x", layout.FontDescriptor{Src: "embed:goregular"}); err == nil {
		t.Fatalf("expected error for zero size")
	}
	font := layout.FontDescriptor{Src: "embed:missing", Fallback: "embed:gomono", Size: 13}
	if _, _, err := r.Measure("x", font); err != nil {
		t.Fatalf("explicit fallback should load: %v", err)
	}
}

func TestRenderMatchesPlan(t *testing.T) {
	r := NewRenderer("")
	red := color.RGBA{R: 255, A: 255}
	label, err := layout.Compose(image.Pt(48, 48), "quarterly report final", layout.DefaultFont(), 120, layout.DefaultComposeOptions(r))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	c, err := r.Render(label, solidGlyph(48, 48, red))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	w, h := c.Size()
	if w != label.Width || h != label.Height {
		t.Fatalf("canvas %dx%d, plan %dx%d", w, h, label.Width, label.Height)
	}

	img := c.Image()
	if b := img.Bounds(); b.Dx() != label.Width || b.Dy() != label.Height {
		t.Fatalf("rasterized %v, plan %dx%d", b, label.Width, label.Height)
	}
	corner := color.RGBAModel.Convert(img.At(0, img.Bounds().Dy()-1)).(color.RGBA)
	if corner.R < 250 || corner.G < 250 || corner.B < 250 {
		t.Fatalf("background should be white, got %v", corner)
	}
	mid := label.Glyph.Min.Add(image.Pt(24, 24))
	px := color.RGBAModel.Convert(img.At(mid.X, mid.Y)).(color.RGBA)
	if px.R < 200 || px.G > 50 || px.B > 50 {
		t.Fatalf("glyph centre should be red, got %v", px)
	}
}

func TestRenderVectorOutputs(t *testing.T) {
	r := NewRenderer("")
	label, err := layout.Compose(image.Pt(32, 32), "notes.txt", layout.DefaultFont(), 200, layout.DefaultComposeOptions(r))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	rc, err := r.Render(label, solidGlyph(32, 32, color.Black))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	c := rc.(*Canvas)

	pdfBytes, err := c.PDF()
	if err != nil {
		t.Fatalf("PDF error: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("unexpected PDF header: %q", pdfBytes[:min(8, len(pdfBytes))])
	}

	var svgBuf bytes.Buffer
	if err := c.WriteSVG(&svgBuf); err != nil {
		t.Fatalf("WriteSVG error: %v", err)
	}
	if !strings.Contains(svgBuf.String(), "<svg") {
		t.Fatalf("SVG output missing root element")
	}
}

func TestRenderRejectsInvalidPlan(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil, nil); err == nil {
		t.Fatalf("expected error for nil plan")
	}
	if _, err := r.Render(&layout.Label{Width: 10}, nil); err == nil {
		t.Fatalf("expected error for zero height")
	}
}

func TestParseFontStyle(t *testing.T) {
	if parseFontStyle("") != canvas.FontRegular {
		t.Fatalf("empty style should be regular")
	}
	if parseFontStyle("SemiBold") == parseFontStyle("Bold") {
		t.Fatalf("semibold should differ from bold")
	}
	if parseFontStyle("bold italic")&canvas.FontItalic == 0 {
		t.Fatalf("italic flag missing")
	}
}
