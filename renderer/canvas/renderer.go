package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/iconlabel/fonts"
	"github.com/ByLCY/iconlabel/layout"
	"github.com/ByLCY/iconlabel/renderer"
)

// 约定：画布 1 个单位（canvas 内部的 mm）对应 1 像素；创建字体面时字号需要 pt，
// 因此在边界做一次 px→pt 换算，使 TextWidth 与 Metrics 返回的值直接是像素。
const mmToPt = 72.0 / 25.4

// Renderer draws labels via github.com/tdewolff/canvas and can emit PNG, PDF or SVG.
type Renderer struct {
	resolver fonts.Resolver

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer     = (*Renderer)(nil)
	_ renderer.VectorCanvas = (*Canvas)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string][]byte // built-in fonts accessible via built-in:<name>
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	blobs := map[string][]byte{}
	for name, data := range opts.Fonts {
		if name == "" || len(data) == 0 {
			continue
		}
		blobs[name] = data
	}
	return &Renderer{
		resolver:     fonts.Resolver{BaseDir: opts.BaseDir, Blobs: blobs},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Measure 实现 layout.FontMetrics：宽度取 TextWidth，高度取字体行高。
func (r *Renderer) Measure(text string, font layout.FontDescriptor) (float64, float64, error) {
	face, err := r.fontFace(font, layout.Ink)
	if err != nil {
		return 0, 0, err
	}
	return face.TextWidth(text), face.Metrics().LineHeight, nil
}

// Render 按布局方案绘制：背景、图标、逐行标题。
func (r *Renderer) Render(label *layout.Label, glyph image.Image) (renderer.Canvas, error) {
	if label == nil {
		return nil, fmt.Errorf("布局方案为空")
	}
	if label.Width <= 0 || label.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸 %dx%d 无效", label.Width, label.Height)
	}

	w, h := float64(label.Width), float64(label.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	ctx.SetFillColor(colorFromLayout(label.Background))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	if err := r.drawGlyph(ctx, label.Glyph, glyph); err != nil {
		return nil, err
	}
	if err := r.drawLines(ctx, label); err != nil {
		return nil, err
	}
	return &Canvas{c: c, width: label.Width, height: label.Height}, nil
}

func (r *Renderer) drawGlyph(ctx *canvas.Context, rect image.Rectangle, glyph image.Image) error {
	if glyph == nil {
		return nil
	}
	b := glyph.Bounds()
	if b.Empty() || rect.Empty() {
		return fmt.Errorf("图标尺寸无效: %v", b.Size())
	}
	// 图标像素按方案中的矩形缩放
	dpmm := float64(b.Dx()) / float64(rect.Dx())
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(float64(rect.Min.X), float64(rect.Min.Y), glyph, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) drawLines(ctx *canvas.Context, label *layout.Label) error {
	if len(label.Lines) == 0 {
		return nil
	}
	face, err := r.fontFace(label.Font, label.Foreground)
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent
	for _, ln := range label.Lines {
		// 基线位置：以行顶部加上字体上升部
		ctx.DrawText(ln.X, ln.Y+ascent, canvas.NewTextLine(face, ln.Content, canvas.Left))
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontDescriptor, col layout.Color) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, fmt.Errorf("字号 %g 无效", font.Size)
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size*mmToPt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontDescriptor) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Caption"
	}
	family := canvas.NewFontFamily(familyName)

	err := r.loadFontIntoFamily(family, font.Src, style)
	if err != nil && font.Fallback != "" {
		// 只使用显式声明的备用字体，不做隐式回退
		family = canvas.NewFontFamily(familyName + "-fallback")
		err = r.loadFontIntoFamily(family, font.Fallback, style)
	}
	if err != nil {
		return nil, canvas.FontRegular, err
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, src string, style canvas.FontStyle) error {
	data, err := r.resolver.Bytes(src)
	if err != nil {
		return err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	return nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontDescriptor) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Name, font.Src, font.Style, font.Fallback)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}

// Canvas 是 tdewolff/canvas 绘制结果；位图在首次访问时光栅化。
type Canvas struct {
	c             *canvas.Canvas
	width, height int

	once sync.Once
	img  *image.RGBA
}

// Size implements renderer.Canvas.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Image rasterizes the canvas at one pixel per unit.
func (c *Canvas) Image() image.Image {
	c.once.Do(func() {
		c.img = rasterizer.Draw(c.c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	})
	return c.img
}

// WritePDF writes the label as a single-page PDF.
func (c *Canvas) WritePDF(w io.Writer) error {
	writer := pdf.New(w, c.c.W, c.c.H, nil)
	c.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// WriteSVG writes the label as an SVG document.
func (c *Canvas) WriteSVG(w io.Writer) error {
	writer := svg.New(w, c.c.W, c.c.H, nil)
	c.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return nil
}

// PDF 便于调试时直接获取字节。
func (c *Canvas) PDF() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WritePDF(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
