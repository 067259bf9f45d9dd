// Package raster draws labels straight into an *image.RGBA using golang.org/x/image
// font faces. Widths are measured with the same face that draws the text.
package raster

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/iconlabel/fonts"
	"github.com/ByLCY/iconlabel/layout"
	"github.com/ByLCY/iconlabel/renderer"
)

// Renderer measures and draws captions with x/image font faces.
// font.Face is not safe for concurrent use: Measure shares cached faces under mu,
// while Render draws with a face of its own so concurrent renders do not serialize.
type Renderer struct {
	resolver fonts.Resolver
	face     font.Face

	mu     sync.Mutex
	parsed map[string]*opentype.Font
	faces  map[string]font.Face
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Canvas   = (*Canvas)(nil)
)

// Options configures the raster renderer.
type Options struct {
	BaseDir string
	Fonts   map[string][]byte // built-in:<name> fonts
	// Face, when set, is used for every descriptor (e.g. basicfont.Face7x13 in tests).
	Face font.Face
}

// New creates a raster renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		resolver: fonts.Resolver{BaseDir: opts.BaseDir, Blobs: opts.Fonts},
		face:     opts.Face,
		parsed:   map[string]*opentype.Font{},
		faces:    map[string]font.Face{},
	}
}

// Measure implements layout.FontMetrics.
func (r *Renderer) Measure(text string, fd layout.FontDescriptor) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	face, err := r.faceLocked(fd)
	if err != nil {
		return 0, 0, err
	}
	return toFloat(font.MeasureString(face, text)), toFloat(face.Metrics().Height), nil
}

// Render allocates a canvas of exactly label.Width x label.Height, fills the
// background, draws the glyph and then every placed line.
func (r *Renderer) Render(label *layout.Label, glyph image.Image) (renderer.Canvas, error) {
	if label == nil {
		return nil, fmt.Errorf("布局方案为空")
	}
	if label.Width <= 0 || label.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸 %dx%d 无效", label.Width, label.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, label.Width, label.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(label.Background), image.Point{}, draw.Src)
	if glyph != nil {
		draw.Draw(img, label.Glyph, glyph, glyph.Bounds().Min, draw.Over)
	}
	if len(label.Lines) == 0 {
		return &Canvas{img: img}, nil
	}

	face, release, err := r.drawFace(label.Font)
	if err != nil {
		return nil, err
	}
	defer release()
	ascent := face.Metrics().Ascent
	ink := image.NewUniform(label.Foreground)
	for _, ln := range label.Lines {
		d := &font.Drawer{
			Dst:  img,
			Src:  ink,
			Face: face,
			Dot:  fixed.Point26_6{X: toFixed(ln.X), Y: toFixed(ln.Y) + ascent},
		}
		d.DrawString(ln.Content)
	}
	return &Canvas{img: img}, nil
}

// drawFace 返回一次绘制专用的 face 与释放函数。
// 解析后的 opentype.Font 可以并发使用，因此只在查找字体时持有 mu；
// 注入的 Options.Face 是共享的，绘制期间需要一直持锁。
func (r *Renderer) drawFace(fd layout.FontDescriptor) (font.Face, func(), error) {
	r.mu.Lock()
	if r.face != nil {
		return r.face, r.mu.Unlock, nil
	}
	f, err := r.fontLocked(fd)
	r.mu.Unlock()
	if err != nil {
		return nil, nil, err
	}
	face, err := newFace(f, fd)
	if err != nil {
		return nil, nil, err
	}
	return face, func() { face.Close() }, nil
}

func (r *Renderer) faceLocked(fd layout.FontDescriptor) (font.Face, error) {
	if r.face != nil {
		return r.face, nil
	}
	key := fd.Key()
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	f, err := r.fontLocked(fd)
	if err != nil {
		return nil, err
	}
	face, err := newFace(f, fd)
	if err != nil {
		return nil, err
	}
	r.faces[key] = face
	return face, nil
}

// fontLocked 解析 Src；只有显式指定 Fallback 时才会退回后备字体。
func (r *Renderer) fontLocked(fd layout.FontDescriptor) (*opentype.Font, error) {
	if fd.Size <= 0 {
		return nil, fmt.Errorf("字号 %g 无效", fd.Size)
	}
	f, err := r.parsedLocked(fd.Src)
	if err != nil && fd.Fallback != "" {
		f, err = r.parsedLocked(fd.Fallback)
	}
	return f, err
}

func newFace(f *opentype.Font, fd layout.FontDescriptor) (font.Face, error) {
	// DPI 72 时 Size 即像素。
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fd.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建字体 %s 失败: %w", fd.Src, err)
	}
	return face, nil
}

func (r *Renderer) parsedLocked(src string) (*opentype.Font, error) {
	if f, ok := r.parsed[src]; ok {
		return f, nil
	}
	data, err := r.resolver.Bytes(src)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	r.parsed[src] = f
	return f, nil
}

// Canvas is a finished raster label.
type Canvas struct {
	img *image.RGBA
}

// Size implements renderer.Canvas.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image implements renderer.Canvas.
func (c *Canvas) Image() image.Image { return c.img }

// RGBA exposes the underlying pixel buffer.
func (c *Canvas) RGBA() *image.RGBA { return c.img }

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v*64 + 0.5) }
