// Package label glues the layout plan, a renderer backend and an encoder together.
package label

import (
	"fmt"
	"image"
	"reflect"

	"github.com/ByLCY/iconlabel/encode"
	"github.com/ByLCY/iconlabel/layout"
	"github.com/ByLCY/iconlabel/renderer"
)

// Composer 生成"图标 + 折行标题"标签。
// Renderer 同时提供测量，Options.Metrics 为空时使用 Renderer 本身。
type Composer struct {
	Renderer renderer.Renderer
	Options  layout.ComposeOptions
}

// New 使用默认间距与配色创建 Composer。
func New(r renderer.Renderer) *Composer {
	return &Composer{Renderer: r, Options: layout.DefaultComposeOptions(r)}
}

// Plan 只计算布局方案，不绘制。
func (c *Composer) Plan(glyph image.Image, caption string, font layout.FontDescriptor, maxLineWidth float64) (*layout.Label, error) {
	if c.Renderer == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	if isNilImage(glyph) {
		return nil, fmt.Errorf("%w: 图标为空", layout.ErrInvalidDimension)
	}
	opts := c.Options
	if opts.Metrics == nil {
		opts.Metrics = c.Renderer
	}
	plan, err := layout.Compose(glyph.Bounds().Size(), caption, font, maxLineWidth, opts)
	if err != nil {
		return nil, err
	}
	log := Logger()
	if plan.Diverged() {
		log.Warn("试排与最终排版行数不一致，以最终排版为准",
			"caption", caption,
			"provisional", plan.ProvisionalLines,
			"render", plan.RenderLines,
			"width", plan.Width)
	}
	log.Debug("标签布局完成", "caption", caption, "size", plan.String())
	return plan, nil
}

// Compose 计算布局并绘制，返回尺寸与方案完全一致的画布。出错时不会调用渲染。
func (c *Composer) Compose(glyph image.Image, caption string, font layout.FontDescriptor, maxLineWidth float64) (renderer.Canvas, error) {
	plan, err := c.Plan(glyph, caption, font, maxLineWidth)
	if err != nil {
		return nil, err
	}
	return c.Render(plan, glyph)
}

// Render 按已有方案绘制。
func (c *Composer) Render(plan *layout.Label, glyph image.Image) (renderer.Canvas, error) {
	canvas, err := c.Renderer.Render(plan, glyph)
	if err != nil {
		return nil, fmt.Errorf("渲染标签失败: %w", err)
	}
	return canvas, nil
}

// Encode 合成并编码为字节。
func (c *Composer) Encode(glyph image.Image, caption string, font layout.FontDescriptor, maxLineWidth float64, enc encode.Encoder) ([]byte, error) {
	if enc == nil {
		enc = encode.PNG{}
	}
	canvas, err := c.Compose(glyph, caption, font, maxLineWidth)
	if err != nil {
		return nil, err
	}
	return encode.Bytes(enc, canvas)
}

// isNilImage 同时识别 nil 接口与 (*image.RGBA)(nil) 这类带类型的 nil 指针。
func isNilImage(img image.Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// ForStyle 按样式文件中的间距与颜色创建 Composer。
func ForStyle(r renderer.Renderer, style layout.Style) *Composer {
	opts := style.Compose
	opts.Metrics = r
	return &Composer{Renderer: r, Options: opts}
}
