package renderer

import (
	"image"
	"io"

	"github.com/ByLCY/iconlabel/layout"
)

// Renderer 按布局方案分配画布并绘制图标与标题。
// 同一个 Renderer 同时充当排版阶段的 FontMetrics，保证测量与绘制使用同一套字体。
type Renderer interface {
	layout.FontMetrics
	Render(label *layout.Label, glyph image.Image) (Canvas, error)
}

// Canvas 是绘制完成的画布，尺寸与布局方案完全一致。
type Canvas interface {
	Size() (width, height int)
	Image() image.Image
}

// VectorCanvas 由矢量后端实现，可直接输出 PDF / SVG。
type VectorCanvas interface {
	Canvas
	WritePDF(w io.Writer) error
	WriteSVG(w io.Writer) error
}
