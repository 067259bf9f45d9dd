package layout

import (
	"image"
	"image/color"
)

// 该文件定义排版结果与标签布局方案，供排版、渲染与调试 JSON 共用。
// 所有长度均以像素为单位（浮点数，画布尺寸除外）。

// FontDescriptor 描述绘制标题所用的字体。
// Src 可以是文件路径、embed:<name> 内置字体或 built-in:<name> 注入字体。
type FontDescriptor struct {
	Name     string  `json:"name"`
	Src      string  `json:"src"`
	Style    string  `json:"style,omitempty"`
	Size     float64 `json:"size"` // px
	Fallback string  `json:"fallback,omitempty"`
}

// Key 返回可用于缓存的字体标识。Fallback 也参与其中：
// 同一 Src 在有无后备字体时可能解析到不同的字体，甚至失败。
func (f FontDescriptor) Key() string {
	return f.Name + "|" + f.Src + "|" + f.Style + "|" + formatFloat(f.Size) + "|" + f.Fallback
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA implements color.Color (alpha-premultiplied, like color.NRGBA).
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Ink   = Color{R: 30, G: 30, B: 30, A: 255}
)

// Line 表示一行折行后的标题文本。
type Line struct {
	Words   []Word  `json:"words"`
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// LayoutResult 是一次排版（layout pass）的结果。
type LayoutResult struct {
	Lines  []Line  `json:"lines"`
	Height float64 `json:"height"` // 各行高度之和 + 尾部留白；无行时为 0
}

// Width 返回最宽一行的宽度。
func (r *LayoutResult) Width() float64 {
	w := 0.0
	for _, ln := range r.Lines {
		if ln.Width > w {
			w = ln.Width
		}
	}
	return w
}

// Contents 返回各行文本，便于测试与调试。
func (r *LayoutResult) Contents() []string {
	out := make([]string, len(r.Lines))
	for i, ln := range r.Lines {
		out[i] = ln.Content
	}
	return out
}

// PlacedLine 是已经确定坐标的一行，X/Y 为行框左上角。
type PlacedLine struct {
	Line
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Label 是标签的完整布局方案：画布尺寸、图标位置与各行坐标。
// 渲染器只按方案绘制，不再做任何测量或折行决策。
type Label struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Glyph  image.Rectangle `json:"glyph"`
	Lines  []PlacedLine    `json:"lines"`
	Font   FontDescriptor  `json:"font"`

	Background Color `json:"background"`
	Foreground Color `json:"foreground"`

	// 两次排版的行数；二者不一致时以 RenderLines 为准。
	ProvisionalLines int `json:"provisionalLines"`
	RenderLines      int `json:"renderLines"`

	Block float64 `json:"block"` // 渲染排版的文本块总高度
}
