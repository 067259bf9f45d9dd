package layout

import (
	"fmt"
	"image"
	"math"
)

// Compose 计算标签的布局方案：先以 maxLineWidth 做一次试排得到行数与单行宽度，
// 据此确定画布宽度，再以最终宽度重新排版。最终排版的结果决定画布高度与绘制内容。
//
// glyph 为图标尺寸（像素）。空标题时画布高度为 glyph 高度加底部留白。
func Compose(glyph image.Point, caption string, font FontDescriptor, maxLineWidth float64, opts ComposeOptions) (*Label, error) {
	if !validLength(maxLineWidth) {
		return nil, invalidDimension("最大行宽 %g 必须为正数", maxLineWidth)
	}
	if glyph.X <= 0 || glyph.Y <= 0 {
		return nil, invalidDimension("图标尺寸 %dx%d 无效", glyph.X, glyph.Y)
	}
	limit := math.Floor(maxLineWidth)
	if float64(glyph.X) > limit {
		return nil, invalidDimension("图标宽度 %d 超过最大行宽 %g", glyph.X, maxLineWidth)
	}
	// 按固定顺序检查，多项无效时总是报告第一项
	for _, opt := range []struct {
		name  string
		value float64
	}{
		{"min-width", opts.MinWidth},
		{"gap", opts.VerticalGap},
		{"margin-bottom", opts.BottomMargin},
	} {
		if v := opt.value; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidDimension("%s 不能为 %g", opt.name, v)
		}
	}

	tokens := Tokenize(caption)
	wrapOpts := opts.wrapOptions()

	provisional, err := WrapCaption(tokens, font, maxLineWidth, wrapOpts)
	if err != nil {
		return nil, err
	}

	width := float64(glyph.X)
	switch len(provisional.Lines) {
	case 0:
	case 1:
		width = math.Max(width, provisional.Lines[0].Width)
	default:
		width = limit
	}
	width = math.Max(width, opts.MinWidth)
	width = math.Min(math.Ceil(width), limit)

	final, err := WrapCaption(tokens, font, width, wrapOpts)
	if err != nil {
		return nil, err
	}

	label := &Label{
		Width:            int(width),
		Font:             font,
		Background:       opts.Background,
		Foreground:       opts.Foreground,
		ProvisionalLines: len(provisional.Lines),
		RenderLines:      len(final.Lines),
		Block:            final.Height,
	}
	label.Glyph = image.Rect(0, 0, glyph.X, glyph.Y).Add(image.Pt((label.Width-glyph.X)/2, 0))

	height := float64(glyph.Y) + opts.BottomMargin
	if len(final.Lines) > 0 {
		height += opts.VerticalGap + final.Height
	}
	label.Height = int(math.Ceil(height))
	if label.Height <= 0 || label.Width <= 0 {
		return nil, invalidDimension("画布尺寸 %dx%d 无效", label.Width, label.Height)
	}

	cursor := float64(glyph.Y) + opts.VerticalGap
	for _, ln := range final.Lines {
		label.Lines = append(label.Lines, PlacedLine{
			Line: ln,
			X:    (width - ln.Width) / 2,
			Y:    cursor,
		})
		cursor += ln.Height
	}
	return label, nil
}

// Diverged reports whether the provisional pass predicted a different line count
// than the pass that was actually rendered.
func (l *Label) Diverged() bool { return l.ProvisionalLines != l.RenderLines }

// String 返回简短描述，便于日志输出。
func (l *Label) String() string {
	return fmt.Sprintf("%dx%d, %d 行", l.Width, l.Height, len(l.Lines))
}
