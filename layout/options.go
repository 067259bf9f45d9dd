package layout

// FontMetrics 负责测量一段文本在给定字体下的渲染宽度与行高（像素）。
// 实现必须可并发调用；排版引擎不会缓存测量结果。
type FontMetrics interface {
	Measure(text string, font FontDescriptor) (width, height float64, err error)
}

// WrapOptions 配置单次排版所需的依赖。
type WrapOptions struct {
	Metrics        FontMetrics
	TrailingMargin float64 // 文本块末尾的固定留白，仅在至少有一行时计入
}

// ComposeOptions 配置标签布局的间距与颜色。
type ComposeOptions struct {
	Metrics FontMetrics

	MinWidth       float64 // 画布最小宽度
	VerticalGap    float64 // 图标与第一行文本之间的间距
	BottomMargin   float64 // 画布底部留白
	TrailingMargin float64

	Background Color
	Foreground Color
}

// Default layout constants, in pixels.
const (
	DefaultMaxLineWidth = 200.0
	DefaultMinWidth     = 96.0
	DefaultVerticalGap  = 5.0
	DefaultBottomMargin = 6.0
	DefaultFontSize     = 13.0
	DefaultFontSrc      = "embed:goregular"
)

// DefaultComposeOptions 返回默认间距与配色（白底深色字）。
func DefaultComposeOptions(m FontMetrics) ComposeOptions {
	return ComposeOptions{
		Metrics:      m,
		MinWidth:     DefaultMinWidth,
		VerticalGap:  DefaultVerticalGap,
		BottomMargin: DefaultBottomMargin,
		Background:   White,
		Foreground:   Ink,
	}
}

// DefaultFont 返回内置的默认标题字体。
func DefaultFont() FontDescriptor {
	return FontDescriptor{Name: "Caption", Src: DefaultFontSrc, Size: DefaultFontSize}
}

func (o ComposeOptions) wrapOptions() WrapOptions {
	return WrapOptions{Metrics: o.Metrics, TrailingMargin: o.TrailingMargin}
}
