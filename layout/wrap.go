package layout

import (
	"fmt"
	"math"
)

// Wrap 使用贪心算法将标题折成不超过 maxWidth 的若干行。
// 单词之间保留原始分隔符；宽度恰好等于 maxWidth 时不折行；
// 比 maxWidth 更宽的单词独占一行，不在词内拆分。
func Wrap(caption string, font FontDescriptor, maxWidth float64, opts WrapOptions) (*LayoutResult, error) {
	return WrapCaption(Tokenize(caption), font, maxWidth, opts)
}

// WrapCaption 与 Wrap 相同，但接收已经切分好的标题。
func WrapCaption(caption Caption, font FontDescriptor, maxWidth float64, opts WrapOptions) (*LayoutResult, error) {
	if !validLength(maxWidth) {
		return nil, invalidDimension("最大行宽 %g 必须为正数", maxWidth)
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("%w: 缺少 FontMetrics", ErrMetricsUnavailable)
	}
	if opts.TrailingMargin < 0 || math.IsNaN(opts.TrailingMargin) {
		return nil, invalidDimension("尾部留白 %g 不能为负数", opts.TrailingMargin)
	}

	lw := &lineWrapper{font: font, maxWidth: maxWidth, metrics: opts.Metrics}
	for i, word := range caption.Words {
		if len(lw.words) == 0 {
			// 只有标题的第一个单词保留前导空白，折行后的新行从单词本身开始。
			if err := lw.start(word, i == 0); err != nil {
				return nil, err
			}
			continue
		}
		fits, err := lw.tryAppend(word.Sep, word)
		if err != nil {
			return nil, err
		}
		if fits {
			continue
		}
		lw.emit()
		if err := lw.start(word, false); err != nil {
			return nil, err
		}
	}
	if caption.Trailing != "" && len(lw.words) > 0 {
		if _, err := lw.tryAppend(caption.Trailing, Word{}); err != nil {
			return nil, err
		}
	}
	lw.emit()

	res := &LayoutResult{Lines: lw.lines}
	for _, ln := range res.Lines {
		res.Height += ln.Height
	}
	if len(res.Lines) > 0 {
		res.Height += opts.TrailingMargin
	}
	return res, nil
}

// lineWrapper 保存当前尚未结束的一行。
type lineWrapper struct {
	font     FontDescriptor
	maxWidth float64
	metrics  FontMetrics

	words  []Word
	text   string
	width  float64
	height float64

	lines []Line
}

func (lw *lineWrapper) start(word Word, keepSep bool) error {
	if !keepSep {
		word.Sep = ""
	}
	text := word.Sep + word.Text
	w, h, err := lw.measure(text)
	if err != nil {
		return err
	}
	lw.words = []Word{word}
	lw.text, lw.width, lw.height = text, w, h
	if w > lw.maxWidth {
		lw.emit()
	}
	return nil
}

// tryAppend 测量 "当前行 + sep + word"，放得下时接受为新的当前行。
// word 为空时只追加 sep（用于标题结尾的空白）。
func (lw *lineWrapper) tryAppend(sep string, word Word) (bool, error) {
	candidate := lw.text + sep + word.Text
	w, h, err := lw.measure(candidate)
	if err != nil {
		return false, err
	}
	if w > lw.maxWidth {
		return false, nil
	}
	if word.Text != "" {
		lw.words = append(lw.words, word)
	}
	lw.text, lw.width, lw.height = candidate, w, h
	return true, nil
}

func (lw *lineWrapper) emit() {
	if len(lw.words) == 0 {
		return
	}
	lw.lines = append(lw.lines, Line{
		Words:   lw.words,
		Content: lw.text,
		Width:   lw.width,
		Height:  lw.height,
	})
	lw.words = nil
	lw.text, lw.width, lw.height = "", 0, 0
}

func (lw *lineWrapper) measure(text string) (float64, float64, error) {
	w, h, err := lw.metrics.Measure(text, lw.font)
	if err != nil {
		return 0, 0, metricsError(text, err)
	}
	if !validMetric(w) || !validMetric(h) {
		return 0, 0, fmt.Errorf("%w: 测量 %q 得到无效结果 (%g, %g)", ErrMetricsUnavailable, text, w, h)
	}
	return w, h, nil
}

func validLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func validMetric(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
