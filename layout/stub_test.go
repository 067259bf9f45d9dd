package layout

import (
	"errors"
	"sync/atomic"
	"unicode/utf8"
)

// fixedMetrics 为每个字符返回固定宽度，行高恒定。
type fixedMetrics struct {
	advance    float64
	lineHeight float64
	calls      atomic.Int64
}

func newFixedMetrics(advance, lineHeight float64) *fixedMetrics {
	return &fixedMetrics{advance: advance, lineHeight: lineHeight}
}

func (m *fixedMetrics) Measure(text string, _ FontDescriptor) (float64, float64, error) {
	m.calls.Add(1)
	return float64(utf8.RuneCountInString(text)) * m.advance, m.lineHeight, nil
}

var errBoom = errors.New("boom")

type failingMetrics struct{}

func (failingMetrics) Measure(string, FontDescriptor) (float64, float64, error) {
	return 0, 0, errBoom
}

// badMetrics 返回给定的宽高，用于验证负数/NaN 检查。
type badMetrics struct{ w, h float64 }

func (m badMetrics) Measure(string, FontDescriptor) (float64, float64, error) {
	return m.w, m.h, nil
}
