package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension 表示最大行宽或图标尺寸不可用，布局被中止。
	ErrInvalidDimension = errors.New("layout: 尺寸无效")
	// ErrMetricsUnavailable 表示字体测量失败或返回了负数/NaN。
	ErrMetricsUnavailable = errors.New("layout: 字体度量不可用")
)

func invalidDimension(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDimension, fmt.Sprintf(format, args...))
}

// metricsError keeps the provider's error reachable through errors.Is/As.
func metricsError(text string, err error) error {
	return fmt.Errorf("%w: 测量 %q 失败: %w", ErrMetricsUnavailable, text, err)
}
