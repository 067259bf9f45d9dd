package layout

import "sync"

// MetricsCache 为 FontMetrics 增加测量结果缓存，适合长期运行的进程（例如 HTTP 服务）。
// 失败的测量不会被缓存。
type MetricsCache struct {
	metrics FontMetrics

	mu    sync.RWMutex
	items map[metricsKey]measurement
	limit int
}

type metricsKey struct {
	font string
	text string
}

type measurement struct {
	width, height float64
}

var _ FontMetrics = (*MetricsCache)(nil)

// NewMetricsCache wraps m. limit <= 0 means unbounded; when the limit is reached the
// cache is reset rather than evicting individual entries.
func NewMetricsCache(m FontMetrics, limit int) *MetricsCache {
	return &MetricsCache{metrics: m, items: map[metricsKey]measurement{}, limit: limit}
}

// Measure implements FontMetrics.
func (c *MetricsCache) Measure(text string, font FontDescriptor) (float64, float64, error) {
	key := metricsKey{font: font.Key(), text: text}
	c.mu.RLock()
	m, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return m.width, m.height, nil
	}

	w, h, err := c.metrics.Measure(text, font)
	if err != nil {
		return 0, 0, err
	}

	c.mu.Lock()
	if c.limit > 0 && len(c.items) >= c.limit {
		c.items = map[metricsKey]measurement{}
	}
	c.items[key] = measurement{width: w, height: h}
	c.mu.Unlock()
	return w, h, nil
}

// Len returns the number of cached measurements.
func (c *MetricsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
