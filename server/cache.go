package server

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache 把编码后的标签保存在磁盘上。源文件比缓存新时缓存失效。
type Cache struct {
	baseDir string
	maxAge  time.Duration

	mutex sync.RWMutex
	items map[string]*CacheItem
}

// CacheItem 为一条缓存记录。
type CacheItem struct {
	Path        string
	ContentType string
	CreatedAt   time.Time
	Size        int64
}

// NewCache 创建缓存目录并载入已有缓存文件。maxAge <= 0 表示不过期。
func NewCache(baseDir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建缓存目录失败: %w", err)
	}
	c := &Cache{
		baseDir: baseDir,
		maxAge:  maxAge,
		items:   make(map[string]*CacheItem),
	}
	c.scanExisting()
	return c, nil
}

// Key 由请求参数生成缓存键。
func Key(parts ...string) string {
	hash := md5.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Get 返回缓存内容。source 非空时检查源文件修改时间。
func (c *Cache) Get(key, source string) ([]byte, string, bool) {
	c.mutex.RLock()
	item, ok := c.items[key]
	c.mutex.RUnlock()
	if !ok {
		return nil, "", false
	}

	if c.maxAge > 0 && time.Since(item.CreatedAt) > c.maxAge {
		c.Delete(key)
		return nil, "", false
	}
	if source != "" {
		info, err := os.Stat(source)
		if err != nil || info.ModTime().After(item.CreatedAt) {
			c.Delete(key)
			return nil, "", false
		}
	}

	data, err := os.ReadFile(item.Path)
	if err != nil {
		c.Delete(key)
		return nil, "", false
	}
	return data, item.ContentType, true
}

// Put 写入缓存。
func (c *Cache) Put(key, contentType string, data []byte) error {
	path := filepath.Join(c.baseDir, key+".cache")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入缓存文件失败: %w", err)
	}
	c.mutex.Lock()
	c.items[key] = &CacheItem{
		Path:        path,
		ContentType: contentType,
		CreatedAt:   time.Now(),
		Size:        int64(len(data)),
	}
	c.mutex.Unlock()
	return nil
}

// Delete 删除一条缓存。
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if item, ok := c.items[key]; ok {
		os.Remove(item.Path)
		delete(c.items, key)
	}
}

// Clear 删除全部缓存。
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key, item := range c.items {
		os.Remove(item.Path)
		delete(c.items, key)
	}
}

// Stats 返回条目数与总字节数。
func (c *Cache) Stats() (count int, totalSize int64) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	count = len(c.items)
	for _, item := range c.items {
		totalSize += item.Size
	}
	return count, totalSize
}

// scanExisting 载入上次运行留下的缓存文件；内容类型在读取时重新嗅探。
func (c *Cache) scanExisting() {
	files, err := filepath.Glob(filepath.Join(c.baseDir, "*.cache"))
	if err != nil {
		return
	}
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		key := strings.TrimSuffix(filepath.Base(file), ".cache")
		c.items[key] = &CacheItem{
			Path:      file,
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		}
	}
}
