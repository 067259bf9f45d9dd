package server

import (
	"log"
	"os"
	"strconv"
)

// Config 为标签服务的运行配置。
type Config struct {
	Port     string `json:"port"`
	Mode     string `json:"mode"`
	CacheDir string `json:"cacheDir"`
	IconDir  string `json:"iconDir"`
	IconSize int    `json:"iconSize"`
	MaxWidth int    `json:"maxWidth"` // 请求可指定的最大行宽上限
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Port:     ":8080",
		Mode:     "debug",
		CacheDir: "./.cache/labels",
		IconSize: 64,
		MaxWidth: 1000,
	}
}

// LoadConfig 在默认配置上应用环境变量：
// ICONLABEL_PORT、ICONLABEL_MODE、ICONLABEL_CACHE、ICONLABEL_ICONS、ICONLABEL_ICON_SIZE。
func LoadConfig() Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()

	if port := getenv("ICONLABEL_PORT"); port != "" {
		// 只有端口号时补上 :
		if port[0] != ':' {
			port = ":" + port
		}
		cfg.Port = port
		log.Printf("使用环境变量中的端口: %s", port)
	}
	if mode := getenv("ICONLABEL_MODE"); mode != "" {
		cfg.Mode = mode
	}
	if dir := getenv("ICONLABEL_CACHE"); dir != "" {
		cfg.CacheDir = dir
	}
	if dir := getenv("ICONLABEL_ICONS"); dir != "" {
		cfg.IconDir = dir
	}
	if size := getenv("ICONLABEL_ICON_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.IconSize = n
		} else {
			log.Printf("忽略无效的 ICONLABEL_ICON_SIZE: %q", size)
		}
	}
	return cfg
}
