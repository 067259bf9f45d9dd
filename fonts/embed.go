package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是内置的默认字体名。
const Default = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomedium":  gomedium.TTF,
	"gomono":    gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:goregular" 或直接 "goregular"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	name = strings.TrimSuffix(strings.ToLower(name), ".ttf")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names lists the built-in font names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolver 按 src 前缀定位字体数据：embed:<name> 为内置字体，
// built-in:<name> 为调用方注入的字体，其余视为相对 BaseDir 的文件路径。
type Resolver struct {
	BaseDir string
	Blobs   map[string][]byte
}

// Bytes returns the font data for src.
func (r Resolver) Bytes(src string) ([]byte, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("字体缺少 src")
	case strings.HasPrefix(src, "embed:"):
		return Load(src)
	case strings.HasPrefix(src, "built-in:"), strings.HasPrefix(src, "builtin:"):
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.Blobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到注入的字体资源 built-in:%s", name)
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.BaseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
		}
		path = filepath.Join(r.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
