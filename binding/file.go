package binding

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FileData 收集文件的显示信息，供标题模板使用：
//
//	name      文件名（含扩展名）
//	base      不含扩展名的文件名
//	ext       小写扩展名（不含点）
//	dir       所在目录
//	path      传入的路径
//	size      人类可读大小，例如 "1.2 MB"
//	bytes     字节数
//	modified  相对时间，例如 "3 days ago"
//	date      修改日期 2006-01-02
//	isDir     是否为目录
//
// 文件不存在时仍返回基于路径的字段（size/modified 等缺失）与错误。
func FileData(path string) (map[string]any, error) {
	return fileData(path, time.Now())
}

func fileData(path string, now time.Time) (map[string]any, error) {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	data := map[string]any{
		"path": path,
		"name": name,
		"base": strings.TrimSuffix(name, ext),
		"ext":  strings.ToLower(strings.TrimPrefix(ext, ".")),
		"dir":  filepath.Dir(path),
	}
	info, err := os.Stat(path)
	if err != nil {
		return data, fmt.Errorf("读取文件信息 %s 失败: %w", path, err)
	}
	data["bytes"] = info.Size()
	data["size"] = humanize.Bytes(uint64(max(info.Size(), 0)))
	data["modified"] = humanize.RelTime(info.ModTime(), now, "ago", "from now")
	data["date"] = info.ModTime().Format("2006-01-02")
	data["isDir"] = info.IsDir()
	return data, nil
}

// Caption 生成文件的标题：模板为空时使用文件名；否则以文件信息填充模板。
// 文件不可读时，模板中仅能解析基于路径的字段。
func Caption(template, path string) string {
	if template == "" {
		return filepath.Base(path)
	}
	if !HasPlaceholders(template) {
		return template
	}
	data, _ := FileData(path)
	return Interpolate(template, data)
}
