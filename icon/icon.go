// Package icon resolves the glyph drawn above a caption.
package icon

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// ErrNotFound 表示没有可用的图标。
var ErrNotFound = errors.New("icon: 未找到图标")

// PlatformError 包装读取或解码图标时的底层错误。
type PlatformError struct {
	Identifier string
	Err        error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("icon: 获取 %s 的图标失败: %v", e.Identifier, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// Source 按标识（文件路径或扩展名）返回图标。
type Source interface {
	Glyph(ctx context.Context, identifier string) (image.Image, error)
}

// Extension 返回标识对应的小写扩展名（不含点）。
// 既接受 "report.PDF" 也接受 ".pdf" / "pdf"。
func Extension(identifier string) string {
	ext := filepath.Ext(identifier)
	if ext == "" {
		ext = identifier
		if strings.ContainsAny(ext, `/\`) {
			return ""
		}
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

var themeExts = []string{".png", ".jpg", ".jpeg", ".gif"}

// ThemeDir 从目录中按扩展名查找图标：<dir>/<ext>.png，找不到时使用 default.png。
type ThemeDir struct {
	Dir string
}

// Glyph implements Source.
func (t ThemeDir) Glyph(ctx context.Context, identifier string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := []string{"default"}
	if ext := Extension(identifier); ext != "" {
		names = []string{ext, "default"}
	}
	for _, name := range names {
		for _, suffix := range themeExts {
			path := filepath.Join(t.Dir, name+suffix)
			img, err := decodeFile(path)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, &PlatformError{Identifier: identifier, Err: err}
			}
			return img, nil
		}
	}
	return nil, fmt.Errorf("%w: %s（目录 %s）", ErrNotFound, identifier, t.Dir)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码 %s 失败: %w", path, err)
	}
	return img, nil
}

// Chain 依次尝试各个来源，仅在 ErrNotFound 时继续。
type Chain []Source

// Glyph implements Source.
func (c Chain) Glyph(ctx context.Context, identifier string) (image.Image, error) {
	for _, src := range c {
		img, err := src.Glyph(ctx, identifier)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
}

// Fit 把图标等比缩放到 size×size 的透明方框内并居中。尺寸已符合时原样返回。
func Fit(img image.Image, size int) image.Image {
	if img == nil || size <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*size/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, b.Dx()*size/b.Dy())
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	target := image.Rect(0, 0, w, h).Add(image.Pt((size-w)/2, (size-h)/2))
	draw.CatmullRom.Scale(dst, target, img, b, draw.Over, nil)
	return dst
}
