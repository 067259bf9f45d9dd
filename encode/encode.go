// Package encode turns a finished label canvas into bytes.
package encode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ByLCY/iconlabel/renderer"
)

// ErrUnsupported 表示输出格式未知，或画布不支持该格式（例如位图后端输出 PDF）。
var ErrUnsupported = errors.New("encode: 不支持的输出格式")

// DefaultQuality 为 JPEG 默认质量。
const DefaultQuality = 90

// Encoder 把画布编码为某种文件格式。
type Encoder interface {
	Encode(w io.Writer, c renderer.Canvas) error
	MIMEType() string
}

// Formats 返回支持的格式名。
func Formats() []string { return []string{"png", "jpeg", "gif", "pdf", "svg"} }

// ForFormat 按名称返回编码器；quality 仅对 JPEG 生效，<= 0 时使用默认值。
func ForFormat(name string, quality int) (Encoder, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "png":
		return PNG{}, nil
	case "jpg", "jpeg":
		if quality <= 0 {
			quality = DefaultQuality
		}
		if quality > 100 {
			return nil, fmt.Errorf("JPEG 质量 %d 超出范围 1-100", quality)
		}
		return JPEG{Quality: quality}, nil
	case "gif":
		return GIF{}, nil
	case "pdf":
		return PDF{}, nil
	case "svg":
		return SVG{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// PNG 为无损位图输出，也是默认格式。
type PNG struct{}

func (PNG) MIMEType() string { return "image/png" }

func (PNG) Encode(w io.Writer, c renderer.Canvas) error {
	if err := png.Encode(w, c.Image()); err != nil {
		return fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return nil
}

// JPEG 输出不带透明通道，背景色即画布底色。
type JPEG struct {
	Quality int
}

func (JPEG) MIMEType() string { return "image/jpeg" }

func (e JPEG) Encode(w io.Writer, c renderer.Canvas) error {
	if err := jpeg.Encode(w, c.Image(), &jpeg.Options{Quality: e.Quality}); err != nil {
		return fmt.Errorf("编码 JPEG 失败: %w", err)
	}
	return nil
}

// GIF 使用标准库的默认调色板量化。
type GIF struct{}

func (GIF) MIMEType() string { return "image/gif" }

func (GIF) Encode(w io.Writer, c renderer.Canvas) error {
	if err := gif.Encode(w, c.Image(), nil); err != nil {
		return fmt.Errorf("编码 GIF 失败: %w", err)
	}
	return nil
}

// PDF 需要矢量画布。
type PDF struct{}

func (PDF) MIMEType() string { return "application/pdf" }

func (PDF) Encode(w io.Writer, c renderer.Canvas) error {
	vc, ok := c.(renderer.VectorCanvas)
	if !ok {
		return fmt.Errorf("%w: 当前渲染后端无法输出 PDF", ErrUnsupported)
	}
	return vc.WritePDF(w)
}

// SVG 需要矢量画布。
type SVG struct{}

func (SVG) MIMEType() string { return "image/svg+xml" }

func (SVG) Encode(w io.Writer, c renderer.Canvas) error {
	vc, ok := c.(renderer.VectorCanvas)
	if !ok {
		return fmt.Errorf("%w: 当前渲染后端无法输出 SVG", ErrUnsupported)
	}
	return vc.WriteSVG(w)
}

// Bytes 编码到内存。
func Bytes(e Encoder, c renderer.Canvas) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("画布为空")
	}
	var buf bytes.Buffer
	if err := e.Encode(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI 返回 data:<mime>;base64,<payload>。MIME 由编码后的内容嗅探得到。
func DataURI(data []byte) string {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DetectMIME 嗅探内容类型，供 HTTP 响应使用。
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}
