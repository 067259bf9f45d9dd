package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/ByLCY/iconlabel/binding"
	"github.com/ByLCY/iconlabel/encode"
	"github.com/ByLCY/iconlabel/icon"
	"github.com/ByLCY/iconlabel/label"
	"github.com/ByLCY/iconlabel/layout"
)

// Handler 提供标签生成接口。
type Handler struct {
	composer *label.Composer
	icons    icon.Source
	style    layout.Style
	cache    *Cache // 可为空
	cfg      Config
}

// NewHandler 创建处理器；cache 为 nil 时不缓存。
func NewHandler(composer *label.Composer, icons icon.Source, style layout.Style, cache *Cache, cfg Config) *Handler {
	return &Handler{composer: composer, icons: icons, style: style, cache: cache, cfg: cfg}
}

// HealthCheck 返回服务状态。
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Server is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetLabel 生成文件标签。
//
// 查询参数：
//
//	path      文件路径（与 ext 二选一）
//	ext       仅按扩展名取图标，此时需要 caption
//	caption   标题或模板，默认文件名
//	format    png（默认）/ jpeg / gif / pdf / svg
//	width     最大行宽（像素）
//	response  binary（默认）或 base64
func (h *Handler) GetLabel(c *gin.Context) {
	path := c.Query("path")
	ext := c.Query("ext")
	captionTmpl := c.Query("caption")
	format := c.DefaultQuery("format", h.style.Format)
	responseFormat := c.DefaultQuery("response", "binary")

	if path == "" && (ext == "" || captionTmpl == "") {
		badRequest(c, "invalid_parameters", "path, or ext together with caption, is required")
		return
	}
	if responseFormat != "binary" && responseFormat != "base64" {
		badRequest(c, "invalid_parameters", "response must be binary or base64")
		return
	}

	maxWidth := h.style.MaxLineWidth
	if v := c.Query("width"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || w <= 0 || w > float64(h.cfg.MaxWidth) {
			badRequest(c, "invalid_parameters", fmt.Sprintf("width must be in (0, %d]", h.cfg.MaxWidth))
			return
		}
		maxWidth = w
	}

	enc, err := encode.ForFormat(format, h.style.Quality)
	if err != nil {
		badRequest(c, "unsupported_format", err.Error())
		return
	}

	identifier := ext
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "file_not_found",
				"message": "File not found",
			})
			return
		}
		identifier = path
	}

	key := Key(path, ext, captionTmpl, strings.ToLower(format), strconv.FormatFloat(maxWidth, 'f', -1, 64), h.style.Name)
	if h.cache != nil {
		if data, contentType, ok := h.cache.Get(key, path); ok {
			if contentType == "" {
				contentType = encode.DetectMIME(data)
			}
			c.Header("X-Cache", "HIT")
			h.send(c, responseFormat, data, contentType)
			return
		}
	}

	caption := captionTmpl
	if path != "" {
		caption = binding.Caption(captionTmpl, path)
	}

	glyph, err := h.icons.Glyph(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, icon.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "icon_not_found",
				"message": err.Error(),
			})
			return
		}
		c.Error(err)
		return
	}
	if size := h.iconSize(); size > 0 {
		glyph = icon.Fit(glyph, size)
	}

	data, err := h.composer.Encode(glyph, caption, h.style.Font, maxWidth, enc)
	if err != nil {
		if errors.Is(err, layout.ErrInvalidDimension) || errors.Is(err, encode.ErrUnsupported) {
			badRequest(c, "invalid_layout", err.Error())
			return
		}
		c.Error(err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Put(key, enc.MIMEType(), data); err != nil {
			// 缓存失败不影响响应
			log.Printf("缓存标签失败: %v", err)
		}
	}
	c.Header("X-Cache", "MISS")
	h.send(c, responseFormat, data, enc.MIMEType())
}

func (h *Handler) iconSize() int {
	if h.style.GlyphSize > 0 {
		return h.style.GlyphSize
	}
	return h.cfg.IconSize
}

func (h *Handler) send(c *gin.Context, responseFormat string, data []byte, contentType string) {
	if responseFormat == "base64" {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"contentType": contentType,
			"base64Data":  base64.StdEncoding.EncodeToString(data),
			"dataURI":     encode.DataURI(data),
		})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

// GetPlan 返回布局方案（调试用），不绘制。
func (h *Handler) GetPlan(c *gin.Context) {
	caption := c.Query("caption")
	size := h.iconSize()
	if size <= 0 {
		size = 64
	}
	plan, err := h.composer.Plan(image.NewRGBA(image.Rect(0, 0, size, size)), caption, h.style.Font, h.style.MaxLineWidth)
	if err != nil {
		badRequest(c, "invalid_layout", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

// GetCacheStats 返回缓存统计。
func (h *Handler) GetCacheStats(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "enabled": false})
		return
	}
	count, totalSize := h.cache.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"enabled":   true,
		"count":     count,
		"totalSize": totalSize,
		"sizeText":  humanize.Bytes(uint64(totalSize)),
	})
}

// ClearCache 清空缓存。
func (h *Handler) ClearCache(c *gin.Context) {
	if h.cache != nil {
		h.cache.Clear()
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cache cleared successfully",
	})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}
