package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/iconlabel/dsl"
)

// Style 汇总一个标签样式文件中的全部设置。
type Style struct {
	Name         string         `json:"name"`
	Font         FontDescriptor `json:"font"`
	MaxLineWidth float64        `json:"maxLineWidth"`
	GlyphSize    int            `json:"glyphSize,omitempty"` // 0 表示保留图标原始尺寸
	Compose      ComposeOptions `json:"-"`
	Format       string         `json:"format"`
	Quality      int            `json:"quality,omitempty"`
}

// DefaultStyle 返回内置默认样式：goregular 13px，最大行宽 200px，输出 PNG。
func DefaultStyle() Style {
	return Style{
		Name:         "Default",
		Font:         DefaultFont(),
		MaxLineWidth: DefaultMaxLineWidth,
		Compose:      DefaultComposeOptions(nil),
		Format:       "png",
	}
}

// StyleFromDocument 在默认样式的基础上应用样式文件中的设置。
// 未知的键会被忽略；无法解析的值返回错误并指出位置。
func StyleFromDocument(doc *dsl.Document) (Style, error) {
	style := DefaultStyle()
	if doc == nil {
		return style, fmt.Errorf("样式文档为空")
	}
	style.Name = doc.Name

	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Font != nil:
			err = applyFontSection(&style, section.Font)
		case section.Canvas != nil:
			err = applyCanvasSection(&style, section.Canvas.Block)
		case section.Output != nil:
			err = applyOutputSection(&style, section.Output.Block)
		}
		if err != nil {
			return style, err
		}
	}
	return style, nil
}

func applyFontSection(style *Style, sec *dsl.FontSection) error {
	if sec.Name != "" {
		style.Font.Name = sec.Name
	}
	if sec.Block == nil {
		return nil
	}
	for _, stmt := range sec.Block.Statements {
		val := stmt.Value.Text()
		switch stmt.Key {
		case "src":
			style.Font.Src = val
		case "style":
			style.Font.Style = val
		case "fallback":
			style.Font.Fallback = val
		case "size":
			px, err := positiveLength(stmt, val)
			if err != nil {
				return err
			}
			style.Font.Size = px
		case "color":
			c, err := parseColor(val)
			if err != nil {
				return stmtError(stmt, err)
			}
			style.Compose.Foreground = c
		}
	}
	return nil
}

func applyCanvasSection(style *Style, block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		val := stmt.Value.Text()
		var target *float64
		switch stmt.Key {
		case "max-width":
			px, err := positiveLength(stmt, val)
			if err != nil {
				return err
			}
			style.MaxLineWidth = px
			continue
		case "glyph-size", "icon-size":
			px, err := positiveLength(stmt, val)
			if err != nil {
				return err
			}
			style.GlyphSize = int(px + 0.5)
			continue
		case "background":
			c, err := parseColor(val)
			if err != nil {
				return stmtError(stmt, err)
			}
			style.Compose.Background = c
			continue
		case "min-width":
			target = &style.Compose.MinWidth
		case "gap":
			target = &style.Compose.VerticalGap
		case "margin-bottom":
			target = &style.Compose.BottomMargin
		case "margin-trailing":
			target = &style.Compose.TrailingMargin
		default:
			continue
		}
		l, err := ParseLength(val)
		if err != nil {
			return stmtError(stmt, err)
		}
		if l.Value < 0 {
			return stmtError(stmt, fmt.Errorf("%s 不能为负数", stmt.Key))
		}
		*target = l.Pixels()
	}
	return nil
}

func applyOutputSection(style *Style, block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		val := stmt.Value.Text()
		switch stmt.Key {
		case "format":
			style.Format = strings.ToLower(val)
		case "quality":
			q, err := strconv.Atoi(val)
			if err != nil || q < 1 || q > 100 {
				return stmtError(stmt, fmt.Errorf("quality 必须是 1-100 之间的整数，实际为 %q", val))
			}
			style.Quality = q
		}
	}
	return nil
}

func positiveLength(stmt *dsl.Assignment, val string) (float64, error) {
	l, err := ParseLength(val)
	if err != nil {
		return 0, stmtError(stmt, err)
	}
	if l.Value <= 0 {
		return 0, stmtError(stmt, fmt.Errorf("%s 必须为正数", stmt.Key))
	}
	return l.Pixels(), nil
}

func stmtError(stmt *dsl.Assignment, err error) error {
	return fmt.Errorf("%s: %s: %w", stmt.Pos, stmt.Key, err)
}

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa 形式的颜色。
func ParseColor(value string) (Color, error) { return parseColor(value) }

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
