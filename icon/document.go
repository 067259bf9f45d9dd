package icon

import (
	"context"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Document 绘制一个折角文档图标，底部带扩展名徽标。任何标识都能得到图标，
// 因此适合作为 Chain 的最后一环。
type Document struct {
	Size  int // 边长，<= 0 时为 64
	Paper color.RGBA
	Edge  color.RGBA
}

var badgeColors = map[string]color.RGBA{
	"pdf":  {R: 200, G: 40, B: 40, A: 255},
	"doc":  {R: 40, G: 90, B: 180, A: 255},
	"docx": {R: 40, G: 90, B: 180, A: 255},
	"xls":  {R: 30, G: 130, B: 70, A: 255},
	"xlsx": {R: 30, G: 130, B: 70, A: 255},
	"png":  {R: 130, G: 60, B: 170, A: 255},
	"jpg":  {R: 130, G: 60, B: 170, A: 255},
	"txt":  {R: 100, G: 100, B: 100, A: 255},
	"zip":  {R: 200, G: 140, B: 20, A: 255},
}

var defaultBadge = color.RGBA{R: 70, G: 110, B: 150, A: 255}

// Glyph implements Source.
func (d Document) Glyph(ctx context.Context, identifier string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Draw(Extension(identifier)), nil
}

// Draw 直接按扩展名绘制。
func (d Document) Draw(ext string) *image.RGBA {
	size := d.Size
	if size <= 0 {
		size = 64
	}
	paper, edge := d.Paper, d.Edge
	if paper.A == 0 {
		paper = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	}
	if edge.A == 0 {
		edge = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	margin := size / 8
	page := image.Rect(margin, 0, size-margin, size)
	fold := size / 4

	// 纸张主体，右上角留出折角
	for y := page.Min.Y; y < page.Max.Y; y++ {
		for x := page.Min.X; x < page.Max.X; x++ {
			dx, dy := x-(page.Max.X-fold), y-page.Min.Y
			if dx >= 0 && dy < fold && dx > dy {
				continue
			}
			c := paper
			if x == page.Min.X || x == page.Max.X-1 || y == page.Min.Y || y == page.Max.Y-1 || (dx >= 0 && dy < fold && dx == dy) {
				c = edge
			}
			img.SetRGBA(x, y, c)
		}
	}
	// 折角三角
	for dy := 0; dy < fold; dy++ {
		for dx := 0; dx <= dy; dx++ {
			img.SetRGBA(page.Max.X-fold+dx, page.Min.Y+dy, edge)
		}
	}

	if ext == "" {
		return img
	}
	label := strings.ToUpper(ext)
	if len(label) > 4 {
		label = label[:4]
	}
	badgeColor, ok := badgeColors[ext]
	if !ok {
		badgeColor = defaultBadge
	}

	face := basicfont.Face7x13
	textW := font.MeasureString(face, label).Ceil()
	badgeH := face.Height + 2
	badgeW := min(textW+6, size)
	badge := image.Rect(0, 0, badgeW, badgeH).Add(image.Pt((size-badgeW)/2, size-badgeH-size/8))
	draw.Draw(img, badge, image.NewUniform(badgeColor), image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(badge.Min.X+(badgeW-textW)/2, badge.Min.Y+1+face.Ascent),
	}
	dr.DrawString(label)
	return img
}
