package icon

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"report.PDF":        "pdf",
		".txt":              "txt",
		"zip":               "zip",
		"/data/archive.tar": "tar",
		"/data/Makefile":    "",
	}
	for in, want := range cases {
		if got := Extension(in); got != want {
			t.Fatalf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestThemeDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pdf.png"), 16, 16, color.RGBA{R: 255, A: 255})
	src := ThemeDir{Dir: dir}

	img, err := src.Glyph(context.Background(), "a.pdf")
	if err != nil {
		t.Fatalf("Glyph error: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("unexpected glyph bounds %v", img.Bounds())
	}

	if _, err := src.Glyph(context.Background(), "a.doc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	writePNG(t, filepath.Join(dir, "default.png"), 8, 8, color.Black)
	img, err = src.Glyph(context.Background(), "a.doc")
	if err != nil || img.Bounds().Dx() != 8 {
		t.Fatalf("default icon not used: %v", err)
	}
}

func TestThemeDirCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "txt.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ThemeDir{Dir: dir}.Glyph(context.Background(), "notes.txt")
	var perr *PlatformError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PlatformError, got %v", err)
	}
	if perr.Identifier != "notes.txt" {
		t.Fatalf("identifier = %q", perr.Identifier)
	}
}

func TestChainFallsThroughNotFound(t *testing.T) {
	chain := Chain{ThemeDir{Dir: t.TempDir()}, Document{Size: 32}}
	img, err := chain.Glyph(context.Background(), "x.pdf")
	if err != nil {
		t.Fatalf("Glyph error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if _, err := (Chain{}).Glyph(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty chain should report ErrNotFound, got %v", err)
	}
}

func TestDocumentBadge(t *testing.T) {
	plain := Document{Size: 64}.Draw("")
	badged := Document{Size: 64}.Draw("pdf")
	// 徽标区域应与无扩展名的图标不同
	differs := false
	for y := 40; y < 64 && !differs; y++ {
		for x := 0; x < 64; x++ {
			if plain.RGBAAt(x, y) != badged.RGBAAt(x, y) {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Fatalf("badge was not drawn")
	}
}

func TestDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Document{}).Glyph(ctx, "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := Fit(src, 32)
	if b := out.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("Fit bounds %v", b)
	}
	same := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if Fit(same, 32) != image.Image(same) {
		t.Fatalf("correctly sized glyph should be returned as is")
	}
}
