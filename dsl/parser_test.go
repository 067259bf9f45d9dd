package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/iconlabel/dsl"
)

const sampleDSL = `
// 默认标签样式
label Default {
  font Caption {
    src: "embed:goregular"
    size: 10pt
    color: #202020
  }

  canvas {
    max-width: 200px
    min-width: 96
    gap: 5px; margin-bottom: 6px
    background: #fff
  }

  output {
    format: png
    quality: 90
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Default" {
		t.Fatalf("expected label name Default, got %s", doc.Name)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}

	kinds := []string{"font", "canvas", "output"}
	for i, want := range kinds {
		if got := doc.Sections[i].Kind(); got != want {
			t.Fatalf("section %d: expected %s, got %s", i, want, got)
		}
	}

	font := doc.Sections[0].Font
	if font.Name != "Caption" {
		t.Fatalf("expected font name Caption, got %q", font.Name)
	}
	if len(font.Block.Statements) != 3 {
		t.Fatalf("expected 3 font statements, got %d", len(font.Block.Statements))
	}
	src := font.Block.Statements[0]
	if src.Key != "src" || src.Value.String == nil || src.Value.Text() != "embed:goregular" {
		t.Fatalf("unexpected src assignment: %+v", src)
	}
	if size := font.Block.Statements[1].Value; size.Number == nil || *size.Number != "10pt" {
		t.Fatalf("unexpected size value: %+v", size)
	}
	if col := font.Block.Statements[2].Value; col.Color == nil || *col.Color != "#202020" {
		t.Fatalf("unexpected color value: %+v", col)
	}

	canvas := doc.Sections[1].Canvas
	if len(canvas.Block.Statements) != 5 {
		t.Fatalf("expected 5 canvas statements (semicolon separated included), got %d", len(canvas.Block.Statements))
	}
	if got := canvas.Block.Statements[3].Key; got != "margin-bottom" {
		t.Fatalf("expected margin-bottom, got %s", got)
	}

	output := doc.Sections[2].Output
	if v := output.Block.Statements[0].Value; v.Ident == nil || v.Text() != "png" {
		t.Fatalf("expected identifier value png, got %+v", v)
	}
}

func TestParseAnonymousFont(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader(`label Small { font { size: 11px } }`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Font == nil {
		t.Fatalf("expected one font section, got %+v", doc.Sections)
	}
	if doc.Sections[0].Font.Name != "" {
		t.Fatalf("expected empty font name, got %q", doc.Sections[0].Font.Name)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`label Bad { page { size: 1 } }`); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}
