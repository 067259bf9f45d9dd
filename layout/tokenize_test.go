package layout

import "testing"

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Lorem ipsum dolor sit amet",
		"  leading and trailing  ",
		"tabs\tand   runs",
		"report 2024\u00a0final.pdf",
		"bad\xffutf8 word",
		"line\nbreak",
	}
	for _, in := range inputs {
		if got := Tokenize(in).String(); got != in {
			t.Fatalf("round trip mismatch: got=%q want=%q", got, in)
		}
	}
}

func TestTokenizeKeepsSeparators(t *testing.T) {
	c := Tokenize("  a\tb   c ")
	want := []Word{{Sep: "  ", Text: "a"}, {Sep: "\t", Text: "b"}, {Sep: "   ", Text: "c"}}
	if len(c.Words) != len(want) {
		t.Fatalf("expected %d words, got %d: %+v", len(want), len(c.Words), c.Words)
	}
	for i := range want {
		if c.Words[i] != want[i] {
			t.Fatalf("word %d mismatch: got=%+v want=%+v", i, c.Words[i], want[i])
		}
	}
	if c.Trailing != " " {
		t.Fatalf("trailing mismatch: %q", c.Trailing)
	}
}

// 不间断空格不是折行点。
func TestTokenizeNonBreakingSpace(t *testing.T) {
	c := Tokenize("a\u00a0b c")
	if len(c.Words) != 2 || c.Words[0].Text != "a\u00a0b" {
		t.Fatalf("unexpected words: %+v", c.Words)
	}
}

func TestTokenizeWhitespaceOnly(t *testing.T) {
	c := Tokenize(" \t ")
	if !c.Empty() {
		t.Fatalf("expected no words, got %+v", c.Words)
	}
	if c.Trailing != " \t " {
		t.Fatalf("whitespace should be kept as trailing, got %q", c.Trailing)
	}
}
