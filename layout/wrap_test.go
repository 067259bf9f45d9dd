package layout

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func wrapWith(t *testing.T, m FontMetrics, caption string, maxWidth float64) *LayoutResult {
	t.Helper()
	res, err := Wrap(caption, DefaultFont(), maxWidth, WrapOptions{Metrics: m})
	if err != nil {
		t.Fatalf("Wrap(%q, %g) error: %v", caption, maxWidth, err)
	}
	return res
}

func TestWrapEmptyCaption(t *testing.T) {
	m := newFixedMetrics(10, 15)
	for _, caption := range []string{"", " ", "\t  "} {
		res, err := Wrap(caption, DefaultFont(), 100, WrapOptions{Metrics: m, TrailingMargin: 4})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Lines) != 0 || res.Height != 0 {
			t.Fatalf("caption %q: expected zero lines and zero height, got %d lines height=%g", caption, len(res.Lines), res.Height)
		}
	}
}

func TestWrapSingleLineKeepsSeparators(t *testing.T) {
	m := newFixedMetrics(10, 15)
	for _, caption := range []string{"a\tb  c", "  lead", "Lorem ipsum", "trail  "} {
		res := wrapWith(t, m, caption, 1000)
		if len(res.Lines) != 1 {
			t.Fatalf("caption %q: expected 1 line, got %d", caption, len(res.Lines))
		}
		if res.Lines[0].Content != caption {
			t.Fatalf("line content mismatch: got=%q want=%q", res.Lines[0].Content, caption)
		}
	}
}

// "Lorem ipsum" 恰好 99px，每行只能放下两个单词。
func TestWrapLoremScenario(t *testing.T) {
	m := newFixedMetrics(9, 15)
	res := wrapWith(t, m, "Lorem ipsum dolor sit amet", 100)
	want := []string{"Lorem ipsum", "dolor sit", "amet"}
	if got := res.Contents(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines mismatch: got=%q want=%q", got, want)
	}
	if res.Height != 45 {
		t.Fatalf("expected block height 45, got %g", res.Height)
	}
	if res.Lines[0].Width != 99 {
		t.Fatalf("expected first line width 99, got %g", res.Lines[0].Width)
	}
}

func TestWrapInclusiveBoundary(t *testing.T) {
	m := newFixedMetrics(10, 15)
	if got := len(wrapWith(t, m, "ab cd", 50).Lines); got != 1 {
		t.Fatalf("width equal to limit should fit, got %d lines", got)
	}
	if got := len(wrapWith(t, m, "ab cd", 49.999).Lines); got != 2 {
		t.Fatalf("width above limit should wrap, got %d lines", got)
	}
}

func TestWrapOverflowWordOwnLine(t *testing.T) {
	m := newFixedMetrics(10, 15)
	res := wrapWith(t, m, "a verylongword b", 30)
	want := []string{"a", "verylongword", "b"}
	if got := res.Contents(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines mismatch: got=%q want=%q", got, want)
	}

	res = wrapWith(t, m, "verylongword anotherlongone", 30)
	want = []string{"verylongword", "anotherlongone"}
	if got := res.Contents(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines mismatch: got=%q want=%q", got, want)
	}
	for _, ln := range res.Lines {
		if strings.ContainsAny(ln.Content, " ") {
			t.Fatalf("overflow line must hold exactly one word: %q", ln.Content)
		}
	}
}

func TestWrapBreakDropsSeparator(t *testing.T) {
	m := newFixedMetrics(10, 15)
	res := wrapWith(t, m, "aa\t\tbb", 30)
	want := []string{"aa", "bb"}
	if got := res.Contents(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines mismatch: got=%q want=%q", got, want)
	}
	if sep := res.Lines[1].Words[0].Sep; sep != "" {
		t.Fatalf("first word of a wrapped line must not carry a separator, got %q", sep)
	}

	res = wrapWith(t, m, "aa\t\tbb", 60)
	if len(res.Lines) != 1 || res.Lines[0].Words[1].Sep != "\t\t" {
		t.Fatalf("separator not preserved: %+v", res.Lines)
	}
}

func TestWrapTrailingWhitespace(t *testing.T) {
	m := newFixedMetrics(10, 15)
	if got := wrapWith(t, m, "ab  ", 40).Lines[0].Content; got != "ab  " {
		t.Fatalf("trailing whitespace should be kept when it fits, got %q", got)
	}
	if got := wrapWith(t, m, "ab  ", 30).Lines[0].Content; got != "ab" {
		t.Fatalf("trailing whitespace should be dropped when it does not fit, got %q", got)
	}
}

func TestWrapHeights(t *testing.T) {
	m := newFixedMetrics(10, 15)
	res, err := Wrap("one two three four", DefaultFont(), 50, WrapOptions{Metrics: m, TrailingMargin: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", res.Contents())
	}
	for i, ln := range res.Lines {
		if ln.Height != 15 {
			t.Fatalf("line %d height=%g want 15", i, ln.Height)
		}
	}
	if res.Height != 4*15+3 {
		t.Fatalf("block height=%g want %d", res.Height, 4*15+3)
	}
}

func TestWrapIdempotent(t *testing.T) {
	m := newFixedMetrics(7, 13)
	caption := "Quarterly   report\tdraft (final) v2.docx"
	a := wrapWith(t, m, caption, 80)
	b := wrapWith(t, m, caption, 80)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("wrap is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestWrapMonotonic(t *testing.T) {
	m := newFixedMetrics(7, 13)
	caption := "the quick brown fox jumps over the lazy dog with an extraordinarily long tail"
	prev := math.MaxInt
	for w := 1.0; w <= 600; w++ {
		n := len(wrapWith(t, m, caption, w).Lines)
		if n > prev {
			t.Fatalf("line count increased from %d to %d at width %g", prev, n, w)
		}
		prev = n
	}
	if prev != 1 {
		t.Fatalf("expected a single line at the widest width, got %d", prev)
	}
}

func TestWrapInvalidWidth(t *testing.T) {
	m := newFixedMetrics(10, 15)
	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Wrap("abc", DefaultFont(), w, WrapOptions{Metrics: m})
		if !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("width %g: expected ErrInvalidDimension, got %v", w, err)
		}
	}
}

func TestWrapMetricsUnavailable(t *testing.T) {
	_, err := Wrap("abc", DefaultFont(), 100, WrapOptions{})
	if !errors.Is(err, ErrMetricsUnavailable) {
		t.Fatalf("nil metrics: expected ErrMetricsUnavailable, got %v", err)
	}

	_, err = Wrap("abc", DefaultFont(), 100, WrapOptions{Metrics: failingMetrics{}})
	if !errors.Is(err, ErrMetricsUnavailable) || !errors.Is(err, errBoom) {
		t.Fatalf("provider error should be surfaced verbatim, got %v", err)
	}

	for _, m := range []badMetrics{{w: -1, h: 10}, {w: 10, h: math.NaN()}, {w: math.Inf(1), h: 10}} {
		_, err = Wrap("abc", DefaultFont(), 100, WrapOptions{Metrics: m})
		if !errors.Is(err, ErrMetricsUnavailable) {
			t.Fatalf("metrics %+v: expected ErrMetricsUnavailable, got %v", m, err)
		}
	}
}
