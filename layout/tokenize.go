package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Word 是标题中的一个单词以及它前面原样保留的分隔符。
// 第一个单词的 Sep 为标题开头的空白（通常为空）。
type Word struct {
	Sep  string `json:"sep,omitempty"`
	Text string `json:"text"`
}

// Caption 是切分后的标题：单词序列加上结尾的空白。
type Caption struct {
	Words    []Word
	Trailing string
}

// String 按原样拼回标题文本。
func (c Caption) String() string {
	var b strings.Builder
	for _, w := range c.Words {
		b.WriteString(w.Sep)
		b.WriteString(w.Text)
	}
	b.WriteString(c.Trailing)
	return b.String()
}

// Empty reports whether the caption has no words.
func (c Caption) Empty() bool { return len(c.Words) == 0 }

// Tokenize 将标题切分为单词，并记录每个单词之前的原始分隔符（空格、制表符或连续空白）。
// 不间断空格视为单词的一部分，不作为折行点。
func Tokenize(s string) Caption {
	var (
		caption Caption
		sep     strings.Builder
		word    strings.Builder
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		caption.Words = append(caption.Words, Word{Sep: sep.String(), Text: word.String()})
		sep.Reset()
		word.Reset()
	}

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		raw := s[:size]
		s = s[size:]
		if isBreakingSpace(r) {
			flush()
			sep.WriteString(raw)
			continue
		}
		word.WriteString(raw)
	}
	flush()
	caption.Trailing = sep.String()
	return caption
}

func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}
