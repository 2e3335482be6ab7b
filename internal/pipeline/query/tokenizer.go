package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen 词元最短长度（按字符计）
const minTokenLen = 2

// Normalize 小写并去除重音（NFKD 后丢弃组合附加符号）
func Normalize(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return out
}

// Tokenize 将文本切为由字母、数字、下划线组成、长度不少于 2 的词元
func Tokenize(text string) []string {
	text = Normalize(text)
	var tokens []string
	start := -1
	n := 0
	flush := func(end int) {
		if start >= 0 && n >= minTokenLen {
			tokens = append(tokens, text[start:end])
		}
		start, n = -1, 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			n++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
