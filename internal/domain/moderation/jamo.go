package moderation

import "strings"

// Compatibility jamo tables indexed by the arithmetic decomposition of a
// precomposed Hangul syllable (U+AC00..U+D7A3).
var (
	choseong = []string{
		"ㄱ", "ㄲ", "ㄴ", "ㄷ", "ㄸ", "ㄹ", "ㅁ", "ㅂ", "ㅃ", "ㅅ",
		"ㅆ", "ㅇ", "ㅈ", "ㅉ", "ㅊ", "ㅋ", "ㅌ", "ㅍ", "ㅎ",
	}
	jungseong = []string{
		"ㅏ", "ㅐ", "ㅑ", "ㅒ", "ㅓ", "ㅔ", "ㅕ", "ㅖ", "ㅗ", "ㅘ",
		"ㅙ", "ㅚ", "ㅛ", "ㅜ", "ㅝ", "ㅞ", "ㅟ", "ㅠ", "ㅡ", "ㅢ", "ㅣ",
	}
	jongseong = []string{
		"", "ㄱ", "ㄲ", "ㄳ", "ㄴ", "ㄵ", "ㄶ", "ㄷ", "ㄹ", "ㄺ",
		"ㄻ", "ㄼ", "ㄽ", "ㄾ", "ㄿ", "ㅀ", "ㅁ", "ㅂ", "ㅄ", "ㅅ",
		"ㅆ", "ㅇ", "ㅈ", "ㅊ", "ㅋ", "ㅌ", "ㅍ", "ㅎ",
	}
)

const (
	hangulBase = rune(0xAC00) // 가
	hangulLast = rune(0xD7A3) // 힣
)

// DecomposeSyllable splits a precomposed Hangul syllable into its choseong,
// jungseong and jongseong components. Non-Hangul runes come back unchanged
// with empty vowel and final parts.
func DecomposeSyllable(r rune) (initial, vowel, final string) {
	if r < hangulBase || r > hangulLast {
		return string(r), "", ""
	}
	offset := int(r - hangulBase)
	return choseong[offset/(21*28)],
		jungseong[(offset%(21*28))/28],
		jongseong[offset%28]
}

// ToJamo expands every Hangul syllable in the text into its jamo
// components, leaving other runes in place. "시발" becomes "ㅅㅣㅂㅏㄹ".
func ToJamo(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, r := range text {
		if r >= hangulBase && r <= hangulLast {
			initial, vowel, final := DecomposeSyllable(r)
			b.WriteString(initial)
			b.WriteString(vowel)
			b.WriteString(final)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
