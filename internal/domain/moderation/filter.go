package moderation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// defaultWords is the built-in disallowed word list. Entries written in
// bare consonants (ㅅㅂ, ㅂㅅ, ...) catch the abbreviated spellings users
// type to dodge the syllable forms.
var defaultWords = []string{
	"바보", "멍청이", "새끼", "시발", "개새끼", "병신", "존나", "좆",
	"씨발", "애미", "창녀", "개같은", "미친놈", "꺼져", "지랄", "염병",
	"따먹", "걸레", "씹", "염병할", "미친", "호로새끼", "썅", "개수작",
	"씹새끼", "족같다", "개소리", "엠창", "등신", "병신같은", "개놈",
	"또라이", "삐리", "걸래년", "빠가", "상놈", "병자", "돌대가리",
	"돌아이", "육시랄", "ㅅㅂ", "ㅈㄴ", "ㄲㅈ", "ㄷㅊ", "ㅁㅊ", "ㅆㅂ",
	"ㅂㅅ", "ㅈㄹ", "ㅊㄴ", "ㅇㅁ", "새꺄", "썅년", "개년", "개지랄",
	"졸라", "개같네", "닥쳐", "지랄마", "븅신", "쓰레기", "애미뒤진",
	"창놈", "호로자식", "등신아", "쪼다", "찐따", "병맛", "미친놈아",
	"싸이코", "개새", "씹새", "씨발놈", "씨발년", "씨발새끼", "좆같은",
	"지랄하네", "병신새끼", "개같은년", "개같은놈", "쌍년", "쌍놈",
	"개같은새끼", "염병할놈", "염병할년", "개씹", "좆밥", "븅딱", "색기",
	"씨발련아", "개쓰레기", "ㄱㅅㄲ", "ㅄ", "ㅁㅊㄴ", "ㅈㄴㅈㄹ",
	"ㅆㅂㅅㄲ", "ㄱㄷㅊ", "ㅁㅊㄴㅇ",
}

// defaultJamoPatterns match against the jamo-expanded text, catching words
// spelled with spacing or syllable tricks that the plain word scan misses.
var defaultJamoPatterns = []string{
	"ㅅㅣㅂㅏㄹ", "ㅈㅗㄴㄴㅏ", "ㅂㅕㅇㅅㅣㄴ", "ㄱㅐㅅㅐㄲㅣ", "ㅆㅣㅂ",
	"ㅈㅗㅅ", "ㅂㅏㅂㅗ", "ㅁㅓㅇㅊㅓㅇㅇㅣ", "ㅅㅐㄲㅑ", "ㅆㅑㅇㄴㅕㄴ",
	"ㄱㅐㄴㅕㄴ", "ㄱㅐㅈㅣㄹㅏㄹ", "ㅈㅗㄹㄹㅏ", "ㄱㅐㄱㅏㅌㄴㅔ",
	"ㄷㅏㄱㅊㅕ", "ㅈㅣㄹㅏㄹㅁㅏ", "ㅆㅡㄹㅔㄱㅣ", "ㄱㅓㄹㄹㅔ",
	"ㅊㅏㅇㄴㅗㅁ", "ㅎㅗㄹㅗㅈㅏㅅㅣㄱ", "ㄷㅡㅇㅅㅣㄴㅇㅏ", "ㅉㅗㄷㅏ",
	"ㅉㅣㄴㄸㅏ", "ㅂㅕㅇㅁㅏㅅ", "ㅆㅏㅇㅣㅋㅗ", "ㄱㅐㅆㅐ", "ㅆㅣㅂㅅㅐ",
	"ㅈㅗㅅㄱㅏㅌㅇㅡㄴ", "ㅈㅣㄹㅏㄹㅎㅏㄴㅔ", "ㅆㅏㅇㄴㅕㄴ",
	"ㅆㅏㅇㄴㅗㅁ", "ㅂㅕㅇㄸㅏㄱ", "ㅅㅐㄱㄱㅣ", "ㅈㅗㅅㅂㅏㅂ",
	"ㅂㅓㄹㅓㅈㅣ",
}

// Filter scans free text for disallowed words. It tests both the raw text
// and its jamo-expanded form so spaced-out or recomposed spellings are
// caught too.
type Filter struct {
	words        []string
	jamoPatterns []*regexp.Regexp
}

// NewFilter builds a filter from explicit word and jamo-pattern lists.
// Invalid patterns are skipped.
func NewFilter(words, jamoPatterns []string) *Filter {
	f := &Filter{words: words}
	for _, p := range jamoPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		f.jamoPatterns = append(f.jamoPatterns, re)
	}
	return f
}

// NewDefaultFilter builds a filter with the built-in lists
func NewDefaultFilter() *Filter {
	return NewFilter(defaultWords, defaultJamoPatterns)
}

// NewFilterWithExtras builds a filter with the built-in lists plus
// additional banned words
func NewFilterWithExtras(extraWords []string) *Filter {
	words := make([]string, 0, len(defaultWords)+len(extraWords))
	words = append(words, defaultWords...)
	for _, w := range extraWords {
		if w = normalize(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return NewFilter(words, defaultJamoPatterns)
}

// normalize lowercases and NFC-normalizes text so decomposed input scans
// the same as precomposed input.
func normalize(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// Contains reports whether the text contains a disallowed word, either
// verbatim or in jamo-expanded form.
func (f *Filter) Contains(text string) bool {
	if text == "" {
		return false
	}
	lowered := normalize(text)
	for _, w := range f.words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	jamo := ToJamo(lowered)
	for _, re := range f.jamoPatterns {
		if re.MatchString(jamo) {
			return true
		}
	}
	return false
}

// Mask returns the text with every disallowed word replaced by asterisks of
// the same rune length. Jamo-pattern hits mask the word-list entries whose
// jamo expansion matches the pattern.
func (f *Filter) Mask(text string) string {
	if text == "" {
		return text
	}
	masked := text
	for _, w := range f.words {
		masked = maskWord(masked, w)
	}

	jamo := ToJamo(normalize(text))
	for _, re := range f.jamoPatterns {
		if !re.MatchString(jamo) {
			continue
		}
		for _, w := range f.words {
			if re.MatchString(ToJamo(w)) {
				masked = maskWord(masked, w)
			}
		}
	}
	return masked
}

// maskWord replaces case-insensitive occurrences of word with asterisks
func maskWord(text, word string) string {
	lowered := strings.ToLower(text)
	word = strings.ToLower(word)
	var b strings.Builder
	for {
		idx := strings.Index(lowered, word)
		if idx < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		b.WriteString(strings.Repeat("*", len([]rune(word))))
		text = text[idx+len(word):]
		lowered = lowered[idx+len(word):]
	}
}
