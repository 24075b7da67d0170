// Package lang implements heuristic language detection for chat messages.
package lang

import (
	"regexp"
	"strings"
	"unicode"
)

// Language is a supported language tag.
type Language string

// Supported language tags. Unknown is returned when no script or cue matches.
const (
	Unknown  Language = "unknown"
	English  Language = "en"
	Chinese  Language = "zh"
	Japanese Language = "ja"
	Korean   Language = "ko"
	French   Language = "fr"
	German   Language = "de"
	Spanish  Language = "es"
	Russian  Language = "ru"
)

// All lists every tag a detector or engine selector may produce or accept.
var All = []Language{English, Chinese, Japanese, Korean, French, German, Spanish, Russian}

func (l Language) String() string { return string(l) }

// Normalize maps a regional variant tag onto its base supported language,
// e.g. "zh-CN" and "zh-TW" both collapse to Chinese. Unrecognized tags map
// to Unknown.
func Normalize(tag string) Language {
	base := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	for _, l := range All {
		if string(l) == base {
			return l
		}
	}
	return Unknown
}

// Script ranges per language. Han is shared between Chinese and Japanese;
// the Detect shortcut below resolves that overlap in favor of Chinese.
var (
	hanRanges = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x3400, Hi: 0x4dbf, Stride: 1}, // CJK extension A
			{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // CJK unified
		},
		R32: []unicode.Range32{
			{Lo: 0x20000, Hi: 0x2a6df, Stride: 1}, // CJK extension B
		},
	}
	kanaRanges = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // hiragana
			{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // katakana
		},
	}
	hangulRanges = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x1100, Hi: 0x11ff, Stride: 1}, // jamo
			{Lo: 0x3130, Hi: 0x318f, Stride: 1}, // compatibility jamo
			{Lo: 0xac00, Hi: 0xd7af, Stride: 1}, // syllables
		},
	}
	cyrillicRanges = &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x0400, Hi: 0x04ff, Stride: 1},
		},
	}
)

// Lexical cues for English: common stopwords and be-forms. Counted once per
// occurrence, case-insensitive.
var englishCues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(the|and|you|that|have|for|not|with|this|but)\b`),
	regexp.MustCompile(`(?i)\b(is|are|was|were|be|been|being)\b`),
}

// Detector classifies text into a Language using code-point ranges and
// lexical cues. The zero value is ready to use.
type Detector struct{}

// NewDetector returns a ready-to-use Detector.
func NewDetector() *Detector { return &Detector{} }

// scriptCounts holds per-script rune tallies for one input.
type scriptCounts struct {
	latin    int
	han      int
	kana     int
	hangul   int
	cyrillic int
}

func countScripts(text string) scriptCounts {
	var c scriptCounts
	for _, r := range text {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			c.latin++
		case unicode.Is(hanRanges, r):
			c.han++
		case unicode.Is(kanaRanges, r):
			c.kana++
		case unicode.Is(hangulRanges, r):
			c.hangul++
		case unicode.Is(cyrillicRanges, r):
			c.cyrillic++
		}
	}
	return c
}

// Detect returns the most likely language of text.
//
// Any Han code point forces Chinese. Han ranges are shared across East-Asian
// scripts, and the product resolves the ambiguity in favor of Chinese so that
// translation triggers consistently; Kanji-heavy Japanese without any Kana is
// therefore reported as Chinese. This is user-visible policy, not a defect.
func (d *Detector) Detect(text string) Language {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unknown
	}

	c := countScripts(text)
	if c.han > 0 {
		return Chinese
	}

	scores := map[Language]float64{
		English:  float64(c.latin) * 1.5, // base hit + 0.5 weight per Latin letter
		Chinese:  float64(c.han) * 3,     // base hit + 2x weight per Han rune
		Japanese: float64(c.kana + c.han),
		Korean:   float64(c.hangul),
		Russian:  float64(c.cyrillic),
	}
	for _, cue := range englishCues {
		scores[English] += float64(len(cue.FindAllStringIndex(text, -1)))
	}

	best, bestScore := Unknown, 0.0
	for _, l := range All {
		if s := scores[l]; s > bestScore {
			best, bestScore = l, s
		}
	}
	if bestScore > 0 {
		return best
	}

	// Latin letters with no winning score still read as English by default.
	if c.latin > 0 {
		return English
	}
	return Unknown
}

// ShouldTranslate reports whether text needs translating into target, where
// target may carry a regional suffix ("zh-CN"). Text already in the target
// language does not; everything else, including undetectable text, does.
func (d *Detector) ShouldTranslate(text, target string) bool {
	detected := d.Detect(text)
	want := Normalize(target)
	if detected != Unknown && detected == want {
		return false
	}
	return true
}
