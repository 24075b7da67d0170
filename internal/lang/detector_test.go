package lang

import "testing"

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		text string
		want Language
	}{
		{"empty", "", Unknown},
		{"whitespace", "   \t  ", Unknown},
		{"han only", "你好世界", Chinese},
		{"han mixed with latin", "hello 世界", Chinese},
		{"english stopwords", "the quick brown fox is here and that is fine", English},
		{"plain latin", "xyzzy", English},
		{"hiragana", "こんにちは", Japanese},
		{"katakana", "コンニチハ", Japanese},
		{"kanji heavy without kana reads as chinese", "日本語", Chinese},
		{"hangul", "안녕하세요", Korean},
		{"cyrillic", "привет мир", Russian},
		{"digits and symbols", "12345 !!!", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		tag  string
		want Language
	}{
		{"zh-CN", Chinese},
		{"zh-TW", Chinese},
		{"zh", Chinese},
		{"en", English},
		{"EN", English},
		{"ja", Japanese},
		{"pt-BR", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := Normalize(tt.tag); got != tt.want {
			t.Errorf("Normalize(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestShouldTranslate(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name   string
		text   string
		target string
		want   bool
	}{
		{"chinese to zh-CN skipped", "你好世界", "zh-CN", false},
		{"chinese to zh skipped", "你好", "zh", false},
		{"english to zh-CN translated", "hello world", "zh-CN", true},
		{"english to en skipped", "the cat is here", "en", false},
		{"unknown translates permissively", "12345", "zh-CN", true},
		{"korean to zh translated", "안녕하세요", "zh-CN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.ShouldTranslate(tt.text, tt.target); got != tt.want {
				t.Errorf("ShouldTranslate(%q, %q) = %v, want %v", tt.text, tt.target, got, tt.want)
			}
		})
	}
}
