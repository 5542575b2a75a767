package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want Language
	}{
		{"I want to open a coffee shop", LanguageEnglish},
		{"أريد فتح مقهى في الرياض", LanguageArabic},
		{"my shop اسمها لطيف", LanguageArabic},
		{"", LanguageEnglish},
		{"12345 !?", LanguageEnglish},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, DetectLanguage(tt.text), "text: %q", tt.text)
	}
}
