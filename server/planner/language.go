package planner

// Language selects the full prompt and fallback text, not just labels.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// DetectLanguage classifies text as Arabic when it contains any character in
// the Arabic Unicode blocks U+0600-U+06FF or U+0750-U+077F.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if (r >= 0x0600 && r <= 0x06FF) || (r >= 0x0750 && r <= 0x077F) {
			return LanguageArabic
		}
	}
	return LanguageEnglish
}
