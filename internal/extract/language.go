package extract

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Korean, lingua.English).
			Build()
	})
	return detector
}

// LanguageHint picks the tesseract language for a document from a sample of
// its native text. Any Hangul keeps the Korean model; text detected as English
// only switches to the English model. Everything else returns fallback.
func LanguageHint(sample, fallback string) string {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return fallback
	}

	for _, r := range sample {
		if unicode.Is(unicode.Hangul, r) {
			return "kor+eng"
		}
	}

	if lang, ok := languageDetector().DetectLanguageOf(sample); ok && lang == lingua.English {
		return "eng"
	}
	return fallback
}
