package lang

import (
	"fmt"
	"strings"
)

// Default is the language assumed when none is given. The tool grew up
// transcribing Italian lectures; callers override per file.
const Default = "it"

// validLanguages contains ISO 639-1 language codes accepted by the
// transcription providers we target. Not exhaustive: both Deepgram and
// Whisper models support more, but these cover the realistic set and
// catch typos like "itl" before an upload is wasted on them.
var validLanguages = map[string]bool{
	"af": true, // Afrikaans
	"ar": true, // Arabic
	"bg": true, // Bulgarian
	"bn": true, // Bengali
	"ca": true, // Catalan
	"cs": true, // Czech
	"da": true, // Danish
	"de": true, // German
	"el": true, // Greek
	"en": true, // English
	"es": true, // Spanish
	"et": true, // Estonian
	"fa": true, // Persian
	"fi": true, // Finnish
	"fr": true, // French
	"he": true, // Hebrew
	"hi": true, // Hindi
	"hr": true, // Croatian
	"hu": true, // Hungarian
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"lt": true, // Lithuanian
	"lv": true, // Latvian
	"ms": true, // Malay
	"nl": true, // Dutch
	"no": true, // Norwegian
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"ru": true, // Russian
	"sk": true, // Slovak
	"sl": true, // Slovenian
	"sv": true, // Swedish
	"sw": true, // Swahili
	"ta": true, // Tamil
	"th": true, // Thai
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "it", "en") and locales (e.g., "pt-BR",
// "en-US"). Returns ErrInvalid if the base language is not recognized.
func Validate(code string) error {
	if code == "" {
		return nil // Empty means provider auto-detect, which is valid
	}

	normalized := Normalize(code)

	// Extract base language from locale (pt-br -> pt)
	base := normalized
	if idx := strings.Index(normalized, "-"); idx != -1 {
		base = normalized[:idx]
	}

	if !validLanguages[base] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'it', 'en', 'pt-BR'): %w",
			code, ErrInvalid)
	}

	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Whisper-family models only accept base codes, not regional variants.
// Examples: "pt-BR" -> "pt", "en-US" -> "en", "it" -> "it"
func BaseCode(code string) string {
	if code == "" {
		return ""
	}
	normalized := Normalize(code)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}
