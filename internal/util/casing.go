package util

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Handles acronyms properly (e.g., "HTTPSConnection" -> "https_connection")
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if i > 0 && unicode.IsUpper(r) {
			// Don't split inside an acronym unless the next char starts a word
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !prevUpper || nextLower {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

// SplitWords splits PascalCase or camelCase into lower-case words
// ("BloodPressure" -> ["blood", "pressure"])
func SplitWords(s string) []string {
	return strings.Split(ToSnakeCase(s), "_")
}

// LowerFirst lower-cases the first letter, leaving the rest as-is ("PanelMembers" -> "panelMembers")
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// UpperFirst upper-cases the first letter, leaving the rest as-is
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ToPascalCase capitalises each segment separated by sep and concatenates them
// ("shr.core" with "." -> "ShrCore")
func ToPascalCase(s, sep string) string {
	var result strings.Builder
	for _, part := range strings.Split(s, sep) {
		result.WriteString(UpperFirst(part))
	}
	return result.String()
}
