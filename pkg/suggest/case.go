package suggest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchCase shapes a suggestion after the word the user typed: all caps stay
// all caps, otherwise every capital position of template is copied over.
func MatchCase(word, template string) string {
	if template == "" || word == "" {
		return word
	}
	if isAllUpper(template) && utf8.RuneCountInString(template) > 1 {
		return strings.ToUpper(word)
	}

	capitalPositions := make([]bool, 0, len(template))
	for _, r := range template {
		capitalPositions = append(capitalPositions, unicode.IsUpper(r))
	}
	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
