package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsWordSeparator reports runes allowed inside a word besides letters and
// digits.
func IsWordSeparator(r rune) bool {
	return r == '\'' || r == '’' || r == '-' || r == '.' || r == ' '
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters that cannot
// be part of a word.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r) && !IsWordSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if input should be looked up.
// Returns false for invalid UTF-8, strings that are only numbers, contain
// special characters or are repetitive.
func IsValidInput(s string) bool {
	if len(s) == 0 || !utf8.ValidString(s) {
		return false
	}
	return !IsOnlyNumbers(s) && !ContainsSpecialChars(s) && !IsRepetitive(s)
}

// IsRepetitive checks if a string is one character repeated 4+ times.
func IsRepetitive(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	n := 1
	for _, r := range s[size:] {
		if r != first {
			return false
		}
		n++
	}
	return n > 3
}
