package trie

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Reserved characters used by word lists and the trie layout.
const (
	CompoundFix           = "+"
	OptionalCompoundFix   = "*"
	CaseInsensitivePrefix = "~"
	ForbidPrefix          = "!"
	NoSuggestPrefix       = "%"
	SuggestPrefix         = ":"
)

// TrieInfo describes how reserved prefixes are laid out in a trie.
// Forbidden, no-suggest, case-insensitive and preferred suggestion entries
// live in subtrees under the root keyed by their prefix character, so nodes
// need no extra flags.
type TrieInfo struct {
	CompoundCharacter         string `msgpack:"compound" yaml:"compoundCharacter" toml:"compound_character"`
	StripCaseAndAccentsPrefix string `msgpack:"nocase" yaml:"stripCaseAndAccentsPrefix" toml:"strip_case_prefix"`
	ForbiddenWordPrefix       string `msgpack:"forbid" yaml:"forbiddenWordPrefix" toml:"forbidden_prefix"`
	NoSuggestWordPrefix       string `msgpack:"nosug" yaml:"noSuggestWordPrefix" toml:"no_suggest_prefix"`
	SuggestionPrefix          string `msgpack:"sugg,omitempty" yaml:"suggestionPrefix" toml:"suggestion_prefix"`
	IsCaseAware               bool   `msgpack:"case_aware" yaml:"isCaseAware" toml:"case_aware"`
}

// DefaultTrieInfo returns the standard prefix layout.
func DefaultTrieInfo() TrieInfo {
	return TrieInfo{
		CompoundCharacter:         CompoundFix,
		StripCaseAndAccentsPrefix: CaseInsensitivePrefix,
		ForbiddenWordPrefix:       ForbidPrefix,
		NoSuggestWordPrefix:       NoSuggestPrefix,
		SuggestionPrefix:          SuggestPrefix,
		IsCaseAware:               true,
	}
}

// MergeInfo fills empty fields of info from the defaults.
func MergeInfo(info *TrieInfo) TrieInfo {
	d := DefaultTrieInfo()
	if info == nil {
		return d
	}
	out := *info
	if out.CompoundCharacter == "" {
		out.CompoundCharacter = d.CompoundCharacter
	}
	if out.StripCaseAndAccentsPrefix == "" {
		out.StripCaseAndAccentsPrefix = d.StripCaseAndAccentsPrefix
	}
	if out.ForbiddenWordPrefix == "" {
		out.ForbiddenWordPrefix = d.ForbiddenWordPrefix
	}
	if out.NoSuggestWordPrefix == "" {
		out.NoSuggestWordPrefix = d.NoSuggestWordPrefix
	}
	if out.SuggestionPrefix == "" {
		out.SuggestionPrefix = d.SuggestionPrefix
	}
	return out
}

func (i TrieInfo) compoundRune() rune  { return firstRune(i.CompoundCharacter) }
func (i TrieInfo) noCaseRune() rune    { return firstRune(i.StripCaseAndAccentsPrefix) }
func (i TrieInfo) forbiddenRune() rune { return firstRune(i.ForbiddenWordPrefix) }
func (i TrieInfo) noSuggestRune() rune { return firstRune(i.NoSuggestWordPrefix) }
func (i TrieInfo) suggestRune() rune   { return firstRune(i.SuggestionPrefix) }

// reservedRoots lists the root keys that never start a real word.
func (i TrieInfo) reservedRoots() []rune {
	return []rune{i.compoundRune(), i.noCaseRune(), i.forbiddenRune(), i.noSuggestRune(), i.suggestRune()}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return -1
}

// StripAccents removes combining marks after canonical decomposition.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeWordForCaseInsensitive lower cases s and strips its accents, the
// form stored under the case-insensitive prefix.
func NormalizeWordForCaseInsensitive(s string) string {
	return StripAccents(cases.Lower(language.Und).String(s))
}

// NormalizeWord returns the NFC form of s.
func NormalizeWord(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
