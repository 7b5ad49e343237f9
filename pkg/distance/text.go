package distance

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// expandCharacterSet expands ranges such as "a-z" into their letters.
// A leading or trailing '-' is kept as a literal.
func expandCharacterSet(s string) []string {
	rs := []rune(s)
	var out []string
	seen := make(map[rune]bool)
	add := func(r rune) {
		if !seen[r] {
			seen[r] = true
			out = append(out, string(r))
		}
	}
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '-' && i > 0 && i+1 < len(rs) {
			from, to := rs[i-1], rs[i+1]
			for c := from + 1; c <= to; c++ {
				add(c)
			}
			i++
			continue
		}
		add(r)
	}
	return out
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return language.Und
	}
	tag, err := language.Parse(strings.Split(locale, ",")[0])
	if err != nil {
		return language.Und
	}
	return tag
}

// caseForms returns s with its lower and upper case forms, applied twice so
// that letters like "ß" reach every form.
func caseForms(s string, tag language.Tag) []string {
	lower, upper := cases.Lower(tag), cases.Upper(tag)
	forms := []string{s}
	add := func(f string) {
		if f != "" && !slices.Contains(forms, f) {
			forms = append(forms, f)
		}
	}
	tryCases := func(f string) {
		add(lower.String(f))
		add(upper.String(f))
	}
	tryCases(s)
	for _, f := range slices.Clone(forms) {
		tryCases(f)
	}
	if s == "" {
		forms = forms[1:]
	}
	return forms
}

// accentForms returns s with its NFC and NFD forms.
func accentForms(s string) []string {
	return normalizeForms(s)
}

// stripAccents removes every combining mark after decomposition.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.M)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// stripNonAccents keeps only the combining marks of s.
func stripNonAccents(s string) string {
	var sb strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.M, r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// joinLetters concatenates letters, wrapping multi character entries in
// parentheses.
func joinLetters(letters []string) string {
	var sb strings.Builder
	for _, l := range letters {
		if len([]rune(l)) > 1 {
			sb.WriteString("(" + l + ")")
		} else {
			sb.WriteString(l)
		}
	}
	return sb.String()
}

// splitLetters splits a map string into its members without normalizing.
func splitLetters(s string) []string {
	var out []string
	var seq []rune
	inGroup := false
	for _, r := range s {
		switch {
		case inGroup && r == ')':
			out = append(out, string(seq))
			inGroup = false
		case inGroup:
			seq = append(seq, r)
		case r == '(':
			inGroup = true
			seq = seq[:0]
		default:
			out = append(out, string(r))
		}
	}
	return out
}

func unique(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
