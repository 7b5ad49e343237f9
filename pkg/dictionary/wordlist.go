package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/trie"
	mapset "github.com/deckarep/golang-set/v2"
)

// Word list markers beyond the trie's reserved prefixes.
const (
	CommentCharacter = "#"
	KeepExactPrefix  = "="
	// Directive turns parser flags on or off from a comment, for example
	// "# dictionary: split, no-generate-alternatives".
	Directive = "dictionary:"
	// SuggestArrow introduces preferred suggestions like ":" does:
	// "colour -> color".
	SuggestArrow = "->"
)

// ParseOptions controls how word list lines become trie words.
type ParseOptions struct {
	// StripCaseAndAccents adds a "~" entry with the case and accent folded
	// form of every word that differs from it.
	StripCaseAndAccents bool
	// Split breaks lines on spaces, commas and semicolons.
	Split bool
	// KeepOptionalCompound keeps "*" markers instead of expanding them.
	KeepOptionalCompound bool
	// MakeWordsForbidden flips every word: plain words become forbidden
	// and forbidden words become plain.
	MakeWordsForbidden bool
	// KeepSuggestionSyntax stores "word:sugg" lines verbatim instead of
	// reading them as preferred suggestions.
	KeepSuggestionSyntax bool
}

// DefaultParseOptions returns the options used for dictionary files.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{StripCaseAndAccents: true}
}

var splitRe = regexp.MustCompile(`[\s,;]+`)

// ParseWordList turns raw lines into the words stored in a trie. A line
// may hold several words when Split is on. A line with ":" or "->" names
// preferred suggestions for its word and is never split. The output may
// contain duplicates.
func ParseWordList(lines iter.Seq[string], opts ParseOptions) iter.Seq[string] {
	return func(yield func(string) bool) {
		p := opts
		sugs := newSuggestionIndex()
		for raw := range lines {
			for _, line := range strings.Split(raw, "\n") {
				line = p.removeComment(line)
				var words []string
				switch {
				case !p.KeepSuggestionSyntax && hasSuggestions(line):
					words = sugs.split(line)
				case p.Split:
					words = splitRe.Split(line, -1)
				default:
					words = []string{strings.TrimSpace(line)}
				}
				for _, w := range words {
					if w == "" {
						continue
					}
					for _, form := range p.expand(w) {
						if !yield(form) {
							return
						}
					}
				}
			}
		}
	}
}

// removeComment strips a trailing comment and applies any directive in it.
func (p *ParseOptions) removeComment(line string) string {
	idx := strings.Index(line, CommentCharacter)
	if idx < 0 {
		return line
	}
	if d := strings.Index(line[idx:], Directive); d >= 0 {
		for _, flag := range splitRe.Split(line[idx+d+len(Directive):], -1) {
			switch flag {
			case "split":
				p.Split = true
			case "no-split":
				p.Split = false
			case "generate-alternatives":
				p.StripCaseAndAccents = true
			case "no-generate-alternatives":
				p.StripCaseAndAccents = false
			}
		}
	}
	return strings.TrimSpace(line[:idx])
}

var suggestionRe = regexp.MustCompile(`^\s*([!:~]*)(.*?)(?:->|:(?:[0-9a-f]{1,2}:)?)(.*)$`)

// suggestionIndex numbers the preferred suggestions of each word across a
// whole word list.
type suggestionIndex struct {
	next  map[string]int
	known mapset.Set[string]
}

func newSuggestionIndex() *suggestionIndex {
	return &suggestionIndex{next: make(map[string]int), known: mapset.NewThreadUnsafeSet[string]()}
}

func hasSuggestions(line string) bool {
	return strings.Contains(line, trie.SuggestPrefix) || strings.Contains(line, SuggestArrow)
}

// split reads "word: s1, s2" and "word -> s1, s2". The word is kept unless
// it starts with ":", and every suggestion becomes an entry
// ":word:<n>:<suggestion>" with n in hex, counting from 0.
func (si *suggestionIndex) split(line string) []string {
	m := suggestionRe.FindStringSubmatch(line)
	if m == nil {
		return []string{strings.TrimSpace(line)}
	}
	prefix, word := m[1], strings.TrimSpace(m[2])
	if word == "" {
		return nil
	}
	var out []string
	if !strings.Contains(prefix, trie.SuggestPrefix) {
		out = append(out, prefix+word)
	}
	key := trie.SuggestPrefix + word
	out = append(out, key)
	for _, sug := range strings.Split(m[3], ",") {
		sug = strings.TrimSpace(sug)
		if sug == "" || !si.known.Add(key+"\x00"+sug) {
			continue
		}
		n := si.next[key]
		si.next[key] = n + 1
		out = append(out, fmt.Sprintf("%s%s%x%s%s", key, trie.SuggestPrefix, n, trie.SuggestPrefix, sug))
	}
	return out
}

// expand returns every trie word produced by one list entry.
func (p *ParseOptions) expand(w string) []string {
	if strings.HasPrefix(w, trie.SuggestPrefix) {
		return p.normalize(w)
	}
	forms := []string{w}
	if !p.KeepOptionalCompound {
		forms = expandOptionalCompound(forms)
	}
	var out []string
	for _, f := range forms {
		out = append(out, p.normalize(f)...)
	}
	if p.MakeWordsForbidden {
		for i, f := range out {
			if strings.HasPrefix(f, trie.ForbidPrefix) {
				out[i] = strings.TrimPrefix(f, trie.ForbidPrefix)
			} else {
				out[i] = trie.ForbidPrefix + f
			}
		}
	}
	for i, f := range out {
		if strings.HasPrefix(f, trie.CaseInsensitivePrefix+trie.CaseInsensitivePrefix) {
			out[i] = f[len(trie.CaseInsensitivePrefix):]
		}
	}
	return out
}

func expandOptionalCompound(forms []string) []string {
	var out []string
	for _, f := range forms {
		if t, ok := strings.CutPrefix(f, trie.OptionalCompoundFix); ok {
			out = append(out, t, trie.CompoundFix+t)
		} else {
			out = append(out, f)
		}
	}
	forms, out = out, nil
	for _, f := range forms {
		if t, ok := strings.CutSuffix(f, trie.OptionalCompoundFix); ok {
			out = append(out, t, t+trie.CompoundFix)
		} else {
			out = append(out, f)
		}
	}
	return out
}

// normalize yields the NFC form of w and, when enabled, its folded "~"
// form. Exact, forbidden, no-suggest, suggestion and already folded words
// keep one form.
func (p *ParseOptions) normalize(w string) []string {
	exact := strings.HasPrefix(w, KeepExactPrefix)
	n := trie.NormalizeWord(strings.TrimPrefix(w, KeepExactPrefix))
	if n == "" {
		return nil
	}
	out := []string{n}
	if !p.StripCaseAndAccents || p.MakeWordsForbidden || exact ||
		strings.HasPrefix(n, trie.CaseInsensitivePrefix) ||
		strings.HasPrefix(n, trie.ForbidPrefix) ||
		strings.HasPrefix(n, trie.NoSuggestPrefix) ||
		strings.HasPrefix(n, trie.SuggestPrefix) {
		return out
	}
	if folded := trie.NormalizeWordForCaseInsensitive(n); folded != n {
		out = append(out, trie.CaseInsensitivePrefix+folded)
	}
	return out
}

// UniqueWords collects words into a sorted slice without duplicates.
func UniqueWords(words iter.Seq[string]) []string {
	set := mapset.NewThreadUnsafeSet[string]()
	for w := range words {
		set.Add(w)
	}
	out := set.ToSlice()
	slices.Sort(out)
	return out
}

// ReadWordList parses a word list from r.
func ReadWordList(r io.Reader, opts ParseOptions) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var scanErr error
	lines := func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
		scanErr = sc.Err()
	}
	words := UniqueWords(ParseWordList(lines, opts))
	if scanErr != nil {
		return nil, fmt.Errorf("read word list: %w", scanErr)
	}
	return words, nil
}

// BuildTrieFromWordList parses lines and builds a minimal trie.
func BuildTrieFromWordList(lines iter.Seq[string], opts ParseOptions, info *trie.TrieInfo) *trie.Trie {
	return trie.BuildTrie(slices.Values(UniqueWords(ParseWordList(lines, opts))), info)
}

// ReadWordListFile builds a trie from the word list at path.
func ReadWordListFile(path string, opts ParseOptions) (*trie.Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	words, err := ReadWordList(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trie.BuildTrie(slices.Values(words), nil), nil
}
