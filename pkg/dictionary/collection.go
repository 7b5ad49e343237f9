package dictionary

import (
	"errors"
	"slices"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/bastiangx/wordcheck/pkg/trie"
	mapset "github.com/deckarep/golang-set/v2"
)

// SuggestedWord is a suggestion with the dictionaries that know it.
type SuggestedWord struct {
	suggest.SuggestionResult
	Dictionaries []string `msgpack:"d,omitempty" json:"dictionaries,omitempty"`
	NoSuggest    bool     `msgpack:"ns,omitempty" json:"noSuggest,omitempty"`
	Forbidden    bool     `msgpack:"f,omitempty" json:"forbidden,omitempty"`
}

// Collection answers for several dictionaries at once. A word is known
// when any dictionary has it and none forbids it.
type Collection struct {
	name  string
	dicts []*SpellingDictionary
}

// NewCollection groups dicts, largest first.
func NewCollection(name string, dicts ...*SpellingDictionary) *Collection {
	sorted := slices.Clone(dicts)
	sizes := make(map[*SpellingDictionary]int, len(sorted))
	for _, d := range sorted {
		sizes[d] = d.Size()
	}
	slices.SortStableFunc(sorted, func(a, b *SpellingDictionary) int {
		return sizes[b] - sizes[a]
	})
	return &Collection{name: name, dicts: sorted}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Dictionaries returns the member dictionaries.
func (c *Collection) Dictionaries() []*SpellingDictionary {
	return slices.Clone(c.dicts)
}

// Len returns the number of dictionaries.
func (c *Collection) Len() int { return len(c.dicts) }

// Has reports whether word is known and not forbidden.
func (c *Collection) Has(word string, ignoreCase bool) bool {
	if c.IsForbidden(word) {
		return false
	}
	for _, d := range c.dicts {
		if d.Has(word, ignoreCase) {
			return true
		}
	}
	return false
}

// Find merges the answers of every dictionary.
func (c *Collection) Find(word string, ignoreCase bool) FindResult {
	var res FindResult
	for _, d := range c.dicts {
		r := d.Find(word, ignoreCase)
		res.Found = res.Found || r.Found
		res.Forbidden = res.Forbidden || r.Forbidden
		res.NoSuggest = res.NoSuggest || r.NoSuggest
		res.CompoundUsed = res.CompoundUsed || r.CompoundUsed
	}
	return res
}

// IsForbidden reports whether a dictionary forbids word and none marks it
// as a no-suggest word.
func (c *Collection) IsForbidden(word string) bool {
	forbidden := false
	for _, d := range c.dicts {
		if d.IsForbidden(word) {
			forbidden = true
			break
		}
	}
	return forbidden && !c.IsNoSuggestWord(word, true)
}

// IsNoSuggestWord reports whether any dictionary marks word as no-suggest.
func (c *Collection) IsNoSuggestWord(word string, ignoreCase bool) bool {
	for _, d := range c.dicts {
		if d.IsNoSuggestWord(word, ignoreCase) {
			return true
		}
	}
	return false
}

// Suggest collects suggestions from every dictionary into one ranking.
// Suggestions named by a word list come first, marked IsPreferred. With
// IgnoreCase the results take the capitalization of word.
func (c *Collection) Suggest(word string, opts suggest.Options) []SuggestedWord {
	out, _ := c.suggest(word, opts)
	return out
}

// suggest is Suggest that also reports whether collection ran out of time.
func (c *Collection) suggest(word string, opts suggest.Options) ([]SuggestedWord, bool) {
	if len(c.dicts) == 0 {
		return nil, false
	}
	userFilter := opts.Filter
	opts.Filter = nil
	noCase := trie.CaseInsensitivePrefix
	filter := func(w string, cost int) bool {
		if !opts.IgnoreCase && strings.HasPrefix(w, noCase) {
			return false
		}
		if c.IsForbidden(w) || c.IsNoSuggestWord(w, opts.IgnoreCase) {
			return false
		}
		return userFilter == nil || userFilter(w, cost)
	}

	var preferred []suggest.SuggestionResult
	for _, d := range c.dicts {
		preferred = append(preferred, d.preferredResults(word, opts.IgnoreCase, filter)...)
	}

	col := suggest.NewCollector(word, opts.CollectorOptions())
	gens := make([]suggest.Generator, len(c.dicts))
	for i, d := range c.dicts {
		gens[i] = d.GenSuggestions(word, opts)
	}
	col.Collect(suggest.Chain(gens...), 0, filter)

	results := mergePreferred(preferred, col.Suggestions())
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]SuggestedWord, 0, len(results))
	for _, r := range results {
		if opts.IgnoreCase {
			r.Word = suggest.MatchCase(r.Word, word)
		}
		if !seen.Add(r.Word) {
			continue
		}
		out = append(out, c.describe(r))
	}
	if !opts.IncludeTies && opts.NumSuggestions > 0 && len(out) > opts.NumSuggestions {
		out = out[:opts.NumSuggestions]
	}
	return out, col.TimedOut()
}

// describe tags r with the dictionaries that hold it and its flags.
func (c *Collection) describe(r suggest.SuggestionResult) SuggestedWord {
	names := mapset.NewThreadUnsafeSet[string]()
	sw := SuggestedWord{SuggestionResult: r}
	lookup := r.Word
	if r.CompoundWord != "" {
		lookup = r.CompoundWord
	}
	for _, d := range c.dicts {
		if f := d.Find(lookup, true); f.Found || f.Forbidden {
			names.Add(d.Name())
			sw.NoSuggest = sw.NoSuggest || f.NoSuggest
			sw.Forbidden = sw.Forbidden || f.Forbidden
		}
	}
	sw.Dictionaries = names.ToSlice()
	slices.Sort(sw.Dictionaries)
	return sw
}

// Complete returns up to limit completions of prefix from all
// dictionaries, shortest first.
func (c *Collection) Complete(prefix string, limit int, ignoreCase bool) []string {
	if limit <= 0 {
		return nil
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, d := range c.dicts {
		for w := range d.Complete(prefix, ignoreCase) {
			if w == prefix || c.IsForbidden(w) || c.IsNoSuggestWord(w, ignoreCase) {
				continue
			}
			if ignoreCase {
				w = suggest.MatchCase(w, prefix)
			}
			if seen.Add(w) {
				out = append(out, w)
			}
			if len(out) >= maxCompletionScan {
				break
			}
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		if la, lb := len([]rune(a)), len([]rune(b)); la != lb {
			return la - lb
		}
		return strings.Compare(a, b)
	})
	return out[:min(limit, len(out))]
}

// maxCompletionScan bounds the words read per dictionary for a completion.
const maxCompletionScan = 4096

// Errors returns the load errors of every dictionary.
func (c *Collection) Errors() []error {
	var errs []error
	for _, d := range c.dicts {
		errs = append(errs, d.Errors()...)
	}
	return errs
}

// Err joins Errors, or returns nil.
func (c *Collection) Err() error {
	return errors.Join(c.Errors()...)
}
