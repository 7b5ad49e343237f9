// Package dictionary turns tries into spelling dictionaries: word list and
// trie file loading, lookups with case folding, suggestions and completions
// across a collection of dictionaries, with caches in front.
package dictionary

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/wordcheck/pkg/distance"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/trieblob"
	"github.com/charmbracelet/log"
)

// Options configure a SpellingDictionary.
type Options struct {
	// CaseSensitive dictionaries only match case folded forms when the
	// lookup asks to ignore case.
	CaseSensitive bool
	// NoSuggest dictionaries accept their words but never suggest them.
	NoSuggest bool
	// UseCompounds lets lookups and suggestions join words.
	UseCompounds bool
	// IgnoreForbiddenWords makes forbidden entries invisible.
	IgnoreForbiddenWords bool
	WeightMap            *distance.WeightMap
}

// FindResult is the answer of SpellingDictionary.Find.
type FindResult struct {
	Found        bool
	Forbidden    bool
	NoSuggest    bool
	CompoundUsed bool
}

// wordIndex is the lookup surface shared by tries and mapped blobs.
type wordIndex interface {
	Info() trie.TrieInfo
	FindWord(word string, opts trie.FindOptions) trie.FindResult
	IsForbiddenWord(word string) bool
	IsNoSuggestWord(word string) bool
	CompleteWord(prefix string) iter.Seq[string]
	CountWords() int
}

var (
	_ wordIndex = (*trie.Trie)(nil)
	_ wordIndex = (*trieblob.Blob)(nil)
)

// SpellingDictionary is a named trie with lookup and suggestion options.
// Words can be added at runtime; readers keep seeing a consistent trie.
//
// A dictionary opened from a blob answers lookups and completions from the
// mapping. The trie is built from the blob the first time a suggestion walk
// or an insertion needs it.
type SpellingDictionary struct {
	name   string
	source string
	opts   Options

	mu    sync.RWMutex
	trie  *trie.Trie
	blob  *trieblob.Blob
	words int
	errs  []error
}

// New wraps t. A nil trie gives an empty dictionary.
func New(name, source string, t *trie.Trie, opts Options) *SpellingDictionary {
	if t == nil {
		t = trie.Empty(nil)
	}
	return &SpellingDictionary{name: name, source: source, trie: t, opts: opts}
}

// NewFromBlob wraps an opened blob. The dictionary owns b and releases it
// on Close.
func NewFromBlob(name, source string, b *trieblob.Blob, opts Options) *SpellingDictionary {
	return &SpellingDictionary{name: name, source: source, blob: b, opts: opts, words: -1}
}

// FromWords builds a dictionary from word list lines.
func FromWords(name string, words []string, opts Options) *SpellingDictionary {
	t := BuildTrieFromWordList(slices.Values(words), DefaultParseOptions(), nil)
	return New(name, "words", t, opts)
}

// failed returns an empty dictionary that reports err.
func failed(name, source string, err error, opts Options) *SpellingDictionary {
	d := New(name, source, nil, opts)
	d.errs = append(d.errs, err)
	return d
}

// Name returns the dictionary name.
func (d *SpellingDictionary) Name() string { return d.name }

// Source returns where the dictionary was loaded from.
func (d *SpellingDictionary) Source() string { return d.source }

// Options returns the dictionary options.
func (d *SpellingDictionary) Options() Options { return d.opts }

// Trie returns the current trie, building it from the blob if needed.
func (d *SpellingDictionary) Trie() *trie.Trie {
	d.mu.RLock()
	t := d.trie
	d.mu.RUnlock()
	if t != nil {
		return t
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trieLocked()
}

func (d *SpellingDictionary) trieLocked() *trie.Trie {
	if d.trie != nil {
		return d.trie
	}
	if d.blob == nil {
		d.trie = trie.Empty(nil)
		return d.trie
	}
	t, err := d.blob.ToTrie()
	if err != nil {
		err = fmt.Errorf("expand %s: %w", d.source, err)
		log.Warnf("Dictionary %s: %v", d.name, err)
		d.errs = append(d.errs, err)
		info := d.blob.Info()
		t = trie.Empty(&info)
	}
	log.Debugf("Dictionary %s: built trie from %d blob entries", d.name, d.blob.Size())
	d.trie = t
	return t
}

// index returns the trie once it exists, the blob before.
func (d *SpellingDictionary) index() wordIndex {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.trie != nil || d.blob == nil {
		return d.trie
	}
	return d.blob
}

// Mapped reports whether lookups are still answered from a blob.
func (d *SpellingDictionary) Mapped() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.trie == nil && d.blob != nil
}

// Size returns the number of stored words, reserved forms included.
func (d *SpellingDictionary) Size() int {
	d.mu.RLock()
	t, n := d.trie, d.words
	d.mu.RUnlock()
	if t != nil {
		return t.CountWords()
	}
	if n >= 0 || d.blob == nil {
		return max(n, 0)
	}
	n = d.blob.CountWords()
	d.mu.Lock()
	d.words = n
	d.mu.Unlock()
	return n
}

// Close releases the blob mapping, if any. Lookups after Close answer as
// an empty dictionary unless a trie was already built.
func (d *SpellingDictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.blob == nil {
		return nil
	}
	err := d.blob.Close()
	if d.trie == nil {
		info := d.blob.Info()
		d.trie = trie.Empty(&info)
	}
	d.blob = nil
	return err
}

// Errors returns the problems met while loading. A dictionary with errors
// still answers, as an empty dictionary.
func (d *SpellingDictionary) Errors() []error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.errs)
}

// Err joins the load errors, or returns nil.
func (d *SpellingDictionary) Err() error {
	return errors.Join(d.Errors()...)
}

func (d *SpellingDictionary) findOptions(ignoreCase bool) trie.FindOptions {
	opts := trie.FindOptions{MatchCase: !ignoreCase && d.opts.CaseSensitive}
	if d.opts.UseCompounds {
		opts.Compound = trie.CompoundLegacy
	} else {
		opts.Compound = trie.CompoundMarked
	}
	return opts
}

// Find looks word up.
func (d *SpellingDictionary) Find(word string, ignoreCase bool) FindResult {
	t := d.index()
	r := t.FindWord(word, d.findOptions(ignoreCase))
	res := FindResult{Found: r.Found, CompoundUsed: r.CompoundUsed}
	if !d.opts.IgnoreForbiddenWords {
		res.Forbidden = r.Forbidden
	}
	res.NoSuggest = d.isNoSuggest(t, word, ignoreCase)
	if res.NoSuggest && !res.Found {
		res.Found = true
	}
	return res
}

// Has reports whether word is a known, allowed word.
func (d *SpellingDictionary) Has(word string, ignoreCase bool) bool {
	r := d.Find(word, ignoreCase)
	return r.Found && !r.Forbidden
}

// IsForbidden reports whether word is explicitly forbidden.
func (d *SpellingDictionary) IsForbidden(word string) bool {
	if d.opts.IgnoreForbiddenWords {
		return false
	}
	return d.index().IsForbiddenWord(word)
}

// IsNoSuggestWord reports whether word must never be suggested.
func (d *SpellingDictionary) IsNoSuggestWord(word string, ignoreCase bool) bool {
	return d.isNoSuggest(d.index(), word, ignoreCase)
}

func (d *SpellingDictionary) isNoSuggest(t wordIndex, word string, ignoreCase bool) bool {
	if d.opts.NoSuggest {
		return t.FindWord(word, d.findOptions(ignoreCase)).Found
	}
	if t.IsNoSuggestWord(word) {
		return true
	}
	return ignoreCase && t.IsNoSuggestWord(trie.NormalizeWordForCaseInsensitive(word))
}

// suggestOptions fills the dictionary defaults into opts.
func (d *SpellingDictionary) suggestOptions(opts suggest.Options) suggest.Options {
	if opts.WeightMap == nil {
		opts.WeightMap = d.opts.WeightMap
	}
	if opts.CompoundMethod == trie.CompoundMethodNone && d.opts.UseCompounds {
		opts.CompoundMethod = trie.JoinWords
	}
	return opts
}

// GenSuggestions returns a generator of suggestion candidates for word.
func (d *SpellingDictionary) GenSuggestions(word string, opts suggest.Options) suggest.Generator {
	if d.opts.NoSuggest {
		return suggest.FromResults()
	}
	return suggest.GenSuggestions(d.Trie(), word, d.suggestOptions(opts))
}

// Suggest returns the best suggestions for word from this dictionary.
func (d *SpellingDictionary) Suggest(word string, opts suggest.Options) []suggest.SuggestionResult {
	if d.opts.NoSuggest {
		return nil
	}
	t := d.Trie()
	opts = d.suggestOptions(opts)
	filter := func(w string, cost int) bool {
		return !d.IsForbidden(w) && !t.IsNoSuggestWord(w)
	}
	c := suggest.NewCollector(word, opts.CollectorOptions())
	c.Collect(suggest.GenSuggestions(t, word, opts), 0, filter)
	return mergePreferred(d.preferredResults(word, opts.IgnoreCase, filter), c.Suggestions())
}

// Preferred returns the suggestions the word list names for word, in list
// order. With ignoreCase the folded word is tried when word has none.
func (d *SpellingDictionary) Preferred(word string, ignoreCase bool) []string {
	t := d.index()
	sp := t.Info().SuggestionPrefix
	out := preferredIn(t, sp, word)
	if len(out) == 0 && ignoreCase {
		if folded := trie.NormalizeWordForCaseInsensitive(word); folded != word {
			out = preferredIn(t, sp, folded)
		}
	}
	return out
}

// preferredIn reads the entries ":word:<n>:<suggestion>" below word.
func preferredIn(t wordIndex, sp, word string) []string {
	type entry struct {
		n   int64
		sug string
	}
	key := sp + trie.NormalizeWord(word) + sp
	var found []entry
	for w := range t.CompleteWord(key) {
		idx, sug, ok := strings.Cut(w[len(key):], sp)
		if !ok || sug == "" {
			continue
		}
		n, err := strconv.ParseInt(idx, 16, 32)
		if err != nil {
			continue
		}
		found = append(found, entry{n, sug})
	}
	slices.SortStableFunc(found, func(a, b entry) int { return cmp.Compare(a.n, b.n) })
	out := make([]string, 0, len(found))
	for _, e := range found {
		out = append(out, e.sug)
	}
	return out
}

// preferredResults turns the preferred suggestions of word into results
// that pass filter. Their cost is the plain edit distance.
func (d *SpellingDictionary) preferredResults(word string, ignoreCase bool, filter suggest.FilterFunc) []suggest.SuggestionResult {
	if d.opts.NoSuggest {
		return nil
	}
	var out []suggest.SuggestionResult
	for _, s := range d.Preferred(word, ignoreCase) {
		cost := distance.EditDistance(word, s)
		if filter != nil && !filter(s, cost) {
			continue
		}
		out = append(out, suggest.SuggestionResult{Word: s, Cost: cost, IsPreferred: true})
	}
	return out
}

// mergePreferred puts preferred results first and drops later duplicates.
func mergePreferred(preferred, results []suggest.SuggestionResult) []suggest.SuggestionResult {
	if len(preferred) == 0 {
		return results
	}
	out := slices.Clone(preferred)
	for _, r := range results {
		if !slices.ContainsFunc(preferred, func(p suggest.SuggestionResult) bool { return p.Word == r.Word }) {
			out = append(out, r)
		}
	}
	return out
}

// Complete yields the words starting with prefix, without reserved forms.
// When ignoreCase is set, folded forms are searched too.
func (d *SpellingDictionary) Complete(prefix string, ignoreCase bool) iter.Seq[string] {
	t := d.index()
	info := t.Info()
	return func(yield func(string) bool) {
		for w := range t.CompleteWord(prefix) {
			if isPlainWord(w, info) && !yield(w) {
				return
			}
		}
		if !ignoreCase {
			return
		}
		noCase := info.StripCaseAndAccentsPrefix
		folded := trie.NormalizeWordForCaseInsensitive(prefix)
		for w := range t.CompleteWord(noCase + folded) {
			w = strings.TrimPrefix(w, noCase)
			if isPlainWord(w, info) && !yield(w) {
				return
			}
		}
	}
}

// isPlainWord reports whether w is a complete word rather than a reserved
// or compound fragment.
func isPlainWord(w string, info trie.TrieInfo) bool {
	if w == "" {
		return false
	}
	for _, p := range []string{info.ForbiddenWordPrefix, info.NoSuggestWordPrefix, info.StripCaseAndAccentsPrefix, info.SuggestionPrefix} {
		if strings.HasPrefix(w, p) {
			return false
		}
	}
	return !strings.Contains(w, info.CompoundCharacter)
}

// AddWords inserts words parsed like a word list. The trie is replaced
// with a copy sharing its untouched nodes.
func (d *SpellingDictionary) AddWords(words ...string) {
	parsed := UniqueWords(ParseWordList(slices.Values(words), DefaultParseOptions()))
	if len(parsed) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trie = d.trieLocked().InsertAll(parsed...)
}
