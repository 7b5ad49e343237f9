package dictionary

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/tchap/go-patricia/v2/patricia"
)

// CompletionCache keeps completion lists by prefix. Adding a word drops
// the cached lists of every prefix of it, found with one patricia walk.
type CompletionCache struct {
	prefixes    *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

type completionEntry struct {
	limit int
	words []string
}

// NewCompletionCache returns a cache holding at most maxEntries prefixes.
func NewCompletionCache(maxEntries int) *CompletionCache {
	return &CompletionCache{
		prefixes:   patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached completions of prefix computed with at least
// limit results.
func (cc *CompletionCache) Get(prefix string, limit int) ([]string, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	item := cc.prefixes.Get(patricia.Prefix(prefix))
	if item == nil {
		return nil, false
	}
	e := item.(completionEntry)
	if e.limit < limit && len(e.words) >= e.limit {
		return nil, false
	}
	cc.hits++
	cc.markAccessed(prefix)
	return slices.Clone(e.words[:min(limit, len(e.words))]), true
}

// Put stores the completions of prefix computed with limit.
func (cc *CompletionCache) Put(prefix string, limit int, words []string) {
	if cc.maxEntries <= 0 {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if _, ok := cc.accessTime[prefix]; !ok && len(cc.accessTime) >= cc.maxEntries {
		cc.evictLRU()
	}
	cc.prefixes.Set(patricia.Prefix(prefix), completionEntry{limit: limit, words: slices.Clone(words)})
	cc.markAccessed(prefix)
}

// Invalidate drops the cached lists that word could belong to.
func (cc *CompletionCache) Invalidate(word string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var stale []patricia.Prefix
	err := cc.prefixes.VisitPrefixes(patricia.Prefix(word), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, slices.Clone(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error scanning completion cache: %v", err)
	}
	for _, p := range stale {
		cc.prefixes.Delete(p)
		delete(cc.accessTime, string(p))
	}
	if len(stale) > 0 {
		log.Debugf("Invalidated %d cached completions for %q", len(stale), word)
	}
}

// Purge empties the cache.
func (cc *CompletionCache) Purge() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.prefixes = patricia.NewTrie()
	clear(cc.accessTime)
}

// Len returns the number of cached prefixes.
func (cc *CompletionCache) Len() int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return len(cc.accessTime)
}

// Stats reports the cache counters.
func (cc *CompletionCache) Stats() map[string]int {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return map[string]int{
		"completionEntries": len(cc.accessTime),
		"maxEntries":        cc.maxEntries,
		"completionHits":    int(cc.hits),
	}
}

func (cc *CompletionCache) markAccessed(prefix string) {
	cc.accessCount++
	cc.accessTime[prefix] = cc.accessCount
}

func (cc *CompletionCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64

	for prefix, t := range cc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = prefix
		}
	}
	if oldestTime != math.MaxInt64 {
		cc.prefixes.Delete(patricia.Prefix(oldest))
		delete(cc.accessTime, oldest)
		log.Debugf("Evicted prefix '%s' from completion cache", oldest)
	}
}

// SuggestCache is an LRU of suggestion lists keyed by word and options.
type SuggestCache struct {
	cache *lru.Cache
}

type suggestKey struct {
	word           string
	ignoreCase     bool
	numSuggestions int
	changeLimit    int
	includeTies    bool
	method         int
}

func keyOf(word string, opts suggest.Options) suggestKey {
	return suggestKey{
		word:           word,
		ignoreCase:     opts.IgnoreCase,
		numSuggestions: opts.NumSuggestions,
		changeLimit:    opts.ChangeLimit,
		includeTies:    opts.IncludeTies,
		method:         int(opts.CompoundMethod),
	}
}

// NewSuggestCache returns a cache of size entries.
func NewSuggestCache(size int) (*SuggestCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("suggest cache: %w", err)
	}
	return &SuggestCache{cache: c}, nil
}

// Get returns the cached suggestions for word.
func (sc *SuggestCache) Get(word string, opts suggest.Options) ([]SuggestedWord, bool) {
	v, ok := sc.cache.Get(keyOf(word, opts))
	if !ok {
		return nil, false
	}
	return slices.Clone(v.([]SuggestedWord)), true
}

// Put stores the suggestions for word.
func (sc *SuggestCache) Put(word string, opts suggest.Options, sugs []SuggestedWord) {
	sc.cache.Add(keyOf(word, opts), slices.Clone(sugs))
}

// Purge empties the cache.
func (sc *SuggestCache) Purge() { sc.cache.Purge() }

// Len returns the number of cached words.
func (sc *SuggestCache) Len() int { return sc.cache.Len() }
