package dictionary

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
)

// UserDictionaryName names the dictionary of words added at runtime.
const UserDictionaryName = "user"

// WordStore persists the words added at runtime.
type WordStore interface {
	Words() ([]string, error)
	Add(words ...string) error
}

// CacheOptions size the manager caches. Zero disables a cache.
type CacheOptions struct {
	Completions int
	Suggestions int
}

// Manager loads and unloads dictionaries at runtime and answers through
// the current collection.
type Manager struct {
	mu          sync.RWMutex
	defs        map[string]Definition
	dicts       map[string]*SpellingDictionary
	user        *SpellingDictionary
	store       WordStore
	collection  *Collection
	completions *CompletionCache
	suggestions *SuggestCache
}

// NewManager returns a manager without dictionaries. store may be nil.
func NewManager(store WordStore, caches CacheOptions) (*Manager, error) {
	m := &Manager{
		defs:  make(map[string]Definition),
		dicts: make(map[string]*SpellingDictionary),
		store: store,
		user:  New(UserDictionaryName, "runtime", nil, Options{}),
	}
	if caches.Completions > 0 {
		m.completions = NewCompletionCache(caches.Completions)
	}
	if caches.Suggestions > 0 {
		sc, err := NewSuggestCache(caches.Suggestions)
		if err != nil {
			return nil, err
		}
		m.suggestions = sc
	}
	if store != nil {
		words, err := store.Words()
		if err != nil {
			return nil, fmt.Errorf("load user words: %w", err)
		}
		m.user.AddWords(words...)
		log.Debugf("Loaded %d user words", len(words))
	}
	m.rebuild()
	return m, nil
}

// Load reads def and adds it, replacing a dictionary of the same name.
// The dictionary is kept even when it failed to load; its errors are
// returned.
func (m *Manager) Load(def Definition) error {
	d := Load(def)
	m.mu.Lock()
	m.defs[d.Name()] = def
	m.replaceLocked(d)
	m.mu.Unlock()
	return d.Err()
}

// LoadAll loads every definition and returns the errors joined.
func (m *Manager) LoadAll(defs []Definition) error {
	var errs []error
	for _, def := range defs {
		if err := m.Load(def); err != nil {
			log.Warnf("Failed to load dictionary %s: %v", def.Path, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d dictionaries failed to load: %w", len(errs), len(defs), errs[0])
	}
	return nil
}

// Add registers an already built dictionary.
func (m *Manager) Add(d *SpellingDictionary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(d)
}

// replaceLocked installs d and closes the dictionary it replaces.
func (m *Manager) replaceLocked(d *SpellingDictionary) {
	old := m.dicts[d.Name()]
	m.dicts[d.Name()] = d
	m.rebuildLocked()
	if old != nil && old != d {
		closeDictionary(old)
	}
}

func closeDictionary(d *SpellingDictionary) {
	if err := d.Close(); err != nil {
		log.Warnf("Closing dictionary %s: %v", d.Name(), err)
	}
}

// Unload removes the named dictionary.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.dicts[name]
	if !ok {
		return fmt.Errorf("dictionary %s is not loaded", name)
	}
	delete(m.dicts, name)
	delete(m.defs, name)
	m.rebuildLocked()
	closeDictionary(d)
	log.Debugf("Unloaded dictionary %s", name)
	return nil
}

// Reload reads the named dictionary again from its definition.
func (m *Manager) Reload(name string) error {
	m.mu.RLock()
	def, ok := m.defs[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("dictionary %s has no file definition", name)
	}
	return m.Load(def)
}

// Close releases every loaded dictionary. The manager answers as if empty
// afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for name, d := range m.dicts {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	clear(m.dicts)
	clear(m.defs)
	m.rebuildLocked()
	return errors.Join(errs...)
}

// Names returns the loaded dictionary names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.dicts))
	for name := range m.dicts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Collection returns the current collection, user words included.
func (m *Manager) Collection() *Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collection
}

func (m *Manager) rebuild() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuildLocked()
}

func (m *Manager) rebuildLocked() {
	dicts := make([]*SpellingDictionary, 0, len(m.dicts)+1)
	for _, d := range m.dicts {
		dicts = append(dicts, d)
	}
	dicts = append(dicts, m.user)
	m.collection = NewCollection("all", dicts...)
	m.purgeCaches()
}

func (m *Manager) purgeCaches() {
	if m.completions != nil {
		m.completions.Purge()
	}
	if m.suggestions != nil {
		m.suggestions.Purge()
	}
}

// Check looks word up in every dictionary.
func (m *Manager) Check(word string, ignoreCase bool) FindResult {
	return m.Collection().Find(word, ignoreCase)
}

// Suggest returns suggestions for word, from the cache when possible.
func (m *Manager) Suggest(word string, opts suggest.Options) []SuggestedWord {
	cacheable := m.suggestions != nil && opts.Filter == nil && opts.WeightMap == nil
	if cacheable {
		if sugs, ok := m.suggestions.Get(word, opts); ok {
			return sugs
		}
	}
	sugs, timedOut := m.Collection().suggest(word, opts)
	if timedOut {
		log.Debugf("Suggest %q timed out, not caching %d results", word, len(sugs))
	}
	if cacheable && !timedOut {
		m.suggestions.Put(word, opts, sugs)
	}
	return sugs
}

// Complete returns up to limit completions of prefix.
func (m *Manager) Complete(prefix string, limit int, ignoreCase bool) []string {
	cacheable := m.completions != nil && prefix != "" && !ignoreCase
	if cacheable {
		if words, ok := m.completions.Get(prefix, limit); ok {
			return words
		}
	}
	words := m.Collection().Complete(prefix, limit, ignoreCase)
	if cacheable {
		m.completions.Put(prefix, limit, words)
	}
	return words
}

// AddWords adds words to the user dictionary and persists them.
func (m *Manager) AddWords(words ...string) error {
	words = slices.DeleteFunc(slices.Clone(words), func(w string) bool { return w == "" })
	if len(words) == 0 {
		return nil
	}
	if m.store != nil {
		if err := m.store.Add(words...); err != nil {
			return fmt.Errorf("save user words: %w", err)
		}
	}
	m.user.AddWords(words...)
	if m.completions != nil {
		for _, w := range words {
			m.completions.Invalidate(w)
		}
	}
	if m.suggestions != nil {
		m.suggestions.Purge()
	}
	log.Debugf("Added %d user words", len(words))
	return nil
}

// Errors returns the load errors of every dictionary.
func (m *Manager) Errors() []error {
	return m.Collection().Errors()
}

// Stats reports dictionary and cache counters.
func (m *Manager) Stats() map[string]int {
	c := m.Collection()
	stats := map[string]int{
		"dictionaries": c.Len(),
		"userWords":    m.user.Size(),
	}
	if m.completions != nil {
		for k, v := range m.completions.Stats() {
			stats[k] = v
		}
	}
	if m.suggestions != nil {
		stats["suggestEntries"] = m.suggestions.Len()
	}
	return stats
}
