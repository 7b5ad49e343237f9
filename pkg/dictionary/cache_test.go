package dictionary

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/bastiangx/wordcheck/pkg/suggest"
)

func TestCompletionCache(t *testing.T) {
	cc := NewCompletionCache(3)
	cc.Put("wa", 5, []string{"walk", "walks"})

	if got, ok := cc.Get("wa", 1); !ok || !slices.Equal(got, []string{"walk"}) {
		t.Errorf("Get(wa, 1) = %q, %v", got, ok)
	}
	if got, ok := cc.Get("wa", 10); !ok || len(got) != 2 {
		t.Errorf("complete list should answer a larger limit, got %q, %v", got, ok)
	}
	if _, ok := cc.Get("ta", 1); ok {
		t.Error("unexpected hit for ta")
	}

	cc.Put("ta", 1, []string{"talk"})
	if _, ok := cc.Get("ta", 2); ok {
		t.Error("truncated list answered a larger limit")
	}

	got, _ := cc.Get("wa", 5)
	got[0] = "changed"
	if again, _ := cc.Get("wa", 5); again[0] != "walk" {
		t.Error("cached list was modified through a returned slice")
	}
	if cc.Stats()["completionHits"] < 3 {
		t.Errorf("Stats = %v", cc.Stats())
	}
}

func TestCompletionCacheInvalidate(t *testing.T) {
	cc := NewCompletionCache(10)
	cc.Put("w", 5, []string{"walk"})
	cc.Put("wa", 5, []string{"walk"})
	cc.Put("wal", 5, []string{"walk"})
	cc.Put("ta", 5, []string{"talk"})

	cc.Invalidate("wax")
	for _, p := range []string{"w", "wa"} {
		if _, ok := cc.Get(p, 1); ok {
			t.Errorf("prefix %q survived invalidation", p)
		}
	}
	for _, p := range []string{"wal", "ta"} {
		if _, ok := cc.Get(p, 1); !ok {
			t.Errorf("prefix %q was invalidated", p)
		}
	}
	if cc.Len() != 2 {
		t.Errorf("Len = %d, want 2", cc.Len())
	}
	cc.Purge()
	if cc.Len() != 0 {
		t.Errorf("Len after Purge = %d", cc.Len())
	}
}

func TestCompletionCacheEviction(t *testing.T) {
	cc := NewCompletionCache(2)
	cc.Put("a", 1, []string{"ab"})
	cc.Put("b", 1, []string{"bc"})
	cc.Get("a", 1)
	cc.Put("c", 1, []string{"cd"})

	if _, ok := cc.Get("b", 1); ok {
		t.Error("least recently used prefix was kept")
	}
	if _, ok := cc.Get("a", 1); !ok {
		t.Error("recently used prefix was evicted")
	}
	if cc.Len() != 2 {
		t.Errorf("Len = %d, want 2", cc.Len())
	}

	disabled := NewCompletionCache(0)
	disabled.Put("a", 1, []string{"ab"})
	if disabled.Len() != 0 {
		t.Error("disabled cache stored an entry")
	}
}

func TestSuggestCache(t *testing.T) {
	sc, err := NewSuggestCache(2)
	if err != nil {
		t.Fatal(err)
	}
	opts := suggest.DefaultOptions()
	sugs := []SuggestedWord{{SuggestionResult: suggest.SuggestionResult{Word: "walk", Cost: 100}}}
	sc.Put("walc", opts, sugs)

	if got, ok := sc.Get("walc", opts); !ok || len(got) != 1 || got[0].Word != "walk" {
		t.Errorf("Get = %+v, %v", got, ok)
	}
	other := opts
	other.IgnoreCase = !opts.IgnoreCase
	if _, ok := sc.Get("walc", other); ok {
		t.Error("options are part of the key")
	}

	sc.Put("a", opts, nil)
	sc.Put("b", opts, nil)
	if sc.Len() != 2 {
		t.Errorf("Len = %d, want 2", sc.Len())
	}
	if _, ok := sc.Get("walc", opts); ok {
		t.Error("oldest entry was not evicted")
	}
	sc.Purge()
	if sc.Len() != 0 {
		t.Errorf("Len after Purge = %d", sc.Len())
	}

	if _, err := NewSuggestCache(0); err == nil {
		t.Error("expected an error for a zero size")
	}
}

type memStore struct {
	words []string
	err   error
}

func (s *memStore) Words() ([]string, error) { return slices.Clone(s.words), s.err }

func (s *memStore) Add(words ...string) error {
	if s.err != nil {
		return s.err
	}
	s.words = append(s.words, words...)
	return nil
}

func newTestManager(t *testing.T, store WordStore) *Manager {
	t.Helper()
	m, err := NewManager(store, CacheOptions{Completions: 16, Suggestions: 16})
	if err != nil {
		t.Fatal(err)
	}
	m.Add(FromWords("en", englishWords, Options{}))
	return m
}

func TestManager(t *testing.T) {
	store := &memStore{words: []string{"Zaphod"}}
	m := newTestManager(t, store)

	if !slices.Equal(m.Names(), []string{"en"}) {
		t.Errorf("Names = %q", m.Names())
	}
	if !m.Check("Zaphod", false).Found {
		t.Error("stored user word not loaded")
	}
	if r := m.Check("colour", false); !r.Forbidden {
		t.Errorf("Check(colour) = %+v", r)
	}
	if c := m.Collection(); c.Len() != 2 {
		t.Errorf("collection holds %d dictionaries, want 2", c.Len())
	}

	sugs := m.Suggest("walkz", suggest.DefaultOptions())
	if len(sugs) == 0 {
		t.Fatal("no suggestions")
	}
	if m.Stats()["suggestEntries"] != 1 {
		t.Errorf("Stats = %v", m.Stats())
	}
	if again := m.Suggest("walkz", suggest.DefaultOptions()); !slices.EqualFunc(sugs, again, func(a, b SuggestedWord) bool {
		return a.Word == b.Word && a.Cost == b.Cost
	}) {
		t.Errorf("cached suggestions differ: %+v vs %+v", sugs, again)
	}
}

func TestManagerSuggestTimeout(t *testing.T) {
	m := newTestManager(t, nil)

	rushed := suggest.DefaultOptions()
	rushed.Timeout = -time.Nanosecond
	partial := m.Suggest("walkz", rushed)
	if n := m.Stats()["suggestEntries"]; n != 0 {
		t.Errorf("timed out results were cached: %d entries, %+v", n, partial)
	}

	full := m.Suggest("walkz", suggest.DefaultOptions())
	if !slices.ContainsFunc(full, func(s SuggestedWord) bool { return s.Word == "walk" }) {
		t.Fatalf("Suggest(walkz) after a timeout = %+v", full)
	}
	if n := m.Stats()["suggestEntries"]; n != 1 {
		t.Errorf("complete results not cached: %d entries", n)
	}
}

func TestManagerAddWords(t *testing.T) {
	store := &memStore{}
	m := newTestManager(t, store)

	if got := m.Complete("wa", 10, false); !slices.Equal(got, []string{"walk", "walks"}) {
		t.Fatalf("Complete(wa) = %q", got)
	}
	m.Suggest("wandr", suggest.DefaultOptions())

	if err := m.AddWords("wander", ""); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(store.words, []string{"wander"}) {
		t.Errorf("store = %q", store.words)
	}
	if got := m.Complete("wa", 10, false); !slices.Equal(got, []string{"walk", "walks", "wander"}) {
		t.Errorf("Complete(wa) after AddWords = %q", got)
	}
	if !m.Check("wander", false).Found {
		t.Error("added word not found")
	}
	if m.Stats()["userWords"] == 0 {
		t.Errorf("Stats = %v", m.Stats())
	}
	if err := m.AddWords(); err != nil {
		t.Errorf("AddWords() = %v", err)
	}

	store.err = errors.New("disk full")
	if err := m.AddWords("wobble"); !errors.Is(err, store.err) {
		t.Errorf("AddWords err = %v", err)
	}
	if m.Check("wobble", false).Found {
		t.Error("word added although the store failed")
	}
}

func TestManagerUnload(t *testing.T) {
	m := newTestManager(t, nil)
	if err := m.Unload("en"); err != nil {
		t.Fatal(err)
	}
	if m.Check("walk", false).Found {
		t.Error("unloaded dictionary still answers")
	}
	if err := m.Unload("en"); err == nil {
		t.Error("expected an error unloading twice")
	}
	if err := m.Reload("en"); err == nil {
		t.Error("expected an error reloading a dictionary without a file")
	}
}

func TestManagerLoadAll(t *testing.T) {
	paths := writeDictionaries(t, t.TempDir())
	m := newTestManager(t, nil)
	err := m.LoadAll([]Definition{
		{Name: "blob", Path: paths["blob"]},
		{Name: "broken", Path: paths["blob"] + ".missing"},
	})
	if err == nil {
		t.Error("expected an error for the missing dictionary")
	}
	if !slices.Equal(m.Names(), []string{"blob", "broken", "en"}) {
		t.Errorf("Names = %q", m.Names())
	}
	if len(m.Errors()) != 1 {
		t.Errorf("Errors = %v", m.Errors())
	}
	blob := dictionaryNamed(m, "blob")
	if blob == nil || !blob.Mapped() {
		t.Fatal("blob dictionary should stay mapped")
	}
	if err := m.Reload("blob"); err != nil {
		t.Errorf("Reload = %v", err)
	}
	if blob.Mapped() {
		t.Error("replaced dictionary was not closed")
	}
	reloaded := dictionaryNamed(m, "blob")
	if err := m.Unload("blob"); err != nil {
		t.Fatal(err)
	}
	if reloaded.Mapped() {
		t.Error("unloaded dictionary was not closed")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
	if len(m.Names()) != 0 {
		t.Errorf("Names after Close = %q", m.Names())
	}

	if _, err := NewManager(&memStore{err: errors.New("locked")}, CacheOptions{}); err == nil {
		t.Error("expected an error from a failing store")
	}
}

func dictionaryNamed(m *Manager, name string) *SpellingDictionary {
	for _, d := range m.Collection().Dictionaries() {
		if d.Name() == name {
			return d
		}
	}
	return nil
}
