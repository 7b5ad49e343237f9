package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/bastiangx/wordcheck/pkg/trieblob"
	"github.com/bastiangx/wordcheck/pkg/trieio"
)

var englishWords = []string{"walk", "walks", "talk", "talked", "Paris", "!colour"}

func sampleCollection() *Collection {
	en := FromWords("en", englishWords, Options{})
	us := FromWords("us", []string{"color", "talk", "%hidden"}, Options{})
	return NewCollection("all", en, us)
}

func suggestionWords(sugs []SuggestedWord) []string {
	out := make([]string, len(sugs))
	for i, s := range sugs {
		out[i] = s.Word
	}
	return out
}

func resultWords(sugs []suggest.SuggestionResult) []string {
	out := make([]string, len(sugs))
	for i, s := range sugs {
		out[i] = s.Word
	}
	return out
}

func findSuggestion(sugs []SuggestedWord, word string) (SuggestedWord, bool) {
	for _, s := range sugs {
		if s.Word == word {
			return s, true
		}
	}
	return SuggestedWord{}, false
}

func TestDictionaryLookups(t *testing.T) {
	d := FromWords("en", englishWords, Options{})
	tests := []struct {
		word       string
		ignoreCase bool
		expected   bool
	}{
		{"walk", false, true},
		{"walkz", false, false},
		{"Paris", false, true},
		{"paris", true, true},
		{"colour", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := d.Has(tt.word, tt.ignoreCase); got != tt.expected {
			t.Errorf("Has(%q, %v) = %v, want %v", tt.word, tt.ignoreCase, got, tt.expected)
		}
	}
	if !d.IsForbidden("colour") {
		t.Error("colour should be forbidden")
	}
	if r := d.Find("colour", false); !r.Forbidden {
		t.Errorf("Find(colour) = %+v", r)
	}
	if d.Name() != "en" || len(d.Errors()) != 0 || d.Err() != nil {
		t.Errorf("unexpected metadata %q %v", d.Name(), d.Errors())
	}
}

func TestDictionaryCaseSensitive(t *testing.T) {
	d := FromWords("names", []string{"Paris"}, Options{CaseSensitive: true})
	if d.Has("paris", false) {
		t.Error("case sensitive lookup matched a folded form")
	}
	if !d.Has("paris", true) {
		t.Error("ignore case lookup should match")
	}
}

func TestDictionaryIgnoreForbidden(t *testing.T) {
	d := FromWords("en", englishWords, Options{IgnoreForbiddenWords: true})
	if d.IsForbidden("colour") || d.Find("colour", false).Forbidden {
		t.Error("forbidden words should be ignored")
	}
}

func TestDictionaryNoSuggest(t *testing.T) {
	d := FromWords("names", []string{"walk", "talk"}, Options{NoSuggest: true})
	if !d.Has("walk", false) {
		t.Error("no-suggest dictionary should still know its words")
	}
	if !d.IsNoSuggestWord("walk", false) {
		t.Error("every word of a no-suggest dictionary is a no-suggest word")
	}
	if sugs := d.Suggest("walc", suggest.DefaultOptions()); len(sugs) != 0 {
		t.Errorf("Suggest = %+v, want none", sugs)
	}
	if _, ok := d.GenSuggestions("walc", suggest.DefaultOptions()).Next(suggest.Control{MaxCost: 500}); ok {
		t.Error("no-suggest generator produced a candidate")
	}
}

func TestDictionarySuggest(t *testing.T) {
	d := FromWords("en", englishWords, Options{})
	sugs := d.Suggest("walkz", suggest.DefaultOptions())
	if len(sugs) == 0 || sugs[0].Word != "walk" && sugs[0].Word != "walks" {
		t.Fatalf("Suggest(walkz) = %+v", sugs)
	}
	for _, s := range sugs {
		if s.Word == "colour" {
			t.Error("forbidden word suggested")
		}
	}
}

func TestDictionaryAddWords(t *testing.T) {
	d := FromWords("en", englishWords, Options{})
	before := d.Trie()
	d.AddWords("Walkabout", "", "# comment")
	if !d.Has("Walkabout", false) || !d.Has("walkabout", true) {
		t.Error("added word not found")
	}
	if before.Has("Walkabout") {
		t.Error("AddWords modified the previous trie")
	}
}

func TestDictionaryComplete(t *testing.T) {
	d := FromWords("en", append(slices.Clone(englishWords), "wal+", "%walkable"), Options{})
	got := slices.Collect(d.Complete("wa", false))
	slices.Sort(got)
	if want := []string{"walk", "walks"}; !slices.Equal(got, want) {
		t.Errorf("Complete(wa) = %q, want %q", got, want)
	}
	if got := slices.Collect(d.Complete("pa", true)); !slices.Equal(got, []string{"paris"}) {
		t.Errorf("Complete(pa, ignore case) = %q", got)
	}
}

func TestCollectionLookups(t *testing.T) {
	c := sampleCollection()
	if c.Len() != 2 || c.Name() != "all" {
		t.Fatalf("collection %q with %d dictionaries", c.Name(), c.Len())
	}
	if !c.Has("walk", false) || !c.Has("color", false) {
		t.Error("words of both dictionaries should be known")
	}
	if c.Has("colour", true) || !c.IsForbidden("colour") {
		t.Error("forbidden word accepted")
	}
	r := c.Find("hidden", false)
	if !r.Found || !r.NoSuggest {
		t.Errorf("Find(hidden) = %+v", r)
	}
	if c.IsForbidden("walk") {
		t.Error("walk is not forbidden")
	}
}

func TestCollectionSuggest(t *testing.T) {
	c := sampleCollection()
	sugs := c.Suggest("talkd", suggest.DefaultOptions())
	s, ok := findSuggestion(sugs, "talk")
	if !ok {
		t.Fatalf("talk not suggested: %q", suggestionWords(sugs))
	}
	if !slices.Equal(s.Dictionaries, []string{"en", "us"}) {
		t.Errorf("talk dictionaries = %q", s.Dictionaries)
	}
	if s.Forbidden || s.NoSuggest {
		t.Errorf("talk flags = %+v", s)
	}

	sugs = c.Suggest("colr", suggest.DefaultOptions())
	if s, ok := findSuggestion(sugs, "color"); !ok || !slices.Equal(s.Dictionaries, []string{"us"}) {
		t.Errorf("color suggestion = %+v", s)
	}
	if _, ok := findSuggestion(sugs, "colour"); ok {
		t.Error("forbidden word suggested")
	}

	if _, ok := findSuggestion(c.Suggest("hiden", suggest.DefaultOptions()), "hidden"); ok {
		t.Error("no-suggest word suggested")
	}
}

func TestCollectionPreferredSuggestions(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"colon", "!wlak: walk, talk"},
		{"arrow", "!wlak -> walk, talk"},
		{"suggestions only", ":wlak:walk,talk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := FromWords("prefs", []string{tt.line}, Options{})
			if got := prefs.Preferred("wlak", false); !slices.Equal(got, []string{"walk", "talk"}) {
				t.Errorf("Preferred(wlak) = %q", got)
			}
			c := NewCollection("all", FromWords("en", englishWords, Options{}), prefs)
			sugs := c.Suggest("wlak", suggest.DefaultOptions())
			if len(sugs) < 2 {
				t.Fatalf("Suggest(wlak) = %q", suggestionWords(sugs))
			}
			for i, want := range []string{"walk", "talk"} {
				if sugs[i].Word != want || !sugs[i].IsPreferred {
					t.Errorf("suggestion %d = %+v, want preferred %q", i, sugs[i], want)
				}
			}
			for _, s := range sugs[2:] {
				if s.IsPreferred || s.Word == "walk" || s.Word == "wlak" {
					t.Errorf("unexpected suggestion %+v", s)
				}
			}
			if !slices.Contains(sugs[0].Dictionaries, "en") {
				t.Errorf("walk dictionaries = %q", sugs[0].Dictionaries)
			}
			if got := slices.Collect(prefs.Complete("", false)); len(got) != 0 {
				t.Errorf("Complete exposes suggestion entries: %q", got)
			}
		})
	}
}

func TestDictionaryPreferredSuggestions(t *testing.T) {
	d := FromWords("en", append(slices.Clone(englishWords), "Wlak -> Walk"), Options{})
	opts := suggest.DefaultOptions()
	opts.IgnoreCase = true
	sugs := d.Suggest("Wlak", opts)
	if len(sugs) == 0 || sugs[0].Word != "Walk" || !sugs[0].IsPreferred {
		t.Fatalf("Suggest(Wlak) = %+v", sugs)
	}
	if got := d.Preferred("wlak", true); len(got) != 0 {
		t.Errorf("Preferred(wlak) = %q, want none", got)
	}
	if got := d.Preferred("Wlak", true); !slices.Equal(got, []string{"Walk"}) {
		t.Errorf("Preferred(Wlak) = %q", got)
	}

	noSuggest := FromWords("ns", []string{"!wlak: walk"}, Options{NoSuggest: true})
	if sugs := noSuggest.Suggest("wlak", opts); len(sugs) != 0 {
		t.Errorf("no-suggest dictionary suggested %+v", sugs)
	}
}

func TestCollectionSuggestMatchesCase(t *testing.T) {
	c := sampleCollection()
	opts := suggest.DefaultOptions()
	opts.IgnoreCase = true
	sugs := c.Suggest("Talkd", opts)
	if _, ok := findSuggestion(sugs, "Talk"); !ok {
		t.Errorf("Suggest(Talkd) = %q, want Talk", suggestionWords(sugs))
	}
	seen := map[string]bool{}
	for _, w := range suggestionWords(sugs) {
		if seen[w] {
			t.Errorf("duplicate suggestion %q", w)
		}
		seen[w] = true
	}
}

func TestCollectionSuggestFilter(t *testing.T) {
	c := sampleCollection()
	opts := suggest.DefaultOptions()
	opts.Filter = func(w string, _ int) bool { return w != "talk" }
	if _, ok := findSuggestion(c.Suggest("talkd", opts), "talk"); ok {
		t.Error("filtered word suggested")
	}
}

func TestCollectionComplete(t *testing.T) {
	c := sampleCollection()
	tests := []struct {
		prefix     string
		limit      int
		ignoreCase bool
		expected   []string
	}{
		{"wa", 10, false, []string{"walk", "walks"}},
		{"wa", 1, false, []string{"walk"}},
		{"ta", 10, false, []string{"talk", "talked"}},
		{"pa", 10, true, []string{"paris"}},
		{"Pa", 10, true, []string{"Paris"}},
		{"hid", 10, false, nil},
		{"wa", 0, false, nil},
	}
	for _, tt := range tests {
		got := c.Complete(tt.prefix, tt.limit, tt.ignoreCase)
		if !slices.Equal(got, tt.expected) {
			t.Errorf("Complete(%q, %d, %v) = %q, want %q", tt.prefix, tt.limit, tt.ignoreCase, got, tt.expected)
		}
	}
}

func writeDictionaries(t *testing.T, dir string) map[string]string {
	t.Helper()
	tr := BuildTrieFromWordList(slices.Values(englishWords), DefaultParseOptions(), nil)
	paths := map[string]string{
		"words": filepath.Join(dir, "words.txt"),
		"trie":  filepath.Join(dir, "en.trie"),
		"zst":   filepath.Join(dir, "en.trie.zst"),
		"blob":  filepath.Join(dir, "en.btrie"),
	}
	var text []byte
	for _, w := range englishWords {
		text = append(text, w+"\n"...)
	}
	if err := os.WriteFile(paths["words"], text, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := trieio.WriteFile(paths["trie"], tr, trieio.ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := SaveTrie(paths["zst"], tr, "compressed"); err != nil {
		t.Fatal(err)
	}
	if err := trieblob.WriteFile(paths["blob"], tr); err != nil {
		t.Fatal(err)
	}
	return paths
}

func TestFormats(t *testing.T) {
	paths := writeDictionaries(t, t.TempDir())
	tests := []struct {
		key      string
		expected FileFormat
	}{
		{"words", FormatWordList},
		{"trie", FormatTrieX},
		{"zst", FormatTrieXZst},
		{"blob", FormatBlob},
	}
	for _, tt := range tests {
		got, err := DetectFileFormat(paths[tt.key])
		if err != nil {
			t.Fatalf("DetectFileFormat(%s): %v", tt.key, err)
		}
		if got != tt.expected {
			t.Errorf("DetectFileFormat(%s) = %v, want %v", tt.key, got, tt.expected)
		}
		if FormatFromName(paths[tt.key]) != tt.expected {
			t.Errorf("FormatFromName(%s) = %v", paths[tt.key], FormatFromName(paths[tt.key]))
		}
		if err := ValidateFileFormat(paths[tt.key], tt.expected); err != nil {
			t.Errorf("ValidateFileFormat(%s): %v", tt.key, err)
		}
	}
	if err := ValidateFileFormat(paths["words"], FormatBlob); err == nil {
		t.Error("a word list validated as a blob")
	}
	if len(ListSupportedFormats()) != 4 {
		t.Errorf("ListSupportedFormats = %v", ListSupportedFormats())
	}
}

func TestLoad(t *testing.T) {
	paths := writeDictionaries(t, t.TempDir())
	for key, path := range paths {
		t.Run(key, func(t *testing.T) {
			d := Load(Definition{Path: path})
			t.Cleanup(func() { d.Close() })
			if err := d.Err(); err != nil {
				t.Fatal(err)
			}
			if !d.Has("walks", false) || !d.Has("paris", true) || !d.IsForbidden("colour") {
				t.Errorf("%s: loaded dictionary is missing words", path)
			}
			if d.Source() != path {
				t.Errorf("Source = %q", d.Source())
			}
		})
	}
}

func TestLoadBlobStaysMapped(t *testing.T) {
	paths := writeDictionaries(t, t.TempDir())
	words := Load(Definition{Path: paths["words"]})
	d := Load(Definition{Path: paths["blob"], UseCompounds: true})
	t.Cleanup(func() { d.Close() })
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if !d.Mapped() {
		t.Fatal("blob dictionary was expanded on load")
	}

	tests := []struct {
		word       string
		ignoreCase bool
		found      bool
		forbidden  bool
	}{
		{"walks", false, true, false},
		{"paris", true, true, false},
		{"colour", false, false, true},
		{"walktalk", false, true, false},
		{"walkz", true, false, false},
	}
	for _, tt := range tests {
		r := d.Find(tt.word, tt.ignoreCase)
		if r.Found != tt.found || r.Forbidden != tt.forbidden {
			t.Errorf("Find(%q, %v) = %+v", tt.word, tt.ignoreCase, r)
		}
		if want := words.Find(tt.word, tt.ignoreCase); r != want && tt.word != "walktalk" {
			t.Errorf("Find(%q, %v) = %+v, word list answers %+v", tt.word, tt.ignoreCase, r, want)
		}
	}
	if got := slices.Collect(d.Complete("wal", false)); !slices.Equal(got, []string{"walk", "walks"}) {
		t.Errorf("Complete(wal) = %q", got)
	}
	if d.Size() != words.Size() {
		t.Errorf("Size = %d, want %d", d.Size(), words.Size())
	}
	if !d.Mapped() {
		t.Fatal("lookups expanded the blob")
	}

	if sugs := resultWords(d.Suggest("walkz", suggest.DefaultOptions())); !slices.Contains(sugs, "walk") {
		t.Errorf("Suggest(walkz) = %q", sugs)
	}
	if d.Mapped() {
		t.Error("suggestions should build the trie")
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !d.Has("walks", false) {
		t.Error("built trie lost after Close")
	}
}

func TestBlobDictionaryClose(t *testing.T) {
	paths := writeDictionaries(t, t.TempDir())
	d := Load(Definition{Path: paths["blob"]})
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if d.Mapped() || d.Has("walk", true) || d.Size() != 0 {
		t.Error("closed dictionary should answer as empty")
	}

	d = Load(Definition{Path: paths["blob"]})
	t.Cleanup(func() { d.Close() })
	d.AddWords("Zaphod")
	if d.Mapped() || !d.Has("Zaphod", false) || !d.Has("walk", false) {
		t.Error("AddWords should build the trie and keep the blob words")
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	d := Load(Definition{Path: filepath.Join(dir, "missing.trie")})
	if len(d.Errors()) == 0 {
		t.Error("expected a load error")
	}
	if d.Name() != "missing" || d.Has("walk", true) {
		t.Errorf("failed dictionary %q should be empty", d.Name())
	}
	if len(d.Suggest("walk", suggest.DefaultOptions())) != 0 {
		t.Error("failed dictionary suggested words")
	}

	bad := filepath.Join(dir, "bad.trie")
	if err := os.WriteFile(bad, []byte("TrieXv1\nbase=99\n*\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Load(Definition{Name: "bad", Path: bad}).Err(); !errors.Is(err, trieio.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}

	d = Load(Definition{Path: filepath.Join(dir, "words.txt"), Info: filepath.Join(dir, "none.info.yaml")})
	if d.Err() == nil {
		t.Error("expected an error for a missing information file")
	}
}

func TestLoadInfo(t *testing.T) {
	dir := t.TempDir()
	paths := writeDictionaries(t, dir)
	info := "locale: en\nalphabet:\n  - characters: a-z\n    cost: 100\nadjustments:\n  - id: double\n    regexp: 'll'\n    penalty: 10\n"
	if err := os.WriteFile(InfoPath(paths["words"]), []byte(info), 0o644); err != nil {
		t.Fatal(err)
	}
	d := Load(Definition{Path: paths["words"]})
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if d.Options().WeightMap == nil {
		t.Fatal("information file did not produce a weight map")
	}
	if len(d.Suggest("walkz", suggest.DefaultOptions())) == 0 {
		t.Error("weighted dictionary gave no suggestions")
	}

	if err := os.WriteFile(InfoPath(paths["trie"]), []byte("unknownField: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if Load(Definition{Path: paths["trie"]}).Err() == nil {
		t.Error("expected an error for an invalid information file")
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		path, base, info string
	}{
		{"dir/en_US.trie.zst", "en_US", "dir/en_US.info.yaml"},
		{"en.btrie", "en", "en.info.yaml"},
		{"/abs/words.txt", "words", "/abs/words.info.yaml"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.path); got != tt.base {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.base)
		}
		if got := InfoPath(tt.path); got != filepath.FromSlash(tt.info) {
			t.Errorf("InfoPath(%q) = %q, want %q", tt.path, got, tt.info)
		}
	}
}

func TestSaveTrieRejectsWordLists(t *testing.T) {
	if err := SaveTrie(filepath.Join(t.TempDir(), "en.txt"), trie.Empty(nil), ""); err == nil {
		t.Error("SaveTrie wrote a word list")
	}
}
