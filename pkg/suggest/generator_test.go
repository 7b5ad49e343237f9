package suggest

import (
	"slices"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/distance"
	"github.com/bastiangx/wordcheck/pkg/trie"
)

func buildTrie(words ...string) *trie.Trie {
	return trie.BuildTrie(slices.Values(words), nil)
}

func TestSuggestTalks(t *testing.T) {
	tr := buildTrie("walk", "walks", "talk", "talked", "talker", "talks")
	res := SuggestWithCost(tr, "talks", DefaultOptions())
	if len(res) < 3 {
		t.Fatalf("SuggestWithCost = %+v", res)
	}
	if res[0].Word != "talks" || res[0].Cost != 0 {
		t.Errorf("first = %+v, want talks at cost 0", res[0])
	}
	if res[1].Word != "talk" {
		t.Errorf("second = %+v, want talk", res[1])
	}
	if res[2].Word != "walks" {
		t.Errorf("third = %+v, want walks", res[2])
	}
	for i := 1; i < len(res); i++ {
		if res[i-1].Cost > res[i].Cost {
			t.Errorf("results not sorted by cost: %+v", res)
		}
	}
}

func TestSuggestMissingWord(t *testing.T) {
	tr := buildTrie("walk", "walks", "talk", "talked", "talker")
	got := Suggest(tr, "talks", DefaultOptions())
	if len(got) < 2 || got[0] != "talk" || got[1] != "walks" {
		t.Errorf("Suggest = %v", got)
	}
	if slices.Contains(got, "talks") {
		t.Errorf("Suggest invented a word: %v", got)
	}
}

func TestSuggestNumSuggestions(t *testing.T) {
	tr := buildTrie("cat", "bat", "hat", "mat", "rat", "sat", "pat", "fat", "vat", "oat")
	opts := DefaultOptions()
	opts.NumSuggestions = 3
	opts.IncludeTies = false
	if got := Suggest(tr, "zat", opts); len(got) != 3 {
		t.Errorf("Suggest = %v, want 3 results", got)
	}
	opts.IncludeTies = true
	if got := Suggest(tr, "zat", opts); len(got) != 10 {
		t.Errorf("Suggest with ties = %v, want all 10", got)
	}
}

func TestSuggestSkipsForbiddenAndNoSuggest(t *testing.T) {
	tr := buildTrie("walk", "walks", "talk", "talks", "!talks", "%walks")
	got := Suggest(tr, "talks", DefaultOptions())
	if slices.Contains(got, "talks") || slices.Contains(got, "walks") {
		t.Errorf("Suggest = %v", got)
	}
	if !slices.Contains(got, "talk") {
		t.Errorf("Suggest = %v, want talk", got)
	}
}

func TestSuggestCompounds(t *testing.T) {
	tr := buildTrie("walk", "talk")

	opts := DefaultOptions()
	opts.CompoundMethod = trie.JoinWords
	res := SuggestWithCost(tr, "walktalk", opts)
	i := slices.IndexFunc(res, func(r SuggestionResult) bool { return r.CompoundWord == "walk+talk" })
	if i < 0 {
		t.Fatalf("no joined compound in %+v", res)
	}
	if res[i].Word != "walktalk" {
		t.Errorf("Word = %q, want walktalk", res[i].Word)
	}

	opts.CompoundMethod = trie.SeparateWords
	if got := Suggest(tr, "walktalk", opts); !slices.Contains(got, "walk talk") {
		t.Errorf("Suggest = %v, want walk talk", got)
	}

	opts.CompoundMethod = trie.CompoundMethodNone
	for _, w := range Suggest(tr, "walktalk", opts) {
		if w == "walk talk" || w == "walktalk" {
			t.Errorf("compound %q without a compound method", w)
		}
	}
}

func TestSuggestCase(t *testing.T) {
	tr := buildTrie("Talk", "~talk")

	opts := DefaultOptions()
	opts.IgnoreCase = false
	res := SuggestWithCost(tr, "talk", opts)
	if len(res) == 0 || res[0].Word != "Talk" || res[0].Cost != mapSubCost {
		t.Errorf("case sensitive = %+v", res)
	}

	opts.IgnoreCase = true
	res = SuggestWithCost(tr, "talk", opts)
	if len(res) == 0 || res[0].Word != "talk" || res[0].Cost != 0 {
		t.Errorf("case insensitive = %+v", res)
	}
}

func TestSuggestWeighted(t *testing.T) {
	tr := buildTrie("bite", "bat", "bake")
	opts := DefaultOptions()
	opts.WeightMap = distance.CreateWeightMap(distance.CostMapDef{Map: "aeiou", Replace: distance.CostOf(25)})
	res := SuggestWithCost(tr, "bate", opts)
	if len(res) == 0 || res[0].Word != "bite" || res[0].Cost != 25 {
		t.Errorf("SuggestWithCost = %+v", res)
	}
}

func TestGeneratorStops(t *testing.T) {
	tr := buildTrie("walk", "walks", "talk")
	gen := GenSuggestions(tr, "talk", DefaultOptions())
	if _, ok := gen.Next(Control{MaxCost: 200}); !ok {
		t.Fatal("generator ended early")
	}
	if _, ok := gen.Next(Control{Stop: true}); ok {
		t.Error("generator ignored Stop")
	}
	if _, ok := gen.Next(Control{MaxCost: 200}); ok {
		t.Error("generator resumed after Stop")
	}
}

func TestGeneratorAppliesMaxCostBeforeDescending(t *testing.T) {
	tests := []struct {
		name    string
		maxCost int
		descend bool
	}{
		{"tightened below the row", 50, false},
		{"loosened", 200, true},
		{"unchanged", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := GenSuggestions(buildTrie("zbcd"), "ab", DefaultOptions())
			if _, ok := gen.Next(Control{}); !ok {
				t.Fatal("generator ended early")
			}
			if _, ok := gen.Next(Control{MaxCost: tt.maxCost}); ok != tt.descend {
				t.Errorf("Next(MaxCost %d) = %v, want %v", tt.maxCost, ok, tt.descend)
			}
		})
	}
}

func TestGeneratorEmptyTrie(t *testing.T) {
	gen := GenSuggestions(trie.Empty(nil), "word", DefaultOptions())
	if _, ok := gen.Next(Control{MaxCost: 200}); ok {
		t.Error("empty trie produced a step")
	}
}

func BenchmarkSuggest(b *testing.B) {
	words := []string{"walk", "walks", "walked", "walker", "talk", "talks", "talked", "talker", "chalk", "stalk", "balk", "calk"}
	tr := buildTrie(words...)
	opts := DefaultOptions()
	for i := 0; i < b.N; i++ {
		Suggest(tr, "tallk", opts)
	}
}
