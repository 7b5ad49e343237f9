package suggest

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/pkg/distance"
	"github.com/bastiangx/wordcheck/pkg/trie"
)

const (
	swapCost        = 75
	postSwapCost    = swapCost - BaseCost
	insertSepCost   = -1
	mapSubCost      = 1
	discourageCost  = BaseCost
	genMaxCostScale = maxCostScale
)

// Options configure a suggestion request.
type Options struct {
	CompoundMethod trie.CompoundMethod
	IgnoreCase     bool
	ChangeLimit    int
	NumSuggestions int
	IncludeTies    bool
	Timeout        time.Duration
	// WeightMap, when set, re-prices every candidate with the weighted
	// distance.
	WeightMap *distance.WeightMap
	Filter    FilterFunc
}

// DefaultOptions returns the standard suggestion options.
func DefaultOptions() Options {
	c := DefaultCollectorOptions()
	return Options{
		IgnoreCase:     c.IgnoreCase,
		ChangeLimit:    c.ChangeLimit,
		NumSuggestions: c.NumSuggestions,
		IncludeTies:    c.IncludeTies,
		Timeout:        c.Timeout,
	}
}

// CollectorOptions returns the collector part of o.
func (o Options) CollectorOptions() CollectorOptions {
	return CollectorOptions{
		NumSuggestions: o.NumSuggestions,
		Filter:         o.Filter,
		ChangeLimit:    o.ChangeLimit,
		IncludeTies:    o.IncludeTies,
		IgnoreCase:     o.IgnoreCase,
		Timeout:        o.Timeout,
	}
}

// Suggest returns the suggested words for word, best first.
func Suggest(t *trie.Trie, word string, opts Options) []string {
	res := SuggestWithCost(t, word, opts)
	out := make([]string, len(res))
	for i, r := range res {
		out[i] = r.Word
	}
	return out
}

// SuggestWithCost returns the suggestions for word with their costs.
// Forbidden and no-suggest words are never returned.
func SuggestWithCost(t *trie.Trie, word string, opts Options) []SuggestionResult {
	c := NewCollector(word, opts.CollectorOptions())
	c.Collect(GenSuggestions(t, word, opts), 0, Allowed(t))
	return c.Suggestions()
}

// Allowed filters out the forbidden and no-suggest words of t.
func Allowed(t *trie.Trie) FilterFunc {
	return func(word string, _ int) bool {
		return !t.IsForbiddenWord(word) && !t.IsNoSuggestWord(word)
	}
}

type span struct{ a, b int }

// trieGenerator runs a banded edit distance row per walker depth. A subtree
// is abandoned once every cell of its row is above the cost limit.
type trieGenerator struct {
	walker    *trie.HintedWalker
	method    trie.CompoundMethod
	wm        *distance.WeightMap
	word      string
	x         []rune
	xFolded   []string
	mx        int
	matrix    [][]int
	stack     []span
	costLimit int
	// rowMin is the cheapest cell of the last row; the walker descends
	// while it stays within costLimit.
	rowMin int
	done   bool
}

// GenSuggestions returns a generator of candidates for word from t.
func GenSuggestions(t *trie.Trie, word string, opts Options) Generator {
	changeLimit := opts.ChangeLimit
	if changeLimit <= 0 {
		changeLimit = MaxNumChanges
	}
	x := append([]rune{' '}, []rune(word)...)
	g := &trieGenerator{
		walker: trie.NewHintedWalker(t, opts.IgnoreCase, word, opts.CompoundMethod),
		method: opts.CompoundMethod,
		wm:     opts.WeightMap,
		word:   word,
		x:      x,
		mx:     len(x) - 1,
	}
	n := float64(utf8.RuneCountInString(word))
	g.costLimit = int(math.Floor(BaseCost * math.Min(n*genMaxCostScale, float64(changeLimit))))
	g.xFolded = make([]string, len(x))
	for i, r := range x {
		g.xFolded[i] = foldLetter(r)
	}

	row := g.row(0)
	b := 0
	for i, c := 0, 0; i <= g.mx && c <= g.costLimit; i++ {
		c = i * BaseCost
		row[i] = c
		b = i
	}
	g.stack = append(g.stack, span{0, b})
	return g
}

func foldLetter(r rune) string {
	return trie.NormalizeWordForCaseInsensitive(string(r))
}

func (g *trieGenerator) row(d int) []int {
	for len(g.matrix) <= d {
		g.matrix = append(g.matrix, make([]int, g.mx+1))
	}
	return g.matrix[d]
}

func (g *trieGenerator) setSpan(d int, s span) {
	for len(g.stack) <= d {
		g.stack = append(g.stack, span{})
	}
	g.stack[d] = s
}

func (g *trieGenerator) Next(ctl Control) (Yield, bool) {
	if g.done {
		return Yield{}, false
	}
	if ctl.Stop {
		g.done = true
		return Yield{}, false
	}
	if ctl.MaxCost > 0 {
		g.costLimit = ctl.MaxCost
	}

	item, ok := g.walker.Next(g.rowMin <= g.costLimit)
	if !ok {
		g.done = true
		return Yield{}, false
	}
	cost, minCost := g.advance(item)
	g.rowMin = minCost
	if !item.Node.IsEndOfWord() || cost > g.costLimit {
		return Yield{}, true
	}

	res := SuggestionResult{Word: item.Text, Cost: cost}
	if g.method == trie.JoinWords && strings.ContainsRune(item.Text, trie.JoinSeparator) {
		res.CompoundWord = item.Text
		res.Word = strings.ReplaceAll(item.Text, string(trie.JoinSeparator), "")
	}
	if g.wm != nil {
		weighted := distance.DistanceAStarWeighted(g.word, res.Word, g.wm, BaseCost)
		if weighted < 0 || weighted > g.costLimit {
			return Yield{}, true
		}
		res.Cost = weighted
	}
	return Yield{Result: res, Candidate: true}, true
}

// advance fills the row for the walker item and returns the cost of the
// full word against the item's text and the row minimum.
func (g *trieGenerator) advance(item trie.WalkItem) (int, int) {
	text := []rune(item.Text)
	w := text[len(text)-1]
	wFolded := foldLetter(w)
	d := item.Depth + 1
	var lastSugLetter rune = -1
	if len(text) > 1 {
		lastSugLetter = text[len(text)-2]
	}

	c := BaseCost - d
	if w == '-' {
		c += discourageCost
	}
	ci := c
	if w == trie.JoinSeparator || w == trie.WordSeparator {
		ci += insertSepCost
	}

	prev := g.matrix[d-1]
	cur := g.row(d)
	rng := g.stack[d-1]
	a, b := rng.a, rng.b

	subCost := func(i int, lastLetter rune) int {
		switch {
		case w == g.x[i]:
			return 0
		case wFolded == g.xFolded[i]:
			return mapSubCost
		case g.x[i] == lastSugLetter && w == lastLetter:
			return postSwapCost
		}
		return c
	}

	cur[a] = prev[a] + ci + d - a
	lastLetter := g.x[a]
	lo := cur[a]
	for i := a + 1; i <= b; i++ {
		e := min(prev[i-1]+subCost(i, lastLetter), prev[i]+ci, cur[i-1]+c)
		lo = min(lo, e)
		cur[i] = e
		lastLetter = g.x[i]
	}

	// Extend the band to the right while it stays affordable. Cells of the
	// previous row past its band are approximated by its last cell.
	bb := rng.b
	for b < g.mx {
		b++
		j := min(bb, b-1)
		e := min(prev[j]+subCost(b, lastLetter), cur[b-1]+c)
		lo = min(lo, e)
		cur[b] = e
		lastLetter = g.x[b]
		if e > g.costLimit {
			break
		}
	}

	for b > a && cur[b] > g.costLimit {
		b--
	}
	for a < b && cur[a] > g.costLimit {
		a++
	}
	b = min(b+1, g.mx)
	g.setSpan(d, span{a, b})
	return cur[b], lo
}
