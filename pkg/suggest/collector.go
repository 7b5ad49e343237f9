package suggest

import (
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// BaseCost is the price of one plain edit.
	BaseCost = 100
	// MaxNumChanges is the default ChangeLimit.
	MaxNumChanges = 5
	// DefaultNumSuggestions is the default result count.
	DefaultNumSuggestions = 8
	// DefaultTimeout bounds the total time a collector spends collecting.
	DefaultTimeout = time.Second

	maxCostScale        = 0.5
	maxAllowedCostScale = 1.03 * maxCostScale
	extraWordCost       = 5
)

// Short words and word parts are charged extra so that they rank after
// longer, more plausible candidates.
var wordLengthCost = [...]int{0, 50, 25, 5, 0}

// FilterFunc reports whether a candidate may be kept.
type FilterFunc func(word string, cost int) bool

// CollectorOptions configures a Collector.
type CollectorOptions struct {
	NumSuggestions int
	Filter         FilterFunc
	// ChangeLimit is the number of edits allowed. Zero means MaxNumChanges.
	ChangeLimit int
	// IncludeTies keeps results tied with the last one beyond NumSuggestions.
	IncludeTies bool
	IgnoreCase  bool
	// Timeout is the total collection time. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultCollectorOptions returns the standard options.
func DefaultCollectorOptions() CollectorOptions {
	return CollectorOptions{
		NumSuggestions: DefaultNumSuggestions,
		ChangeLimit:    MaxNumChanges,
		IncludeTies:    true,
		IgnoreCase:     true,
		Timeout:        DefaultTimeout,
	}
}

// Collector keeps the best suggestions for a word. It lowers its maximum
// cost as better candidates arrive and feeds it back to the generators.
// A Collector is not safe for concurrent use.
type Collector struct {
	word      string
	opts      CollectorOptions
	sugs      map[string]*SuggestionResult
	maxCost   int
	remaining time.Duration
	timedOut  bool
	collator  *collate.Collator
}

// NewCollector returns a collector for word.
func NewCollector(word string, opts CollectorOptions) *Collector {
	if opts.ChangeLimit <= 0 {
		opts.ChangeLimit = MaxNumChanges
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	opts.NumSuggestions = max(opts.NumSuggestions, 0)
	if opts.Filter == nil {
		opts.Filter = func(string, int) bool { return true }
	}
	n := float64(utf8.RuneCountInString(word))
	return &Collector{
		word:      word,
		opts:      opts,
		sugs:      make(map[string]*SuggestionResult),
		maxCost:   int(math.Floor(BaseCost * math.Min(n*maxAllowedCostScale, float64(opts.ChangeLimit)))),
		remaining: opts.Timeout,
		collator:  collate.New(language.Und),
	}
}

// Word returns the word being matched.
func (c *Collector) Word() string { return c.word }

// MaxCost returns the current cost ceiling.
func (c *Collector) MaxCost() int { return c.maxCost }

// ChangeLimit returns the number of allowed edits.
func (c *Collector) ChangeLimit() int { return c.opts.ChangeLimit }

// IgnoreCase reports whether case and accents are ignored.
func (c *Collector) IgnoreCase() bool { return c.opts.IgnoreCase }

// TimedOut reports whether a Collect call ran out of time. The results are
// then partial.
func (c *Collector) TimedOut() bool { return c.timedOut }

// Add offers a suggestion produced outside of Collect.
func (c *Collector) Add(s SuggestionResult) *Collector {
	c.collect(s)
	return c
}

// Collect drains gen. Once timeout (capped by the time left on the
// collector) has elapsed the generator is told to stop; what was collected
// so far is kept. A non-positive timeout uses the time left. filter is
// applied before the collector's own filter.
func (c *Collector) Collect(gen Generator, timeout time.Duration, filter FilterFunc) {
	if timeout <= 0 || timeout > c.remaining {
		timeout = c.remaining
	}
	if timeout < 0 {
		c.timedOut = true
		return
	}

	start := time.Now()
	stop := false
	steps := 0
	for {
		y, ok := gen.Next(Control{MaxCost: c.maxCost, Stop: stop})
		if !ok {
			break
		}
		steps++
		if !stop && time.Since(start) > timeout {
			log.Debugf("suggest %q: timeout after %d steps", c.word, steps)
			stop = true
			c.timedOut = true
		}
		if !y.Candidate {
			continue
		}
		if filter == nil || filter(y.Result.Word, y.Result.Cost) {
			c.collect(y.Result)
		}
	}
	c.remaining -= time.Since(start)
}

func (c *Collector) collect(s SuggestionResult) int {
	cost := s.Cost + adjustCost(s)
	if cost > c.maxCost || !c.opts.Filter(s.Word, cost) {
		return c.maxCost
	}
	if known, ok := c.sugs[s.Word]; ok {
		known.Cost = min(known.Cost, cost)
		return c.maxCost
	}
	s.Cost = cost
	c.sugs[s.Word] = &s
	if cost < c.maxCost && len(c.sugs) > c.opts.NumSuggestions {
		c.dropMax()
	}
	return c.maxCost
}

// dropMax lowers maxCost to the cost of the last kept result and forgets
// everything more expensive.
func (c *Collector) dropMax() {
	if len(c.sugs) < 2 || c.opts.NumSuggestions == 0 {
		clear(c.sugs)
		return
	}
	sorted := c.sorted()
	i := c.opts.NumSuggestions - 1
	c.maxCost = sorted[i].Cost
	for i < len(sorted) && sorted[i].Cost <= c.maxCost {
		i++
	}
	for ; i < len(sorted); i++ {
		delete(c.sugs, sorted[i].Word)
	}
}

func (c *Collector) sorted() []SuggestionResult {
	out := make([]SuggestionResult, 0, len(c.sugs))
	for _, s := range c.sugs {
		out = append(out, *s)
	}
	slices.SortFunc(out, c.compare)
	return out
}

func (c *Collector) compare(a, b SuggestionResult) int {
	if a.Cost != b.Cost {
		return a.Cost - b.Cost
	}
	if la, lb := utf8.RuneCountInString(a.Word), utf8.RuneCountInString(b.Word); la != lb {
		return la - lb
	}
	return c.collator.CompareString(a.Word, b.Word)
}

// Suggestions returns the kept results, best first.
func (c *Collector) Suggestions() []SuggestionResult {
	sorted := c.sorted()
	if !c.opts.IncludeTies && len(sorted) > c.opts.NumSuggestions {
		sorted = sorted[:c.opts.NumSuggestions]
	}
	return sorted
}

// adjustCost charges short parts and every extra part of a compound.
func adjustCost(s SuggestionResult) int {
	word := s.Word
	if s.CompoundWord != "" {
		word = s.CompoundWord
	}
	extra, partLen := 0, 0
	for _, r := range word {
		if r == '+' || r == ' ' {
			extra += partCost(partLen) + extraWordCost
			partLen = 0
			continue
		}
		partLen++
	}
	return extra + partCost(partLen)
}

func partCost(n int) int {
	if n < len(wordLengthCost) {
		return wordLengthCost[n]
	}
	return 0
}
