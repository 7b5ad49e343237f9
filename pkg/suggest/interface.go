// Package suggest ranks spelling suggestions: generators walk a trie and emit
// candidates with an edit cost, and a Collector keeps the best of them.
package suggest

// SuggestionResult is a candidate word and its cost. CompoundWord keeps the
// separators of a joined compound when Word has them removed.
type SuggestionResult struct {
	Word         string `msgpack:"w" json:"word"`
	Cost         int    `msgpack:"c" json:"cost"`
	CompoundWord string `msgpack:"cw,omitempty" json:"compoundWord,omitempty"`
	IsPreferred  bool   `msgpack:"p,omitempty" json:"isPreferred,omitempty"`
}

// Control is sent by the consumer on every call to Generator.Next.
type Control struct {
	// MaxCost is the highest cost the consumer still accepts.
	MaxCost int
	// Stop asks the generator to finish.
	Stop bool
}

// Yield is one step of a generator. Steps without a candidate let the
// consumer check its clock between expensive expansions.
type Yield struct {
	Result    SuggestionResult
	Candidate bool
}

// Generator produces candidates on demand. Next returns false once the
// generator is exhausted or after it has been told to stop.
type Generator interface {
	Next(ctl Control) (Yield, bool)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctl Control) (Yield, bool)

func (f GeneratorFunc) Next(ctl Control) (Yield, bool) {
	return f(ctl)
}

// Chain runs generators one after the other, passing the same control.
func Chain(gens ...Generator) Generator {
	i := 0
	return GeneratorFunc(func(ctl Control) (Yield, bool) {
		for i < len(gens) {
			if y, ok := gens[i].Next(ctl); ok {
				return y, true
			}
			if ctl.Stop {
				i = len(gens)
				break
			}
			i++
		}
		return Yield{}, false
	})
}

// FromResults replays fixed results, ending early on Stop.
func FromResults(results ...SuggestionResult) Generator {
	i := 0
	return GeneratorFunc(func(ctl Control) (Yield, bool) {
		if ctl.Stop || i >= len(results) {
			return Yield{}, false
		}
		r := results[i]
		i++
		return Yield{Result: r, Candidate: true}, true
	})
}
