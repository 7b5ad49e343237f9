package distance

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// EditCosts are the base prices used when deriving cost maps from
// dictionary metadata. Zero fields take their default.
type EditCosts struct {
	BaseCost           int `yaml:"baseCost,omitempty" toml:"base_cost"`
	FirstLetterPenalty int `yaml:"firstLetterPenalty,omitempty" toml:"first_letter_penalty"`
	NonAlphabetCosts   int `yaml:"nonAlphabetCosts,omitempty" toml:"non_alphabet_costs"`
	CapsCosts          int `yaml:"capsCosts,omitempty" toml:"caps_costs"`
	AccentCosts        int `yaml:"accentCosts,omitempty" toml:"accent_costs"`
	TryCharCost        int `yaml:"tryCharCost,omitempty" toml:"try_char_cost"`
	KeyboardCost       int `yaml:"keyboardCost,omitempty" toml:"keyboard_cost"`
	MapCost            int `yaml:"mapCost,omitempty" toml:"map_cost"`
	IOConvertCost      int `yaml:"ioConvertCost,omitempty" toml:"io_convert_cost"`
	ReplaceCosts       int `yaml:"replaceCosts,omitempty" toml:"replace_costs"`
}

// DefaultEditCosts returns the standard prices.
func DefaultEditCosts() EditCosts {
	return EditCosts{
		BaseCost:           DefaultEditCost,
		FirstLetterPenalty: 4,
		NonAlphabetCosts:   100,
		CapsCosts:          1,
		AccentCosts:        1,
		TryCharCost:        95,
		KeyboardCost:       94,
		MapCost:            25,
		IOConvertCost:      30,
		ReplaceCosts:       75,
	}
}

// WithDefaults fills zero fields from DefaultEditCosts.
func (c EditCosts) WithDefaults() EditCosts {
	d := DefaultEditCosts()
	fill := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.BaseCost, d.BaseCost)
	fill(&c.FirstLetterPenalty, d.FirstLetterPenalty)
	fill(&c.NonAlphabetCosts, d.NonAlphabetCosts)
	fill(&c.CapsCosts, d.CapsCosts)
	fill(&c.AccentCosts, d.AccentCosts)
	fill(&c.TryCharCost, d.TryCharCost)
	fill(&c.KeyboardCost, d.KeyboardCost)
	fill(&c.MapCost, d.MapCost)
	fill(&c.IOConvertCost, d.IOConvertCost)
	fill(&c.ReplaceCosts, d.ReplaceCosts)
	return c
}

// CharacterSetCosts prices edits within a set of characters. Characters
// may contain ranges like "a-z".
type CharacterSetCosts struct {
	Characters string `yaml:"characters"`
	Cost       int    `yaml:"cost"`
	Penalty    *int   `yaml:"penalty,omitempty"`
}

// PatternAdjustment is the declarative form of a PenaltyAdjustment.
type PatternAdjustment struct {
	ID      string `yaml:"id"`
	Regexp  string `yaml:"regexp"`
	Penalty int    `yaml:"penalty"`
	Global  bool   `yaml:"global,omitempty"`
}

// DictionaryInformation describes the language of a dictionary, usually
// read from a "<name>.info.yaml" file next to the word list.
type DictionaryInformation struct {
	Locale              string               `yaml:"locale,omitempty"`
	Alphabet            []CharacterSetCosts  `yaml:"alphabet,omitempty"`
	Accents             []CharacterSetCosts  `yaml:"accents,omitempty"`
	SuggestionEditCosts []CostMapDef         `yaml:"suggestionEditCosts,omitempty"`
	HunspellInformation *HunspellInformation `yaml:"hunspellInformation,omitempty"`
	Adjustments         []PatternAdjustment  `yaml:"adjustments,omitempty"`
	Costs               *EditCosts           `yaml:"costs,omitempty"`
}

// MapDictionaryInformationToWeightMap builds the WeightMap described by
// info. It fails only on an invalid adjustment pattern.
func MapDictionaryInformationToWeightMap(info DictionaryInformation) (*WeightMap, error) {
	costs := DefaultEditCosts()
	if info.Costs != nil {
		costs = info.Costs.WithDefaults()
	}
	tag := parseLocale(info.Locale)

	var defs []CostMapDef
	for _, cs := range info.Alphabet {
		defs = append(defs, ParseAlphabet(cs, tag, costs)...)
	}
	for _, cs := range info.Alphabet {
		defs = append(defs, CalcFirstCharacterReplace(cs, costs))
	}
	for _, cs := range info.Accents {
		if def, ok := ParseAccents(cs); ok {
			defs = append(defs, def)
		}
	}
	if info.HunspellInformation != nil {
		defs = append(defs, HunspellToCostDefs(*info.HunspellInformation, info.Locale)...)
	}
	defs = append(defs, info.SuggestionEditCosts...)

	m := CreateWeightMap(defs...)
	for _, adj := range info.Adjustments {
		re, err := regexp.Compile(adj.Regexp)
		if err != nil {
			return nil, fmt.Errorf("adjustment %q: %w", adj.ID, err)
		}
		m.AddAdjustment(PenaltyAdjustment{ID: adj.ID, Regexp: re, Penalty: adj.Penalty, Global: adj.Global})
	}
	return m, nil
}

// ParseAlphabet derives the defs of an alphabet: cheap edits between its
// letters, case changes and accent changes.
func ParseAlphabet(cs CharacterSetCosts, tag language.Tag, costs EditCosts) []CostMapDef {
	var letters []string
	for _, c := range expandCharacterSet(cs.Characters) {
		forms := caseForms(c, tag)
		sort.Strings(forms)
		for _, f := range forms {
			letters = append(letters, accentForms(f)...)
		}
	}
	letters = unique(letters)
	sort.Strings(letters)
	alphabet := joinLetters(letters)

	defs := []CostMapDef{
		{
			Map:     alphabet,
			Replace: CostOf(cs.Cost),
			InsDel:  CostOf(cs.Cost),
			Swap:    CostOf(cs.Cost),
			Penalty: cs.Penalty,
		},
		parseAlphabetCaps(cs.Characters, tag, costs),
	}
	return append(defs, calcCostsForAccentedLetters(alphabet, tag, costs)...)
}

func parseAlphabetCaps(characters string, tag language.Tag, costs EditCosts) CostMapDef {
	var groups []string
	for _, c := range expandCharacterSet(characters) {
		forms := caseForms(c, tag)
		sort.Strings(forms)
		groups = append(groups, joinLetters(forms))
	}
	return CostMapDef{Map: strings.Join(groups, "|"), Replace: CostOf(costs.CapsCosts)}
}

func calcCostsForAccentedLetters(simpleMap string, tag language.Tag, costs EditCosts) []CostMapDef {
	var withAccents [][]string
	for _, c := range splitLetters(simpleMap) {
		for _, f := range caseForms(c, tag) {
			if forms := accentForms(f); len(forms) > 1 {
				withAccents = append(withAccents, forms)
			}
		}
	}

	var replace []string
	for _, forms := range withAccents {
		set := slices.Clone(forms)
		for _, f := range forms {
			set = append(set, stripAccents(f))
		}
		set = unique(set)
		sort.Strings(set)
		if len(set) > 1 {
			replace = append(replace, joinLetters(set))
		}
	}
	replace = unique(replace)

	var normalize []string
	for _, forms := range withAccents {
		sorted := slices.Clone(forms)
		sort.Strings(sorted)
		normalize = append(normalize, joinLetters(sorted))
	}

	var defs []CostMapDef
	if len(replace) > 0 {
		defs = append(defs, CostMapDef{Map: strings.Join(replace, "|"), Replace: CostOf(costs.AccentCosts)})
	}
	if len(normalize) > 0 {
		defs = append(defs, CostMapDef{Map: strings.Join(normalize, "|"), Replace: CostOf(0)})
	}
	return defs
}

// CalcFirstCharacterReplace makes replacing the first letter slightly
// cheaper but penalized, so such suggestions rank after the others.
func CalcFirstCharacterReplace(cs CharacterSetCosts, costs EditCosts) CostMapDef {
	var firsts []string
	for _, c := range expandCharacterSet(cs.Characters) {
		firsts = append(firsts, "(^"+c+")")
	}
	sort.Strings(firsts)
	penalty := costs.FirstLetterPenalty
	return CostMapDef{
		Map:     strings.Join(firsts, "") + "(^)",
		Replace: CostOf(cs.Cost - penalty),
		Penalty: CostOf(penalty * 2),
	}
}

// ParseAccents prices adding or removing the combining marks of cs.
func ParseAccents(cs CharacterSetCosts) (CostMapDef, bool) {
	var marks []string
	for _, c := range expandCharacterSet(cs.Characters) {
		if m := stripNonAccents(c); m != "" {
			marks = append(marks, m)
		}
	}
	accents := joinLetters(marks)
	if accents == "" {
		return CostMapDef{}, false
	}
	return CostMapDef{
		Map:     accents,
		Replace: CostOf(cs.Cost),
		InsDel:  CostOf(cs.Cost),
		Penalty: cs.Penalty,
	}, true
}
