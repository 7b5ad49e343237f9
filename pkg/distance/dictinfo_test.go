package distance

import (
	"slices"
	"testing"
)

func TestExpandCharacterSet(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{"", nil},
		{"abc", []string{"a", "b", "c"}},
		{"a-d", []string{"a", "b", "c", "d"}},
		{"-ab", []string{"-", "a", "b"}},
		{"x-", []string{"x", "-"}},
		{"a-cb", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		if got := expandCharacterSet(tt.in); !slices.Equal(got, tt.expected) {
			t.Errorf("expandCharacterSet(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestEditCostsWithDefaults(t *testing.T) {
	c := EditCosts{MapCost: 3, BaseCost: 50}.WithDefaults()
	d := DefaultEditCosts()
	if c.MapCost != 3 || c.BaseCost != 50 {
		t.Errorf("explicit costs overwritten: %+v", c)
	}
	if c.TryCharCost != d.TryCharCost || c.ReplaceCosts != d.ReplaceCosts {
		t.Errorf("zero costs not defaulted: %+v", c)
	}
}

func TestMapDictionaryInformationToWeightMap(t *testing.T) {
	info := DictionaryInformation{
		Locale:   "en-US",
		Alphabet: []CharacterSetCosts{{Characters: "a-z", Cost: 100}},
		SuggestionEditCosts: []CostMapDef{
			{Map: "(ie)(ei)", Replace: CostOf(20)},
		},
		Adjustments: []PatternAdjustment{{ID: "digits", Regexp: `\d`, Penalty: 30}},
	}
	m, err := MapDictionaryInformationToWeightMap(info)
	if err != nil {
		t.Fatalf("MapDictionaryInformationToWeightMap: %v", err)
	}

	tests := []struct {
		a, b     string
		expected int
	}{
		{"a", "A", 1},
		{"a", "b", 100},
		{"^a", "^b", 96},
		{"ie", "ei", 20},
	}
	for _, tt := range tests {
		if got, ok := m.LookupReplaceCost(tt.a, tt.b); !ok || got != tt.expected {
			t.Errorf("LookupReplaceCost(%q, %q) = %d, %v, want %d", tt.a, tt.b, got, ok, tt.expected)
		}
	}
	if got := m.CalcAdjustment("abc1"); got != 30 {
		t.Errorf("CalcAdjustment = %d, want 30", got)
	}

	info.Adjustments = append(info.Adjustments, PatternAdjustment{ID: "bad", Regexp: "("})
	if _, err := MapDictionaryInformationToWeightMap(info); err == nil {
		t.Error("expected an error for an invalid adjustment pattern")
	}
}

func TestCalcFirstCharacterReplace(t *testing.T) {
	def := CalcFirstCharacterReplace(CharacterSetCosts{Characters: "cab", Cost: 100}, DefaultEditCosts())
	if got := fmtDef(def, true); got != "map=(^a)(^b)(^c)(^) insDel=- replace=96 swap=- penalty=8" {
		t.Errorf("CalcFirstCharacterReplace = %s", got)
	}
}

func TestParseAccents(t *testing.T) {
	def, ok := ParseAccents(CharacterSetCosts{Characters: "éè", Cost: 10})
	if !ok {
		t.Fatal("expected accents")
	}
	if def.Map != "\u0301\u0300" {
		t.Errorf("Map = %q", def.Map)
	}
	if *def.InsDel != 10 || *def.Replace != 10 {
		t.Errorf("costs = %d %d", *def.InsDel, *def.Replace)
	}
	if _, ok := ParseAccents(CharacterSetCosts{Characters: "abc", Cost: 10}); ok {
		t.Error("plain letters have no accents")
	}
}

func TestWeightedAccentDistance(t *testing.T) {
	m, err := MapDictionaryInformationToWeightMap(DictionaryInformation{
		Locale:   "fr",
		Alphabet: []CharacterSetCosts{{Characters: "a-zéè", Cost: 100}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := DistanceAStarWeighted("cafe", "café", m, 100); got != 1 {
		t.Errorf("cafe -> café = %d, want 1", got)
	}
	if got := DistanceAStarWeighted("Cafe", "cafe", m, 100); got != 1 {
		t.Errorf("Cafe -> cafe = %d, want 1", got)
	}
}
