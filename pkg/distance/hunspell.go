package distance

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HunspellInformation carries the raw content of a Hunspell .aff file.
type HunspellInformation struct {
	Aff   string     `yaml:"aff"`
	Costs *EditCosts `yaml:"costs,omitempty"`
}

var (
	regSupportedAff = regexp.MustCompile(`^(?:MAP|KEY|TRY|NO-TRY|ICONV|OCONV|REP)\s`)
	regRejectAff    = regexp.MustCompile(`^(?:MAP|KEY|TRY|ICONV|OCONV|REP)\s+\d+$`)
	regAffComment   = regexp.MustCompile(`#.*`)
	regMap          = regexp.MustCompile(`^MAP\s+(\S+)$`)
	regTry          = regexp.MustCompile(`^TRY\s+(\S+)$`)
	regNoTry        = regexp.MustCompile(`^NO-TRY\s+(\S+)$`)
	regRepConv      = regexp.MustCompile(`^(?:REP|[IO]CONV)\s+(\S+)\s+(\S+)$`)
	regKey          = regexp.MustCompile(`^KEY\s+(\S+)$`)
)

type affOp func(line string, c affCosts) (CostMapDef, bool)

type affCosts struct {
	EditCosts
	tag language.Tag
}

// affOps run on every aff line, in order.
var affOps = []affOp{
	affKey,
	affKeyCaps,
	affMap,
	affMapAccents,
	affMapCaps,
	affNoTry,
	affRepConv,
	affTry,
	affTryAccents,
	affTryCaps,
	affTryFirstCharacterReplace,
}

// HunspellToCostDefs turns the MAP, TRY, NO-TRY, KEY, REP, ICONV and OCONV
// lines of an aff file into cost definitions. Count lines such as "MAP 3"
// are skipped.
func HunspellToCostDefs(info HunspellInformation, locale string) []CostMapDef {
	costs := DefaultEditCosts()
	if info.Costs != nil {
		costs = info.Costs.WithDefaults()
	}
	c := affCosts{EditCosts: costs, tag: parseLocale(locale)}

	var defs []CostMapDef
	for _, line := range strings.Split(info.Aff, "\n") {
		line = strings.TrimSpace(regAffComment.ReplaceAllString(line, ""))
		if !regSupportedAff.MatchString(line) || regRejectAff.MatchString(line) {
			continue
		}
		for _, op := range affOps {
			if def, ok := op(line, c); ok {
				defs = append(defs, def)
			}
		}
	}
	return defs
}

func match(re *regexp.Regexp, line string) []string {
	return re.FindStringSubmatch(line)
}

func affMap(line string, c affCosts) (CostMapDef, bool) {
	m := match(regMap, line)
	if m == nil {
		return CostMapDef{}, false
	}
	return CostMapDef{Map: m[1], Replace: CostOf(c.MapCost), Swap: CostOf(c.MapCost)}, true
}

func affTry(line string, c affCosts) (CostMapDef, bool) {
	m := match(regTry, line)
	if m == nil {
		return CostMapDef{}, false
	}
	cost := c.TryCharCost
	return CostMapDef{Map: m[1], InsDel: CostOf(cost), Replace: CostOf(cost), Swap: CostOf(cost)}, true
}

func affTryFirstCharacterReplace(line string, c affCosts) (CostMapDef, bool) {
	m := match(regTry, line)
	if m == nil {
		return CostMapDef{}, false
	}
	var sb strings.Builder
	for _, l := range splitLetters(m[1]) {
		sb.WriteString("(^" + l + ")")
	}
	return CostMapDef{
		Map:     sb.String(),
		Replace: CostOf(c.TryCharCost - c.FirstLetterPenalty),
		Penalty: CostOf(c.FirstLetterPenalty),
	}, true
}

func affNoTry(line string, c affCosts) (CostMapDef, bool) {
	m := match(regNoTry, line)
	if m == nil {
		return CostMapDef{}, false
	}
	return CostMapDef{
		Map:     m[1],
		InsDel:  CostOf(max(c.NonAlphabetCosts-c.TryCharCost, 0)),
		Penalty: CostOf(c.NonAlphabetCosts + c.TryCharCost),
	}, true
}

func affRepConv(line string, c affCosts) (CostMapDef, bool) {
	m := match(regRepConv, line)
	if m == nil {
		return CostMapDef{}, false
	}
	cost := c.IOConvertCost
	if strings.HasPrefix(line, "REP") {
		cost = c.ReplaceCosts
	}
	from, into := m[1], m[2]
	if into == "0" {
		into = ""
	}
	if strings.HasPrefix(from, "^") && !strings.HasPrefix(into, "^") {
		into = "^" + into
	}
	if strings.HasSuffix(from, "$") && !strings.HasSuffix(into, "$") {
		into += "$"
	}
	return CostMapDef{Map: "(" + from + ")(" + into + ")", Replace: CostOf(cost)}, true
}

func affKey(line string, c affCosts) (CostMapDef, bool) {
	m := match(regKey, line)
	if m == nil {
		return CostMapDef{}, false
	}
	var pairs []string
	prev := "|"
	for _, l := range splitLetters(m[1]) {
		if prev != "|" && l != "|" {
			pairs = append(pairs, joinLetters([]string{prev, l}))
		}
		prev = l
	}
	upper := cases.Upper(c.tag)
	all := slices.Clone(pairs)
	for _, p := range pairs {
		all = append(all, upper.String(p))
	}
	return CostMapDef{
		Map:     strings.Join(unique(all), "|"),
		Replace: CostOf(c.KeyboardCost),
		Swap:    CostOf(c.KeyboardCost),
	}, true
}

func affKeyCaps(line string, c affCosts) (CostMapDef, bool) {
	if m := match(regKey, line); m != nil {
		return parseCaps(m[1], c)
	}
	return CostMapDef{}, false
}

func affMapCaps(line string, c affCosts) (CostMapDef, bool) {
	if m := match(regMap, line); m != nil {
		return parseCaps(m[1], c)
	}
	return CostMapDef{}, false
}

func affTryCaps(line string, c affCosts) (CostMapDef, bool) {
	if m := match(regTry, line); m != nil {
		return parseCaps(m[1], c)
	}
	return CostMapDef{}, false
}

func affTryAccents(line string, c affCosts) (CostMapDef, bool) {
	if m := match(regTry, line); m != nil {
		return parseAffAccents(m[1], c)
	}
	return CostMapDef{}, false
}

func affMapAccents(line string, c affCosts) (CostMapDef, bool) {
	if m := match(regMap, line); m != nil {
		return parseAffAccents(m[1], c)
	}
	return CostMapDef{}, false
}

func lettersOf(value string) []string {
	var out []string
	for _, l := range splitLetters(value) {
		if l != "|" {
			out = append(out, l)
		}
	}
	return out
}

func parseCaps(value string, c affCosts) (CostMapDef, bool) {
	var withCases []string
	for _, l := range lettersOf(value) {
		if forms := caseForms(l, c.tag); len(forms) > 1 {
			withCases = append(withCases, joinLetters(forms))
		}
	}
	m := strings.Join(unique(withCases), "|")
	if m == "" {
		return CostMapDef{}, false
	}
	return CostMapDef{Map: m, Replace: CostOf(c.CapsCosts)}, true
}

func parseAffAccents(value string, c affCosts) (CostMapDef, bool) {
	var pairs []string
	for _, l := range lettersOf(value) {
		for _, form := range caseForms(l, c.tag) {
			if stripped := stripAccents(form); stripped != form {
				pairs = append(pairs, joinLetters([]string{form, stripped}))
			}
		}
	}
	m := strings.Join(unique(pairs), "|")
	if m == "" {
		return CostMapDef{}, false
	}
	return CostMapDef{Map: m, Replace: CostOf(c.AccentCosts)}, true
}
