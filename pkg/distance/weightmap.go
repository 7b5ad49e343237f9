package distance

import (
	"fmt"
	"iter"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CostMapDef declares the edit costs of a set of characters or substrings.
//
// Map lists the members: bare characters are single members, "(..)" groups
// a multi character member and "|" separates independent sets. Only members
// of the same set are paired for replace and swap costs. A nil cost leaves
// the operation at its default.
type CostMapDef struct {
	Map         string `yaml:"map" toml:"map" msgpack:"map"`
	Description string `yaml:"description,omitempty" toml:"description" msgpack:"description,omitempty"`
	InsDel      *int   `yaml:"insDel,omitempty" toml:"ins_del" msgpack:"insDel,omitempty"`
	Replace     *int   `yaml:"replace,omitempty" toml:"replace" msgpack:"replace,omitempty"`
	Swap        *int   `yaml:"swap,omitempty" toml:"swap" msgpack:"swap,omitempty"`
	Penalty     *int   `yaml:"penalty,omitempty" toml:"penalty" msgpack:"penalty,omitempty"`
}

// CostOf returns a pointer to v, for filling CostMapDef fields.
func CostOf(v int) *int {
	return &v
}

// PenaltyAdjustment adds Penalty to the distance of every word matching
// Regexp, once per match when Global is set.
type PenaltyAdjustment struct {
	ID      string
	Regexp  *regexp.Regexp
	Penalty int
	Global  bool
}

// TrieCost maps substrings to a cost. Costs merge to the lowest value and
// penalties to the highest.
type TrieCost struct {
	n    map[rune]*TrieCost
	c    int
	p    int
	cost bool
}

// TrieTrieCost maps a left substring to a TrieCost of right substrings.
type TrieTrieCost struct {
	n map[rune]*TrieTrieCost
	t *TrieCost
}

// WeightMap is the cost model of the weighted distance. It is read only
// once built and may be shared between goroutines.
type WeightMap struct {
	InsDel      *TrieCost
	Replace     *TrieTrieCost
	Swap        *TrieTrieCost
	Adjustments map[string]PenaltyAdjustment
}

// CostPosition is an alignment state: A[:Ai] has been turned into B[:Bi]
// at cost C plus penalties P.
type CostPosition struct {
	A, B   []rune
	Ai, Bi int
	C, P   int
}

var possibleWordSeparators = regexp.MustCompile(`[+∙•・●]`)

// compoundSeparator is the canonical separator of compound suggestions.
const compoundSeparator = "+"

// NewWeightMap returns an empty WeightMap.
func NewWeightMap() *WeightMap {
	return &WeightMap{
		InsDel:      &TrieCost{},
		Replace:     &TrieTrieCost{},
		Swap:        &TrieTrieCost{},
		Adjustments: make(map[string]PenaltyAdjustment),
	}
}

// CreateWeightMap builds a WeightMap from defs.
func CreateWeightMap(defs ...CostMapDef) *WeightMap {
	return NewWeightMap().AddDefs(defs...)
}

// AddDefs merges defs into m and returns m.
func (m *WeightMap) AddDefs(defs ...CostMapDef) *WeightMap {
	for _, def := range defs {
		def.Map = normalizeMap(def.Map)
		for _, set := range splitMap(def.Map) {
			addSetToTrieCost(m.InsDel, set, def.InsDel, def.Penalty)
			addSetToTrieTrieCost(m.Replace, set, def.Replace, def.Penalty)
			addSetToTrieTrieCost(m.Swap, set, def.Swap, def.Penalty)
		}
	}
	return m
}

// AddAdjustment registers adjustments by id, replacing earlier ones.
func (m *WeightMap) AddAdjustment(adjustments ...PenaltyAdjustment) *WeightMap {
	for _, adj := range adjustments {
		m.Adjustments[adj.ID] = adj
	}
	return m
}

func normalizeMap(s string) string {
	return possibleWordSeparators.ReplaceAllString(s, compoundSeparator)
}

// normalizeForms returns s with its NFC and NFD forms, without duplicates.
func normalizeForms(s string) []string {
	out := []string{s}
	for _, f := range []string{norm.NFC.String(s), norm.NFD.String(s)} {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// SplitMapSubstrings returns the members of one set of a map string.
func SplitMapSubstrings(s string) []string {
	var out []string
	var seq []rune
	inGroup := false
	for _, r := range s {
		switch {
		case inGroup && r == ')':
			out = append(out, normalizeForms(string(seq))...)
			inGroup = false
		case inGroup:
			seq = append(seq, r)
		case r == '(':
			inGroup = true
			seq = seq[:0]
		default:
			out = append(out, normalizeForms(string(r))...)
		}
	}
	return out
}

func splitMap(s string) [][]string {
	var sets [][]string
	for _, part := range strings.Split(s, "|") {
		if set := SplitMapSubstrings(part); len(set) > 0 {
			sets = append(sets, set)
		}
	}
	return sets
}

func (t *TrieCost) child(r rune) *TrieCost {
	if t.n == nil {
		t.n = make(map[rune]*TrieCost)
	}
	c, ok := t.n[r]
	if !ok {
		c = &TrieCost{}
		t.n[r] = c
	}
	return c
}

func (t *TrieTrieCost) child(r rune) *TrieTrieCost {
	if t.n == nil {
		t.n = make(map[rune]*TrieTrieCost)
	}
	c, ok := t.n[r]
	if !ok {
		c = &TrieTrieCost{}
		t.n[r] = c
	}
	return c
}

func addToTrieCost(t *TrieCost, s string, cost int, penalty *int) {
	if s == "" {
		return
	}
	for _, r := range s {
		t = t.child(r)
	}
	if !t.cost || cost < t.c {
		t.c = cost
	}
	t.cost = true
	if penalty != nil && *penalty > t.p {
		t.p = *penalty
	}
}

func addToTrieTrieCost(t *TrieTrieCost, left, right string, cost int, penalty *int) {
	for _, r := range left {
		t = t.child(r)
	}
	if t.t == nil {
		t.t = &TrieCost{}
	}
	addToTrieCost(t.t, right, cost, penalty)
}

func addSetToTrieCost(t *TrieCost, set []string, cost, penalty *int) {
	if cost == nil {
		return
	}
	for _, s := range set {
		addToTrieCost(t, s, *cost, penalty)
	}
}

func addSetToTrieTrieCost(t *TrieTrieCost, set []string, cost, penalty *int) {
	if cost == nil {
		return
	}
	for _, left := range set {
		for _, right := range set {
			if left == right {
				continue
			}
			addToTrieTrieCost(t, left, right, *cost, penalty)
		}
	}
}

type costMatch struct {
	i, c, p int
}

// findTrieCostPrefixes yields every prefix of s[i:] that has a cost.
func findTrieCostPrefixes(t *TrieCost, s []rune, i int) iter.Seq[costMatch] {
	return func(yield func(costMatch) bool) {
		for j, n := i, t.n; j < len(s) && n != nil; {
			c, ok := n[s[j]]
			if !ok {
				return
			}
			j++
			if c.cost && !yield(costMatch{i: j, c: c.c, p: c.p}) {
				return
			}
			n = c.n
		}
	}
}

type trieCostMatch struct {
	i int
	t *TrieCost
}

func findTrieTrieCostPrefixes(t *TrieTrieCost, s []rune, i int) iter.Seq[trieCostMatch] {
	return func(yield func(trieCostMatch) bool) {
		for j, n := i, t.n; j < len(s) && n != nil; {
			c, ok := n[s[j]]
			if !ok {
				return
			}
			j++
			if c.t != nil && !yield(trieCostMatch{i: j, t: c.t}) {
				return
			}
			n = c.n
		}
	}
}

// CalcInsDelCosts yields the positions reached by deleting a weighted
// substring of A or inserting one of B.
func (m *WeightMap) CalcInsDelCosts(pos CostPosition) iter.Seq[CostPosition] {
	return func(yield func(CostPosition) bool) {
		for del := range findTrieCostPrefixes(m.InsDel, pos.A, pos.Ai) {
			next := pos
			next.Ai, next.C, next.P = del.i, pos.C+del.c, pos.P+del.p
			if !yield(next) {
				return
			}
		}
		for ins := range findTrieCostPrefixes(m.InsDel, pos.B, pos.Bi) {
			next := pos
			next.Bi, next.C, next.P = ins.i, pos.C+ins.c, pos.P+ins.p
			if !yield(next) {
				return
			}
		}
	}
}

// CalcReplaceCosts yields the positions reached by replacing a substring
// of A starting at Ai with a substring of B starting at Bi.
func (m *WeightMap) CalcReplaceCosts(pos CostPosition) iter.Seq[CostPosition] {
	return func(yield func(CostPosition) bool) {
		for del := range findTrieTrieCostPrefixes(m.Replace, pos.A, pos.Ai) {
			for ins := range findTrieCostPrefixes(del.t, pos.B, pos.Bi) {
				next := pos
				next.Ai, next.Bi = del.i, ins.i
				next.C, next.P = pos.C+ins.c, pos.P+ins.p
				if !yield(next) {
					return
				}
			}
		}
	}
}

// CalcSwapCosts yields the positions reached by swapping two adjacent
// substrings of A so that they match B.
func (m *WeightMap) CalcSwapCosts(pos CostPosition) iter.Seq[CostPosition] {
	return func(yield func(CostPosition) bool) {
		a, b := pos.A, pos.B
		for left := range findTrieTrieCostPrefixes(m.Swap, a, pos.Ai) {
			for right := range findTrieCostPrefixes(left.t, a, left.i) {
				sw := make([]rune, 0, right.i-pos.Ai)
				sw = append(sw, a[left.i:right.i]...)
				sw = append(sw, a[pos.Ai:left.i]...)
				if !hasPrefix(b[pos.Bi:], sw) {
					continue
				}
				next := pos
				next.Ai, next.Bi = pos.Ai+len(sw), pos.Bi+len(sw)
				next.C, next.P = pos.C+right.c, pos.P+right.p
				if !yield(next) {
					return
				}
			}
		}
	}
}

func hasPrefix(s, prefix []rune) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}

// CalcAdjustment returns the sum of the penalty adjustments matching word.
func (m *WeightMap) CalcAdjustment(word string) int {
	penalty := 0
	for _, adj := range m.Adjustments {
		if adj.Regexp == nil {
			continue
		}
		if adj.Global {
			penalty += adj.Penalty * len(adj.Regexp.FindAllStringIndex(word, -1))
		} else if adj.Regexp.MatchString(word) {
			penalty += adj.Penalty
		}
	}
	return penalty
}

func (m *WeightMap) calcAdjustment(word string) int {
	if m == nil {
		return 0
	}
	return m.CalcAdjustment(word)
}

// LookupReplaceCost returns the cost of replacing a with b.
func (m *WeightMap) LookupReplaceCost(a, b string) (int, bool) {
	tt := m.Replace
	for _, r := range a {
		next, ok := tt.n[r]
		if !ok {
			return 0, false
		}
		tt = next
	}
	t := tt.t
	if t == nil {
		return 0, false
	}
	for _, r := range b {
		next, ok := t.n[r]
		if !ok {
			return 0, false
		}
		t = next
	}
	return t.c, t.cost
}

type costEntry struct {
	s    string
	c, p int
}

func walkTrieCost(t *TrieCost, prefix string, out []costEntry) []costEntry {
	if t == nil {
		return out
	}
	if t.cost {
		out = append(out, costEntry{s: prefix, c: t.c, p: t.p})
	}
	for _, r := range slices.Sorted(maps.Keys(t.n)) {
		out = walkTrieCost(t.n[r], prefix+string(r), out)
	}
	return out
}

func walkTrieTrieCost(t *TrieTrieCost, prefix string, fn func(a string, e costEntry)) {
	for _, e := range walkTrieCost(t.t, "", nil) {
		fn(prefix, e)
	}
	for _, r := range slices.Sorted(maps.Keys(t.n)) {
		walkTrieTrieCost(t.n[r], prefix+string(r), fn)
	}
}

func penaltySuffix(p int) string {
	if p == 0 {
		return ""
	}
	return fmt.Sprintf(" + %d", p)
}

func section(title string, lines []string) string {
	sort.Strings(lines)
	var sb strings.Builder
	sb.WriteString(title + "\n")
	for _, l := range lines {
		sb.WriteString("  " + l + "\n")
	}
	return sb.String()
}

// PrettyPrint renders the map as sorted text, one entry per line.
func (m *WeightMap) PrettyPrint() string {
	var insDel, replace, swap []string
	for _, e := range walkTrieCost(m.InsDel, "", nil) {
		insDel = append(insDel, fmt.Sprintf("(%s) = %d%s", e.s, e.c, penaltySuffix(e.p)))
	}
	walkTrieTrieCost(m.Replace, "", func(a string, e costEntry) {
		replace = append(replace, fmt.Sprintf("(%s) -> (%s) = %d%s", a, e.s, e.c, penaltySuffix(e.p)))
	})
	walkTrieTrieCost(m.Swap, "", func(a string, e costEntry) {
		swap = append(swap, fmt.Sprintf("(%s) <-> (%s) = %d%s", a, e.s, e.c, penaltySuffix(e.p)))
	})
	return strings.Join([]string{
		section("InsDel:", insDel),
		section("Replace:", replace),
		section("Swap:", swap),
	}, "\n")
}
