package trie

import (
	"iter"
)

// CompoundMode selects how FindWord may split a word into parts.
type CompoundMode int

const (
	// CompoundNone only accepts whole dictionary words.
	CompoundNone CompoundMode = iota
	// CompoundMarked follows "word+" / "+word" compound markers.
	CompoundMarked
	// CompoundLegacy joins any words that are long enough.
	CompoundLegacy
)

// DefaultLegacyMinCompoundLength is the shortest part CompoundLegacy accepts.
const DefaultLegacyMinCompoundLength = 3

// FindOptions controls FindWord.
type FindOptions struct {
	MatchCase               bool
	Compound                CompoundMode
	LegacyMinCompoundLength int
}

// FindResult is the detailed answer of FindWord.
type FindResult struct {
	Found        bool
	Forbidden    bool
	CompoundUsed bool
	CaseMatched  bool
}

// Has reports whether word is stored exactly as given.
func (t *Trie) Has(word string) bool {
	n, ok := t.Root().Walk(word)
	return ok && n.IsEndOfWord()
}

// Find returns the node reached by word.
func (t *Trie) Find(word string) (Node, bool) {
	return t.Root().Walk(word)
}

// HasWord reports whether word is known, optionally ignoring case and
// accents.
func (t *Trie) HasWord(word string, caseSensitive bool) bool {
	return t.FindWord(word, FindOptions{MatchCase: caseSensitive}).Found
}

// FindWord looks word up with compounding and case folding.
func (t *Trie) FindWord(word string, opts FindOptions) FindResult {
	res := FindResult{Forbidden: t.IsForbiddenWord(word)}
	root := t.Root()
	if found, compound := t.findCompound(root, word, opts); found {
		res.Found = true
		res.CompoundUsed = compound
		res.CaseMatched = true
		return res
	}
	if opts.MatchCase {
		return res
	}

	folded := NormalizeWordForCaseInsensitive(word)
	if !res.Forbidden {
		res.Forbidden = t.isForbiddenFolded(folded)
	}
	if nc, ok := root.Child(t.info.noCaseRune()); ok {
		if found, compound := t.findCompound(nc, folded, opts); found {
			res.Found = true
			res.CompoundUsed = compound
			return res
		}
	}
	if folded != word {
		if found, compound := t.findCompound(root, folded, opts); found {
			res.Found = true
			res.CompoundUsed = compound
		}
	}
	return res
}

// findCompound searches word below start, jumping into compound parts as
// allowed by opts. It reports whether a jump was needed.
func (t *Trie) findCompound(start Node, word string, opts FindOptions) (bool, bool) {
	w := []rune(word)
	if opts.Compound == CompoundNone {
		n, ok := start.Walk(word)
		return ok && n.IsEndOfWord(), false
	}

	minLen := opts.LegacyMinCompoundLength
	if minLen <= 0 {
		minLen = DefaultLegacyMinCompoundLength
	}
	cc := t.info.compoundRune()
	compoundRoot, hasCompoundRoot := start.Child(cc)

	var search func(n Node, i, sub int) (bool, bool)
	search = func(n Node, i, sub int) (bool, bool) {
		if i == len(w) {
			return n.IsEndOfWord(), false
		}
		if c, ok := n.Child(w[i]); ok {
			if found, used := search(c, i+1, sub+1); found {
				return true, used
			}
		}
		if sub == 0 {
			return false, false
		}
		switch opts.Compound {
		case CompoundMarked:
			if _, ok := n.Child(cc); ok && hasCompoundRoot {
				if found, _ := search(compoundRoot, i, 0); found {
					return true, true
				}
			}
		case CompoundLegacy:
			if n.IsEndOfWord() && sub >= minLen && len(w)-i >= minLen {
				if found, _ := search(start, i, 0); found {
					return true, true
				}
			}
		}
		return false, false
	}
	return search(start, 0, 0)
}

// IsForbiddenWord reports whether word is stored with the forbidden prefix.
func (t *Trie) IsForbiddenWord(word string) bool {
	return t.hasUnder(t.info.forbiddenRune(), word)
}

// IsNoSuggestWord reports whether word is stored with the no-suggest prefix.
func (t *Trie) IsNoSuggestWord(word string) bool {
	return t.hasUnder(t.info.noSuggestRune(), word)
}

func (t *Trie) isForbiddenFolded(folded string) bool {
	nc, ok := t.Root().Child(t.info.noCaseRune())
	if !ok {
		return t.IsForbiddenWord(folded)
	}
	f, ok := nc.Child(t.info.forbiddenRune())
	if !ok {
		return t.IsForbiddenWord(folded)
	}
	n, ok := f.Walk(folded)
	return ok && n.IsEndOfWord()
}

func (t *Trie) hasUnder(prefix rune, word string) bool {
	p, ok := t.Root().Child(prefix)
	if !ok {
		return false
	}
	n, ok := p.Walk(word)
	return ok && n.IsEndOfWord()
}

// CompleteWord yields every stored word starting with prefix, in edge
// order.
func (t *Trie) CompleteWord(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		n, ok := t.Find(prefix)
		if !ok {
			return
		}
		walkWords(n, []rune(prefix), yield)
	}
}

// Words yields every stored word, reserved prefixes included.
func (t *Trie) Words() iter.Seq[string] {
	return t.CompleteWord("")
}

// WordsBelow yields the words of the subtree under n prefixed with prefix.
func WordsBelow(n Node, prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		walkWords(n, []rune(prefix), yield)
	}
}

func walkWords(n Node, text []rune, yield func(string) bool) bool {
	if n.IsEndOfWord() && !yield(string(text)) {
		return false
	}
	for i := 0; i < n.Len(); i++ {
		k, c := n.ChildAt(i)
		if !walkWords(c, append(text, k), yield) {
			return false
		}
	}
	return true
}

// CountWords returns the number of stored words.
func (t *Trie) CountWords() int {
	count := 0
	for range t.Words() {
		count++
	}
	return count
}

// CountNodes returns the number of distinct nodes reachable from the root.
func (t *Trie) CountNodes() int {
	seen := make(map[NodeRef]struct{})
	stack := []NodeRef{t.root}
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		stack = append(stack, t.nodes[ref].refs...)
	}
	return len(seen)
}
