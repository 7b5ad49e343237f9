package trieblob

import (
	"iter"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/pkg/trie"
)

// walk follows the bytes of s from off.
func (b *Blob) walk(off uint32, s string) (uint32, bool) {
	for i := 0; i < len(s); i++ {
		next, ok := b.child(off, s[i])
		if !ok {
			return 0, false
		}
		off = next
	}
	return off, true
}

// FindWord looks word up with compounding and case folding, with the same
// answers as trie.Trie.FindWord on the trie the blob was encoded from.
func (b *Blob) FindWord(word string, opts trie.FindOptions) trie.FindResult {
	res := trie.FindResult{Forbidden: b.IsForbiddenWord(word)}
	if b.count == 0 {
		return res
	}
	if found, compound := b.findCompound(b.root, word, opts); found {
		res.Found = true
		res.CompoundUsed = compound
		res.CaseMatched = true
		return res
	}
	if opts.MatchCase {
		return res
	}

	folded := trie.NormalizeWordForCaseInsensitive(word)
	if !res.Forbidden {
		res.Forbidden = b.isForbiddenFolded(folded)
	}
	if nc, ok := b.walk(b.root, b.info.StripCaseAndAccentsPrefix); ok {
		if found, compound := b.findCompound(nc, folded, opts); found {
			res.Found = true
			res.CompoundUsed = compound
			return res
		}
	}
	if folded != word {
		if found, compound := b.findCompound(b.root, folded, opts); found {
			res.Found = true
			res.CompoundUsed = compound
		}
	}
	return res
}

func (b *Blob) isForbiddenFolded(folded string) bool {
	nc, ok := b.walk(b.root, b.info.StripCaseAndAccentsPrefix)
	if !ok {
		return b.IsForbiddenWord(folded)
	}
	f, ok := b.walk(nc, b.info.ForbiddenWordPrefix)
	if !ok {
		return b.IsForbiddenWord(folded)
	}
	off, ok := b.walk(f, folded)
	return ok && b.isEndOfWord(off)
}

// findCompound searches word below start byte by byte. Jumps into another
// part only happen on character boundaries; sub counts the characters of
// the current part.
func (b *Blob) findCompound(start uint32, word string, opts trie.FindOptions) (bool, bool) {
	if opts.Compound == trie.CompoundNone {
		off, ok := b.walk(start, word)
		return ok && b.isEndOfWord(off), false
	}

	minLen := opts.LegacyMinCompoundLength
	if minLen <= 0 {
		minLen = trie.DefaultLegacyMinCompoundLength
	}
	cc := b.info.CompoundCharacter
	compoundRoot, hasCompoundRoot := b.walk(start, cc)

	var search func(off uint32, i, sub int) (bool, bool)
	search = func(off uint32, i, sub int) (bool, bool) {
		if i == len(word) {
			return b.isEndOfWord(off), false
		}
		if c, ok := b.child(off, word[i]); ok {
			next := sub
			if utf8.RuneStart(word[i]) {
				next++
			}
			if found, used := search(c, i+1, next); found {
				return true, used
			}
		}
		if sub == 0 || !utf8.RuneStart(word[i]) {
			return false, false
		}
		switch opts.Compound {
		case trie.CompoundMarked:
			if _, ok := b.walk(off, cc); ok && hasCompoundRoot {
				if found, _ := search(compoundRoot, i, 0); found {
					return true, true
				}
			}
		case trie.CompoundLegacy:
			if b.isEndOfWord(off) && sub >= minLen && utf8.RuneCountInString(word[i:]) >= minLen {
				if found, _ := search(start, i, 0); found {
					return true, true
				}
			}
		}
		return false, false
	}
	return search(start, 0, 0)
}

// CompleteWord yields every stored word starting with prefix, in byte
// order.
func (b *Blob) CompleteWord(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if b.count == 0 {
			return
		}
		off, ok := b.walk(b.root, prefix)
		if !ok {
			return
		}
		b.walkWords(off, append(make([]byte, 0, 64), prefix...), yield)
	}
}

func (b *Blob) walkWords(off uint32, buf []byte, yield func(string) bool) bool {
	if b.isEndOfWord(off) && !yield(string(buf)) {
		return false
	}
	n := uint32(b.childCount(off))
	for i := uint32(0); i < n; i++ {
		e := b.at(off + 1 + i)
		if !b.walkWords(e>>offShift, append(buf, byte(e&byteMask)), yield) {
			return false
		}
	}
	return true
}

// CountWords returns the number of stored words. Shared suffixes are
// counted once per path, so the table is visited once per node.
func (b *Blob) CountWords() int {
	if b.count == 0 {
		return 0
	}
	memo := make(map[uint32]int)
	var count func(off uint32) int
	count = func(off uint32) int {
		if n, ok := memo[off]; ok {
			return n
		}
		total := 0
		if b.isEndOfWord(off) {
			total = 1
		}
		n := uint32(b.childCount(off))
		for i := uint32(0); i < n; i++ {
			total += count(b.at(off+1+i) >> offShift)
		}
		memo[off] = total
		return total
	}
	return count(b.root)
}
