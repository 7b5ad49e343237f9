package trie

import (
	"iter"
	"maps"
	"slices"
)

type fnode struct {
	eow      bool
	children map[rune]*fnode
}

// FastBuilder builds a plain trie without interning. It is faster than
// Builder for one-shot builds; Build(true) compacts the result afterwards.
type FastBuilder struct {
	info  TrieInfo
	root  *fnode
	count int
}

// NewFastBuilder creates a FastBuilder. A nil info uses DefaultTrieInfo.
func NewFastBuilder(info *TrieInfo) *FastBuilder {
	return &FastBuilder{info: MergeInfo(info), root: &fnode{}}
}

// Insert adds a word.
func (b *FastBuilder) Insert(word string) {
	n := b.root
	for _, r := range word {
		if n.children == nil {
			n.children = make(map[rune]*fnode)
		}
		c, ok := n.children[r]
		if !ok {
			c = &fnode{}
			n.children[r] = c
			b.count++
		}
		n = c
	}
	n.eow = true
}

// InsertAll adds every word from seq.
func (b *FastBuilder) InsertAll(seq iter.Seq[string]) {
	for w := range seq {
		b.Insert(w)
	}
}

// Build freezes the trie, compacting suffixes when asked to.
func (b *FastBuilder) Build(consolidateSuffixes bool) *Trie {
	nodes := make([]node, 0, b.count+1)
	var visit func(n *fnode) NodeRef
	visit = func(n *fnode) NodeRef {
		keys := slices.Sorted(maps.Keys(n.children))
		refs := make([]NodeRef, len(keys))
		for i, k := range keys {
			refs[i] = visit(n.children[k])
		}
		nodes = append(nodes, node{eow: n.eow, keys: keys, refs: refs})
		return NodeRef(len(nodes) - 1)
	}
	root := visit(b.root)
	t := newTrie(nodes, root, b.info)
	if consolidateSuffixes {
		return Consolidate(t)
	}
	return t
}

// BuildTrieFast builds an uncompacted trie from words.
func BuildTrieFast(words iter.Seq[string], info *TrieInfo) *Trie {
	b := NewFastBuilder(info)
	b.InsertAll(words)
	return b.Build(false)
}
