package trie

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrBadRef is returned when a node refers to a node not yet added.
	ErrBadRef = errors.New("trie: reference to unknown node")
	// ErrDuplicateKey is returned when a node lists the same key twice.
	ErrDuplicateKey = errors.New("trie: duplicate child key")
)

// Assembler rebuilds a trie from nodes listed children first, the order
// used by the persisted formats. Structurally equal nodes are interned, so
// the result is minimal whatever the input sharing was.
type Assembler struct {
	f    *freezer
	info TrieInfo
}

// NewAssembler starts an empty assembly. The canonical leaf is always
// present as LeafRef.
func NewAssembler(info *TrieInfo, sizeHint int) *Assembler {
	return &Assembler{f: newFreezer(sizeHint), info: MergeInfo(info)}
}

// Len returns the number of distinct nodes so far.
func (a *Assembler) Len() int {
	return len(a.f.nodes)
}

// Add appends a node and returns its ref. keys and kids are parallel and
// need not be sorted.
func (a *Assembler) Add(eow bool, keys []rune, kids []NodeRef) (NodeRef, error) {
	if len(keys) != len(kids) {
		return 0, fmt.Errorf("trie: %d keys for %d children", len(keys), len(kids))
	}
	for _, k := range kids {
		if int(k) >= len(a.f.nodes) {
			return 0, fmt.Errorf("%w: %d", ErrBadRef, k)
		}
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(x, y int) int { return int(keys[x]) - int(keys[y]) })
	sk := make([]rune, len(keys))
	sr := make([]NodeRef, len(keys))
	for i, j := range idx {
		sk[i], sr[i] = keys[j], kids[j]
		if i > 0 && sk[i] == sk[i-1] {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateKey, sk[i])
		}
	}
	return a.f.add(eow, sk, sr), nil
}

// Build freezes the assembly with root as the root node.
func (a *Assembler) Build(root NodeRef) (*Trie, error) {
	if int(root) >= len(a.f.nodes) {
		return nil, fmt.Errorf("%w: root %d", ErrBadRef, root)
	}
	return newTrie(a.f.nodes, root, a.info), nil
}

// Node returns the node at ref.
func (t *Trie) Node(ref NodeRef) Node {
	return Node{t: t, ref: ref}
}

// PostOrder yields every distinct node reachable from the root once,
// children before parents. The root comes last.
func (t *Trie) PostOrder() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		seen := make([]bool, len(t.nodes))
		var visit func(ref NodeRef) bool
		visit = func(ref NodeRef) bool {
			if seen[ref] {
				return true
			}
			seen[ref] = true
			for _, c := range t.nodes[ref].refs {
				if !visit(c) {
					return false
				}
			}
			return yield(Node{t: t, ref: ref})
		}
		visit(t.root)
	}
}
