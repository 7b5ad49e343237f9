package trie

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// signature hashes the structure of a node: its flag and its sorted
// (key, child id) pairs. Equal structures always hash equal; callers still
// compare structurally because different structures may collide.
func signature(buf []byte, eow bool, keys []rune, kids []uint32) ([]byte, uint64) {
	buf = buf[:0]
	if eow {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for i, k := range keys {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(k))
		buf = binary.LittleEndian.AppendUint32(buf, kids[i])
	}
	return buf, xxhash.Sum64(buf)
}

// freezer appends nodes to an arena, interning structurally equal ones.
type freezer struct {
	nodes   []node
	buckets map[uint64][]NodeRef
	buf     []byte
	kids    []uint32
}

func newFreezer(sizeHint int) *freezer {
	f := &freezer{
		nodes:   make([]node, 0, sizeHint+1),
		buckets: make(map[uint64][]NodeRef, sizeHint+1),
	}
	f.add(true, nil, nil)
	return f
}

// add returns the ref of a node equal to (eow, keys, refs), appending it
// when no such node exists yet. keys and refs are retained.
func (f *freezer) add(eow bool, keys []rune, refs []NodeRef) NodeRef {
	f.kids = f.kids[:0]
	for _, r := range refs {
		f.kids = append(f.kids, uint32(r))
	}
	var h uint64
	f.buf, h = signature(f.buf, eow, keys, f.kids)
	for _, ref := range f.buckets[h] {
		n := &f.nodes[ref]
		if n.eow == eow && slices.Equal(n.keys, keys) && slices.Equal(n.refs, refs) {
			return ref
		}
	}
	f.nodes = append(f.nodes, node{eow: eow, keys: keys, refs: refs})
	ref := NodeRef(len(f.nodes) - 1)
	f.buckets[h] = append(f.buckets[h], ref)
	return ref
}

// Consolidate returns a minimal copy of t where every set of structurally
// equal subtrees is stored once.
func Consolidate(t *Trie) *Trie {
	f := newFreezer(len(t.nodes))
	memo := make(map[NodeRef]NodeRef, len(t.nodes))
	var visit func(ref NodeRef) NodeRef
	visit = func(ref NodeRef) NodeRef {
		if r, ok := memo[ref]; ok {
			return r
		}
		src := &t.nodes[ref]
		refs := make([]NodeRef, len(src.refs))
		for i, c := range src.refs {
			refs[i] = visit(c)
		}
		r := f.add(src.eow, slices.Clone(src.keys), refs)
		memo[ref] = r
		return r
	}
	root := visit(t.root)
	return newTrie(f.nodes, root, t.info)
}
