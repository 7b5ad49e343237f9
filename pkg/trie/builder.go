package trie

import (
	"iter"
	"slices"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
)

const leafID uint32 = 0

// bnode is a builder node. Once registered its content never changes;
// insertion builds new nodes along the modified path instead.
type bnode struct {
	id      uint32
	eow     bool
	keys    []rune
	kids    []uint32
	sig     uint64
	parents mapset.Set[uint32]
}

// Builder inserts words one at a time into a DAWG. Every node is interned
// on creation, so the graph is minimal after each insert regardless of the
// insertion order. A Builder is not safe for concurrent use.
type Builder struct {
	info    TrieInfo
	nodes   map[uint32]*bnode
	buckets map[uint64][]uint32
	nextID  uint32
	root    uint32
	words   int
	buf     []byte
}

// NewBuilder creates a builder. A nil info uses DefaultTrieInfo.
func NewBuilder(info *TrieInfo) *Builder {
	b := &Builder{
		info:    MergeInfo(info),
		nodes:   make(map[uint32]*bnode),
		buckets: make(map[uint64][]uint32),
	}
	leaf := b.createNode(true, nil, nil)
	if leaf.id != leafID {
		panic("trie: leaf must be the first builder node")
	}
	b.root = b.createNode(false, nil, nil).id
	return b
}

// Insert adds a word.
func (b *Builder) Insert(word string) {
	root := b.nodes[b.root]
	next := b.addToNode(root, []rune(word))
	b.words++
	if next.id == b.root {
		return
	}
	old := b.root
	b.root = next.id
	b.release(old)
}

// InsertAll adds every word from seq.
func (b *Builder) InsertAll(seq iter.Seq[string]) {
	for w := range seq {
		b.Insert(w)
	}
}

// Len returns the number of live builder nodes.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Build freezes the graph into a Trie. The builder graph is always
// minimal, so consolidateSuffixes only matters for FastBuilder; it is
// accepted here to keep the two builders interchangeable.
func (b *Builder) Build(consolidateSuffixes bool) *Trie {
	f := newFreezer(len(b.nodes))
	memo := make(map[uint32]NodeRef, len(b.nodes))
	memo[leafID] = LeafRef
	var visit func(id uint32) NodeRef
	visit = func(id uint32) NodeRef {
		if r, ok := memo[id]; ok {
			return r
		}
		n := b.nodes[id]
		refs := make([]NodeRef, len(n.kids))
		for i, k := range n.kids {
			refs[i] = visit(k)
		}
		r := f.add(n.eow, slices.Clone(n.keys), refs)
		memo[id] = r
		return r
	}
	root := visit(b.root)
	t := newTrie(f.nodes, root, b.info)
	log.Debugf("trie built: %d inserts, %d nodes", b.words, len(f.nodes))
	return t
}

func (b *Builder) addToNode(n *bnode, word []rune) *bnode {
	if len(word) == 0 {
		if n == nil {
			return b.nodes[leafID]
		}
		if n.eow {
			return n
		}
		return b.createNode(true, n.keys, n.kids)
	}

	c := word[0]
	var keys []rune
	var kids []uint32
	eow := false
	if n != nil {
		keys, kids, eow = n.keys, n.kids, n.eow
	}
	i, found := slices.BinarySearch(keys, c)
	var child *bnode
	if found {
		child = b.nodes[kids[i]]
	}
	next := b.addToNode(child, word[1:])
	if child == next {
		return n
	}

	if found {
		kids = slices.Clone(kids)
		kids[i] = next.id
		keys = slices.Clone(keys)
	} else {
		keys = slices.Insert(slices.Clone(keys), i, c)
		kids = slices.Insert(slices.Clone(kids), i, next.id)
	}
	return b.createNode(eow, keys, kids)
}

// createNode interns a node: an existing node with the same structure is
// returned, otherwise a new one is registered.
func (b *Builder) createNode(eow bool, keys []rune, kids []uint32) *bnode {
	var h uint64
	b.buf, h = signature(b.buf, eow, keys, kids)
	for _, id := range b.buckets[h] {
		m := b.nodes[id]
		if m.eow == eow && slices.Equal(m.keys, keys) && slices.Equal(m.kids, kids) {
			return m
		}
	}
	n := &bnode{
		id:      b.nextID,
		eow:     eow,
		keys:    keys,
		kids:    kids,
		sig:     h,
		parents: mapset.NewThreadUnsafeSet[uint32](),
	}
	b.nextID++
	for _, k := range kids {
		b.nodes[k].parents.Add(n.id)
	}
	b.nodes[n.id] = n
	b.buckets[h] = append(b.buckets[h], n.id)
	return n
}

// release drops a node that lost its last parent and cascades to its
// children. The leaf and the current root are never released.
func (b *Builder) release(id uint32) {
	stack := []uint32{id}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == leafID || id == b.root {
			continue
		}
		n, ok := b.nodes[id]
		if !ok || n.parents.Cardinality() > 0 {
			continue
		}
		delete(b.nodes, id)
		bucket := b.buckets[n.sig]
		if i := slices.Index(bucket, id); i >= 0 {
			bucket = slices.Delete(bucket, i, i+1)
		}
		if len(bucket) == 0 {
			delete(b.buckets, n.sig)
		} else {
			b.buckets[n.sig] = bucket
		}
		for _, k := range n.kids {
			c, ok := b.nodes[k]
			if !ok {
				continue
			}
			c.parents.Remove(id)
			if c.parents.Cardinality() == 0 {
				stack = append(stack, k)
			}
		}
	}
}

// BuildTrie builds a minimal trie from words.
func BuildTrie(words iter.Seq[string], info *TrieInfo) *Trie {
	b := NewBuilder(info)
	b.InsertAll(words)
	return b.Build(true)
}
