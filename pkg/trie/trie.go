/*
Package trie holds the frozen word graph and the builders that produce it.

A Trie is an immutable DAWG: every node lives in an arena addressed by
NodeRef and identical suffix subtrees are shared. Frozen tries are safe for
concurrent readers. Insert after freezing copies the touched path and
returns a new Trie; untouched subtrees stay shared with the original.

Reserved characters at the root mark special subtrees:

	!word   forbidden word
	%word   word that is known but never suggested
	~word   case and accent insensitive form
	+word   word that may only follow a compound prefix
	word+   word that may be followed by a compound suffix
*/
package trie

import (
	"slices"
	"sync"
)

// NodeRef addresses a node inside a trie arena.
type NodeRef uint32

// LeafRef is the canonical end-of-word leaf in tries built by this package.
const LeafRef NodeRef = 0

type node struct {
	eow  bool
	keys []rune
	refs []NodeRef
}

func (n *node) child(r rune) (NodeRef, bool) {
	i, ok := slices.BinarySearch(n.keys, r)
	if !ok {
		return 0, false
	}
	return n.refs[i], true
}

// arena is shared by a trie and the tries derived from it with Insert.
// Nodes below a snapshot's length are never written again.
type arena struct {
	mu    sync.Mutex
	nodes []node
}

// Trie is a frozen word graph.
type Trie struct {
	arena *arena
	nodes []node
	root  NodeRef
	info  TrieInfo
}

func newTrie(nodes []node, root NodeRef, info TrieInfo) *Trie {
	if len(nodes) == 0 {
		nodes = []node{{}}
		root = 0
	}
	return &Trie{
		arena: &arena{nodes: nodes},
		nodes: nodes,
		root:  root,
		info:  info,
	}
}

// Empty returns a trie without words.
func Empty(info *TrieInfo) *Trie {
	return newTrie(nil, 0, MergeInfo(info))
}

// Info returns the reserved prefix layout of the trie.
func (t *Trie) Info() TrieInfo {
	return t.info
}

// Root returns the root node.
func (t *Trie) Root() Node {
	return Node{t: t, ref: t.root}
}

// Size returns the arena length, including nodes no longer reachable
// after copy-on-write inserts.
func (t *Trie) Size() int {
	return len(t.nodes)
}

// Insert returns a trie that also contains word. The receiver is unchanged.
func (t *Trie) Insert(word string) *Trie {
	if t.Has(word) {
		return t
	}
	a := t.arena
	a.mu.Lock()
	defer a.mu.Unlock()

	nodes := t.nodes
	if len(a.nodes) != len(t.nodes) {
		// Another insert already grew the shared arena past this snapshot.
		nodes = slices.Clone(t.nodes)
		a = &arena{}
	}
	nodes, root := insertPath(nodes, t.root, []rune(word))
	a.nodes = nodes
	return &Trie{arena: a, nodes: nodes, root: root, info: t.info}
}

// InsertAll inserts every word, copying each touched path once per word.
func (t *Trie) InsertAll(words ...string) *Trie {
	out := t
	for _, w := range words {
		out = out.Insert(w)
	}
	return out
}

func insertPath(nodes []node, ref NodeRef, word []rune) ([]node, NodeRef) {
	src := nodes[ref]
	cp := node{eow: src.eow, keys: slices.Clone(src.keys), refs: slices.Clone(src.refs)}
	if len(word) == 0 {
		cp.eow = true
	} else {
		i, found := slices.BinarySearch(cp.keys, word[0])
		var childRef NodeRef
		if found {
			nodes, childRef = insertPath(nodes, cp.refs[i], word[1:])
			cp.refs[i] = childRef
		} else {
			nodes, childRef = appendChain(nodes, word[1:])
			cp.keys = slices.Insert(cp.keys, i, word[0])
			cp.refs = slices.Insert(cp.refs, i, childRef)
		}
	}
	nodes = append(nodes, cp)
	return nodes, NodeRef(len(nodes) - 1)
}

// appendChain appends a single path spelling word and returns its head.
func appendChain(nodes []node, word []rune) ([]node, NodeRef) {
	nodes = append(nodes, node{eow: true})
	ref := NodeRef(len(nodes) - 1)
	for i := len(word) - 1; i >= 0; i-- {
		nodes = append(nodes, node{keys: []rune{word[i]}, refs: []NodeRef{ref}})
		ref = NodeRef(len(nodes) - 1)
	}
	return nodes, ref
}

// Node is a read-only handle on a trie node.
type Node struct {
	t   *Trie
	ref NodeRef
}

// Valid reports whether the handle points into a trie.
func (n Node) Valid() bool {
	return n.t != nil
}

// Ref returns the arena index of the node.
func (n Node) Ref() NodeRef {
	return n.ref
}

func (n Node) raw() *node {
	return &n.t.nodes[n.ref]
}

// IsEndOfWord reports whether a word ends at this node.
func (n Node) IsEndOfWord() bool {
	return n.raw().eow
}

// Len returns the number of children.
func (n Node) Len() int {
	return len(n.raw().keys)
}

// Keys returns the child edge characters in ascending order. The slice is
// shared and must not be modified.
func (n Node) Keys() []rune {
	return n.raw().keys
}

// ChildAt returns the i-th edge.
func (n Node) ChildAt(i int) (rune, Node) {
	raw := n.raw()
	return raw.keys[i], Node{t: n.t, ref: raw.refs[i]}
}

// Child follows the edge labelled r.
func (n Node) Child(r rune) (Node, bool) {
	ref, ok := n.raw().child(r)
	if !ok {
		return Node{}, false
	}
	return Node{t: n.t, ref: ref}, true
}

// Walk follows every code point of s.
func (n Node) Walk(s string) (Node, bool) {
	cur := n
	for _, r := range s {
		next, ok := cur.Child(r)
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}
