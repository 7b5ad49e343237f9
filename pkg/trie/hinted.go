package trie

import "slices"

// HintedWalker walks the trie for suggestion generation. Compared to
// Walker it:
//   - hides the reserved root subtrees (forbidden, no-suggest, ...)
//   - walks the case-insensitive subtree as a second root when asked
//   - visits children spelled by nearby letters of the hint word first
//   - follows "word+" into the "+word" compound subtree
//
// With a compound method, end-of-word nodes also get synthetic separator
// edges back to the roots.
type HintedWalker struct {
	info          TrieInfo
	hint          []rune
	roots         []Node
	compoundRoots []Node
	methodEdges   []walkEdge
	reserved      []rune
	rootIdx       int
	stack         []walkFrame
	last          walkEdge
	lastText      string
	hasLast       bool
}

// NewHintedWalker prepares a walk of t guided by hint.
func NewHintedWalker(t *Trie, ignoreCase bool, hint string, method CompoundMethod) *HintedWalker {
	info := t.Info()
	w := &HintedWalker{
		info:     info,
		hint:     []rune(hint),
		reserved: info.reservedRoots(),
	}
	root := t.Root()
	w.roots = append(w.roots, root)
	if ignoreCase {
		if nc, ok := root.Child(info.noCaseRune()); ok {
			w.roots = append(w.roots, nc)
		}
	}
	for _, r := range w.roots {
		if c, ok := r.Child(info.compoundRune()); ok {
			w.compoundRoots = append(w.compoundRoots, c)
		}
	}
	if sep, ok := method.Separator(); ok {
		for _, r := range w.roots {
			w.methodEdges = append(w.methodEdges, walkEdge{key: string(sep), node: r, compound: true, root: true})
		}
		for _, r := range w.compoundRoots {
			w.methodEdges = append(w.methodEdges, walkEdge{key: string(sep), node: r, compound: true})
		}
	}
	w.startRoot()
	return w
}

func (w *HintedWalker) startRoot() {
	w.stack = w.stack[:0]
	if w.rootIdx < len(w.roots) {
		w.stack = append(w.stack, walkFrame{edges: w.children(w.roots[w.rootIdx], 0, true)})
	}
}

func (w *HintedWalker) isCompoundRoot(n Node) bool {
	return slices.Contains(w.compoundRoots, n)
}

// hintLetters returns the letters near offset in the hint: up to three
// ahead and two behind.
func (w *HintedWalker) hintLetters(offset int) []rune {
	var out []rune
	add := func(from, to int) {
		from = max(from, 0)
		to = min(to, len(w.hint))
		for i := from; i < to; i++ {
			if !slices.Contains(out, w.hint[i]) {
				out = append(out, w.hint[i])
			}
		}
	}
	add(offset, offset+3)
	add(offset-2, offset)
	return out
}

func (w *HintedWalker) children(n Node, hintOffset int, isRoot bool) []walkEdge {
	var edges []walkEdge
	cc := w.info.compoundRune()
	skip := func(k rune) bool {
		return k == cc || (isRoot && slices.Contains(w.reserved, k))
	}
	if n.Len() > 0 {
		hints := w.hintLetters(hintOffset)
		for _, h := range hints {
			if skip(h) {
				continue
			}
			if c, ok := n.Child(h); ok {
				edges = append(edges, walkEdge{key: string(h), node: c, hint: hintOffset + 1})
			}
		}
		for i := 0; i < n.Len(); i++ {
			k, c := n.ChildAt(i)
			if skip(k) || slices.Contains(hints, k) {
				continue
			}
			edges = append(edges, walkEdge{key: string(k), node: c, hint: hintOffset + 1})
		}
		if _, ok := n.Child(cc); ok && !w.isCompoundRoot(n) {
			for _, cr := range w.compoundRoots {
				edges = append(edges, w.children(cr, hintOffset, false)...)
			}
		}
	}
	if n.IsEndOfWord() {
		for _, e := range w.methodEdges {
			e.hint = hintOffset
			edges = append(edges, e)
		}
	}
	return edges
}

// Next returns the next item; goDeeper applies to the previous item.
func (w *HintedWalker) Next(goDeeper bool) (WalkItem, bool) {
	if w.hasLast && goDeeper {
		e := w.last
		w.stack = append(w.stack, walkFrame{text: w.lastText, edges: w.children(e.node, e.hint, e.root)})
	}
	w.hasLast = false
	for {
		for len(w.stack) > 0 {
			top := &w.stack[len(w.stack)-1]
			if top.next >= len(top.edges) {
				w.stack = w.stack[:len(w.stack)-1]
				continue
			}
			e := top.edges[top.next]
			top.next++
			w.last = e
			w.lastText = top.text + e.key
			w.hasLast = true
			return WalkItem{
				Text:     w.lastText,
				Node:     e.node,
				Depth:    len(w.stack) - 1,
				Compound: e.compound,
			}, true
		}
		w.rootIdx++
		if w.rootIdx >= len(w.roots) {
			return WalkItem{}, false
		}
		w.startRoot()
	}
}
