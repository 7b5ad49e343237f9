package trie

// CompoundMethod selects how walkers stitch words together.
type CompoundMethod int

const (
	// CompoundMethodNone walks single words only.
	CompoundMethodNone CompoundMethod = iota
	// SeparateWords joins words with WordSeparator.
	SeparateWords
	// JoinWords joins words with JoinSeparator.
	JoinWords
)

// Separators emitted on the synthetic compound edge.
const (
	JoinSeparator = '+'
	WordSeparator = ' '
)

func (m CompoundMethod) String() string {
	switch m {
	case SeparateWords:
		return "separate"
	case JoinWords:
		return "join"
	default:
		return "none"
	}
}

// Separator returns the edge character of the synthetic compound edge.
func (m CompoundMethod) Separator() (rune, bool) {
	switch m {
	case SeparateWords:
		return WordSeparator, true
	case JoinWords:
		return JoinSeparator, true
	}
	return 0, false
}

// WalkItem is one step of a walk.
type WalkItem struct {
	Text  string
	Node  Node
	Depth int
	// Compound is set when the last edge was the synthetic edge back to
	// the root.
	Compound bool
}

type walkEdge struct {
	key      string
	node     Node
	compound bool
	hint     int
	root     bool
}

type walkFrame struct {
	text  string
	edges []walkEdge
	next  int
}

// Walker is a depth first walk that lets the consumer decide, item by
// item, whether to descend. In compound mode every end-of-word node gets
// an extra edge back to the root, so the walk never ends on its own unless
// the consumer prunes it.
type Walker struct {
	root    Node
	sep     string
	stack   []walkFrame
	last    WalkItem
	hasLast bool
}

// NewWalker starts a walk below root.
func NewWalker(root Node, method CompoundMethod) *Walker {
	w := &Walker{root: root}
	if r, ok := method.Separator(); ok {
		w.sep = string(r)
	}
	w.stack = append(w.stack, walkFrame{edges: w.children(root)})
	return w
}

func (w *Walker) children(n Node) []walkEdge {
	edges := make([]walkEdge, 0, n.Len()+1)
	for i := 0; i < n.Len(); i++ {
		k, c := n.ChildAt(i)
		edges = append(edges, walkEdge{key: string(k), node: c})
	}
	if w.sep != "" && n.IsEndOfWord() {
		edges = append(edges, walkEdge{key: w.sep, node: w.root, compound: true})
	}
	return edges
}

// Next returns the next item. goDeeper applies to the item returned by the
// previous call: false skips its subtree. It is ignored on the first call.
func (w *Walker) Next(goDeeper bool) (WalkItem, bool) {
	if w.hasLast && goDeeper {
		w.stack = append(w.stack, walkFrame{text: w.last.Text, edges: w.children(w.last.Node)})
	}
	w.hasLast = false
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if top.next >= len(top.edges) {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		e := top.edges[top.next]
		top.next++
		w.last = WalkItem{
			Text:     top.text + e.key,
			Node:     e.node,
			Depth:    len(w.stack) - 1,
			Compound: e.compound,
		}
		w.hasLast = true
		return w.last, true
	}
	return WalkItem{}, false
}

// Walk starts a walker at the trie root.
func (t *Trie) Walk(method CompoundMethod) *Walker {
	return NewWalker(t.Root(), method)
}
