package distance

import (
	"slices"

	"github.com/bastiangx/wordcheck/pkg/pairheap"
)

// Word boundaries added around both words so that map entries can anchor
// to the start ("^") or the end ("$") of a word.
const (
	wordStart = '^'
	wordEnd   = '$'
)

type astarNode struct {
	ai, bi  int
	c, p    int
	from    *astarNode
	deleted bool
}

// compareNodes orders by cost, then prefers the node that consumed more of
// both words.
func compareNodes(a, b *astarNode) int {
	if d := a.c - b.c; d != 0 {
		return d
	}
	return (b.ai + b.bi) - (a.ai + a.bi)
}

// candidatePool keeps the cheapest known node per (ai, bi) cell. A node
// replaced by a cheaper one stays in the heap marked deleted.
type candidatePool struct {
	heap *pairheap.Heap[*astarNode]
	grid []*astarNode
	cols int
}

func newCandidatePool(aN, bN int) *candidatePool {
	return &candidatePool{
		heap: pairheap.New(compareNodes),
		grid: make([]*astarNode, (aN+1)*(bN+1)),
		cols: bN + 1,
	}
}

func (p *candidatePool) next() *astarNode {
	for {
		n, ok := p.heap.Dequeue()
		if !ok {
			return nil
		}
		if !n.deleted {
			return n
		}
	}
}

func (p *candidatePool) add(n *astarNode) {
	i := n.ai*p.cols + n.bi
	if g := p.grid[i]; g != nil {
		if g.c <= n.c {
			return
		}
		g.deleted = true
	}
	p.grid[i] = n
	p.heap.Add(n)
}

func wrapWord(w string) []rune {
	out := make([]rune, 0, len(w)+2)
	out = append(out, wordStart)
	out = append(out, []rune(w)...)
	return append(out, wordEnd)
}

func search(a, b []rune, m *WeightMap, cost int) *astarNode {
	if m == nil {
		m = NewWeightMap()
	}
	aN, bN := len(a), len(b)
	pool := newCandidatePool(aN, bN)
	pool.add(&astarNode{})

	for {
		n := pool.next()
		if n == nil {
			return nil
		}
		ai, bi := n.ai, n.bi
		if ai == aN && bi == bN {
			return n
		}

		// swap adjacent letters
		if ai+1 < aN && bi+1 < bN && a[ai] == b[bi+1] && a[ai+1] == b[bi] {
			pool.add(&astarNode{ai: ai + 2, bi: bi + 2, c: n.c + cost, p: n.p, from: n})
		}
		// insert
		if bi < bN {
			pool.add(&astarNode{ai: ai, bi: bi + 1, c: n.c + cost, p: n.p, from: n})
		}
		// delete
		if ai < aN {
			pool.add(&astarNode{ai: ai + 1, bi: bi, c: n.c + cost, p: n.p, from: n})
		}
		// weighted edits
		pos := CostPosition{A: a, B: b, Ai: ai, Bi: bi, C: n.c, P: n.p}
		for next := range m.CalcInsDelCosts(pos) {
			pool.add(&astarNode{ai: next.Ai, bi: next.Bi, c: next.C, p: next.P, from: n})
		}
		for next := range m.CalcSwapCosts(pos) {
			pool.add(&astarNode{ai: next.Ai, bi: next.Bi, c: next.C, p: next.P, from: n})
		}
		for next := range m.CalcReplaceCosts(pos) {
			pool.add(&astarNode{ai: next.Ai, bi: next.Bi, c: next.C, p: next.P, from: n})
		}
		// substitute
		if ai < aN && bi < bN {
			c := n.c
			if a[ai] != b[bi] {
				c += cost
			}
			pool.add(&astarNode{ai: ai + 1, bi: bi + 1, c: c, p: n.p, from: n})
		}
	}
}

// DistanceAStarWeighted returns the weighted edit distance from a to b,
// including penalties and the adjustments matching b. cost is the price of
// an unweighted edit. It returns -1 when no alignment exists.
func DistanceAStarWeighted(a, b string, m *WeightMap, cost int) int {
	best := search(wrapWord(a), wrapWord(b), m, cost)
	if best == nil {
		return -1
	}
	return best.c + best.p + m.calcAdjustment(b)
}

// Segment is one step of the cheapest alignment.
type Segment struct {
	A, B string
	C, P int
}

// ExResult explains a weighted distance.
type ExResult struct {
	A, B     string
	Cost     int
	Penalty  int
	Segments []Segment
}

// DistanceAStarWeightedEx is DistanceAStarWeighted with the alignment that
// produced the cost. ok is false when no alignment exists.
func DistanceAStarWeightedEx(a, b string, m *WeightMap, cost int) (ExResult, bool) {
	aa, bb := wrapWord(a), wrapWord(b)
	best := search(aa, bb, m, cost)
	if best == nil {
		return ExResult{}, false
	}
	penalty := m.calcAdjustment(b)
	res := ExResult{
		A:       string(aa),
		B:       string(bb),
		Cost:    best.c + best.p + penalty,
		Penalty: penalty,
	}
	for n := best; n.from != nil; n = n.from {
		f := n.from
		res.Segments = append(res.Segments, Segment{
			A: string(aa[f.ai:n.ai]),
			B: string(bb[f.bi:n.bi]),
			C: n.c - f.c,
			P: n.p - f.p,
		})
	}
	slices.Reverse(res.Segments)
	return res, true
}
