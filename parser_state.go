package retrolz

import "container/heap"

// The state-aware parser (spec §4.5.2) handles formats with a repeat-offset
// token. Its state is (p, r): position plus the currently remembered
// repeat offset (r==0 means "none established yet"). Each state additionally
// splits into two sub-entries — one for having arrived via a literal step,
// one for having arrived via a match or rep-match step (or the virtual
// start) — because the legal next moves differ:
//
//   - a literal step may only follow a match/rep-match/start arrival;
//   - a rep-match step may only follow a literal arrival;
//   - a plain match step may follow either.
//
// Both ParseStateDP (exhaustive, spec §4.5.2(a)) and ParseStateDijkstra
// (best-first, spec §4.5.2(b)) operate over this same state space and are
// required to return a cost-optimal parse.

// stateKind distinguishes the two sub-entries of a (p, r) state.
type stateKind byte

const (
	viaMatch   stateKind = iota // arrived via a match, rep-match, or stream start
	viaLiteral                  // arrived via a literal run
)

// betterOrEqualPreferRep implements the spec §4.5.2 tie-break: a cheaper
// candidate always wins; an equal-cost candidate wins only if it is a rep
// match and the incumbent isn't. Between two equal-cost candidates of the
// same kind the incumbent stays, so which of them wins depends on the order
// they are processed in; ParseStateDP walks each row's map in Go's
// unspecified order, so only its cost, not its exact parse, is fixed.
func betterOrEqualPreferRep(newCost int, newIsRep bool, curCost int, curIsRep bool) bool {
	if newCost < curCost {
		return true
	}
	return newCost == curCost && newIsRep && !curIsRep
}

// ---- Exhaustive triangular DP (spec §4.5.2(a)) ----

type dpEntry struct {
	costL, costM int
	lenL, lenM   int
	offM         int // the rep-match/match offset recorded for the M arrival
	isRepM       bool
	predPL, predRL int
	predPM, predRM int
	predKindL, predKindM stateKind
	hasL, hasM           bool
}

func newDPEntry() *dpEntry { return &dpEntry{costL: costInfinity, costM: costInfinity} }

// ParseStateDP implements the exhaustive DP of spec §4.5.2(a): a row per
// position, each row holding only the reachable repeat-offsets (bounded by
// spec to min(p-1, MaxMatchOffset)+1 distinct values), two sub-entries per
// cell, swept forward in position order and reconstructed via back
// pointers. It is the reference implementation the Dijkstra variant is
// checked against on small inputs (spec §8's brute-force / optimality
// cross-check).
func ParseStateDP(input []byte, f *Format, m *Matcher) []ParseStep {
	n := len(input)
	rows := make([]map[int]*dpEntry, n+1)
	for i := range rows {
		rows[i] = make(map[int]*dpEntry)
	}
	cell := func(p, r int) *dpEntry {
		c, ok := rows[p][r]
		if !ok {
			c = newDPEntry()
			rows[p][r] = c
		}
		return c
	}

	start := cell(0, 0)
	start.costM = 0
	start.hasM = true
	start.predPM = -1

	relaxL := func(p, r, cost, length, predP, predR int, predKind stateKind) {
		c := cell(p, r)
		if cost < c.costL {
			c.costL, c.lenL = cost, length
			c.predPL, c.predRL, c.predKindL = predP, predR, predKind
			c.hasL = true
		}
	}
	relaxM := func(p, r, cost, length, offset int, isRep bool, predP, predR int, predKind stateKind) {
		c := cell(p, r)
		if betterOrEqualPreferRep(cost, isRep, c.costM, c.isRepM) || !c.hasM {
			c.costM, c.lenM, c.offM, c.isRepM = cost, length, offset, isRep
			c.predPM, c.predRM, c.predKindM = predP, predR, predKind
			c.hasM = true
		}
	}

	for p := 0; p < n; p++ {
		for r, c := range rows[p] {
			if c.hasM {
				base := c.costM
				maxLit := f.MaxLiteralLength
				if rem := n - p; maxLit > rem {
					maxLit = rem
				}
				for length := 1; length <= maxLit; length++ {
					relaxL(p+length, r, base+f.LiteralCost(length), length, p, r, viaMatch)
				}
				for _, mt := range m.FindMatches(p, false) {
					relaxM(p+mt.Length, mt.Offset, base+f.MatchCost(mt.Length, mt.Offset), mt.Length, mt.Offset, false, p, r, viaMatch)
				}
			}
			if c.hasL {
				base := c.costL
				for _, mt := range m.FindMatches(p, false) {
					relaxM(p+mt.Length, mt.Offset, base+f.MatchCost(mt.Length, mt.Offset), mt.Length, mt.Offset, false, p, r, viaLiteral)
				}
				if r > 0 && f.HasRepToken {
					// A rep match may be as short as 1 byte (spec §3): unlike a
					// regular match, it carries no offset field to amortize, so
					// its minimum length is 1, not f.MinMatchLength.
					maxLen := m.MatchAt(p, r)
					if maxLen > f.MaxMatchLength {
						maxLen = f.MaxMatchLength
					}
					for length := 1; length <= maxLen; length++ {
						relaxM(p+length, r, base+f.RepMatchCost(length), length, r, true, p, r, viaLiteral)
					}
				}
			}
		}
	}

	bestCost := costInfinity
	var bestP, bestR int
	var bestKind stateKind
	for r, c := range rows[n] {
		if c.hasM && c.costM < bestCost {
			bestCost, bestP, bestR, bestKind = c.costM, n, r, viaMatch
		}
		if c.hasL && c.costL < bestCost {
			bestCost, bestP, bestR, bestKind = c.costL, n, r, viaLiteral
		}
	}
	if bestCost >= costInfinity {
		panic(ErrCorrupt)
	}

	var rev []ParseStep
	p, r, kind := bestP, bestR, bestKind
	for {
		c := rows[p][r]
		if kind == viaLiteral {
			rev = append(rev, ParseStep{Length: c.lenL, Offset: 0})
			p, r, kind = c.predPL, c.predRL, c.predKindL
			continue
		}
		if c.predPM == -1 {
			break // reached the virtual start cell
		}
		rev = append(rev, ParseStep{Length: c.lenM, Offset: c.offM})
		p, r, kind = c.predPM, c.predRM, c.predKindM
	}
	steps := make([]ParseStep, len(rev))
	for i, s := range rev {
		steps[len(rev)-1-i] = s
	}
	return steps
}

// ---- Dijkstra-style best-first search (spec §4.5.2(b)) ----

type stateNode struct {
	p, r int
	kind stateKind
}

type pqItem struct {
	cost int
	seq  int // insertion order, FIFO tie-break per spec §5/§9
	node stateNode
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(*pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

type dijkstraParent struct {
	length, offset int
	pred           stateNode
	isStart        bool
}

type bestInfo struct {
	cost  int
	isRep bool
}

// ParseStateDijkstra implements the best-first search of spec §4.5.2(b): a
// min-priority queue keyed by (cost, insertion-order) so ties resolve FIFO,
// a closed-set admission guard that drops any candidate whose cost does not
// strictly improve the best known cost for its (p, r, kind) key, a
// per-position best-cost array that skips match expansion once a state is
// known to be dominated at its position, and a greedy-baseline prune (every
// state costing more than the GreedyParse cost is dropped). None of these affect the reported optimum (spec §9).
func ParseStateDijkstra(input []byte, f *Format, m *Matcher) []ParseStep {
	n := len(input)
	greedyBound := ParseCost(GreedyParse(input, f, m), f)

	best := make(map[stateNode]bestInfo)
	parent := make(map[stateNode]dijkstraParent)
	bestAtP := make([]int, n+1)
	for i := range bestAtP {
		bestAtP[i] = costInfinity
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	push := func(node stateNode, cost int) {
		if cost > greedyBound {
			return
		}
		seq++
		heap.Push(pq, &pqItem{cost: cost, seq: seq, node: node})
	}

	start := stateNode{p: 0, r: 0, kind: viaMatch}
	best[start] = bestInfo{cost: 0}
	parent[start] = dijkstraParent{isStart: true}
	bestAtP[0] = 0
	push(start, 0)

	var final *pqItem
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		if item.cost > best[item.node].cost {
			continue // stale entry, a cheaper one already settled this key
		}
		if item.node.p >= n {
			final = item
			break
		}
		p, r, kind := item.node.p, item.node.r, item.node.kind
		cost := item.cost

		if cost < bestAtP[p] {
			bestAtP[p] = cost
		}
		matchOK := cost <= bestAtP[p]

		if kind == viaMatch {
			maxLit := f.MaxLiteralLength
			if rem := n - p; maxLit > rem {
				maxLit = rem
			}
			for length := 1; length <= maxLit; length++ {
				target := stateNode{p: p + length, r: r, kind: viaLiteral}
				nc := cost + f.LiteralCost(length)
				cur, ok := best[target]
				if !ok || nc < cur.cost {
					best[target] = bestInfo{cost: nc}
					parent[target] = dijkstraParent{length: length, offset: 0, pred: item.node}
					push(target, nc)
				}
			}
		}
		if matchOK {
			for _, mt := range m.FindMatches(p, false) {
				target := stateNode{p: p + mt.Length, r: mt.Offset, kind: viaMatch}
				nc := cost + f.MatchCost(mt.Length, mt.Offset)
				cur, ok := best[target]
				if !ok {
					cur = bestInfo{cost: costInfinity}
				}
				if betterOrEqualPreferRep(nc, false, cur.cost, cur.isRep) {
					best[target] = bestInfo{cost: nc, isRep: false}
					parent[target] = dijkstraParent{length: mt.Length, offset: mt.Offset, pred: item.node}
					push(target, nc)
				}
			}
		}
		if kind == viaLiteral && r > 0 && f.HasRepToken {
			// Same length-1 floor as ParseStateDP's rep loop above: a rep
			// match has no offset field, so it has no 2-byte break-even floor.
			maxLen := m.MatchAt(p, r)
			if maxLen > f.MaxMatchLength {
				maxLen = f.MaxMatchLength
			}
			for length := 1; length <= maxLen; length++ {
				target := stateNode{p: p + length, r: r, kind: viaMatch}
				nc := cost + f.RepMatchCost(length)
				cur, ok := best[target]
				if !ok {
					cur = bestInfo{cost: costInfinity}
				}
				if betterOrEqualPreferRep(nc, true, cur.cost, cur.isRep) {
					best[target] = bestInfo{cost: nc, isRep: true}
					parent[target] = dijkstraParent{length: length, offset: r, pred: item.node}
					push(target, nc)
				}
			}
		}
	}

	if final == nil {
		panic(ErrCorrupt)
	}
	var rev []ParseStep
	node := final.node
	for {
		par, ok := parent[node]
		if !ok || par.isStart {
			break
		}
		rev = append(rev, ParseStep{Length: par.length, Offset: par.offset})
		node = par.pred
	}
	steps := make([]ParseStep, len(rev))
	for i, s := range rev {
		steps[len(rev)-1-i] = s
	}
	return steps
}
