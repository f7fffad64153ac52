package retrolz

// ParseStep is one token in a parse (spec §3): offset==0 is a literal run
// of Length bytes; offset>0 is a back-reference of Length bytes copied from
// Length bytes starting at (cursor-Offset) in the already-produced output.
type ParseStep struct {
	Length int
	Offset int
}

// IsLiteral reports whether this step is a literal run rather than a
// back-reference.
func (s ParseStep) IsLiteral() bool { return s.Offset == 0 }

// ParseCost sums each step's cost under f's cost model (spec §4.4). It is
// the function the optimality property in spec §8 checks the parser's
// reported total against. A match that Encode emits as a repeat-offset
// token (same offset as the previous regular match, right after a literal)
// is priced with RepMatchCost.
func ParseCost(steps []ParseStep, f *Format) int {
	total := 0
	var r int
	var prevWasLiteral bool
	for _, s := range steps {
		switch {
		case s.IsLiteral():
			total += f.LiteralCost(s.Length)
			prevWasLiteral = true
		case f.HasRepToken && prevWasLiteral && s.Offset == r:
			total += f.RepMatchCost(s.Length)
			prevWasLiteral = false
		default:
			total += f.MatchCost(s.Length, s.Offset)
			r = s.Offset
			prevWasLiteral = false
		}
	}
	return total
}

// ExpandWithInput reproduces the bytes a parse of input decodes to. Tests of
// the round-trip invariant use it; Compress itself verifies by decoding the
// encoded bytes with Decode instead.
func ExpandWithInput(steps []ParseStep, input []byte) []byte {
	out := make([]byte, 0, len(input))
	cursor := 0
	for _, s := range steps {
		if s.IsLiteral() {
			out = append(out, input[cursor:cursor+s.Length]...)
		} else {
			start := len(out) - s.Offset
			for i := 0; i < s.Length; i++ {
				out = append(out, out[start+i])
			}
		}
		cursor += s.Length
	}
	return out
}

// ParseShortestPath implements the DP of spec §4.5.1 for formats with no
// repeat-offset token: nodes[0..N] hold the cheapest known cost to reach
// each position, relaxed by every literal-run length and every matcher hit
// out of each reachable position, ties broken in favor of literals.
func ParseShortestPath(input []byte, f *Format, m *Matcher) []ParseStep {
	n := len(input)
	cost := make([]int, n+1)
	fromLen := make([]int, n+1)
	fromOff := make([]int, n+1)
	for i := 1; i <= n; i++ {
		cost[i] = costInfinity
	}

	relax := func(target, c, length, offset int) {
		if c < cost[target] || (c == cost[target] && offset == 0 && fromOff[target] != 0) {
			cost[target] = c
			fromLen[target] = length
			fromOff[target] = offset
		}
	}

	for p := 0; p < n; p++ {
		if cost[p] >= costInfinity {
			continue
		}
		base := cost[p]

		maxLit := f.MaxLiteralLength
		if rem := n - p; maxLit > rem {
			maxLit = rem
		}
		for length := 1; length <= maxLit; length++ {
			relax(p+length, base+f.LiteralCost(length), length, 0)
		}

		for _, mt := range m.FindMatches(p, false) {
			relax(p+mt.Length, base+f.MatchCost(mt.Length, mt.Offset), mt.Length, mt.Offset)
		}
	}

	return reconstruct(n, fromLen, fromOff)
}

func reconstruct(n int, fromLen, fromOff []int) []ParseStep {
	var rev []ParseStep
	for p := n; p > 0; {
		length, offset := fromLen[p], fromOff[p]
		rev = append(rev, ParseStep{Length: length, Offset: offset})
		p -= length
	}
	steps := make([]ParseStep, len(rev))
	for i, s := range rev {
		steps[len(rev)-1-i] = s
	}
	return steps
}

// GreedyParse implements the "longest-match-else-literal" baseline of spec
// §4.5.2: at every position it takes the matcher's longest admissible match
// if one exists, otherwise it accumulates a literal run up to the next
// position where a match becomes available (or MaxLiteralLength, or end of
// input). Its cost is an upper bound the state-aware parser may use to
// admissibly prune (spec §9's "admissible pruning").
func GreedyParse(input []byte, f *Format, m *Matcher) []ParseStep {
	n := len(input)
	var steps []ParseStep
	for p := 0; p < n; {
		mt := m.FindLongestMatch(p)
		if mt.Length >= f.MinMatchLength {
			steps = append(steps, ParseStep{Length: mt.Length, Offset: mt.Offset})
			p += mt.Length
			continue
		}
		start := p
		p++
		for p < n && p-start < f.MaxLiteralLength {
			if next := m.FindLongestMatch(p); next.Length >= f.MinMatchLength {
				break
			}
			p++
		}
		steps = append(steps, ParseStep{Length: p - start, Offset: 0})
	}
	return steps
}
