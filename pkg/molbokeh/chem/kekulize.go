package chem

import "fmt"

// maxKekuleSteps bounds the matching search.
const maxKekuleSteps = 200000

// KekulizeError reports an aromatic system with no Kekulé structure.
type KekulizeError struct {
	Atom int
	Msg  string
}

func (e *KekulizeError) Error() string {
	return fmt.Sprintf("can't kekulize molecule at atom %d: %s", e.Atom, e.Msg)
}

// Kekulize returns a copy of m with aromatic bonds assigned alternating
// single and double orders. Atom aromatic flags are kept. m is not modified.
func Kekulize(m *Molecule) (*Molecule, error) {
	out := m.Clone()

	var candidates []int
	isCandidate := make([]bool, len(out.Atoms))
	for i, a := range out.Atoms {
		if !a.Aromatic {
			continue
		}
		if out.needsDouble(i) {
			candidates = append(candidates, i)
			isCandidate[i] = true
			continue
		}
		if _, aromatic := out.bondValence(i); aromatic == 0 {
			return nil, &KekulizeError{Atom: i, Msg: "non-ring atom marked aromatic"}
		}
	}

	// Aromatic bonds between atoms that both need a double bond.
	edges := make([][]int, len(out.Atoms))
	for bi, b := range out.Bonds {
		if b.Aromatic && isCandidate[b.Begin] && isCandidate[b.End] {
			edges[b.Begin] = append(edges[b.Begin], bi)
			edges[b.End] = append(edges[b.End], bi)
		}
	}

	km := &kekuleMatcher{
		mol:     out,
		edges:   edges,
		mate:    make([]int, len(out.Atoms)),
		pending: candidates,
	}
	for i := range km.mate {
		km.mate[i] = -1
	}
	if !km.search(len(candidates)) {
		atom := candidates[0]
		for _, c := range candidates {
			if len(edges[c]) == 0 {
				atom = c
				break
			}
		}
		return nil, &KekulizeError{Atom: atom, Msg: "no alternating bond assignment"}
	}

	for bi := range out.Bonds {
		if !out.Bonds[bi].Aromatic {
			continue
		}
		out.Bonds[bi].Aromatic = false
		out.Bonds[bi].Order = 1
	}
	for _, bi := range km.matched {
		out.Bonds[bi].Order = 2
	}
	return out, nil
}

// kekuleMatcher finds a perfect matching of candidate atoms over aromatic
// bonds by backtracking, always branching on the most constrained atom.
type kekuleMatcher struct {
	mol     *Molecule
	edges   [][]int
	mate    []int
	pending []int
	matched []int
	steps   int
}

func (k *kekuleMatcher) search(remaining int) bool {
	if remaining == 0 {
		return true
	}
	k.steps++
	if k.steps > maxKekuleSteps {
		return false
	}

	// Pick the unmatched atom with the fewest free partners.
	pick, pickFree := -1, 0
	for _, a := range k.pending {
		if k.mate[a] >= 0 {
			continue
		}
		free := 0
		for _, bi := range k.edges[a] {
			if k.mate[k.mol.Bonds[bi].Other(a)] < 0 {
				free++
			}
		}
		if pick < 0 || free < pickFree {
			pick, pickFree = a, free
		}
		if free == 0 {
			break
		}
	}
	if pickFree == 0 {
		return false
	}

	for _, bi := range k.edges[pick] {
		other := k.mol.Bonds[bi].Other(pick)
		if k.mate[other] >= 0 {
			continue
		}
		k.mate[pick], k.mate[other] = other, pick
		k.matched = append(k.matched, bi)
		if k.search(remaining - 2) {
			return true
		}
		k.matched = k.matched[:len(k.matched)-1]
		k.mate[pick], k.mate[other] = -1, -1
	}
	return false
}
