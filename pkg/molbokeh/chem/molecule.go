// Package chem provides the molecular graph used for depiction: a SMILES
// parser, implicit hydrogen counting, ring perception and kekulization.
package chem

// Atom is a single atom of a molecule.
type Atom struct {
	// Element is the element symbol (e.g., C, Cl) or "*" for a wildcard.
	Element string `json:"element"`
	// Aromatic marks atoms written in lowercase.
	Aromatic bool `json:"aromatic,omitempty"`
	// Charge is the formal charge.
	Charge int `json:"charge,omitempty"`
	// Isotope is the mass number, 0 when unspecified.
	Isotope int `json:"isotope,omitempty"`
	// HCount is the explicit hydrogen count of a bracket atom.
	HCount int `json:"h_count,omitempty"`
	// Bracket marks atoms written inside [...].
	Bracket bool `json:"bracket,omitempty"`
	// Class is the atom class from [C:1], 0 when unspecified.
	Class int `json:"class,omitempty"`
	// X and Y are the 2D depiction coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bond connects two atoms.
type Bond struct {
	// Begin and End are atom indices.
	Begin int `json:"begin"`
	End   int `json:"end"`
	// Order is 1, 2, 3 or 4. Aromatic bonds have Order 1 until kekulized.
	Order int `json:"order"`
	// Aromatic marks bonds that are part of an aromatic system.
	Aromatic bool `json:"aromatic,omitempty"`
}

// Other returns the atom at the opposite end of the bond from atom i.
func (b Bond) Other(i int) int {
	if b.Begin == i {
		return b.End
	}
	return b.Begin
}

// Molecule is an atom/bond graph.
type Molecule struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
	// HasCoords is set once 2D coordinates have been assigned.
	HasCoords bool `json:"has_coords"`
}

// NumAtoms returns the number of atoms.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// Clone returns a deep copy.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		Atoms:     make([]Atom, len(m.Atoms)),
		Bonds:     make([]Bond, len(m.Bonds)),
		HasCoords: m.HasCoords,
	}
	copy(c.Atoms, m.Atoms)
	copy(c.Bonds, m.Bonds)
	return c
}

// AtomBonds returns the indices of the bonds touching atom i.
func (m *Molecule) AtomBonds(i int) []int {
	var out []int
	for bi, b := range m.Bonds {
		if b.Begin == i || b.End == i {
			out = append(out, bi)
		}
	}
	return out
}

// Neighbors returns the atoms bonded to atom i, in bond order.
func (m *Molecule) Neighbors(i int) []int {
	var out []int
	for _, b := range m.Bonds {
		switch i {
		case b.Begin:
			out = append(out, b.End)
		case b.End:
			out = append(out, b.Begin)
		}
	}
	return out
}

// Degree returns the number of bonds touching atom i.
func (m *Molecule) Degree(i int) int {
	return len(m.AtomBonds(i))
}

// BondBetween returns the index of the bond joining atoms a and b, or -1.
func (m *Molecule) BondBetween(a, b int) int {
	for bi, bond := range m.Bonds {
		if (bond.Begin == a && bond.End == b) || (bond.Begin == b && bond.End == a) {
			return bi
		}
	}
	return -1
}

// Adjacency returns the neighbor lists of every atom.
func (m *Molecule) Adjacency() [][]int {
	adj := make([][]int, len(m.Atoms))
	for _, b := range m.Bonds {
		adj[b.Begin] = append(adj[b.Begin], b.End)
		adj[b.End] = append(adj[b.End], b.Begin)
	}
	return adj
}

// Components returns the connected components as lists of atom indices,
// ordered by their lowest atom index.
func (m *Molecule) Components() [][]int {
	adj := m.Adjacency()
	seen := make([]bool, len(m.Atoms))
	var comps [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		comp := []int{start}
		seen[start] = true
		for q := 0; q < len(comp); q++ {
			for _, nb := range adj[comp[q]] {
				if !seen[nb] {
					seen[nb] = true
					comp = append(comp, nb)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// bondValence returns the summed order of non-aromatic bonds and the number
// of aromatic bonds at atom i.
func (m *Molecule) bondValence(i int) (explicit, aromatic int) {
	for _, b := range m.Bonds {
		if b.Begin != i && b.End != i {
			continue
		}
		if b.Aromatic {
			aromatic++
		} else {
			explicit += b.Order
		}
	}
	return explicit, aromatic
}

// needsDouble reports whether an aromatic atom must take one double bond in
// a Kekulé structure.
func (m *Molecule) needsDouble(i int) bool {
	a := m.Atoms[i]
	if !a.Aromatic {
		return false
	}
	explicit, aromatic := m.bondValence(i)
	if aromatic == 0 {
		return false
	}
	valence := targetValence(a.Element, a.Charge)
	if valence < 0 {
		return false
	}
	used := explicit + aromatic
	if a.Bracket {
		used += a.HCount
	}
	return valence-used >= 1
}

// checkValence returns the first atom whose bonds and explicit hydrogens
// exceed its highest allowed valence, with the count used, or -1.
func (m *Molecule) checkValence() (atom, used, allowed int) {
	for i, a := range m.Atoms {
		limit := maxValence(a.Element, a.Charge)
		if limit < 0 {
			continue
		}
		explicit, aromatic := m.bondValence(i)
		n := explicit + aromatic
		if a.Bracket {
			n += a.HCount
		}
		if n > limit {
			return i, n, limit
		}
	}
	return -1, 0, 0
}

// ImplicitHs returns the number of hydrogens to draw on atom i. Bracket
// atoms report their explicit count.
func (m *Molecule) ImplicitHs(i int) int {
	a := m.Atoms[i]
	if a.Bracket {
		return a.HCount
	}
	valences, ok := defaultValences[a.Element]
	if !ok {
		return 0
	}
	explicit, aromatic := m.bondValence(i)
	used := explicit + aromatic
	if aromatic > 0 && m.needsDouble(i) {
		used++
	}
	for _, v := range valences {
		if v >= used {
			return v - used
		}
	}
	return 0
}
