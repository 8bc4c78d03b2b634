package chem

import (
	"fmt"
	"strings"
)

// ParseError reports a SMILES string that does not describe a structure.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid SMILES: %s", e.Msg)
	}
	return fmt.Sprintf("invalid SMILES %q at position %d: %s", e.Input, e.Pos, e.Msg)
}

// pendingBond is a bond symbol waiting for the next atom or ring closure.
type pendingBond struct {
	set      bool
	order    int
	aromatic bool
	symbol   byte
	pos      int
}

type ringOpening struct {
	atom int
	bond pendingBond
	pos  int
}

type smilesParser struct {
	in      string
	pos     int
	mol     *Molecule
	prev    int
	branch  []int
	bond    pendingBond
	rings   map[int]ringOpening
	atomPos []int // input offset of every atom
}

// ParseSMILES parses a SMILES string. Everything after the first whitespace
// is treated as a title and ignored.
func ParseSMILES(smiles string) (*Molecule, error) {
	s := strings.TrimSpace(smiles)
	if i := strings.IndexAny(s, " \t\r\n"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, &ParseError{Input: smiles, Msg: "empty input"}
	}

	p := &smilesParser{
		in:    s,
		mol:   &Molecule{},
		prev:  -1,
		rings: make(map[int]ringOpening),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

func (p *smilesParser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Input: p.in, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf(p.pos, "branch without preceding atom")
			}
			if p.bond.set {
				return p.errorf(p.pos, "bond before branch")
			}
			p.branch = append(p.branch, p.prev)
			p.pos++
		case c == ')':
			if len(p.branch) == 0 {
				return p.errorf(p.pos, "unbalanced ')'")
			}
			if p.bond.set {
				return p.errorf(p.bond.pos, "bond without following atom")
			}
			p.prev = p.branch[len(p.branch)-1]
			p.branch = p.branch[:len(p.branch)-1]
			p.pos++
		case c == '.':
			if p.bond.set {
				return p.errorf(p.bond.pos, "bond without following atom")
			}
			if len(p.branch) > 0 {
				return p.errorf(p.pos, "dot inside branch")
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.prev < 0 {
				return p.errorf(p.pos, "bond without preceding atom")
			}
			if p.bond.set {
				return p.errorf(p.pos, "consecutive bond symbols")
			}
			p.bond = bondFromSymbol(c, p.pos)
			p.pos++
		case c >= '0' && c <= '9' || c == '%':
			if err := p.parseRingClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.parseBracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.parseOrganicAtom(); err != nil {
				return err
			}
		}
	}

	if p.bond.set {
		return p.errorf(p.bond.pos, "bond without following atom")
	}
	if len(p.branch) > 0 {
		return p.errorf(len(p.in), "unclosed branch")
	}
	if len(p.rings) > 0 {
		first := -1
		for num := range p.rings {
			if first < 0 || num < first {
				first = num
			}
		}
		return p.errorf(p.rings[first].pos, "unclosed ring %d", first)
	}
	if len(p.mol.Atoms) == 0 {
		return p.errorf(0, "no atoms")
	}
	if i, used, allowed := p.mol.checkValence(); i >= 0 {
		return p.errorf(p.atomPos[i], "%s has valence %d, more than the allowed %d", p.mol.Atoms[i].Element, used, allowed)
	}
	return nil
}

func bondFromSymbol(c byte, pos int) pendingBond {
	b := pendingBond{set: true, order: 1, symbol: c, pos: pos}
	switch c {
	case '=':
		b.order = 2
	case '#':
		b.order = 3
	case '$':
		b.order = 4
	case ':':
		b.aromatic = true
	}
	return b
}

// addAtom appends an atom starting at input offset pos and bonds it to the
// previous atom.
func (p *smilesParser) addAtom(a Atom, pos int) {
	idx := len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, a)
	p.atomPos = append(p.atomPos, pos)
	if p.prev >= 0 {
		p.addBond(p.prev, idx, p.bond)
	}
	p.bond = pendingBond{}
	p.prev = idx
}

func (p *smilesParser) addBond(a, b int, pb pendingBond) {
	bond := Bond{Begin: a, End: b, Order: 1}
	if pb.set {
		bond.Order = pb.order
		bond.Aromatic = pb.aromatic
	} else if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		bond.Aromatic = true
	}
	p.mol.Bonds = append(p.mol.Bonds, bond)
}

func (p *smilesParser) parseOrganicAtom() error {
	start := p.pos
	c := p.in[p.pos]
	if c == '*' {
		p.pos++
		p.addAtom(Atom{Element: "*"}, start)
		return nil
	}
	if p.pos+1 < len(p.in) {
		two := p.in[p.pos : p.pos+2]
		if two == "Cl" || two == "Br" {
			p.pos += 2
			p.addAtom(Atom{Element: two}, start)
			return nil
		}
	}
	one := string(c)
	if organicSubset[one] {
		p.pos++
		p.addAtom(Atom{Element: one}, start)
		return nil
	}
	if el, ok := aromaticSymbols[one]; ok {
		p.pos++
		p.addAtom(Atom{Element: el, Aromatic: true}, start)
		return nil
	}
	return p.errorf(start, "unexpected character %q", c)
}

func (p *smilesParser) parseBracketAtom() error {
	start := p.pos
	p.pos++ // '['
	a := Atom{Bracket: true}

	a.Isotope = p.readNumber()

	switch {
	case p.pos < len(p.in) && p.in[p.pos] == '*':
		a.Element = "*"
		p.pos++
	default:
		el, aromatic, ok := p.readBracketSymbol()
		if !ok {
			return p.errorf(p.pos, "unknown element in bracket atom")
		}
		a.Element = el
		a.Aromatic = aromatic
	}

	// Chirality is accepted and ignored.
	for p.pos < len(p.in) && p.in[p.pos] == '@' {
		p.pos++
	}
	if p.pos+1 < len(p.in) {
		switch p.in[p.pos : p.pos+2] {
		case "TH", "AL", "SP", "TB", "OH":
			if p.pos > start && p.in[p.pos-1] == '@' {
				p.pos += 2
				p.readNumber()
			}
		}
	}

	if p.pos < len(p.in) && p.in[p.pos] == 'H' {
		p.pos++
		a.HCount = 1
		if n := p.readNumber(); n > 0 || (p.pos > 0 && p.in[p.pos-1] == '0') {
			a.HCount = n
		}
	}

	if p.pos < len(p.in) && (p.in[p.pos] == '+' || p.in[p.pos] == '-') {
		sign := 1
		if p.in[p.pos] == '-' {
			sign = -1
		}
		sym := p.in[p.pos]
		p.pos++
		charge := 1
		if n := p.readNumber(); n > 0 {
			charge = n
		} else {
			for p.pos < len(p.in) && p.in[p.pos] == sym {
				charge++
				p.pos++
			}
		}
		a.Charge = sign * charge
	}

	if p.pos < len(p.in) && p.in[p.pos] == ':' {
		p.pos++
		if p.pos >= len(p.in) || p.in[p.pos] < '0' || p.in[p.pos] > '9' {
			return p.errorf(p.pos, "atom class without number")
		}
		a.Class = p.readNumber()
	}

	if p.pos >= len(p.in) || p.in[p.pos] != ']' {
		return p.errorf(start, "unterminated bracket atom")
	}
	p.pos++
	p.addAtom(a, start)
	return nil
}

// readBracketSymbol reads an element symbol inside brackets, preferring
// two-letter symbols.
func (p *smilesParser) readBracketSymbol() (element string, aromatic bool, ok bool) {
	rest := p.in[p.pos:]
	if len(rest) >= 2 {
		two := rest[:2]
		if _, known := atomicNumbers[two]; known {
			p.pos += 2
			return two, false, true
		}
		if el, known := aromaticSymbols[two]; known {
			p.pos += 2
			return el, true, true
		}
	}
	if len(rest) >= 1 {
		one := rest[:1]
		if _, known := atomicNumbers[one]; known {
			p.pos++
			return one, false, true
		}
		if el, known := aromaticSymbols[one]; known {
			p.pos++
			return el, true, true
		}
	}
	return "", false, false
}

// readNumber consumes a run of decimal digits, returning 0 when none.
func (p *smilesParser) readNumber() int {
	n := 0
	for p.pos < len(p.in) && p.in[p.pos] >= '0' && p.in[p.pos] <= '9' {
		n = n*10 + int(p.in[p.pos]-'0')
		p.pos++
	}
	return n
}

func (p *smilesParser) parseRingClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.errorf(start, "ring closure without preceding atom")
	}
	var num int
	if p.in[p.pos] == '%' {
		if p.pos+2 >= len(p.in) || !isDigit(p.in[p.pos+1]) || !isDigit(p.in[p.pos+2]) {
			return p.errorf(start, "'%%' must be followed by two digits")
		}
		num = int(p.in[p.pos+1]-'0')*10 + int(p.in[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.in[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringOpening{atom: p.prev, bond: p.bond, pos: start}
		p.bond = pendingBond{}
		return nil
	}
	delete(p.rings, num)

	if open.atom == p.prev {
		return p.errorf(start, "ring %d closes on its own atom", num)
	}
	if p.mol.BondBetween(open.atom, p.prev) >= 0 {
		return p.errorf(start, "ring %d duplicates an existing bond", num)
	}
	bond := open.bond
	if p.bond.set {
		if bond.set && (bond.order != p.bond.order || bond.aromatic != p.bond.aromatic) {
			return p.errorf(start, "conflicting bond orders for ring %d", num)
		}
		bond = p.bond
	}
	p.addBond(open.atom, p.prev, bond)
	p.bond = pendingBond{}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
