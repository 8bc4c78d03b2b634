package chem

// elementSymbols lists element symbols in atomic number order, starting at H.
var elementSymbols = []string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(elementSymbols))
	for i, s := range elementSymbols {
		m[s] = i + 1
	}
	return m
}()

// organicSubset holds the elements that may be written without brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols maps lowercase aromatic symbols to their element.
// b, c, n, o, p, s are allowed unbracketed; se, as, te only in brackets.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

// defaultValences lists allowed valences used for implicit hydrogens.
var defaultValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1, 3, 5},
	"Se": {2, 4, 6},
	"As": {3, 5},
	"Te": {2, 4, 6},
	"Si": {4},
}

// targetValence returns the lowest valence of an element adjusted for its
// formal charge, or -1 when unknown.
func targetValence(element string, charge int) int {
	valences, ok := defaultValences[element]
	if !ok {
		return -1
	}
	return chargedValence(element, valences[0], charge)
}

// maxValence returns the highest valence of an element adjusted for its
// formal charge, or -1 when unknown.
func maxValence(element string, charge int) int {
	valences, ok := defaultValences[element]
	if !ok {
		return -1
	}
	return chargedValence(element, valences[len(valences)-1], charge)
}

// chargedValence shifts a neutral valence by a formal charge. Carbon-like
// atoms lose a bond either way; boron gains one per negative charge.
func chargedValence(element string, v, charge int) int {
	switch element {
	case "C", "Si":
		if charge < 0 {
			charge = -charge
		}
		v -= charge
	case "B":
		v -= charge
	default:
		v += charge
	}
	return v
}
