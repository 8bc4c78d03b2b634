package depict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/chem"
)

func layout(t *testing.T, smiles string) *chem.Molecule {
	t.Helper()
	mol, err := chem.ParseSMILES(smiles)
	require.NoError(t, err)
	Compute2DCoords(mol)
	require.True(t, mol.HasCoords)
	return mol
}

func dist(m *chem.Molecule, a, b int) float64 {
	return math.Hypot(m.Atoms[a].X-m.Atoms[b].X, m.Atoms[a].Y-m.Atoms[b].Y)
}

func TestCompute2DCoordsBondLengths(t *testing.T) {
	for _, smiles := range []string{
		"CCO",
		"CC(=O)O",
		"c1ccccc1",
		"CC(C)(C)C",
		"c1ccc2ccccc2c1",
		"CC(=O)Oc1ccccc1C(=O)O",
		"CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
	} {
		t.Run(smiles, func(t *testing.T) {
			mol := layout(t, smiles)
			for _, b := range mol.Bonds {
				assert.InDelta(t, BondLength, dist(mol, b.Begin, b.End), 0.35*BondLength,
					"bond %d-%d", b.Begin, b.End)
			}
			for i := range mol.Atoms {
				for j := i + 1; j < len(mol.Atoms); j++ {
					assert.Greater(t, dist(mol, i, j), 0.3*BondLength, "atoms %d and %d overlap", i, j)
				}
			}
		})
	}
}

func TestCompute2DCoordsRegularRing(t *testing.T) {
	mol := layout(t, "c1ccccc1")
	for _, b := range mol.Bonds {
		assert.InDelta(t, BondLength, dist(mol, b.Begin, b.End), 0.05)
	}
	// para atoms span the ring diameter
	assert.InDelta(t, 2*BondLength, dist(mol, 0, 3), 0.1)
}

func TestCompute2DCoordsDeterministic(t *testing.T) {
	a := layout(t, "CC(=O)Nc1ccc(O)cc1")
	b := layout(t, "CC(=O)Nc1ccc(O)cc1")
	assert.Equal(t, a.Atoms, b.Atoms)
}

func TestCompute2DCoordsComponents(t *testing.T) {
	mol := layout(t, "CCO.[Na+]")
	// the ion is placed to the right of the ethanol
	for i := 0; i < 3; i++ {
		assert.Less(t, mol.Atoms[i].X, mol.Atoms[3].X)
	}
}

func TestCompute2DCoordsSingleAtom(t *testing.T) {
	mol := layout(t, "C")
	assert.Zero(t, mol.Atoms[0].X)
	assert.Zero(t, mol.Atoms[0].Y)
}
