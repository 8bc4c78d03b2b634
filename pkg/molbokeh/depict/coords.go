// Package depict computes 2D depictions of molecules and draws them as SVG.
package depict

import (
	"math"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/chem"
)

// BondLength is the target bond length in depiction units.
const BondLength = 1.5

// layoutIterations is the number of stress-majorization sweeps.
const layoutIterations = 300

// Compute2DCoords assigns deterministic 2D coordinates to every atom.
// Each connected component is laid out by stress majorization against
// target distances derived from bond topology, with ring atoms pinned to
// regular polygon geometry. Components are placed left to right.
func Compute2DCoords(m *chem.Molecule) {
	if len(m.Atoms) == 0 {
		m.HasCoords = true
		return
	}

	rings := chem.Rings(m)
	adj := m.Adjacency()
	offset := 0.0
	for ci, comp := range m.Components() {
		pos := layoutComponent(comp, adj, rings)
		orient(pos)

		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, p := range pos {
			minX = math.Min(minX, p[0])
			maxX = math.Max(maxX, p[0])
		}
		if ci > 0 {
			offset += 2 * BondLength
		}
		for k, atom := range comp {
			m.Atoms[atom].X = pos[k][0] - minX + offset
			m.Atoms[atom].Y = pos[k][1]
		}
		offset += maxX - minX
	}

	// Center the drawing on the origin.
	var cx, cy float64
	for _, a := range m.Atoms {
		cx += a.X
		cy += a.Y
	}
	cx /= float64(len(m.Atoms))
	cy /= float64(len(m.Atoms))
	for i := range m.Atoms {
		m.Atoms[i].X -= cx
		m.Atoms[i].Y -= cy
	}
	m.HasCoords = true
}

// layoutComponent returns positions for the atoms of one component, indexed
// like comp.
func layoutComponent(comp []int, adj [][]int, rings [][]int) [][2]float64 {
	n := len(comp)
	pos := make([][2]float64, n)
	switch n {
	case 1:
		return pos
	case 2:
		pos[1] = [2]float64{BondLength, 0}
		return pos
	}

	local := make(map[int]int, n)
	for k, atom := range comp {
		local[atom] = k
	}

	target := targetDistances(comp, local, adj, rings)
	pos = classicalMDS(target)
	stressMajorize(pos, target)
	return pos
}

// targetDistances builds the ideal pairwise distances: a zig-zag chain
// distance from the topological separation, overridden for atoms sharing a
// ring by the chord length of the regular polygon.
func targetDistances(comp []int, local map[int]int, adj [][]int, rings [][]int) [][]float64 {
	n := len(comp)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		hops := bfsHops(comp[i], adj, local, n)
		for j := range d[i] {
			if i != j {
				d[i][j] = zigzag(hops[j])
			}
		}
	}

	fixed := make([][]bool, n)
	for i := range fixed {
		fixed[i] = make([]bool, n)
	}
	for _, ring := range rings {
		if _, ok := local[ring[0]]; !ok {
			continue
		}
		size := len(ring)
		for a := 0; a < size; a++ {
			for b := a + 1; b < size; b++ {
				i, j := local[ring[a]], local[ring[b]]
				if fixed[i][j] {
					continue
				}
				sep := b - a
				if size-sep < sep {
					sep = size - sep
				}
				chord := BondLength * math.Sin(math.Pi*float64(sep)/float64(size)) / math.Sin(math.Pi/float64(size))
				d[i][j], d[j][i] = chord, chord
				fixed[i][j], fixed[j][i] = true, true
			}
		}
	}
	return d
}

func bfsHops(start int, adj [][]int, local map[int]int, n int) []int {
	hops := make([]int, n)
	for i := range hops {
		hops[i] = -1
	}
	hops[local[start]] = 0
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if k := local[nb]; hops[k] < 0 {
				hops[k] = hops[local[cur]] + 1
				queue = append(queue, nb)
			}
		}
	}
	return hops
}

// zigzag is the end-to-end distance of a chain of h bonds at 120 degrees.
func zigzag(h int) float64 {
	if h <= 0 {
		return BondLength
	}
	x := float64(h) * math.Sqrt(3) / 2
	y := 0.0
	if h%2 == 1 {
		y = 0.5
	}
	return BondLength * math.Hypot(x, y)
}

// classicalMDS embeds the distance matrix in the plane using the two
// leading eigenvectors of the double-centered squared distances.
func classicalMDS(d [][]float64) [][2]float64 {
	n := len(d)
	sq := make([][]float64, n)
	rowMean := make([]float64, n)
	total := 0.0
	for i := range d {
		sq[i] = make([]float64, n)
		for j := range d[i] {
			sq[i][j] = d[i][j] * d[i][j]
			rowMean[i] += sq[i][j]
		}
		total += rowMean[i]
		rowMean[i] /= float64(n)
	}
	total /= float64(n * n)

	b := make([][]float64, n)
	for i := range b {
		b[i] = make([]float64, n)
		for j := range b[i] {
			b[i][j] = -0.5 * (sq[i][j] - rowMean[i] - rowMean[j] + total)
		}
	}

	start1 := make([]float64, n)
	start2 := make([]float64, n)
	for i := range start1 {
		start1[i] = math.Cos(1.3*float64(i)) + 0.5
		start2[i] = math.Sin(0.7*float64(i) + 0.3)
	}
	v1, l1 := powerIteration(b, start1, nil)
	v2, l2 := powerIteration(b, start2, v1)

	s1 := math.Sqrt(math.Max(l1, 0))
	s2 := math.Sqrt(math.Max(l2, 0))
	pos := make([][2]float64, n)
	for i := range pos {
		// golden-angle jitter keeps degenerate embeddings out of a line
		theta := 2.39996 * float64(i)
		pos[i] = [2]float64{
			v1[i]*s1 + 0.05*math.Cos(theta),
			v2[i]*s2 + 0.05*math.Sin(theta),
		}
	}
	return pos
}

// powerIteration finds the dominant eigenvector of b orthogonal to deflate.
func powerIteration(b [][]float64, v []float64, deflate []float64) ([]float64, float64) {
	n := len(b)
	next := make([]float64, n)
	lambda := 0.0
	orthogonalize(v, deflate)
	normalize(v)
	for iter := 0; iter < 200; iter++ {
		for i := range next {
			sum := 0.0
			for j := range v {
				sum += b[i][j] * v[j]
			}
			next[i] = sum
		}
		orthogonalize(next, deflate)
		lambda = dot(next, v)
		if normalize(next) == 0 {
			return v, 0
		}
		copy(v, next)
	}
	return v, lambda
}

func orthogonalize(v, against []float64) {
	if against == nil {
		return
	}
	p := dot(v, against)
	for i := range v {
		v[i] -= p * against[i]
	}
}

func normalize(v []float64) float64 {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return 0
	}
	for i := range v {
		v[i] /= norm
	}
	return norm
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// stressMajorize refines positions in place, weighting each pair by the
// inverse square of its target distance.
func stressMajorize(pos [][2]float64, d [][]float64) {
	n := len(pos)
	for iter := 0; iter < layoutIterations; iter++ {
		for i := 0; i < n; i++ {
			var nx, ny, wsum float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx := pos[i][0] - pos[j][0]
				dy := pos[i][1] - pos[j][1]
				dist := math.Hypot(dx, dy)
				if dist < 1e-9 {
					// separate coincident atoms along a fixed direction
					dx, dy = 1e-3*float64(i-j), 1e-3
					dist = math.Hypot(dx, dy)
				}
				w := 1 / (d[i][j] * d[i][j])
				nx += w * (pos[j][0] + d[i][j]*dx/dist)
				ny += w * (pos[j][1] + d[i][j]*dy/dist)
				wsum += w
			}
			pos[i] = [2]float64{nx / wsum, ny / wsum}
		}
	}
}

// orient rotates positions so the principal axis is horizontal and the
// first atom sits left of the centroid.
func orient(pos [][2]float64) {
	n := float64(len(pos))
	var cx, cy float64
	for _, p := range pos {
		cx += p[0]
		cy += p[1]
	}
	cx /= n
	cy /= n

	var sxx, syy, sxy float64
	for _, p := range pos {
		dx, dy := p[0]-cx, p[1]-cy
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	angle := 0.5 * math.Atan2(2*sxy, sxx-syy)
	c, s := math.Cos(-angle), math.Sin(-angle)
	for i, p := range pos {
		dx, dy := p[0]-cx, p[1]-cy
		pos[i] = [2]float64{dx*c - dy*s, dx*s + dy*c}
	}
	if len(pos) > 1 && pos[0][0] > 0 {
		for i := range pos {
			pos[i][0] = -pos[i][0]
		}
	}
}
