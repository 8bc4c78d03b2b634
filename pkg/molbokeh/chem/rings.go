package chem

import (
	"sort"
)

// Rings returns the smallest cycle through every ring bond, with duplicates
// removed and shorter rings first. Each ring lists its atoms in path order.
func Rings(m *Molecule) [][]int {
	adj := m.Adjacency()
	seen := make(map[string]bool)
	var rings [][]int
	for _, b := range m.Bonds {
		path := shortestPathAvoiding(adj, b.Begin, b.End)
		if path == nil {
			continue
		}
		key := ringKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		rings = append(rings, path)
	}
	sort.SliceStable(rings, func(i, j int) bool { return len(rings[i]) < len(rings[j]) })
	return rings
}

// shortestPathAvoiding finds the shortest path from a to b that does not use
// the direct a-b edge. It returns nil when the bond is not in a ring.
func shortestPathAvoiding(adj [][]int, a, b int) []int {
	prev := make([]int, len(adj))
	for i := range prev {
		prev[i] = -1
	}
	prev[a] = a
	queue := []int{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if cur == a && nb == b {
				continue
			}
			if prev[nb] >= 0 {
				continue
			}
			prev[nb] = cur
			if nb == b {
				var path []int
				for at := b; at != a; at = prev[at] {
					path = append(path, at)
				}
				path = append(path, a)
				return path
			}
			queue = append(queue, nb)
		}
	}
	return nil
}

func ringKey(ring []int) string {
	sorted := make([]int, len(ring))
	copy(sorted, ring)
	sort.Ints(sorted)
	key := make([]byte, 0, len(sorted)*4)
	for _, v := range sorted {
		key = append(key, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return string(key)
}

// InRing reports whether the bond between a and b is part of any ring.
func InRing(rings [][]int, a, b int) bool {
	return SmallestRingWithBond(rings, a, b) != nil
}

// SmallestRingWithBond returns the smallest ring in which a and b are
// consecutive, or nil.
func SmallestRingWithBond(rings [][]int, a, b int) []int {
	for _, ring := range rings {
		n := len(ring)
		for i := 0; i < n; i++ {
			x, y := ring[i], ring[(i+1)%n]
			if (x == a && y == b) || (x == b && y == a) {
				return ring
			}
		}
	}
	return nil
}
