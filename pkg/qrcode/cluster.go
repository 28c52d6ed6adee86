package qr

// Cluster is an 8-connected group of dark modules outside the finder zones.
type Cluster struct {
	ID      int
	Modules []Coord
}

// Clusters groups the dark modules of m with a breadth-first flood fill.
// Modules for which skip returns true are never clustered. Seeds are taken in
// row-major order, so identical matrices always yield identical clusters.
func Clusters(m *Matrix, skip func(row, col int) bool) []Cluster {
	n := m.Size()
	label := make([]int, n*n)
	for i := range label {
		label[i] = -1
	}

	var (
		clusters []Cluster
		queue    []int
	)
	for seed := 0; seed < n*n; seed++ {
		r, c := seed/n, seed%n
		if label[seed] >= 0 || !m.Dark(r, c) || (skip != nil && skip(r, c)) {
			continue
		}
		id := len(clusters)
		cl := Cluster{ID: id}
		label[seed] = id
		queue = append(queue[:0], seed)
		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			cr, cc := cur/n, cur%n
			cl.Modules = append(cl.Modules, Coord{cr, cc})
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					nr, nc := cr+dr, cc+dc
					if (dr == 0 && dc == 0) || nr < 0 || nc < 0 || nr >= n || nc >= n {
						continue
					}
					idx := nr*n + nc
					if label[idx] >= 0 || !m.Dark(nr, nc) || (skip != nil && skip(nr, nc)) {
						continue
					}
					label[idx] = id
					queue = append(queue, idx)
				}
			}
		}
		clusters = append(clusters, cl)
	}
	return clusters
}

// DataClusters clusters every dark module outside the finder zones.
func DataClusters(m *Matrix) []Cluster {
	return Clusters(m, m.InFinderZone)
}
