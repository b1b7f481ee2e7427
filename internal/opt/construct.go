package opt

// NearestNeighborOrder builds an initial visiting order over matrix using
// greedy nearest-neighbor from index 0. The anchor is fixed (not arbitrary)
// so identical inputs always produce identical tours.
func NearestNeighborOrder(matrix [][]float64) []int {
	n := len(matrix)
	order := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	order = append(order, current)
	visited[current] = true

	for len(order) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			// Tie-breaker: strict < keeps the smallest unvisited index when
			// distances are equal, which keeps the ordering deterministic.
			if next == -1 || matrix[current][j] < matrix[current][next] {
				next = j
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}
	return order
}
