package opt

import "fmt"

// BuildMatrix computes the full pairwise distance matrix for stops in
// kilometers. Haversine is symmetric, so each unordered pair is computed once
// and mirrored; the diagonal is zero without calling the distance function.
func BuildMatrix(stops []Point) ([][]float64, error) {
	n := len(stops)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 stops, got %d", ErrInvalidInput, n)
	}
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(stops[i], stops[j])
			matrix[i][j] = d
			matrix[j][i] = d
		}
	}
	return matrix, nil
}

// TourLength returns the open-path length of order over matrix, i.e. the sum
// of consecutive leg distances without a closing edge back to the start.
func TourLength(matrix [][]float64, order []int) float64 {
	total := 0.0
	for k := 0; k < len(order)-1; k++ {
		total += matrix[order[k]][order[k+1]]
	}
	return total
}
