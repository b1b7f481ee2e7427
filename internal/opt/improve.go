package opt

import "context"

// improveEpsilon rejects moves whose gain is within floating-point noise,
// otherwise equal-cost swaps could oscillate forever.
const improveEpsilon = 1e-9

// TwoOptImprove refines order with 2-opt local search over the open path.
// A move removes edges (i,i+1) and (j,j+1) and reverses order[i+1..j]; the
// length delta needs only the four endpoint distances. First improving move
// in fixed (i, j) enumeration order is applied, so the search is
// deterministic. Passes repeat until a full pass finds no improving move or
// maxPasses is reached (defaults to len(order)).
//
// The context is checked between passes only: the current tour is always a
// complete valid ordering, so cancellation returns the best tour found so
// far rather than an error. Returns the tour and the number of passes run.
func TwoOptImprove(ctx context.Context, matrix [][]float64, order []int, maxPasses int) ([]int, int) {
	n := len(order)
	best := append([]int(nil), order...)
	if n < 4 {
		// No pair of non-adjacent edges exists, so no move is possible.
		return best, 0
	}
	if maxPasses <= 0 {
		maxPasses = n
	}

	passes := 0
	for passes < maxPasses {
		if ctx.Err() != nil {
			break
		}
		improved := false
		for i := 0; i <= n-2; i++ {
			for j := i + 2; j <= n-2; j++ {
				delta := matrix[best[i]][best[j]] + matrix[best[i+1]][best[j+1]] -
					matrix[best[i]][best[i+1]] - matrix[best[j]][best[j+1]]
				if delta < -improveEpsilon {
					reverse(best, i+1, j)
					improved = true
				}
			}
		}
		passes++
		if !improved {
			break
		}
	}
	return best, passes
}

func reverse(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}
