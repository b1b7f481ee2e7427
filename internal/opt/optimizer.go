// Package opt computes near-optimal visiting orders for sets of geographic
// stops: a single-vehicle open-path TSP over geodesic distances, solved with
// nearest-neighbor construction plus 2-opt local search. Every call owns its
// matrix and tour exclusively, so concurrent optimizations need no locking.
package opt

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks rejected requests: fewer than two stops, or a
	// coordinate that is non-finite or out of range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSolverFailure marks an internal invariant violation; it is reported
	// instead of returning a corrupt tour.
	ErrSolverFailure = errors.New("solver failure")
)

// Result is the outcome of one optimization call.
type Result struct {
	Order    []int   // permutation of input indices in visiting order
	Stops    []Point // input stops reordered accordingly
	LengthKm float64 // open-path tour length
	Passes   int     // 2-opt passes run
}

// Optimizer orchestrates matrix construction, nearest-neighbor seeding and
// 2-opt improvement. The zero value is ready to use.
type Optimizer struct {
	// MaxPasses bounds 2-opt passes per call; 0 means one pass per stop,
	// enough to guarantee convergence at dashboard scale.
	MaxPasses int
}

// Optimize returns a visiting order for stops anchored at index 0.
// The returned order is always a permutation of all input indices, and its
// length never exceeds the nearest-neighbor tour's length.
func (o *Optimizer) Optimize(ctx context.Context, stops []Point) (Result, error) {
	if err := validateStops(stops); err != nil {
		return Result{}, err
	}
	matrix, err := BuildMatrix(stops)
	if err != nil {
		return Result{}, err
	}
	order := NearestNeighborOrder(matrix)
	passes := 0
	if len(stops) > 2 {
		order, passes = TwoOptImprove(ctx, matrix, order, o.MaxPasses)
	}
	if !isPermutation(order, len(stops)) {
		return Result{}, fmt.Errorf("%w: tour is not a permutation of %d stops", ErrSolverFailure, len(stops))
	}
	reordered := make([]Point, len(order))
	for k, idx := range order {
		reordered[k] = stops[idx]
	}
	return Result{
		Order:    order,
		Stops:    reordered,
		LengthKm: TourLength(matrix, order),
		Passes:   passes,
	}, nil
}

func validateStops(stops []Point) error {
	if len(stops) < 2 {
		return fmt.Errorf("%w: need at least 2 stops, got %d", ErrInvalidInput, len(stops))
	}
	for i, p := range stops {
		if !finite(p.Lat) || !finite(p.Lng) {
			return fmt.Errorf("%w: stop %d has a non-finite coordinate", ErrInvalidInput, i)
		}
		if p.Lat < -90 || p.Lat > 90 {
			return fmt.Errorf("%w: stop %d latitude %v out of range [-90,90]", ErrInvalidInput, i, p.Lat)
		}
		if p.Lng < -180 || p.Lng > 180 {
			return fmt.Errorf("%w: stop %d longitude %v out of range [-180,180]", ErrInvalidInput, i, p.Lng)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
