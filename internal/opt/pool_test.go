package opt

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestPoolOptimize(t *testing.T) {
	p := NewPool(2, 0, &Optimizer{})
	res, err := p.Optimize(context.Background(), []Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(res.Order, want) {
		t.Fatalf("order = %v, want %v", res.Order, want)
	}
}

func TestPoolConcurrentCallsIsolated(t *testing.T) {
	p := NewPool(4, 0, &Optimizer{})
	stops := []Point{{0, 0}, {2, 3}, {-1, 5}, {4, -2}, {3, 3}, {-2, -2}, {1, 1}}

	baseline, err := p.Optimize(context.Background(), stops)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.Optimize(context.Background(), stops)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(res.Order, baseline.Order) {
				errs <- errors.New("concurrent run diverged from baseline order")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestPoolAcquireRespectsContext(t *testing.T) {
	p := NewPool(1, 0, &Optimizer{})
	// Occupy the only slot.
	p.sem <- struct{}{}
	defer func() { <-p.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Optimize(ctx, []Point{{0, 0}, {0, 1}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}

func TestPoolTimeoutStillReturnsTour(t *testing.T) {
	// A deadline that has effectively passed before improvement starts: the
	// nearest-neighbor tour is still returned as a complete valid result.
	p := NewPool(1, time.Nanosecond, &Optimizer{})
	stops := []Point{{0, 0}, {10, 10}, {0, 1}, {10, 9}}
	res, err := p.Optimize(context.Background(), stops)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !isPermutation(res.Order, len(stops)) {
		t.Fatalf("order %v is not a permutation", res.Order)
	}
}
