package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_SharesConcurrentCalls(t *testing.T) {
	var flight SingleFlight
	var executions atomic.Int32

	release := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]any, 10)

	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err, _ := flight.Do("leaderboard:2025", func() (any, error) {
				executions.Add(1)
				<-release
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = val
		}()
	}

	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected a single execution, got %d", got)
	}
	for i, val := range results {
		if val != 42 {
			t.Fatalf("caller %d got %v", i, val)
		}
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var flight SingleFlight

	a, _, _ := flight.Do("a", func() (any, error) { return "a", nil })
	b, _, _ := flight.Do("b", func() (any, error) { return "b", nil })

	if a != "a" || b != "b" {
		t.Fatalf("unexpected results a=%v b=%v", a, b)
	}
}
