package concurrent

import (
	"sort"
	"testing"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](4, 16)
	wp.Start(func(job int) int {
		return job * job
	})

	for i := 1; i <= 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	results := []int{}
	for res := range wp.CollectResults() {
		results = append(results, res)
	}

	if len(results) != 10 {
		t.Fatalf("want 10 results, got %d", len(results))
	}
	sort.Ints(results)
	for i, want := range []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100} {
		if results[i] != want {
			t.Errorf("result %d: got %d want %d", i, results[i], want)
		}
	}
}

func TestWorkerPoolNoJobs(t *testing.T) {
	wp := NewWorkerPool[struct{}, struct{}](2, 1)
	wp.Start(func(struct{}) struct{} { return struct{}{} })
	wp.Close()
	wp.Wait()

	count := 0
	for range wp.CollectResults() {
		count++
	}
	if count != 0 {
		t.Errorf("want no results, got %d", count)
	}
}
