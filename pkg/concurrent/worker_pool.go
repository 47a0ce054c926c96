package concurrent

import (
	"context"
	"runtime"
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// Job carries the position of its payload in the caller's input so results can
// be put back in order.
type Job[T any] struct {
	Index   int
	Payload T
}

type Result[G any] struct {
	Index int
	Value G
}

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan Result[G]
	wg         sync.WaitGroup
}

// NewWorkerPool with numWorkers <= 0 uses GOMAXPROCS workers.
func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan Result[G], jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		if ctx.Err() != nil {
			// drain so AddJob never blocks after cancellation.
			continue
		}
		wp.results <- Result[G]{Index: job.Index, Value: jobFunc(job.Payload)}
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(index int, payload T) {
	wp.jobQueue <- Job[T]{Index: index, Payload: payload}
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan Result[G] {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) NumWorkers() int {
	return wp.numWorkers
}

// Map runs fn over items on numWorkers goroutines and returns the results in
// input order. on cancellation the remaining items are skipped and ctx.Err() is
// returned with the partial results.
func Map[T any, G any](ctx context.Context, numWorkers int, items []T, fn func(T) G) ([]G, error) {
	out := make([]G, len(items))
	if len(items) == 0 {
		return out, nil
	}

	wp := NewWorkerPool[T, G](numWorkers, len(items))
	wp.Start(ctx, fn)
	for i, it := range items {
		wp.AddJob(i, it)
	}
	wp.Close()
	wp.Wait()

	for res := range wp.CollectResults() {
		out[res.Index] = res.Value
	}
	return out, ctx.Err()
}
