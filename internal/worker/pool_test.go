package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	counter *int64
}

type countingResult struct{}

func (countingResult) GetError() error { return nil }

func (j *countingJob) Execute(ctx context.Context) Result {
	atomic.AddInt64(j.counter, 1)
	return countingResult{}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var counter int64
	for i := 0; i < 20; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}
	if atomic.LoadInt64(&counter) != 20 {
		t.Errorf("expected every job executed, got %d", counter)
	}
}

func TestPool_ClampsWorkerCount(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter int64
	pool.Submit(&countingJob{counter: &counter})
	results := pool.Wait()

	if len(results) != 1 {
		t.Errorf("expected the single-worker fallback to run the job, got %d results", len(results))
	}
}

type blockingJob struct{}

func (blockingJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
	return countingResult{}
}

func TestPool_ShutdownCancelsWork(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Submit(blockingJob{})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected shutdown to cancel the blocked job")
	}
}
