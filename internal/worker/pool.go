package worker

import (
	"context"
	"sync"
)

// Job is one unit of work, typically a consistency run over a single corpus
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool runs jobs across a fixed number of goroutines. The channel buffers are
// small relative to realistic batch sizes, so producers must not submit the
// whole batch before draining: Submit from a separate goroutine, call Close
// after the last job, and collect with Wait. The pool is single-use.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeJobs sync.Once
	closeRes  sync.Once
}

// NewPool creates a pool with the given number of workers. Jobs execute
// under a context derived from ctx, so cancelling it stops the pool.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     poolCtx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. After cancellation it returns without queueing.
// Submitting after Close panics; the producer owns the Close call.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- job:
	}
}

// Close signals that no more jobs will be submitted. Must be called exactly
// by the producer, after its last Submit, or Wait never returns.
func (p *Pool) Close() {
	p.closeJobs.Do(func() {
		close(p.jobs)
	})
}

// Wait drains results until the workers finish and returns them in
// completion order. It must run concurrently with submission: a producer
// that submits everything before Wait starts draining deadlocks once the
// batch outgrows the channel buffers.
func (p *Pool) Wait() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels in-flight jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeRes.Do(func() {
		close(p.results)
	})
}
