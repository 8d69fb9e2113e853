package world

import (
	"context"
	"errors"
	"log"
	"sync"

	"isomesh/internal/meshing"
)

// ErrClosed is returned for jobs submitted to, or dropped by, a shut down pool.
var ErrClosed = errors.New("world: worker pool closed")

// Job is a chunk meshing request. The result is sent on Result, which should
// be buffered or drained by the submitter.
type Job struct {
	Request Request
	Result  chan<- Result
}

// Result carries the outcome of one Job.
type Result struct {
	Request Request
	Chunk   *meshing.Chunk
	Err     error
}

// WorkerPool runs chunk generation on a fixed set of goroutines.
type WorkerPool struct {
	gen      *Generator
	jobQueue chan Job
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts workers goroutines meshing through gen.
func NewWorkerPool(gen *Generator, workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	workers = max(workers, 1)

	pool := &WorkerPool{
		gen:      gen,
		jobQueue: make(chan Job, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Start worker goroutines
	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJob queues a job without blocking.
// Returns true if job was submitted successfully, false if queue is full or the pool is closed
func (p *WorkerPool) SubmitJob(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking waits until the job is queued, ctx is done, or the pool shuts down.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrClosed
	}
}

// worker is the goroutine that processes mesh jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			chunk, err := p.gen.Generate(p.ctx, job.Request)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("world: worker %d: %v: %v", id, job.Request, err)
			}

			result := Result{Request: job.Request, Chunk: chunk, Err: err}

			// Send result back
			select {
			case job.Result <- result:
			case <-p.ctx.Done():
				select {
				case job.Result <- result:
				default:
				}
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Queued jobs that never ran get an ErrClosed
// result if their channel has room.
func (p *WorkerPool) Shutdown() {
	p.cancel()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	for job := range p.jobQueue {
		select {
		case job.Result <- Result{Request: job.Request, Err: ErrClosed}:
		default:
		}
	}
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}

// Collect submits every request and gathers results in completion order. It
// stops early when ctx is done.
func (p *WorkerPool) Collect(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make(chan Result, len(reqs))
	submitted := 0
	for _, r := range reqs {
		if err := p.SubmitJobBlocking(ctx, Job{Request: r, Result: results}); err != nil {
			return nil, err
		}
		submitted++
	}

	out := make([]Result, 0, submitted)
	for len(out) < submitted {
		select {
		case res := <-results:
			out = append(out, res)
		case <-ctx.Done():
			return out, ctx.Err()
		case <-p.ctx.Done():
			return out, ErrClosed
		}
	}
	return out, nil
}
