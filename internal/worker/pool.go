// Package worker provides the background pool that runs verification jobs
// decoupled from the request cycle.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Job represents a unit of background work. Jobs carry everything they need
// to execute; the submitter never observes a result.
type Job interface {
	Execute(ctx context.Context) error
}

// Pool manages a fixed set of workers draining a buffered job queue. Submit
// is fire-and-forget: job errors are logged, never returned to the caller.
type Pool struct {
	workers    int
	jobQueue   chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	logger     zerolog.Logger

	// stopMu orders Submit against queue closure: Submit holds the read
	// lock while sending, stop holds the write lock while closing.
	stopMu  sync.RWMutex
	stopped bool
}

// NewPool creates a pool with the specified number of workers
func NewPool(logger zerolog.Logger, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*4),
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With().Str("component", "worker").Logger(),
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			if err := job.Execute(p.ctx); err != nil {
				p.logger.Warn().Int("worker", id).Err(err).Msg("job failed")
			}
		}
	}
}

// Submit queues a job for execution. It blocks only while the buffer is full
// and drops the job if the pool is already stopped.
func (p *Pool) Submit(job Job) {
	p.stopMu.RLock()
	defer p.stopMu.RUnlock()

	if p.stopped {
		p.logger.Warn().Msg("pool stopped, job dropped")
		return
	}
	select {
	case <-p.ctx.Done():
		p.logger.Warn().Msg("pool shut down, job dropped")
	case p.jobQueue <- job:
	}
}

// Drain stops accepting jobs, waits for queued jobs to finish and returns
func (p *Pool) Drain() {
	p.stop()
	p.wg.Wait()
}

// Shutdown cancels in-flight jobs and stops the pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.stop()
	p.wg.Wait()
}

func (p *Pool) stop() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.jobQueue)
	}
}
