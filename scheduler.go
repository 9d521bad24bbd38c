package shipyard

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Scheduler runs asynchronous jobs, such as repair conversations, on a pool of
// workers. Submitting never blocks: when the pool is saturated the job gets a
// goroutine of its own.
type Scheduler struct {
	manager *Manager

	// Worker pool
	workers    int
	workerPool chan func()
	workerWG   sync.WaitGroup

	// Execution state
	running  atomic.Bool
	submitMu sync.Mutex
	inflight sync.WaitGroup
	executed atomic.Uint64
}

// newScheduler creates a new scheduler.
func newScheduler(manager *Manager, workers int) *Scheduler {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{
		manager:    manager,
		workers:    workers,
		workerPool: make(chan func(), workers*4),
	}
}

// Start launches the worker pool.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}

	for i := 0; i < s.workers; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
}

// Stop refuses new jobs, waits for the submitted ones and shuts the pool down.
func (s *Scheduler) Stop() {
	s.submitMu.Lock()
	if !s.running.Swap(false) {
		s.submitMu.Unlock()
		return // Not running
	}
	s.submitMu.Unlock()

	s.inflight.Wait()
	close(s.workerPool)
	s.workerWG.Wait()
}

// Running reports whether the scheduler accepts jobs.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Executed returns the number of jobs that have finished.
func (s *Scheduler) Executed() uint64 {
	return s.executed.Load()
}

// Submit schedules job under name. It reports false if the scheduler is not
// running.
func (s *Scheduler) Submit(name string, job Runnable) bool {
	s.submitMu.Lock()
	if !s.running.Load() {
		s.submitMu.Unlock()
		return false
	}
	s.inflight.Add(1)
	s.submitMu.Unlock()

	fn := func() {
		defer s.inflight.Done()
		s.execute(name, job)
	}

	select {
	case s.workerPool <- fn:
	default:
		// Worker pool full, run on a fresh goroutine
		go fn()
	}
	return true
}

// worker is a pool worker that executes jobs.
func (s *Scheduler) worker() {
	defer s.workerWG.Done()
	for fn := range s.workerPool {
		fn()
	}
}

// execute runs a job with panic recovery.
func (s *Scheduler) execute(name string, job Runnable) {
	defer s.executed.Add(1)
	defer func() {
		if r := recover(); r != nil {
			s.handleJobPanic(name, r)
		}
	}()
	job.Run()
}

func (s *Scheduler) handleJobPanic(name string, recovered any) {
	if h := s.manager.options.PanicHandler; h != nil {
		h(name, recovered)
		return
	}
	err := fmt.Errorf("shipyard: panic in job %s: %v", name, recovered)
	s.manager.logger.Error(err.Error(), "stack", string(debug.Stack()))
}
