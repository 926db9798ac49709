package searcher

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Lobotuerk/MonteCarloTreeSearch/game"
)

// The rollout worker pool is process-wide infrastructure shared by all
// agents. Its size is a single piece of configuration state with no
// per-agent override; it defaults to a hardware-derived recommendation.

type rolloutJob struct {
	state game.State
	out   chan<- rolloutResult
}

type rolloutResult struct {
	outcome float64
	err     error
}

type workerPool struct {
	mu   sync.Mutex
	size int
	jobs chan rolloutJob
	stop chan struct{} // closed to retire the current worker generation
}

var sharedPool = newWorkerPool(RecommendedWorkerCount())

func newWorkerPool(size int) *workerPool {
	p := &workerPool{jobs: make(chan rolloutJob)}
	p.resize(size)
	return p
}

func (p *workerPool) resize(size int) {
	size = clampWorkers(size)

	p.mu.Lock()
	defer p.mu.Unlock()

	if size == p.size {
		return
	}
	if p.stop != nil {
		close(p.stop)
	}
	p.stop = make(chan struct{})
	p.size = size
	for i := 0; i < size; i++ {
		go worker(p.jobs, p.stop)
	}
}

func (p *workerPool) workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

func (p *workerPool) submit(job rolloutJob) {
	p.jobs <- job
}

func worker(jobs <-chan rolloutJob, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case job := <-jobs:
			job.out <- runRollout(job.state)
		}
	}
}

// runRollout executes one playout under the configured strategy and
// validates the outcome range. A panic out of a game implementation is
// converted to a contract error instead of taking down the worker.
func runRollout(state game.State) (res rolloutResult) {
	defer func() {
		if r := recover(); r != nil {
			if cerr, ok := r.(*game.ContractError); ok {
				res = rolloutResult{err: cerr}
				return
			}
			res = rolloutResult{err: &game.ContractError{
				Op:  "Rollout",
				Err: fmt.Errorf("panic: %v", r),
			}}
		}
	}()

	outcome := playout(state)
	if outcome < 0 || outcome > 1 {
		return rolloutResult{err: &game.ContractError{
			Op:  "Rollout",
			Err: fmt.Errorf("outcome %v outside [0, 1]", outcome),
		}}
	}
	return rolloutResult{outcome: outcome}
}

func clampWorkers(n int) int {
	if n < 1 {
		return 1
	}
	if limit := HardwareConcurrency(); n > limit {
		return limit
	}
	return n
}

// WorkerCount returns the current size of the shared rollout worker pool.
func WorkerCount() int {
	return sharedPool.workers()
}

// SetWorkerCount resizes the shared rollout worker pool, clamping to
// [1, HardwareConcurrency]. The setting applies to every agent in the
// process.
func SetWorkerCount(n int) {
	sharedPool.resize(n)
}

// HardwareConcurrency reports the parallelism available to the process.
func HardwareConcurrency() int {
	return runtime.NumCPU()
}

// RecommendedWorkerCount is the hardware-derived default pool size: one
// worker per CPU, leaving one CPU for the controlling goroutine when there
// is more than one.
func RecommendedWorkerCount() int {
	n := HardwareConcurrency()
	if n > 1 {
		return n - 1
	}
	return 1
}
