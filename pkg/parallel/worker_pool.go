package parallel

import (
	"sync"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines.
type WorkerPool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex // Protects tasks from concurrent close during send
	closed bool         // Protected by mu
}

// NewWorkerPool creates a pool with the given number of workers.
// A non-positive count is clamped to one.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	pool := &WorkerPool{
		tasks: make(chan func(), workers*2),
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// worker drains the task queue until the pool is closed
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.tasks {
		// Recover from panics in tasks to keep the worker alive
		func() {
			defer func() {
				_ = recover()
			}()
			task()
		}()
	}
}

// Submit queues a task for execution.
// Returns false if the pool is already closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.tasks <- task
	return true
}

// Close stops accepting tasks and blocks until queued tasks finish
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
