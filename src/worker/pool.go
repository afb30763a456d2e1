package worker

import (
	"fmt"
	"log"
	"runtime"
	"sync"
)

// Task is one unit of work. A panic inside a task is recovered and reported
// by Run as an error.
type Task func()

// Pool is a fixed-size set of goroutines that run batches of tasks for a
// single caller. Run blocks until the whole batch has finished, so the caller
// keeps exclusive ownership of whatever the tasks touch once Run returns.
type Pool struct {
	jobs   chan job
	wg     sync.WaitGroup
	size   int
	mu     sync.Mutex
	closed bool
}

type job struct {
	task Task
	done func(err error)
}

// New creates a pool. Size defaults to NumCPU when size<=0.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, size), size: size}
	p.start(size)
	return p
}

// Size returns the number of worker goroutines.
func (p *Pool) Size() int { return p.size }

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				j.done(runTask(j.task))
			}
		}()
	}
}

func runTask(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	t()
	return nil
}

// Run executes tasks on the pool and waits for all of them. It returns the
// first task error. A closed pool runs the tasks on the calling goroutine.
func (p *Pool) Run(tasks ...Task) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed || len(tasks) == 1 {
		for _, t := range tasks {
			if err := runTask(t); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	wg.Add(len(tasks))
	for _, t := range tasks {
		p.jobs <- job{task: t, done: func(err error) {
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
			wg.Done()
		}}
	}
	wg.Wait()
	if firstErr != nil {
		log.Printf("Worker: batch of %d tasks failed: %v", len(tasks), firstErr)
	}
	return firstErr
}

// Close stops the workers after draining queued work.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
}
