package workerpool

import (
	"context"
	"sync"
	"time"
)

// Task is one unit of work. Key identifies it in the result stream.
type Task struct {
	Key string
	Run func(ctx context.Context) error
}

type Result struct {
	Key string
	Err error
}

// Pool runs submitted tasks on a fixed number of goroutines, optionally
// throttled to a number of task starts per second.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// SetRateLimit caps task starts at rps per second. rps <= 0 removes the cap.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	if rps <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(rps))
	p.rate = p.ticker.C
}

func (p *Pool) Submit(t Task) {
	if p == nil || t.Run == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Workers drain what was already submitted.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers. The returned channel yields exactly one Result per
// task and is closed once the workers exit; callers must drain it. Tasks still
// queued when ctx is cancelled are not run and report ctx.Err().
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			p.work(ctx, out)
		}()
	}

	go func() {
		p.wg.Wait()
		p.mu.Lock()
		if p.ticker != nil {
			p.ticker.Stop()
			p.ticker = nil
			p.rate = nil
		}
		p.mu.Unlock()
		close(out)
	}()

	return out
}

func (p *Pool) work(ctx context.Context, out chan<- Result) {
	for {
		select {
		case <-ctx.Done():
			p.drain(ctx, out)
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			if err := p.wait(ctx); err != nil {
				out <- Result{Key: t.Key, Err: err}
				p.drain(ctx, out)
				return
			}
			out <- Result{Key: t.Key, Err: t.Run(ctx)}
		}
	}
}

// wait blocks for the next rate tick, if a rate is set.
func (p *Pool) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	rate := p.rate
	p.mu.RUnlock()
	if rate == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-rate:
		return nil
	}
}

// drain reports every task already queued as cancelled.
func (p *Pool) drain(ctx context.Context, out chan<- Result) {
	for {
		select {
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			out <- Result{Key: t.Key, Err: ctx.Err()}
		default:
			return
		}
	}
}

// RunAll runs every task with the given concurrency and returns one result per
// task in completion order.
func RunAll(ctx context.Context, workers, rps int, tasks []Task) []Result {
	p := New(workers, len(tasks))
	p.SetRateLimit(rps)
	for _, t := range tasks {
		p.Submit(t)
	}
	p.Close()
	results := p.Run(ctx)

	out := make([]Result, 0, len(tasks))
	for r := range results {
		out = append(out, r)
	}
	return out
}
