package storage

import (
	"context"
	"sync"
)

// defaultWorkers bounds concurrent blocking OS calls per backend.
const defaultWorkers = 4

// ioPool runs blocking calls on a fixed set of workers so a burst of slow
// disk operations cannot fan out into unbounded goroutines.
type ioPool struct {
	ingress chan func()
	wg      sync.WaitGroup
	once    sync.Once
}

func newIOPool(workers int) *ioPool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	p := &ioPool{ingress: make(chan func(), 64)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *ioPool) worker() {
	defer p.wg.Done()
	for fn := range p.ingress {
		fn()
	}
}

// close stops intake and waits for in-flight calls. Submitting after close
// is a caller bug.
func (p *ioPool) close() {
	p.once.Do(func() { close(p.ingress) })
	p.wg.Wait()
}

type outcome[T any] struct {
	value T
	err   error
}

// submit schedules fn on the pool and waits for its result. When ctx ends
// first, the wait is abandoned and ctx's error returned; a task already
// scheduled still runs, its result discarded through the buffered channel.
func submit[T any](ctx context.Context, p *ioPool, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	out := make(chan outcome[T], 1)
	task := func() {
		v, err := fn()
		out <- outcome[T]{value: v, err: err}
	}

	select {
	case p.ingress <- task:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case res := <-out:
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func submitErr(ctx context.Context, p *ioPool, fn func() error) error {
	_, err := submit(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
