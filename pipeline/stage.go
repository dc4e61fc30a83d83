package pipeline

import (
	"context"
	"sync"

	"golang.org/x/xerrors"
)

type fifo[T any] struct {
	proc Processor[T]
}

// FIFO returns a StageRunner that processes items one at a time, in the
// order they arrive.
func FIFO[T any](proc Processor[T]) StageRunner[T] {
	return fifo[T]{proc: proc}
}

// Run implements StageRunner.
func (r fifo[T]) Run(ctx context.Context, params StageParams[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-params.Input():
			if !ok {
				return
			}

			out, keep, err := r.proc.Process(ctx, in)
			if err != nil {
				emitError(xerrors.Errorf("pipeline stage %d: %w", params.StageIndex(), err), params.Error())
				return
			}
			if !keep {
				continue
			}

			select {
			case params.Output() <- out:
			case <-ctx.Done():
				return
			}
		}
	}
}

type fixedWorkerPool[T any] struct {
	workers []StageRunner[T]
}

// FixedWorkerPool returns a StageRunner that processes items with numWorkers
// concurrent FIFO workers. Items may leave the stage in a different order
// than they entered it.
func FixedWorkerPool[T any](proc Processor[T], numWorkers int) StageRunner[T] {
	if numWorkers <= 0 {
		panic("FixedWorkerPool: numWorkers must be > 0")
	}

	workers := make([]StageRunner[T], numWorkers)
	for i := range workers {
		workers[i] = FIFO(proc)
	}
	return fixedWorkerPool[T]{workers: workers}
}

// Run implements StageRunner.
func (p fixedWorkerPool[T]) Run(ctx context.Context, params StageParams[T]) {
	var wg sync.WaitGroup
	wg.Add(len(p.workers))
	for _, w := range p.workers {
		go func(w StageRunner[T]) {
			defer wg.Done()
			w.Run(ctx, params)
		}(w)
	}
	wg.Wait()
}
