package pipeline

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

type stageParams[T any] struct {
	index int
	inCh  <-chan T
	outCh chan<- T
	errCh chan<- error
}

func (p stageParams[T]) StageIndex() int     { return p.index }
func (p stageParams[T]) Input() <-chan T     { return p.inCh }
func (p stageParams[T]) Output() chan<- T    { return p.outCh }
func (p stageParams[T]) Error() chan<- error { return p.errCh }

// Pipeline moves items of type T from a Source, through a list of stages,
// into a Sink.
type Pipeline[T any] struct {
	stages []StageRunner[T]
}

// New returns a pipeline that passes every item through the given stages in
// order.
func New[T any](stages ...StageRunner[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Process feeds the items produced by source through the pipeline stages and
// hands the results to sink. It blocks until the source is exhausted, an
// error occurs or ctx expires, and returns all reported errors. If ctx
// expires before the source is fully processed, its error is included.
//
// It is safe to call Process concurrently with different sources and sinks.
func (p *Pipeline[T]) Process(ctx context.Context, source Source[T], sink Sink[T]) error {
	var wg sync.WaitGroup
	pCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	// links[i] feeds stage i; the last link feeds the sink.
	links := make([]chan T, len(p.stages)+1)
	for i := range links {
		links[i] = make(chan T)
	}
	errCh := make(chan error, len(p.stages)+2)

	wg.Add(len(p.stages) + 2)
	for i, stage := range p.stages {
		go func(i int, stage StageRunner[T]) {
			defer wg.Done()
			stage.Run(pCtx, stageParams[T]{index: i, inCh: links[i], outCh: links[i+1], errCh: errCh})
			close(links[i+1])
		}(i, stage)
	}

	go func() {
		defer wg.Done()
		feed(pCtx, source, links[0], errCh)
		close(links[0])
	}()
	go func() {
		defer wg.Done()
		drain(pCtx, sink, links[len(links)-1], errCh)
	}()

	go func() {
		wg.Wait()
		close(errCh)
	}()

	var err error
	for pErr := range errCh {
		err = multierror.Append(err, pErr)
		cancelFn()
	}

	// Stages stop silently on cancellation so the sink may have seen only
	// part of the input.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = multierror.Append(err, xerrors.Errorf("pipeline: %w", ctxErr))
	}
	return err
}

func feed[T any](ctx context.Context, source Source[T], outCh chan<- T, errCh chan<- error) {
	for source.Next(ctx) {
		select {
		case outCh <- source.Item():
		case <-ctx.Done():
			return
		}
	}

	if err := source.Error(); err != nil {
		emitError(xerrors.Errorf("pipeline source: %w", err), errCh)
	}
}

func drain[T any](ctx context.Context, sink Sink[T], inCh <-chan T, errCh chan<- error) {
	for {
		select {
		case item, ok := <-inCh:
			if !ok {
				return
			}
			if err := sink.Consume(ctx, item); err != nil {
				emitError(xerrors.Errorf("pipeline sink: %w", err), errCh)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// emitError queues err without blocking; if the error channel is full the
// error is dropped as the pipeline is already shutting down.
func emitError(err error, errCh chan<- error) {
	select {
	case errCh <- err:
	default:
	}
}
