package pipeline

import "context"

// Processor is implemented by types that transform items as part of a
// pipeline stage.
type Processor[T any] interface {
	// Process operates on the input item and returns the item to forward
	// to the next stage. Returning false for keep drops the item from the
	// rest of the pipeline.
	Process(ctx context.Context, in T) (out T, keep bool, err error)
}

// ProcessorFunc is an adapter to allow the use of plain functions as
// Processor instances.
type ProcessorFunc[T any] func(context.Context, T) (T, bool, error)

// Process calls f(ctx, in).
func (f ProcessorFunc[T]) Process(ctx context.Context, in T) (T, bool, error) {
	return f(ctx, in)
}

// StageParams is passed by the pipeline to the Run method of each stage.
type StageParams[T any] interface {
	// StageIndex returns the position of this stage in the pipeline.
	StageIndex() int

	// Input returns a channel for reading the input items for a stage.
	Input() <-chan T

	// Output returns a channel for writing the output items for a stage.
	Output() chan<- T

	// Error returns a channel for reporting processing errors.
	Error() chan<- error
}

// StageRunner is implemented by types that can be strung together to form a
// multi-stage pipeline.
type StageRunner[T any] interface {
	// Run reads items from the stage input, processes them and writes the
	// results to the stage output. Calls to Run block until the input
	// channel is closed, the context expires or a processing error occurs.
	Run(context.Context, StageParams[T])
}

// Source generates the items fed into a pipeline.
type Source[T any] interface {
	// Next fetches the next item. It returns false when no more items are
	// available or an error occurs.
	Next(context.Context) bool

	// Item returns the item fetched by the last call to Next.
	Item() T

	// Error returns the last error observed by the source.
	Error() error
}

// Sink consumes the items that reach the end of a pipeline.
type Sink[T any] interface {
	Consume(context.Context, T) error
}
