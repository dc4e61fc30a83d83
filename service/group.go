package service

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// Service describes a long-running component of the corpusrank server.
type Service interface {
	// Name returns the service name.
	Name() string

	// Run executes the service and blocks until the context gets cancelled
	// or an error occurs.
	Run(context.Context) error
}

// Group is a list of Service instances that can execute in parallel.
type Group []Service

// Run executes all Service instances in the group using the provided context.
// Calls to Run block until the context is cancelled or any of the services
// reports an error; in both cases Run waits for every service to exit and
// returns the accumulated errors.
func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	eg, runCtx := errgroup.WithContext(ctx)

	var (
		mu  sync.Mutex
		err error
	)
	for _, s := range g {
		eg.Go(func() error {
			srvErr := s.Run(runCtx)
			if srvErr == nil {
				return nil
			}

			srvErr = xerrors.Errorf("%s: %w", s.Name(), srvErr)
			mu.Lock()
			err = multierror.Append(err, srvErr)
			mu.Unlock()
			return srvErr
		})
	}

	// Services that exit early without an error do not stop the group.
	<-runCtx.Done()
	_ = eg.Wait()
	return err
}
