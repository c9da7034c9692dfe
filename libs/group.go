package libs

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Service is a long-running component: the HTTP server, the repair
// sweeper. Run blocks until the context is cancelled or the service dies.
type Service interface {
	Name() string
	Run(ctx context.Context) error
}

// Group runs services together. The first failure cancels the rest; all
// errors are collected into the returned error.
type Group []Service

func (g Group) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))

	wg.Add(len(g))
	for _, svc := range g {
		go func(svc Service) {
			defer wg.Done()
			if err := svc.Run(runCtx); err != nil {
				errCh <- fmt.Errorf("%s: %w", svc.Name(), err)
				cancel()
			}
		}(svc)
	}

	<-runCtx.Done()
	wg.Wait()
	close(errCh)

	var err error
	for svcErr := range errCh {
		err = multierror.Append(err, svcErr)
	}
	return err
}
