package cagematch

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/domain"
)

// BatchOptions controls ResolveAll.
type BatchOptions struct {
	Concurrency int
	// Delay is slept by each worker after its request, to stay polite with the site.
	Delay time.Duration
}

// BatchResult holds the outcome of ResolveAll, keyed by the input name.
type BatchResult struct {
	Profiles map[string]*domain.WrestlerProfile
	Failures map[string]error
}

// ResolveAll resolves every name with at most opts.Concurrency requests in
// flight. Individual failures are collected, not returned.
func (r *Resolver) ResolveAll(ctx context.Context, names []string, opts BatchOptions) *BatchResult {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	result := &BatchResult{
		Profiles: make(map[string]*domain.WrestlerProfile, len(names)),
		Failures: make(map[string]error),
	}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(concurrency)
	for idx, name := range names {
		idx, name := idx, name
		p.Go(func() {
			if ctx.Err() != nil {
				mu.Lock()
				result.Failures[name] = ctx.Err()
				mu.Unlock()
				return
			}

			r.logger.Info("Fetching profile",
				zap.Int("index", idx+1),
				zap.Int("total", len(names)),
				zap.String("name", name))

			profile, err := r.Resolve(ctx, name)

			mu.Lock()
			if err != nil {
				result.Failures[name] = err
			} else {
				result.Profiles[name] = profile
			}
			mu.Unlock()

			if err != nil {
				r.logger.Error("failed to fetch profile", zap.String("name", name), zap.Error(err))
			}

			if opts.Delay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(opts.Delay):
				}
			}
		})
	}
	p.Wait()

	return result
}
