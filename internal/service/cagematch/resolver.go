package cagematch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/domain"
	"github.com/kapu/wrestler-profile-api/internal/util"
	"github.com/kapu/wrestler-profile-api/pkg/errors"
)

const (
	cacheKeyProfile = "wrestler:profile:%s"
	msgNoResults    = "No wrestler links found in search results"
)

// ProfileCache stores resolved profiles. Implementations report a miss with
// found=false and a nil error.
type ProfileCache interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Resolver turns a free-text wrestler name into a profile.
type Resolver struct {
	client   *Client
	cache    ProfileCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewResolver creates a resolver. cache may be nil, which disables caching.
func NewResolver(client *Client, cache ProfileCache, cacheTTL time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Resolve searches for name, picks the best candidate and scrapes its profile.
func (r *Resolver) Resolve(ctx context.Context, name string) (*domain.WrestlerProfile, error) {
	cacheKey := profileCacheKey(name)
	if cached := r.cachedProfile(ctx, cacheKey); cached != nil {
		r.logger.Debug("Profile cache hit", zap.String("name", name))
		return cached, nil
	}

	candidates, err := r.client.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.NewNotFoundError(msgNoResults, name)
	}

	best := SelectCandidate(name, candidates)

	r.logger.Info("Selected search candidate",
		zap.String("query", name),
		zap.String("candidate", best.DisplayName),
		zap.String("url", best.ProfileURL),
		zap.Int("candidates", len(candidates)))

	profile, err := r.client.FetchProfile(ctx, best)
	if err != nil {
		return nil, err
	}

	r.storeProfile(ctx, cacheKey, profile)

	return profile, nil
}

// Search returns the de-duplicated candidates for name that pass filter,
// most-voted first.
func (r *Resolver) Search(ctx context.Context, name string, filter domain.SearchFilter) ([]domain.SearchCandidate, error) {
	candidates, err := r.client.Search(ctx, name)
	if err != nil {
		return nil, err
	}

	unique := UniqueCandidates(candidates)
	SortByVotes(unique)
	return FilterCandidates(unique, filter), nil
}

// profileCacheKey keeps every rune of the query and only collapses
// whitespace, so distinct non-Latin names never share a key.
func profileCacheKey(name string) string {
	return fmt.Sprintf(cacheKeyProfile, util.CollapseWhitespace(name))
}

func (r *Resolver) cachedProfile(ctx context.Context, key string) *domain.WrestlerProfile {
	if r.cache == nil {
		return nil
	}

	var cached domain.WrestlerProfile
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("Profile cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !found || cached.Name == "" {
		return nil
	}
	if cached.Timeline == nil {
		cached.Timeline = []domain.TimelineEntry{}
	}
	return &cached
}

func (r *Resolver) storeProfile(ctx context.Context, key string, profile *domain.WrestlerProfile) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, profile, r.cacheTTL); err != nil {
		r.logger.Warn("Failed to cache profile", zap.String("key", key), zap.Error(err))
	}
}
