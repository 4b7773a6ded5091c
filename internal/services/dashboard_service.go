package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"expensewise/internal/cache"
	"expensewise/internal/core"
	"expensewise/internal/store"
)

// DashboardService memoizes the aggregates per store version and day.
type DashboardService struct {
	store store.Store
	cache *cache.LRUCache[core.Dashboard]
	group singleflight.Group
	now   func() time.Time
}

func NewDashboardService(st store.Store, c *cache.LRUCache[core.Dashboard]) *DashboardService {
	return &DashboardService{store: st, cache: c, now: time.Now}
}

// Dashboard returns the aggregates for the current list. A mutation bumps
// the store version and so changes the key.
func (s *DashboardService) Dashboard(ctx context.Context) (core.Dashboard, error) {
	now := s.now()
	key := fmt.Sprintf("v%d:%s", s.store.Version(), core.DateOf(now))
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			return d, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		items, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		d := core.BuildDashboard(items, now)
		if s.cache != nil {
			s.cache.Set(key, d)
		}
		return d, nil
	})
	if err != nil {
		return core.Dashboard{}, err
	}
	return v.(core.Dashboard), nil
}

// Stats exposes the cache counters, zero when caching is off.
func (s *DashboardService) Stats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}
