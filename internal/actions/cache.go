package actions

import (
	"fmt"

	"github.com/julianstephens/dailyos/internal/cache"
)

// RegisterCacheLoaders binds every cached view to the handler that produces it.
func (s *Service) RegisterCacheLoaders(c *cache.Store, userID string) {
	c.Register(cache.TodayDay, func(cache.Key) (any, error) {
		return s.TodayDay(userID)
	})
	c.Register(cache.TodayStreaks, func(cache.Key) (any, error) {
		return s.MonthlyStreaks(userID)
	})
	c.Register(cache.TodayMomentum, func(cache.Key) (any, error) {
		return s.WeeklyMomentum(userID)
	})
	c.Register(cache.WorkUnitsList, func(cache.Key) (any, error) {
		return s.WorkUnits(userID, "")
	})
	c.Register(cache.WorkUnitsActiveWithCounts, func(cache.Key) (any, error) {
		return s.ActiveWorkUnitsWithCounts(userID)
	})
	c.Register(cache.WorkUnitsActiveWithChecklists, func(cache.Key) (any, error) {
		return s.ActiveWorkUnitsWithChecklists(userID)
	})
	c.RegisterPrefix(cache.WorkUnitDetailPrefix, func(k cache.Key) (any, error) {
		id := k.WorkUnitID()
		if id == "" {
			return nil, fmt.Errorf("no work unit in cache key %q", k)
		}
		return s.WorkUnit(userID, id)
	})
}
