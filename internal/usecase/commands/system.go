package commands

import (
	"github.com/google/uuid"
)

// CacheMaintenance is the cache surface the system commands drive. The cache
// is in-process, so these calls cannot fail.
type CacheMaintenance interface {
	ClearUser(userID uuid.UUID)
	ResetStats()
}

type SystemCommands interface {
	ClearUserCache(userID uuid.UUID)
	ResetCacheStats()
}

type systemUseCaseImpl struct {
	cache CacheMaintenance
}

func NewSystemUseCase(cache CacheMaintenance) SystemCommands {
	return &systemUseCaseImpl{cache: cache}
}

// ClearUserCache drops the user's cached traveler data and entry records.
// Called on logout so the next session starts from the durable store.
func (s *systemUseCaseImpl) ClearUserCache(userID uuid.UUID) {
	s.cache.ClearUser(userID)
}

// ResetCacheStats zeroes the hit/miss/invalidation counters, giving
// diagnostics a clean measurement window.
func (s *systemUseCaseImpl) ResetCacheStats() {
	s.cache.ResetStats()
}
