package services

import (
	"context"
	"time"

	"exam-supervision/proctorate/internal/models/entities"

	"github.com/patrickmn/go-cache"
)

const statusCacheKey = "sync_status_latest"

// StatusService answers the status endpoint from the ledger, with a short
// in-memory cache so status polling never hammers the database.
type StatusService struct {
	ledger SyncLedger
	cache  *cache.Cache
}

func NewStatusService(ledger SyncLedger) *StatusService {
	return &StatusService{
		ledger: ledger,
		cache:  cache.New(5*time.Second, time.Minute),
	}
}

// LatestPerType returns the newest ledger row for every sync type.
func (s *StatusService) LatestPerType(ctx context.Context) (map[string]*entities.SyncLog, error) {
	if val, found := s.cache.Get(statusCacheKey); found {
		return val.(map[string]*entities.SyncLog), nil
	}

	latest, err := s.ledger.LatestPerType(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(statusCacheKey, latest, cache.DefaultExpiration)
	return latest, nil
}

// Recent lists ledger rows newest first, uncached.
func (s *StatusService) Recent(ctx context.Context, syncType string, limit int) ([]entities.SyncLog, error) {
	return s.ledger.Recent(ctx, syncType, limit)
}

// Invalidate drops the cached snapshot; called after a manual trigger so the
// next status read reflects it immediately.
func (s *StatusService) Invalidate() {
	s.cache.Delete(statusCacheKey)
}
