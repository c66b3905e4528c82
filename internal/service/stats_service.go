package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// pendingCountsTTL matches the dashboard's polling interval.
const pendingCountsTTL = 30 * time.Second

// StatsServiceImpl implements ports.StatsService. Pending counts are the
// operator dashboard's notification state; the Redis cache keeps the polling
// traffic off PostgreSQL.
type StatsServiceImpl struct {
	reqRepo   ports.RequestRepository
	orderRepo ports.OrderRepository
	cache     ports.PendingCountsCache
	log       zerolog.Logger
}

// NewStatsService creates a new StatsServiceImpl.
func NewStatsService(reqRepo ports.RequestRepository, orderRepo ports.OrderRepository, cache ports.PendingCountsCache, log zerolog.Logger) *StatsServiceImpl {
	return &StatsServiceImpl{
		reqRepo:   reqRepo,
		orderRepo: orderRepo,
		cache:     cache,
		log:       log,
	}
}

// GetPendingCounts returns the number of requests and orders awaiting an
// operator decision.
func (s *StatsServiceImpl) GetPendingCounts(ctx context.Context) (*ports.PendingCounts, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("pending counts cache read failed, falling through to DB")
		}
		if cached != nil {
			return cached, nil
		}
	}

	requests, err := s.reqRepo.CountPending(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count pending requests: %w", err))
	}
	completions, err := s.orderRepo.CountPendingCompletion(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count pending completions: %w", err))
	}

	counts := &ports.PendingCounts{
		PendingRequests:    requests,
		PendingCompletions: completions,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *counts, pendingCountsTTL); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache pending counts")
		}
	}

	return counts, nil
}
