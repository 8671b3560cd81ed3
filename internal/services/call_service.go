package services

import (
	"context"
	"errors"
	"time"

	"github.com/trident-ems/trident/internal/cache"
	"github.com/trident-ems/trident/internal/models"
	pgrepo "github.com/trident-ems/trident/internal/repositories/postgres"
	"github.com/trident-ems/trident/internal/utils"
)

const recentCallsKey = "calls:recent"

type CallService interface {
	// Insert writes the final record for a call and drops the dashboard
	// cache. Called once per finalized session.
	Insert(ctx context.Context, call *models.LiveCall) error
	Get(ctx context.Context, callID string) (*models.LiveCall, error)
	ListRecent(ctx context.Context, limit int) ([]models.LiveCall, error)
}

type callService struct {
	calls pgrepo.CallRepo
	cache cache.Cache
	ttl   time.Duration
}

func NewCallService(calls pgrepo.CallRepo, c cache.Cache, ttl time.Duration) CallService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &callService{calls: calls, cache: c, ttl: ttl}
}

func (s *callService) Insert(ctx context.Context, call *models.LiveCall) error {
	const op = "CallService.Insert"

	if call == nil || call.CallID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "call_id is required", nil)
	}
	if err := s.calls.Insert(ctx, call); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to insert call record", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, recentCallsKey)
	}
	return nil
}

func (s *callService) Get(ctx context.Context, callID string) (*models.LiveCall, error) {
	const op = "CallService.Get"

	if callID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "call_id is required", nil)
	}

	out, err := s.calls.GetByCallID(ctx, callID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "call not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get call", err)
	}
	return out, nil
}

func (s *callService) ListRecent(ctx context.Context, limit int) ([]models.LiveCall, error) {
	const op = "CallService.ListRecent"

	if s.cache != nil && limit <= 0 {
		var cached []models.LiveCall
		if hit, err := s.cache.GetJSON(ctx, recentCallsKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	out, err := s.calls.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list calls", err)
	}

	if s.cache != nil && limit <= 0 {
		_ = s.cache.SetJSON(ctx, recentCallsKey, out, s.ttl)
	}
	return out, nil
}
