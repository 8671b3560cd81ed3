package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trident-ems/trident/internal/cache"
	"github.com/trident-ems/trident/internal/models"
	"github.com/trident-ems/trident/internal/utils"
)

type fakeCallRepo struct {
	rows     []models.LiveCall
	inserted int
	listed   int
	err      error
}

func (f *fakeCallRepo) Insert(ctx context.Context, call *models.LiveCall) error {
	if f.err != nil {
		return f.err
	}
	f.inserted++
	f.rows = append(f.rows, *call)
	return nil
}

func (f *fakeCallRepo) GetByCallID(ctx context.Context, callID string) (*models.LiveCall, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.rows {
		if f.rows[i].CallID == callID {
			return &f.rows[i], nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeCallRepo) ListRecent(ctx context.Context, limit int) ([]models.LiveCall, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listed++
	return f.rows, nil
}

func newServiceUnderTest(t *testing.T, repo *fakeCallRepo) CallService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCallService(repo, cache.NewRedisCache(rdb), time.Minute)
}

func TestListRecentCachesDefaultPage(t *testing.T) {
	repo := &fakeCallRepo{rows: []models.LiveCall{{CallID: "LIVE-AB12CD34", TriageQueue: "Q1-IMMEDIATE"}}}
	svc := newServiceUnderTest(t, repo)
	ctx := context.Background()

	first, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listed, "second read must come from cache")
}

func TestListRecentExplicitLimitBypassesCache(t *testing.T) {
	repo := &fakeCallRepo{rows: []models.LiveCall{{CallID: "a"}, {CallID: "b"}}}
	svc := newServiceUnderTest(t, repo)
	ctx := context.Background()

	_, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	_, err = svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listed)
}

func TestInsertInvalidatesRecentCache(t *testing.T) {
	repo := &fakeCallRepo{rows: []models.LiveCall{{CallID: "a"}}}
	svc := newServiceUnderTest(t, repo)
	ctx := context.Background()

	_, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Insert(ctx, &models.LiveCall{CallID: "LIVE-NEW00001"}))

	out, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, out, 2, "insert must drop the cached page")
	assert.Equal(t, 2, repo.listed)
}

func TestGetMapsNotFound(t *testing.T) {
	svc := newServiceUnderTest(t, &fakeCallRepo{})

	_, err := svc.Get(context.Background(), "LIVE-MISSING1")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestInsertValidatesCallID(t *testing.T) {
	svc := newServiceUnderTest(t, &fakeCallRepo{})

	err := svc.Insert(context.Background(), &models.LiveCall{})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestInsertWrapsRepoError(t *testing.T) {
	svc := newServiceUnderTest(t, &fakeCallRepo{err: errors.New("pg down")})

	err := svc.Insert(context.Background(), &models.LiveCall{CallID: "LIVE-AB12CD34"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
}
