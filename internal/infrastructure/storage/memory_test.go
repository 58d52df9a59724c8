package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucuzbot/backend/internal/domain"
)

func TestMemoryWatchRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWatchRepository([]domain.Watch{
		{ID: "a", Query: "iphone 15", TargetPrice: decimal.NewFromInt(1500), Active: true},
		{ID: "b", Query: "ps5", TargetPrice: decimal.NewFromInt(900), Active: false},
	})

	t.Run("lists active watches", func(t *testing.T) {
		active, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "a", active[0].ID)
	})

	t.Run("unknown watch", func(t *testing.T) {
		_, err := repo.Get(ctx, "zzz")
		assert.True(t, errors.Is(err, domain.ErrWatchNotFound))
		assert.True(t, errors.Is(repo.RecordCheck(ctx, domain.WatchCheck{WatchID: "zzz"}), domain.ErrWatchNotFound))
		assert.True(t, errors.Is(repo.MarkTriggered(ctx, "zzz", time.Now()), domain.ErrWatchNotFound))
	})

	t.Run("mark triggered deactivates", func(t *testing.T) {
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, repo.MarkTriggered(ctx, "a", at))

		w, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, w.Active)

		got, ok := repo.TriggeredAt("a")
		assert.True(t, ok)
		assert.Equal(t, at, got)
	})

	t.Run("saving again reactivates", func(t *testing.T) {
		repo.Save(domain.Watch{ID: "a", Query: "iphone 15", TargetPrice: decimal.NewFromInt(1400), Active: true})

		_, ok := repo.TriggeredAt("a")
		assert.False(t, ok)

		active, _ := repo.ListActive(ctx)
		require.Len(t, active, 1)
		assert.True(t, active[0].TargetPrice.Equal(decimal.NewFromInt(1400)))
	})
}

func TestMemoryWatchRepository_HistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWatchRepository([]domain.Watch{{ID: "a", Active: true}})

	for i := 0; i < maxHistory+5; i++ {
		require.NoError(t, repo.RecordCheck(ctx, domain.WatchCheck{WatchID: "a", Query: fmt.Sprint(i)}))
	}

	history := repo.Checks("a")
	require.Len(t, history, maxHistory)
	assert.Equal(t, "5", history[0].Query)
}
