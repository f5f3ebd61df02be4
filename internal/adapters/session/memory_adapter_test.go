package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

func TestMemoryAdapter_GetUnknownSessionReturnsEmptyContext(t *testing.T) {
	adapter := NewMemoryAdapter()

	userCtx, err := adapter.Get(context.Background(), "nope")

	require.NoError(t, err)
	require.NotNil(t, userCtx)
	assert.Zero(t, userCtx.MaxBudget)
	assert.Empty(t, userCtx.Shortlist)
}

func TestMemoryAdapter_UpdateIsVisibleToGet(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	err := adapter.Update(ctx, "s1", func(uc *entities.UserContext) error {
		uc.MaxBudget = 5000
		uc.Vehicle = "duke 390"
		return nil
	})
	require.NoError(t, err)

	userCtx, err := adapter.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, userCtx.MaxBudget)
	assert.Equal(t, "duke 390", userCtx.Vehicle)
}

func TestMemoryAdapter_GetReturnsSnapshot(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Update(ctx, "s1", func(uc *entities.UserContext) error {
		uc.AddToShortlist(101)
		return nil
	}))

	snapshot, err := adapter.Get(ctx, "s1")
	require.NoError(t, err)
	snapshot.Shortlist = append(snapshot.Shortlist, 999)
	snapshot.MaxBudget = 1

	fresh, err := adapter.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{101}, fresh.Shortlist)
	assert.Zero(t, fresh.MaxBudget)
}

func TestMemoryAdapter_ConcurrentUpdatesSerialize(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = adapter.Update(ctx, "s1", func(uc *entities.UserContext) error {
				uc.AddToShortlist(id)
				return nil
			})
		}(i)
	}
	wg.Wait()

	userCtx, err := adapter.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, userCtx.Shortlist, 50)
}

func TestMemoryAdapter_SessionsAreIndependent(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Update(ctx, "a", func(uc *entities.UserContext) error {
		uc.MaxBudget = 5000
		return nil
	}))

	other, err := adapter.Get(ctx, "b")
	require.NoError(t, err)
	assert.Zero(t, other.MaxBudget)
}
