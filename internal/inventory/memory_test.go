package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

var testDate = time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)

func TestMemoryStoreDecrement(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetCapacity("VS001", testDate, "Y", 3)

	t.Run("decrements while seats remain", func(t *testing.T) {
		sold, err := store.Decrement(ctx, "VS001", testDate, "Y", 2)
		require.NoError(t, err)
		assert.True(t, sold)

		inv, err := store.GetInventory(ctx, "VS001", testDate, "Y")
		require.NoError(t, err)
		assert.Equal(t, 1, inv.Remaining)
	})

	t.Run("fails without mutation when short", func(t *testing.T) {
		sold, err := store.Decrement(ctx, "VS001", testDate, "Y", 2)
		require.NoError(t, err)
		assert.False(t, sold)

		inv, err := store.GetInventory(ctx, "VS001", testDate, "Y")
		require.NoError(t, err)
		assert.Equal(t, 1, inv.Remaining, "failed decrement must not mutate")
	})

	t.Run("unknown class sells nothing", func(t *testing.T) {
		sold, err := store.Decrement(ctx, "VS001", testDate, "F", 1)
		require.NoError(t, err)
		assert.False(t, sold)
	})
}

func TestMemoryStoreIncrementNeverExceedsCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetCapacity("VS001", testDate, "Y", 2)

	_, err := store.Decrement(ctx, "VS001", testDate, "Y", 1)
	require.NoError(t, err)

	require.NoError(t, store.Increment(ctx, "VS001", testDate, "Y", 1))

	err = store.Increment(ctx, "VS001", testDate, "Y", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCapacityExceeded, apperrors.GetCode(err))

	inv, err := store.GetInventory(ctx, "VS001", testDate, "Y")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Remaining, "failed increment must not mutate")
}

// Inventory conservation under concurrency: with capacity C and N workers
// each selling then returning one seat, remaining ends at C and never
// oversells in between.
func TestMemoryStoreConcurrentSellRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	const capacity = 10
	store.SetCapacity("VS001", testDate, "Y", capacity)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			sold, err := store.Decrement(ctx, "VS001", testDate, "Y", 1)
			assert.NoError(t, err)
			if sold {
				assert.NoError(t, store.Increment(ctx, "VS001", testDate, "Y", 1))
			}
		}()
	}
	wg.Wait()

	inv, err := store.GetInventory(ctx, "VS001", testDate, "Y")
	require.NoError(t, err)
	assert.Equal(t, capacity, inv.Remaining)
}

// No oversell: more buyers than seats, exactly capacity sales succeed.
func TestMemoryStoreNoOversell(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	const capacity = 5
	store.SetCapacity("VS001", testDate, "Y", capacity)

	const buyers = 40
	var wg sync.WaitGroup
	var mu sync.Mutex
	sales := 0

	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			sold, err := store.Decrement(ctx, "VS001", testDate, "Y", 1)
			assert.NoError(t, err)
			if sold {
				mu.Lock()
				sales++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, sales)

	inv, err := store.GetInventory(ctx, "VS001", testDate, "Y")
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Remaining)
}

func TestMemoryStoreSeatExclusivity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("first occupant wins", func(t *testing.T) {
		got, err := store.OccupySeat(ctx, "VS001", testDate, "12A", "s1/P1")
		require.NoError(t, err)
		assert.True(t, got)

		got, err = store.OccupySeat(ctx, "VS001", testDate, "12A", "s2/P1")
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		require.NoError(t, store.ReleaseSeat(ctx, "VS001", testDate, "12A"))
		require.NoError(t, store.ReleaseSeat(ctx, "VS001", testDate, "12A"))

		occupied, err := store.IsSeatOccupied(ctx, "VS001", testDate, "12A")
		require.NoError(t, err)
		assert.False(t, occupied)
	})

	t.Run("concurrent grab yields one winner", func(t *testing.T) {
		const contenders = 20
		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0

		wg.Add(contenders)
		for i := 0; i < contenders; i++ {
			go func() {
				defer wg.Done()
				got, err := store.OccupySeat(ctx, "VS001", testDate, "1A", "ref")
				assert.NoError(t, err)
				if got {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, winners)
	})

	t.Run("same flight different dates are independent", func(t *testing.T) {
		otherDate := testDate.AddDate(0, 0, 1)
		got, err := store.OccupySeat(ctx, "VS001", otherDate, "12A", "ref")
		require.NoError(t, err)
		assert.True(t, got)

		seats, err := store.OccupiedSeats(ctx, "VS001", otherDate)
		require.NoError(t, err)
		assert.Equal(t, []string{"12A"}, seats)
	})
}
