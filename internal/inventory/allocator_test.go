package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// Mock flight catalog
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) FindFlight(ctx context.Context, flightNumber string) (*model.Flight, error) {
	args := m.Called(ctx, flightNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *mockCatalog) CabinConfig(ctx context.Context, aircraftType string) (*model.CabinConfiguration, error) {
	args := m.Called(ctx, aircraftType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CabinConfiguration), args.Error(1)
}

func scheduledFlight() *model.Flight {
	return &model.Flight{
		FlightNumber:  "VS001",
		Origin:        "LHR",
		Destination:   "JFK",
		DepartureTime: "0900",
		ArrivalTime:   "1200",
		AircraftType:  "346",
		Status:        model.FlightStatusScheduled,
	}
}

func a346Cabin() *model.CabinConfiguration {
	return &model.CabinConfiguration{
		AircraftType: "346",
		SeatLetters:  "ABCDEF",
		ClassRows: map[string][2]int{
			"F": {1, 2},
			"Y": {10, 30},
		},
		BlockedSeats: map[string]bool{"12C": true},
	}
}

func TestAllocatorSell(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements the class counter", func(t *testing.T) {
		store := NewMemoryStore()
		store.SetCapacity("VS001", testDate, "Y", 2)
		catalog := new(mockCatalog)
		catalog.On("FindFlight", ctx, "VS001").Return(scheduledFlight(), nil)

		alloc := NewAllocator(store, catalog)
		require.NoError(t, alloc.Sell(ctx, "VS001", testDate, "Y", 1))

		inv, err := alloc.AvailableSeats(ctx, "VS001", testDate, "Y")
		require.NoError(t, err)
		assert.Equal(t, 1, inv.Remaining)
		catalog.AssertExpectations(t)
	})

	t.Run("class with zero remaining rejects without mutation", func(t *testing.T) {
		store := NewMemoryStore()
		store.SetCapacity("VS001", testDate, "Y", 1)
		catalog := new(mockCatalog)
		catalog.On("FindFlight", ctx, "VS001").Return(scheduledFlight(), nil)

		alloc := NewAllocator(store, catalog)
		require.NoError(t, alloc.Sell(ctx, "VS001", testDate, "Y", 1))

		err := alloc.Sell(ctx, "VS001", testDate, "Y", 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInventoryUnavailable, apperrors.GetCode(err))

		inv, getErr := alloc.AvailableSeats(ctx, "VS001", testDate, "Y")
		require.NoError(t, getErr)
		assert.Equal(t, 0, inv.Remaining)
	})

	t.Run("group larger than remaining rejects whole group", func(t *testing.T) {
		store := NewMemoryStore()
		store.SetCapacity("VS001", testDate, "Y", 3)
		catalog := new(mockCatalog)
		catalog.On("FindFlight", ctx, "VS001").Return(scheduledFlight(), nil)

		alloc := NewAllocator(store, catalog)
		err := alloc.Sell(ctx, "VS001", testDate, "Y", 4)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInventoryUnavailable, apperrors.GetCode(err))

		inv, getErr := alloc.AvailableSeats(ctx, "VS001", testDate, "Y")
		require.NoError(t, getErr)
		assert.Equal(t, 3, inv.Remaining, "partial sells are never made")
	})

	t.Run("unknown flight", func(t *testing.T) {
		catalog := new(mockCatalog)
		catalog.On("FindFlight", ctx, "VS999").Return(nil, nil)

		alloc := NewAllocator(NewMemoryStore(), catalog)
		err := alloc.Sell(ctx, "VS999", testDate, "Y", 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("cancelled flight", func(t *testing.T) {
		fl := scheduledFlight()
		fl.Status = model.FlightStatusCancelled
		catalog := new(mockCatalog)
		catalog.On("FindFlight", ctx, "VS001").Return(fl, nil)

		alloc := NewAllocator(NewMemoryStore(), catalog)
		err := alloc.Sell(ctx, "VS001", testDate, "Y", 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})
}

func TestAllocatorRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetCapacity("VS001", testDate, "Y", 2)
	catalog := new(mockCatalog)
	catalog.On("FindFlight", ctx, "VS001").Return(scheduledFlight(), nil)
	alloc := NewAllocator(store, catalog)

	require.NoError(t, alloc.Sell(ctx, "VS001", testDate, "Y", 2))
	require.NoError(t, alloc.Release(ctx, "VS001", testDate, "Y", 2))

	inv, err := alloc.AvailableSeats(ctx, "VS001", testDate, "Y")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Remaining)

	t.Run("release past capacity is an invariant failure", func(t *testing.T) {
		err := alloc.Release(ctx, "VS001", testDate, "Y", 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCapacityExceeded, apperrors.GetCode(err))
	})
}

func TestAllocatorAssignSeat(t *testing.T) {
	ctx := context.Background()

	newAlloc := func() (*Allocator, *MemoryStore) {
		store := NewMemoryStore()
		catalog := new(mockCatalog)
		catalog.On("FindFlight", mock.Anything, "VS001").Return(scheduledFlight(), nil)
		catalog.On("CabinConfig", mock.Anything, "346").Return(a346Cabin(), nil)
		return NewAllocator(store, catalog), store
	}

	t.Run("assigns a valid free seat", func(t *testing.T) {
		alloc, store := newAlloc()
		require.NoError(t, alloc.AssignSeat(ctx, "VS001", testDate, "Y", "12A", "s1/P1"))

		occupied, err := store.IsSeatOccupied(ctx, "VS001", testDate, "12A")
		require.NoError(t, err)
		assert.True(t, occupied)
	})

	t.Run("occupied seat rejected", func(t *testing.T) {
		alloc, _ := newAlloc()
		require.NoError(t, alloc.AssignSeat(ctx, "VS001", testDate, "Y", "12A", "s1/P1"))

		err := alloc.AssignSeat(ctx, "VS001", testDate, "Y", "12A", "s1/P2")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeSeatOccupied, apperrors.GetCode(err))
	})

	t.Run("seat outside the class cabin rejected", func(t *testing.T) {
		alloc, _ := newAlloc()
		err := alloc.AssignSeat(ctx, "VS001", testDate, "Y", "1A", "s1/P1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("blocked seat rejected", func(t *testing.T) {
		alloc, _ := newAlloc()
		err := alloc.AssignSeat(ctx, "VS001", testDate, "Y", "12C", "s1/P1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("release then reassign", func(t *testing.T) {
		alloc, _ := newAlloc()
		require.NoError(t, alloc.AssignSeat(ctx, "VS001", testDate, "Y", "12A", "s1/P1"))
		require.NoError(t, alloc.ReleaseSeat(ctx, "VS001", testDate, "12A"))
		require.NoError(t, alloc.AssignSeat(ctx, "VS001", testDate, "Y", "12A", "s1/P2"))
	})
}

func TestAllocatorIsSeatAvailable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	catalog := new(mockCatalog)
	catalog.On("FindFlight", mock.Anything, "VS001").Return(scheduledFlight(), nil)
	catalog.On("CabinConfig", mock.Anything, "346").Return(a346Cabin(), nil)
	alloc := NewAllocator(store, catalog)

	free, err := alloc.IsSeatAvailable(ctx, "VS001", testDate, "Y", "15F")
	require.NoError(t, err)
	assert.True(t, free)

	require.NoError(t, alloc.AssignSeat(ctx, "VS001", testDate, "Y", "15F", "s1/P1"))

	free, err = alloc.IsSeatAvailable(ctx, "VS001", testDate, "Y", "15F")
	require.NoError(t, err)
	assert.False(t, free)
}
