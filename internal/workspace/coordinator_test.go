package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opengds/terminal-server-go/internal/inventory"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/repository"
)

// Mock repositories
type mockPnrRepo struct {
	mock.Mock
}

func (m *mockPnrRepo) FindByLocator(ctx context.Context, locator string) (*model.Pnr, int64, error) {
	args := m.Called(ctx, locator)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*model.Pnr), args.Get(1).(int64), args.Error(2)
}

func (m *mockPnrRepo) FindByName(ctx context.Context, lastName, firstName string) ([]model.Pnr, error) {
	args := m.Called(ctx, lastName, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pnr), args.Error(1)
}

func (m *mockPnrRepo) FindByFlight(ctx context.Context, flightNumber string, date time.Time) ([]model.Pnr, error) {
	args := m.Called(ctx, flightNumber, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pnr), args.Error(1)
}

func (m *mockPnrRepo) FindByPhone(ctx context.Context, phone string) ([]model.Pnr, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pnr), args.Error(1)
}

func (m *mockPnrRepo) FindByTicket(ctx context.Context, ticketNumber string) ([]model.Pnr, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pnr), args.Error(1)
}

func (m *mockPnrRepo) FindByFrequentFlyer(ctx context.Context, ff string) ([]model.Pnr, error) {
	args := m.Called(ctx, ff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pnr), args.Error(1)
}

func (m *mockPnrRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Pnr, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Pnr), args.Error(1)
}

func (m *mockPnrRepo) Save(ctx context.Context, pnr *model.Pnr, sessionID string, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, pnr, sessionID, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPnrRepo) Delete(ctx context.Context, locator string) error {
	args := m.Called(ctx, locator)
	return args.Error(0)
}

// Mock flight catalog; discard tests never resolve flights so no
// expectations are set.
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

func TestCoordinatorCommit(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("first commit assigns a locator", func(t *testing.T) {
		repo := new(mockPnrRepo)
		repo.On("Save", ctx, mock.Anything, "s1", int64(0)).Return(int64(1), nil)

		manager := NewManager()
		coord := NewCoordinator(repo, inventory.NewAllocator(inventory.NewMemoryStore(), new(mockCatalog)), manager)

		ws := manager.GetOrCreate("tok1", "s1", now)
		ws.RecordReservation(Reservation{FlightNumber: "VS001", Date: depDate, Class: "Y", Quantity: 1})

		committed, err := coord.Commit(ctx, ws, false)
		require.NoError(t, err)
		assert.Len(t, committed.RecordLocator, 6)
		assert.Equal(t, int64(1), ws.BaseVersion)
		assert.False(t, ws.HasPendingInventory(), "commit clears the journal")
		assert.Nil(t, manager.Get("tok1"), "commit without recall drops the workspace")
		repo.AssertExpectations(t)
	})

	t.Run("commit with recall reloads the committed state", func(t *testing.T) {
		repo := new(mockPnrRepo)
		reloaded := model.NewPnr(now)
		reloaded.RecordLocator = "QWERTZ"
		repo.On("Save", ctx, mock.Anything, "s1", int64(0)).Return(int64(1), nil)
		repo.On("FindByLocator", ctx, mock.Anything).Return(reloaded, int64(1), nil)

		manager := NewManager()
		coord := NewCoordinator(repo, inventory.NewAllocator(inventory.NewMemoryStore(), new(mockCatalog)), manager)
		ws := manager.GetOrCreate("tok1", "s1", now)

		committed, err := coord.Commit(ctx, ws, true)
		require.NoError(t, err)
		assert.Same(t, reloaded, committed)
		assert.Same(t, reloaded, ws.Draft)
		assert.NotNil(t, manager.Get("tok1"), "recall keeps the workspace open")
	})

	t.Run("locator collision retries with a fresh candidate", func(t *testing.T) {
		repo := new(mockPnrRepo)
		repo.On("Save", ctx, mock.Anything, "s1", int64(0)).
			Return(int64(0), &pq.Error{Code: "23505"}).Once()
		repo.On("Save", ctx, mock.Anything, "s1", int64(0)).
			Return(int64(1), nil).Once()

		manager := NewManager()
		coord := NewCoordinator(repo, inventory.NewAllocator(inventory.NewMemoryStore(), new(mockCatalog)), manager)
		ws := manager.GetOrCreate("tok1", "s1", now)

		committed, err := coord.Commit(ctx, ws, false)
		require.NoError(t, err)
		assert.Len(t, committed.RecordLocator, 6)
		repo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("version conflict surfaces unchanged", func(t *testing.T) {
		repo := new(mockPnrRepo)
		repo.On("Save", ctx, mock.Anything, "s1", int64(3)).
			Return(int64(0), repository.ErrVersionConflict)

		manager := NewManager()
		coord := NewCoordinator(repo, inventory.NewAllocator(inventory.NewMemoryStore(), new(mockCatalog)), manager)

		ws := New("s1", "tok1", now)
		ws.Draft.RecordLocator = "ABCDEF"
		ws.BaseVersion = 3
		manager.Replace("tok1", ws)

		_, err := coord.Commit(ctx, ws, false)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
		assert.NotNil(t, manager.Get("tok1"), "failed commit keeps the workspace")
	})
}

func TestCoordinatorDiscard(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("returns holds taken this transaction", func(t *testing.T) {
		store := inventory.NewMemoryStore()
		store.SetCapacity("VS001", depDate, "Y", 5)

		// Simulate the handler-time effects: seats decremented, seat occupied.
		sold, err := store.Decrement(ctx, "VS001", depDate, "Y", 2)
		require.NoError(t, err)
		require.True(t, sold)
		taken, err := store.OccupySeat(ctx, "VS001", depDate, "12A", "s1/P1")
		require.NoError(t, err)
		require.True(t, taken)

		manager := NewManager()
		coord := NewCoordinator(new(mockPnrRepo), inventory.NewAllocator(store, new(mockCatalog)), manager)

		ws := manager.GetOrCreate("tok1", "s1", now)
		ws.RecordReservation(Reservation{FlightNumber: "VS001", Date: depDate, Class: "Y", Quantity: 2})
		ws.RecordSeatHold(SeatHold{FlightNumber: "VS001", Date: depDate, SeatNumber: "12A"})

		coord.Discard(ctx, ws)

		inv, err := store.GetInventory(ctx, "VS001", depDate, "Y")
		require.NoError(t, err)
		assert.Equal(t, 5, inv.Remaining, "discard returns every journaled seat")

		occupied, err := store.IsSeatOccupied(ctx, "VS001", depDate, "12A")
		require.NoError(t, err)
		assert.False(t, occupied)
		assert.Nil(t, manager.Get("tok1"))
	})

	t.Run("re-takes committed holds released this transaction", func(t *testing.T) {
		store := inventory.NewMemoryStore()
		store.SetCapacity("VS001", depDate, "Y", 5)

		catalog := new(mockCatalog)
		catalog.On("FindFlight", mock.Anything, "VS001").Return(&model.Flight{
			FlightNumber: "VS001",
			Origin:       "LHR",
			Destination:  "JFK",
			AircraftType: "346",
			Status:       model.FlightStatusScheduled,
		}, nil)
		catalog.On("CabinConfig", mock.Anything, "346").Return(&model.CabinConfiguration{
			AircraftType: "346",
			SeatLetters:  "ABCDEF",
			ClassRows:    map[string][2]int{"Y": {10, 30}},
		}, nil)

		manager := NewManager()
		coord := NewCoordinator(new(mockPnrRepo), inventory.NewAllocator(store, catalog), manager)

		// A recalled PNR whose committed segment held one Y seat and 12A;
		// the handler released both eagerly on cancel and journaled the
		// returns.
		ws := manager.GetOrCreate("tok1", "s1", now)
		ws.DropReservation("VS001", depDate, "Y", 1)
		ws.DropSeatHold(SeatHold{FlightNumber: "VS001", Date: depDate, SeatNumber: "12A", Class: "Y", PassengerRef: "s1/P1"})

		coord.Discard(ctx, ws)

		inv, err := store.GetInventory(ctx, "VS001", depDate, "Y")
		require.NoError(t, err)
		assert.Equal(t, 4, inv.Remaining, "discard takes the committed hold back")

		occupied, err := store.IsSeatOccupied(ctx, "VS001", depDate, "12A")
		require.NoError(t, err)
		assert.True(t, occupied, "discard re-occupies the committed seat")
		assert.Nil(t, manager.Get("tok1"))
	})
}

func TestCoordinatorLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a workspace over the committed document", func(t *testing.T) {
		committed := model.NewPnr(time.Now())
		committed.RecordLocator = "ABCDEF"
		repo := new(mockPnrRepo)
		repo.On("FindByLocator", ctx, "ABCDEF").Return(committed, int64(4), nil)

		manager := NewManager()
		coord := NewCoordinator(repo, inventory.NewAllocator(inventory.NewMemoryStore(), new(mockCatalog)), manager)

		ws, err := coord.Load(ctx, "tok1", "s1", "ABCDEF")
		require.NoError(t, err)
		assert.Same(t, committed, ws.Draft)
		assert.Equal(t, int64(4), ws.BaseVersion)
		assert.Same(t, ws, manager.Get("tok1"))
	})

	t.Run("unknown locator", func(t *testing.T) {
		repo := new(mockPnrRepo)
		repo.On("FindByLocator", ctx, "ZZZZZZ").Return(nil, int64(0), nil)

		coord := NewCoordinator(repo, inventory.NewAllocator(inventory.NewMemoryStore(), new(mockCatalog)), NewManager())
		_, err := coord.Load(ctx, "tok1", "s1", "ZZZZZZ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ZZZZZZ")
	})
}
