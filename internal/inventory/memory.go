package inventory

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// MemoryStore keeps counters and seat maps sharded by key, each entry with
// its own lock so unrelated flights never contend.
type MemoryStore struct {
	mu       sync.RWMutex
	counters map[string]*classCounter
	seatMaps map[string]*seatMap
}

type classCounter struct {
	mu        sync.Mutex
	capacity  int
	remaining int
}

type seatMap struct {
	mu       sync.Mutex
	occupied map[string]string // seat -> passenger ref
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*classCounter),
		seatMaps: make(map[string]*seatMap),
	}
}

// SetCapacity seeds (or resets) one class counter with a full cabin.
func (s *MemoryStore) SetCapacity(flight string, date time.Time, class string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[model.InventoryKey(flight, date, class)] = &classCounter{
		capacity:  capacity,
		remaining: capacity,
	}
}

func (s *MemoryStore) counter(flight string, date time.Time, class string) *classCounter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[model.InventoryKey(flight, date, class)]
}

func (s *MemoryStore) seats(flight string, date time.Time) *seatMap {
	key := model.SeatMapKey(flight, date)
	s.mu.RLock()
	sm := s.seatMaps[key]
	s.mu.RUnlock()
	if sm != nil {
		return sm
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sm = s.seatMaps[key]; sm == nil {
		sm = &seatMap{occupied: make(map[string]string)}
		s.seatMaps[key] = sm
	}
	return sm
}

func (s *MemoryStore) GetInventory(_ context.Context, flight string, date time.Time, class string) (*model.FlightInventory, error) {
	c := s.counter(flight, date, class)
	if c == nil {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return &model.FlightInventory{
		FlightNumber:  flight,
		DepartureDate: date,
		Class:         class,
		Capacity:      c.capacity,
		Remaining:     c.remaining,
	}, nil
}

func (s *MemoryStore) Decrement(_ context.Context, flight string, date time.Time, class string, qty int) (bool, error) {
	c := s.counter(flight, date, class)
	if c == nil {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining < qty {
		return false, nil
	}
	c.remaining -= qty
	return true, nil
}

func (s *MemoryStore) Increment(_ context.Context, flight string, date time.Time, class string, qty int) error {
	c := s.counter(flight, date, class)
	if c == nil {
		return apperrors.NotFound("INVENTORY")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining+qty > c.capacity {
		return apperrors.CapacityExceeded(flight, class)
	}
	c.remaining += qty
	return nil
}

func (s *MemoryStore) IsSeatOccupied(_ context.Context, flight string, date time.Time, seat string) (bool, error) {
	sm := s.seats(flight, date)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, occupied := sm.occupied[seat]
	return occupied, nil
}

func (s *MemoryStore) OccupySeat(_ context.Context, flight string, date time.Time, seat, passengerRef string) (bool, error) {
	sm := s.seats(flight, date)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, occupied := sm.occupied[seat]; occupied {
		return false, nil
	}
	sm.occupied[seat] = passengerRef
	return true, nil
}

func (s *MemoryStore) ReleaseSeat(_ context.Context, flight string, date time.Time, seat string) error {
	sm := s.seats(flight, date)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.occupied, seat)
	return nil
}

func (s *MemoryStore) OccupiedSeats(_ context.Context, flight string, date time.Time) ([]string, error) {
	sm := s.seats(flight, date)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make([]string, 0, len(sm.occupied))
	for seat := range sm.occupied {
		out = append(out, seat)
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
