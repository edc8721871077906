// Package inventory enforces the no-oversell invariant for class counters
// and the exclusivity invariant for physical seats. All mutations are
// linearizable per (flight, date, class) and per (flight, date) key.
package inventory

import (
	"context"
	"time"

	"github.com/opengds/terminal-server-go/internal/model"
)

// Store is the atomic counter/seat-map backend. Implementations must make
// Decrement fail without mutation when remaining < qty, and Increment fail
// without mutation when it would exceed the configured capacity.
type Store interface {
	GetInventory(ctx context.Context, flight string, date time.Time, class string) (*model.FlightInventory, error)
	Decrement(ctx context.Context, flight string, date time.Time, class string, qty int) (bool, error)
	Increment(ctx context.Context, flight string, date time.Time, class string, qty int) error

	IsSeatOccupied(ctx context.Context, flight string, date time.Time, seat string) (bool, error)
	// OccupySeat returns false without mutation when the seat is taken.
	OccupySeat(ctx context.Context, flight string, date time.Time, seat, passengerRef string) (bool, error)
	// ReleaseSeat is idempotent: releasing a free seat is a no-op success.
	ReleaseSeat(ctx context.Context, flight string, date time.Time, seat string) error
	OccupiedSeats(ctx context.Context, flight string, date time.Time) ([]string, error)
}

// FlightCatalog resolves schedule rows and cabin layouts. Satisfied by
// repository.FlightRepository.
type FlightCatalog interface {
	FindFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
	CabinConfig(ctx context.Context, aircraftType string) (*model.CabinConfiguration, error)
}
