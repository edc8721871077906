package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// Allocator is the engine-facing surface for all inventory mutation.
// Segment-sell, cancel and seat handlers go through it; nothing else in the
// engine talks to the Store directly.
type Allocator struct {
	store   Store
	catalog FlightCatalog
}

func NewAllocator(store Store, catalog FlightCatalog) *Allocator {
	return &Allocator{store: store, catalog: catalog}
}

// Sell reserves qty seats in a class. It fails with INVENTORY_UNAVAILABLE
// and no mutation when the class is closed or short.
func (a *Allocator) Sell(ctx context.Context, flight string, date time.Time, class string, qty int) error {
	fl, err := a.catalog.FindFlight(ctx, flight)
	if err != nil {
		return err
	}
	if fl == nil {
		return apperrors.NotFound(fmt.Sprintf("FLIGHT %s", flight))
	}
	if fl.Status == model.FlightStatusCancelled {
		return apperrors.ValidationError(fmt.Sprintf("FLIGHT %s IS CANCELLED", flight))
	}

	ok, err := a.store.Decrement(ctx, flight, date, class, qty)
	if err != nil {
		return apperrors.Database(err)
	}
	if !ok {
		return apperrors.InventoryUnavailable(flight, class)
	}

	log.Debug().
		Str("flight", flight).
		Str("class", class).
		Int("qty", qty).
		Msg("inventory decremented")
	return nil
}

// Release returns qty seats to a class on cancel or discard. A capacity
// overshoot is a reported invariant failure, never clamped.
func (a *Allocator) Release(ctx context.Context, flight string, date time.Time, class string, qty int) error {
	if err := a.store.Increment(ctx, flight, date, class, qty); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeCapacityExceeded {
			log.Error().
				Str("flight", flight).
				Str("class", class).
				Int("qty", qty).
				Msg("inventory release exceeds capacity")
		}
		return err
	}
	return nil
}

// AvailableSeats reports the remaining count for a class; nil inventory
// means the class is not offered on the flight date.
func (a *Allocator) AvailableSeats(ctx context.Context, flight string, date time.Time, class string) (*model.FlightInventory, error) {
	inv, err := a.store.GetInventory(ctx, flight, date, class)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return inv, nil
}

// IsSeatAvailable reports whether a seat is valid for the cabin and free.
func (a *Allocator) IsSeatAvailable(ctx context.Context, flight string, date time.Time, class, seat string) (bool, error) {
	if err := a.validateSeat(ctx, flight, class, seat); err != nil {
		return false, err
	}
	occupied, err := a.store.IsSeatOccupied(ctx, flight, date, seat)
	if err != nil {
		return false, apperrors.Database(err)
	}
	return !occupied, nil
}

// AssignSeat validates the seat against the cabin configuration and
// occupies it. Fails with SEAT_OCCUPIED when a different passenger holds it.
func (a *Allocator) AssignSeat(ctx context.Context, flight string, date time.Time, class, seat, passengerRef string) error {
	if err := a.validateSeat(ctx, flight, class, seat); err != nil {
		return err
	}
	ok, err := a.store.OccupySeat(ctx, flight, date, seat, passengerRef)
	if err != nil {
		return apperrors.Database(err)
	}
	if !ok {
		return apperrors.SeatOccupied(seat)
	}
	return nil
}

// ReleaseSeat frees a seat. Releasing an unoccupied seat is a no-op.
func (a *Allocator) ReleaseSeat(ctx context.Context, flight string, date time.Time, seat string) error {
	if err := a.store.ReleaseSeat(ctx, flight, date, seat); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (a *Allocator) validateSeat(ctx context.Context, flight, class, seat string) error {
	fl, err := a.catalog.FindFlight(ctx, flight)
	if err != nil {
		return err
	}
	if fl == nil {
		return apperrors.NotFound(fmt.Sprintf("FLIGHT %s", flight))
	}
	cabin, err := a.catalog.CabinConfig(ctx, fl.AircraftType)
	if err != nil {
		return err
	}
	if cabin == nil {
		return apperrors.NotFound(fmt.Sprintf("CABIN CONFIGURATION %s", fl.AircraftType))
	}
	if !cabin.IsValidSeat(seat, class) {
		return apperrors.ValidationError(fmt.Sprintf("SEAT %s NOT VALID FOR %s CABIN %s", seat, flight, class))
	}
	return nil
}
