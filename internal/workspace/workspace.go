// Package workspace holds the per-session transactional PNR draft and the
// commit/discard coordinator. Handlers mutate the draft and record every
// inventory effect in the journal; discard replays the journal in reverse.
package workspace

import (
	"sync"
	"time"

	"github.com/opengds/terminal-server-go/internal/model"
)

// Reservation is one class-counter hold taken since the last commit.
type Reservation struct {
	FlightNumber string
	Date         time.Time
	Class        string
	Quantity     int
}

// SeatHold is one physical seat occupied since the last commit. Class and
// PassengerRef are carried so a released committed seat can be re-occupied
// on discard.
type SeatHold struct {
	FlightNumber string
	Date         time.Time
	SeatNumber   string
	Class        string
	PassengerRef string
}

// Workspace is a session-owned PNR draft. Access is single-writer: the
// dispatcher holds the lock for the whole command, so commands within one
// session execute in submission order.
type Workspace struct {
	SessionID string
	TokenHash string
	Draft     *model.Pnr
	// BaseVersion is the committed version the draft was loaded from;
	// zero means the PNR has never been committed.
	BaseVersion int64

	mu           sync.Mutex
	reservations []Reservation
	seatHolds    []SeatHold
	// Holds that predate the transaction and were returned by a handler
	// (committed segment cancelled, committed seat released). Discard
	// re-takes them so the committed document stays consistent with the
	// counters.
	released      []Reservation
	seatsReleased []SeatHold
}

func New(sessionID, tokenHash string, now time.Time) *Workspace {
	return &Workspace{
		SessionID: sessionID,
		TokenHash: tokenHash,
		Draft:     model.NewPnr(now),
	}
}

func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

// RecordReservation journals an inventory decrement for compensation.
func (w *Workspace) RecordReservation(r Reservation) {
	w.reservations = append(w.reservations, r)
}

// DropReservation removes a journaled hold after the handler itself has
// already returned the inventory (segment cancelled before commit). When no
// journal entry matches, the hold was taken in an earlier transaction and
// the return is journaled instead, so a discard can re-take it.
func (w *Workspace) DropReservation(flight string, date time.Time, class string, qty int) {
	for i, r := range w.reservations {
		if r.FlightNumber == flight && r.Date.Equal(date) && r.Class == class && r.Quantity == qty {
			w.reservations = append(w.reservations[:i], w.reservations[i+1:]...)
			return
		}
	}
	w.released = append(w.released, Reservation{
		FlightNumber: flight,
		Date:         date,
		Class:        class,
		Quantity:     qty,
	})
}

// RecordSeatHold journals a seat occupation for compensation.
func (w *Workspace) RecordSeatHold(h SeatHold) {
	w.seatHolds = append(w.seatHolds, h)
}

// DropSeatHold removes a journaled seat after an in-session release. A seat
// occupied before this transaction gets its release journaled instead.
func (w *Workspace) DropSeatHold(hold SeatHold) {
	for i, h := range w.seatHolds {
		if h.FlightNumber == hold.FlightNumber && h.Date.Equal(hold.Date) && h.SeatNumber == hold.SeatNumber {
			w.seatHolds = append(w.seatHolds[:i], w.seatHolds[i+1:]...)
			return
		}
	}
	w.seatsReleased = append(w.seatsReleased, hold)
}

// Journal returns the pending compensation entries.
func (w *Workspace) Journal() ([]Reservation, []SeatHold) {
	reservations := make([]Reservation, len(w.reservations))
	copy(reservations, w.reservations)
	seatHolds := make([]SeatHold, len(w.seatHolds))
	copy(seatHolds, w.seatHolds)
	return reservations, seatHolds
}

// Released returns the journaled returns of pre-transaction holds.
func (w *Workspace) Released() ([]Reservation, []SeatHold) {
	released := make([]Reservation, len(w.released))
	copy(released, w.released)
	seats := make([]SeatHold, len(w.seatsReleased))
	copy(seats, w.seatsReleased)
	return released, seats
}

// ClearJournal discards the compensation entries after a successful
// commit: the holds and releases are durable now and no longer need
// reversing.
func (w *Workspace) ClearJournal() {
	w.reservations = nil
	w.seatHolds = nil
	w.released = nil
	w.seatsReleased = nil
}

// HasPendingInventory reports whether any uncommitted inventory effects
// exist, in either direction.
func (w *Workspace) HasPendingInventory() bool {
	return len(w.reservations) > 0 || len(w.seatHolds) > 0 ||
		len(w.released) > 0 || len(w.seatsReleased) > 0
}
