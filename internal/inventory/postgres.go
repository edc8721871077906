package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// PostgresStore backs the counters with conditional updates, so the
// no-oversell check and the mutation are one statement. Seat exclusivity
// rides on the (flight, date, seat) primary key.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetInventory(ctx context.Context, flight string, date time.Time, class string) (*model.FlightInventory, error) {
	var inv model.FlightInventory
	err := s.db.GetContext(ctx, &inv, `
		SELECT flight_number, departure_date, class, capacity, remaining
		FROM flight_inventory
		WHERE flight_number = $1 AND departure_date = $2 AND class = $3
	`, flight, date, class)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *PostgresStore) Decrement(ctx context.Context, flight string, date time.Time, class string, qty int) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE flight_inventory
		SET remaining = remaining - $4
		WHERE flight_number = $1 AND departure_date = $2 AND class = $3
		AND remaining >= $4
	`, flight, date, class, qty)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *PostgresStore) Increment(ctx context.Context, flight string, date time.Time, class string, qty int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE flight_inventory
		SET remaining = remaining + $4
		WHERE flight_number = $1 AND departure_date = $2 AND class = $3
		AND remaining + $4 <= capacity
	`, flight, date, class, qty)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	inv, err := s.GetInventory(ctx, flight, date, class)
	if err != nil {
		return err
	}
	if inv == nil {
		return apperrors.NotFound("INVENTORY")
	}
	return apperrors.CapacityExceeded(flight, class)
}

func (s *PostgresStore) IsSeatOccupied(ctx context.Context, flight string, date time.Time, seat string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM flight_seats
		WHERE flight_number = $1 AND departure_date = $2 AND seat_number = $3
	`, flight, date, seat)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostgresStore) OccupySeat(ctx context.Context, flight string, date time.Time, seat, passengerRef string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO flight_seats (flight_number, departure_date, seat_number, passenger_ref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flight_number, departure_date, seat_number) DO NOTHING
	`, flight, date, seat, passengerRef)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *PostgresStore) ReleaseSeat(ctx context.Context, flight string, date time.Time, seat string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM flight_seats
		WHERE flight_number = $1 AND departure_date = $2 AND seat_number = $3
	`, flight, date, seat)
	return err
}

func (s *PostgresStore) OccupiedSeats(ctx context.Context, flight string, date time.Time) ([]string, error) {
	var seats []string
	err := s.db.SelectContext(ctx, &seats, `
		SELECT seat_number FROM flight_seats
		WHERE flight_number = $1 AND departure_date = $2
		ORDER BY seat_number
	`, flight, date)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

var _ Store = (*PostgresStore)(nil)
