package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/opengds/terminal-server-go/internal/model"
)

type FlightRepository interface {
	FindFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
	FindByRoute(ctx context.Context, origin, destination string) ([]model.Flight, error)
	CabinConfig(ctx context.Context, aircraftType string) (*model.CabinConfiguration, error)
}

type flightRepo struct {
	db *sqlx.DB
}

func NewFlightRepository(db *sqlx.DB) FlightRepository {
	return &flightRepo{db: db}
}

func (r *flightRepo) FindFlight(ctx context.Context, flightNumber string) (*model.Flight, error) {
	var flight model.Flight
	err := r.db.GetContext(ctx, &flight, `
		SELECT flight_number, origin, destination, departure_time, arrival_time, aircraft_type, status
		FROM flights WHERE flight_number = $1
	`, flightNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *flightRepo) FindByRoute(ctx context.Context, origin, destination string) ([]model.Flight, error) {
	var flights []model.Flight
	err := r.db.SelectContext(ctx, &flights, `
		SELECT flight_number, origin, destination, departure_time, arrival_time, aircraft_type, status
		FROM flights
		WHERE origin = $1 AND destination = $2 AND status != 'cancelled'
		ORDER BY departure_time
	`, origin, destination)
	if err != nil {
		return nil, err
	}
	return flights, nil
}

type cabinRow struct {
	AircraftType string         `db:"aircraft_type"`
	SeatLetters  string         `db:"seat_letters"`
	ClassRows    []byte         `db:"class_rows"`
	BlockedSeats pq.StringArray `db:"blocked_seats"`
}

func (r *flightRepo) CabinConfig(ctx context.Context, aircraftType string) (*model.CabinConfiguration, error) {
	var row cabinRow
	err := r.db.GetContext(ctx, &row, `
		SELECT aircraft_type, seat_letters, class_rows, blocked_seats
		FROM cabin_configurations WHERE aircraft_type = $1
	`, aircraftType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	classRows := make(map[string][2]int)
	if err := json.Unmarshal(row.ClassRows, &classRows); err != nil {
		return nil, err
	}

	blocked := make(map[string]bool, len(row.BlockedSeats))
	for _, seat := range row.BlockedSeats {
		blocked[seat] = true
	}

	return &model.CabinConfiguration{
		AircraftType: row.AircraftType,
		SeatLetters:  row.SeatLetters,
		ClassRows:    classRows,
		BlockedSeats: blocked,
	}, nil
}
