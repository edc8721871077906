package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusArrived   FlightStatus = "arrived"
	FlightStatusCancelled FlightStatus = "cancelled"
)

// Flight is the schedule row: one operated flight number and route.
type Flight struct {
	FlightNumber  string       `db:"flight_number" json:"flightNumber"`
	Origin        string       `db:"origin" json:"origin"`
	Destination   string       `db:"destination" json:"destination"`
	DepartureTime string       `db:"departure_time" json:"departureTime"` // HHMM
	ArrivalTime   string       `db:"arrival_time" json:"arrivalTime"`     // HHMM
	AircraftType  string       `db:"aircraft_type" json:"aircraftType"`
	Status        FlightStatus `db:"status" json:"status"`
}

// FlightInventory is one (flight, date, class) counter.
type FlightInventory struct {
	FlightNumber  string    `db:"flight_number" json:"flightNumber"`
	DepartureDate time.Time `db:"departure_date" json:"departureDate"`
	Class         string    `db:"class" json:"class"`
	Capacity      int       `db:"capacity" json:"capacity"`
	Remaining     int       `db:"remaining" json:"remaining"`
}

// CabinConfiguration validates seat numbers for an aircraft type.
// Row ranges are per class; blocked seats are rejected outright.
type CabinConfiguration struct {
	AircraftType string
	SeatLetters  string            // e.g. "ABCDEF"
	ClassRows    map[string][2]int // class -> [firstRow, lastRow]
	BlockedSeats map[string]bool
}

// IsValidSeat reports whether a seat exists in the cabin for the given
// booking class and is not a blocked seat.
func (c *CabinConfiguration) IsValidSeat(seat, class string) bool {
	row, letter, ok := SplitSeat(seat)
	if !ok {
		return false
	}
	if !strings.Contains(c.SeatLetters, letter) {
		return false
	}
	rng, ok := c.ClassRows[class]
	if !ok {
		return false
	}
	if row < rng[0] || row > rng[1] {
		return false
	}
	return !c.BlockedSeats[seat]
}

// SplitSeat splits "12A" into row 12 and letter "A".
func SplitSeat(seat string) (int, string, bool) {
	if len(seat) < 2 {
		return 0, "", false
	}
	letter := seat[len(seat)-1:]
	if letter < "A" || letter > "Z" {
		return 0, "", false
	}
	row, err := strconv.Atoi(seat[:len(seat)-1])
	if err != nil || row <= 0 {
		return 0, "", false
	}
	return row, letter, true
}

// InventoryKey is the sharding key for class counters.
func InventoryKey(flight string, date time.Time, class string) string {
	return fmt.Sprintf("%s|%s|%s", flight, date.Format("2006-01-02"), class)
}

// SeatMapKey is the sharding key for per-flight-date seat occupancy.
func SeatMapKey(flight string, date time.Time) string {
	return fmt.Sprintf("%s|%s", flight, date.Format("2006-01-02"))
}
