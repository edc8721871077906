package model

import "time"

// Segment is one itinerary element: a flight leg, or a surface (ARNK)
// connector that never touches inventory.
type Segment struct {
	Number           int           `json:"number"`
	FlightNumber     string        `json:"flightNumber,omitempty"`
	Origin           string        `json:"origin,omitempty"`
	Destination      string        `json:"destination,omitempty"`
	DepartureDate    time.Time     `json:"departureDate,omitempty"`
	DepartureTime    string        `json:"departureTime,omitempty"` // HHMM
	ArrivalTime      string        `json:"arrivalTime,omitempty"`   // HHMM
	BookingClass     string        `json:"bookingClass,omitempty"`
	Quantity         int           `json:"quantity"`
	Status           SegmentStatus `json:"status"`
	IsSurfaceSegment bool          `json:"isSurfaceSegment,omitempty"`
	Priced           bool          `json:"priced,omitempty"`
}

// SeatAssignment links a passenger to a physical seat on a segment.
// At most one assignment exists per (passenger, segment) pair.
type SeatAssignment struct {
	PassengerID   int       `json:"passengerId"`
	SegmentNumber int       `json:"segmentNumber"`
	SeatNumber    string    `json:"seatNumber"`
	AssignedAt    time.Time `json:"assignedAt"`
}

// Ssr is a special service request (meal, wheelchair, documents...).
// PassengerID/SegmentNumber of 0 mean the request applies to all.
type Ssr struct {
	Number        int       `json:"number"`
	Code          string    `json:"code"`
	Status        SsrStatus `json:"status"`
	PassengerID   int       `json:"passengerId,omitempty"`
	SegmentNumber int       `json:"segmentNumber,omitempty"`
	FreeText      string    `json:"freeText,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Osi is other service information addressed to a carrier.
type Osi struct {
	Number      int       `json:"number"`
	Airline     string    `json:"airline"`
	Status      SsrStatus `json:"status"`
	PassengerID int       `json:"passengerId,omitempty"`
	FreeText    string    `json:"freeText"`
	CreatedAt   time.Time `json:"createdAt"`
}
