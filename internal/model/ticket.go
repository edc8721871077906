package model

import "time"

type Ticket struct {
	Number      string       `json:"number"` // 13 digits, airline prefix first
	PassengerID int          `json:"passengerId"`
	Status      TicketStatus `json:"status"`
	Coupons     []Coupon     `json:"coupons"`
	IssuedAt    time.Time    `json:"issuedAt"`
}

type Coupon struct {
	Number        int          `json:"number"`
	SegmentNumber int          `json:"segmentNumber"`
	Status        CouponStatus `json:"status"`
}

// BoardingRecord is produced by the check-in collaborator.
type BoardingRecord struct {
	PassengerID   int           `json:"passengerId"`
	SegmentNumber int           `json:"segmentNumber"`
	SeatNumber    string        `json:"seatNumber,omitempty"`
	Sequence      int           `json:"sequence"`
	Status        CheckInStatus `json:"status"`
	CheckedInAt   time.Time     `json:"checkedInAt"`
}
