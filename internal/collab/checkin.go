package collab

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// LocalCheckInAgent accepts passengers onto flight segments. Boarding
// sequence numbers are per flight-date and monotonically increasing for
// the life of the process.
type LocalCheckInAgent struct {
	mu        sync.Mutex
	sequences map[string]int
}

func NewLocalCheckInAgent() *LocalCheckInAgent {
	return &LocalCheckInAgent{sequences: make(map[string]int)}
}

func (a *LocalCheckInAgent) CheckIn(ctx context.Context, pnr *model.Pnr, passengerID, segmentNumber int, now time.Time) (model.BoardingRecord, error) {
	pax := pnr.Passenger(passengerID)
	if pax == nil {
		return model.BoardingRecord{}, apperrors.NotFound(fmt.Sprintf("PASSENGER %d", passengerID))
	}
	seg := pnr.Segment(segmentNumber)
	if seg == nil || seg.IsSurfaceSegment {
		return model.BoardingRecord{}, apperrors.NotFound(fmt.Sprintf("SEGMENT %d", segmentNumber))
	}
	if seg.Status != model.SegmentStatusConfirmed {
		return model.BoardingRecord{}, apperrors.ValidationError(
			fmt.Sprintf("SEGMENT %d NOT CONFIRMED - CANNOT ACCEPT", segmentNumber))
	}
	if !hasOpenCoupon(pnr, passengerID, segmentNumber) {
		return model.BoardingRecord{}, apperrors.ValidationError(
			fmt.Sprintf("NO OPEN COUPON FOR PASSENGER %d SEGMENT %d", passengerID, segmentNumber))
	}

	record := model.BoardingRecord{
		PassengerID:   passengerID,
		SegmentNumber: segmentNumber,
		Sequence:      a.nextSequence(seg.FlightNumber, seg.DepartureDate),
		Status:        model.CheckInStatusCheckedIn,
		CheckedInAt:   now,
	}
	for _, assignment := range pnr.SeatAssignments {
		if assignment.PassengerID == passengerID && assignment.SegmentNumber == segmentNumber {
			record.SeatNumber = assignment.SeatNumber
			break
		}
	}
	return record, nil
}

func (a *LocalCheckInAgent) nextSequence(flight string, date time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := flight + "|" + date.Format("2006-01-02")
	a.sequences[key]++
	return a.sequences[key]
}

func hasOpenCoupon(pnr *model.Pnr, passengerID, segmentNumber int) bool {
	for _, t := range pnr.Tickets {
		if t.PassengerID != passengerID || t.Status != model.TicketStatusIssued {
			continue
		}
		for _, c := range t.Coupons {
			if c.SegmentNumber == segmentNumber && c.Status == model.CouponStatusOpen {
				return true
			}
		}
	}
	return false
}
