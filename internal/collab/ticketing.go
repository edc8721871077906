package collab

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// Ticket numbers are 13 digits: a 3-digit airline accounting prefix
// followed by a 10-digit serial.
const ticketPrefix = "932"

// LocalTicketIssuer emits one ticket per passenger with one coupon per
// active flight segment, in itinerary order.
type LocalTicketIssuer struct{}

func NewLocalTicketIssuer() *LocalTicketIssuer {
	return &LocalTicketIssuer{}
}

func (i *LocalTicketIssuer) Issue(ctx context.Context, pnr *model.Pnr, now time.Time) ([]model.Ticket, error) {
	segments := pnr.ActiveSegments()
	if len(segments) == 0 {
		return nil, apperrors.ValidationError("NO ACTIVE ITINERARY TO TICKET")
	}

	tickets := make([]model.Ticket, 0, len(pnr.Passengers))
	for _, pax := range pnr.Passengers {
		number, err := nextTicketNumber()
		if err != nil {
			return nil, apperrors.Collaborator("ticket-issuer", err)
		}
		coupons := make([]model.Coupon, 0, len(segments))
		for idx, seg := range segments {
			coupons = append(coupons, model.Coupon{
				Number:        idx + 1,
				SegmentNumber: seg.Number,
				Status:        model.CouponStatusOpen,
			})
		}
		tickets = append(tickets, model.Ticket{
			Number:      number,
			PassengerID: pax.ID,
			Status:      model.TicketStatusIssued,
			Coupons:     coupons,
			IssuedAt:    now,
		})
	}
	return tickets, nil
}

func nextTicketNumber() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(10), nil)
	serial, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate ticket serial: %w", err)
	}
	return fmt.Sprintf("%s%010d", ticketPrefix, serial), nil
}
