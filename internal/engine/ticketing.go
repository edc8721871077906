package engine

import (
	"context"
	"fmt"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
)

// handleIssueTickets orders the collaborator calls so a failure at any
// point leaves the draft untouched: authorize payment, then issue, then
// mutate.
func (e *Engine) handleIssueTickets(ctx context.Context, tokenHash string) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	draft := ws.Draft

	if len(draft.Passengers) == 0 {
		return nil, apperrors.ValidationError("NO NAMES IN PNR")
	}
	segments := draft.ActiveSegments()
	if len(segments) == 0 {
		return nil, apperrors.ValidationError("NO ACTIVE ITINERARY TO TICKET")
	}
	for _, seg := range segments {
		if !seg.Priced {
			return nil, apperrors.ValidationError(fmt.Sprintf("SEGMENT %d NOT PRICED - USE FXP", seg.Number))
		}
	}
	var total float64
	currency := ""
	for _, pax := range draft.Passengers {
		fare := draft.FareFor(pax.ID)
		if fare == nil {
			return nil, apperrors.ValidationError(fmt.Sprintf("NO FARE FOR PASSENGER %d - USE FXP", pax.ID))
		}
		total += fare.TotalAmount
		currency = fare.Currency
	}
	if draft.FormOfPayment == nil {
		return nil, apperrors.ValidationError("NO FORM OF PAYMENT - USE FP")
	}
	// The transition check runs before any collaborator call: a repeat TTP
	// on a ticketed PNR must fail without charging the card again.
	if _, err := draft.Status.Transition(model.PnrStatusTicketed); err != nil {
		return nil, err
	}

	issueCtx, cancel := collabContext(ctx)
	defer cancel()
	authCode, err := e.payments.Authorize(issueCtx, *draft.FormOfPayment, total, currency)
	if err != nil {
		return nil, err
	}

	now := e.nowFn()
	tickets, err := e.issuer.Issue(issueCtx, draft, now)
	if err != nil {
		return nil, err
	}

	status, err := draft.Status.Transition(model.PnrStatusTicketed)
	if err != nil {
		return nil, err
	}
	draft.Status = status
	draft.Tickets = append(draft.Tickets, tickets...)
	draft.FormOfPayment.AuthCode = authCode
	draft.FormOfPayment.CardNumber = maskCardNumber(draft.FormOfPayment.CardNumber)
	if draft.TicketingInfo == nil {
		draft.TicketingInfo = &model.TicketingInfo{}
	}
	draft.TicketingInfo.IssuedAt = &now
	draft.UpdatedAt = now

	return ok(fmt.Sprintf("OK - %d TICKET(S) ISSUED\n%s", len(tickets), renderPnr(draft)), draft), nil
}

func (e *Engine) handleCheckIn(ctx context.Context, tokenHash string, req parser.CheckInRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	checkinCtx, cancel := collabContext(ctx)
	defer cancel()
	record, err := e.checkin.CheckIn(checkinCtx, ws.Draft, req.PassengerID, req.SegmentNumber, e.nowFn())
	if err != nil {
		return nil, err
	}

	for i := range ws.Draft.Tickets {
		ticket := &ws.Draft.Tickets[i]
		if ticket.PassengerID != req.PassengerID {
			continue
		}
		for j := range ticket.Coupons {
			coupon := &ticket.Coupons[j]
			if coupon.SegmentNumber != req.SegmentNumber {
				continue
			}
			status, err := coupon.Status.Transition(model.CouponStatusCheckedIn)
			if err != nil {
				return nil, err
			}
			coupon.Status = status
		}
	}
	ws.Draft.UpdatedAt = e.nowFn()

	message := fmt.Sprintf("PASSENGER %d ACCEPTED - SEQ %03d", req.PassengerID, record.Sequence)
	if record.SeatNumber != "" {
		message += " SEAT " + record.SeatNumber
	}
	return ok(message, record), nil
}
