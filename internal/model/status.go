package model

import (
	"fmt"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

// Status transitions are expressed as closed tables. Handlers never assign a
// status directly; they call the Transition method for the entity, which
// either returns the new state or an INVALID_STATE_TRANSITION error.

type PnrStatus string

const (
	PnrStatusPending   PnrStatus = "pending"
	PnrStatusConfirmed PnrStatus = "confirmed"
	PnrStatusTicketed  PnrStatus = "ticketed"
	PnrStatusCancelled PnrStatus = "cancelled"
	PnrStatusFlown     PnrStatus = "flown"
	PnrStatusNoShow    PnrStatus = "no_show"
)

var pnrTransitions = map[PnrStatus][]PnrStatus{
	PnrStatusPending:   {PnrStatusConfirmed, PnrStatusCancelled},
	PnrStatusConfirmed: {PnrStatusTicketed, PnrStatusCancelled},
	// Flown/NoShow are set by post-travel feeds; the engine stores them
	// but never derives them itself.
	PnrStatusTicketed: {PnrStatusCancelled, PnrStatusFlown, PnrStatusNoShow},
}

func (s PnrStatus) Transition(to PnrStatus) (PnrStatus, error) {
	return transition("PNR", s, to, pnrTransitions)
}

func (s PnrStatus) Terminal() bool {
	return len(pnrTransitions[s]) == 0
}

type SegmentStatus string

const (
	SegmentStatusHolding        SegmentStatus = "holding"
	SegmentStatusRequestPending SegmentStatus = "request_pending"
	SegmentStatusConfirmed      SegmentStatus = "confirmed"
	SegmentStatusWaitlisted     SegmentStatus = "waitlisted"
	SegmentStatusCancelled      SegmentStatus = "cancelled"
	SegmentStatusFlown          SegmentStatus = "flown"
)

var segmentTransitions = map[SegmentStatus][]SegmentStatus{
	SegmentStatusHolding:        {SegmentStatusConfirmed, SegmentStatusWaitlisted, SegmentStatusCancelled},
	SegmentStatusRequestPending: {SegmentStatusConfirmed, SegmentStatusWaitlisted, SegmentStatusCancelled},
	SegmentStatusConfirmed:      {SegmentStatusWaitlisted, SegmentStatusCancelled, SegmentStatusFlown},
	SegmentStatusWaitlisted:     {SegmentStatusConfirmed, SegmentStatusCancelled},
}

func (s SegmentStatus) Transition(to SegmentStatus) (SegmentStatus, error) {
	return transition("SEGMENT", s, to, segmentTransitions)
}

func (s SegmentStatus) Terminal() bool {
	return len(segmentTransitions[s]) == 0
}

// Active reports whether the segment currently holds inventory.
func (s SegmentStatus) Active() bool {
	switch s {
	case SegmentStatusHolding, SegmentStatusRequestPending, SegmentStatusConfirmed, SegmentStatusWaitlisted:
		return true
	}
	return false
}

type SsrStatus string

const (
	SsrStatusRequested SsrStatus = "requested"
	SsrStatusPending   SsrStatus = "pending"
	SsrStatusConfirmed SsrStatus = "confirmed"
	SsrStatusDeclined  SsrStatus = "declined"
	SsrStatusNoAction  SsrStatus = "no_action"
	SsrStatusCancelled SsrStatus = "cancelled"
)

var ssrTransitions = map[SsrStatus][]SsrStatus{
	SsrStatusRequested: {SsrStatusConfirmed, SsrStatusDeclined, SsrStatusCancelled},
	SsrStatusPending:   {SsrStatusNoAction, SsrStatusCancelled},
	SsrStatusConfirmed: {SsrStatusCancelled},
}

func (s SsrStatus) Transition(to SsrStatus) (SsrStatus, error) {
	return transition("SSR", s, to, ssrTransitions)
}

type TicketStatus string

const (
	TicketStatusIssued   TicketStatus = "issued"
	TicketStatusVoided   TicketStatus = "voided"
	TicketStatusRefunded TicketStatus = "refunded"
	TicketStatusUsed     TicketStatus = "used"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusIssued: {TicketStatusVoided, TicketStatusRefunded, TicketStatusUsed},
}

func (s TicketStatus) Transition(to TicketStatus) (TicketStatus, error) {
	return transition("TICKET", s, to, ticketTransitions)
}

type CouponStatus string

const (
	CouponStatusOpen      CouponStatus = "open"
	CouponStatusCheckedIn CouponStatus = "checked_in"
	CouponStatusLifted    CouponStatus = "lifted"
	CouponStatusVoided    CouponStatus = "voided"
)

var couponTransitions = map[CouponStatus][]CouponStatus{
	CouponStatusOpen:      {CouponStatusCheckedIn, CouponStatusVoided},
	CouponStatusCheckedIn: {CouponStatusLifted, CouponStatusOpen},
}

func (s CouponStatus) Transition(to CouponStatus) (CouponStatus, error) {
	return transition("COUPON", s, to, couponTransitions)
}

type CheckInStatus string

const (
	CheckInStatusNotCheckedIn CheckInStatus = "not_checked_in"
	CheckInStatusCheckedIn    CheckInStatus = "checked_in"
	CheckInStatusBoarded      CheckInStatus = "boarded"
)

var checkInTransitions = map[CheckInStatus][]CheckInStatus{
	CheckInStatusNotCheckedIn: {CheckInStatusCheckedIn},
	CheckInStatusCheckedIn:    {CheckInStatusBoarded, CheckInStatusNotCheckedIn},
}

func (s CheckInStatus) Transition(to CheckInStatus) (CheckInStatus, error) {
	return transition("CHECK-IN", s, to, checkInTransitions)
}

func transition[S ~string](entity string, from, to S, table map[S][]S) (S, error) {
	for _, allowed := range table[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, apperrors.InvalidStateTransition(
		fmt.Sprintf("%s CANNOT MOVE FROM %s TO %s", entity, from, to))
}
