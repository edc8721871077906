package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

func TestPnrStatusTransitions(t *testing.T) {
	t.Run("booking lifecycle", func(t *testing.T) {
		status := PnrStatusPending

		status, err := status.Transition(PnrStatusConfirmed)
		require.NoError(t, err)
		status, err = status.Transition(PnrStatusTicketed)
		require.NoError(t, err)
		status, err = status.Transition(PnrStatusFlown)
		require.NoError(t, err)
		assert.Equal(t, PnrStatusFlown, status)
	})

	t.Run("cannot ticket a pending booking", func(t *testing.T) {
		_, err := PnrStatusPending.Transition(PnrStatusTicketed)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidStateTransition, apperrors.GetCode(err))
	})

	t.Run("cancel reachable from every non-terminal state", func(t *testing.T) {
		for _, from := range []PnrStatus{PnrStatusPending, PnrStatusConfirmed, PnrStatusTicketed} {
			_, err := from.Transition(PnrStatusCancelled)
			assert.NoError(t, err, "from %s", from)
		}
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		for _, terminal := range []PnrStatus{PnrStatusCancelled, PnrStatusFlown, PnrStatusNoShow} {
			assert.True(t, terminal.Terminal())
			got, err := terminal.Transition(PnrStatusConfirmed)
			assert.Error(t, err)
			assert.Equal(t, terminal, got, "failed transition must not move the state")
		}
	})
}

func TestSegmentStatusTransitions(t *testing.T) {
	t.Run("holding to confirmed", func(t *testing.T) {
		status, err := SegmentStatusHolding.Transition(SegmentStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, SegmentStatusConfirmed, status)
	})

	t.Run("waitlist can clear to confirmed", func(t *testing.T) {
		_, err := SegmentStatusWaitlisted.Transition(SegmentStatusConfirmed)
		assert.NoError(t, err)
	})

	t.Run("cancelled segment cannot be revived", func(t *testing.T) {
		_, err := SegmentStatusCancelled.Transition(SegmentStatusConfirmed)
		assert.Error(t, err)
	})

	t.Run("active means inventory-holding", func(t *testing.T) {
		assert.True(t, SegmentStatusHolding.Active())
		assert.True(t, SegmentStatusConfirmed.Active())
		assert.True(t, SegmentStatusWaitlisted.Active())
		assert.False(t, SegmentStatusCancelled.Active())
		assert.False(t, SegmentStatusFlown.Active())
	})
}

func TestSsrStatusTransitions(t *testing.T) {
	_, err := SsrStatusRequested.Transition(SsrStatusConfirmed)
	assert.NoError(t, err)

	_, err = SsrStatusPending.Transition(SsrStatusNoAction)
	assert.NoError(t, err)

	_, err = SsrStatusDeclined.Transition(SsrStatusConfirmed)
	assert.Error(t, err)
}

func TestTicketAndCouponTransitions(t *testing.T) {
	t.Run("issued ticket can be voided", func(t *testing.T) {
		_, err := TicketStatusIssued.Transition(TicketStatusVoided)
		assert.NoError(t, err)
	})

	t.Run("voided ticket is terminal", func(t *testing.T) {
		_, err := TicketStatusVoided.Transition(TicketStatusIssued)
		assert.Error(t, err)
	})

	t.Run("coupon check-in can be reversed", func(t *testing.T) {
		status, err := CouponStatusOpen.Transition(CouponStatusCheckedIn)
		require.NoError(t, err)
		_, err = status.Transition(CouponStatusOpen)
		assert.NoError(t, err)
	})

	t.Run("lifted coupon cannot reopen", func(t *testing.T) {
		_, err := CouponStatusLifted.Transition(CouponStatusOpen)
		assert.Error(t, err)
	})
}

func TestNextIDsAreNeverReused(t *testing.T) {
	pnr := &Pnr{
		Passengers: []Passenger{{ID: 1}, {ID: 3}},
		Segments:   []Segment{{Number: 2}},
	}

	assert.Equal(t, 4, pnr.NextPassengerID(), "ids continue past the highest ever used")
	assert.Equal(t, 3, pnr.NextSegmentNumber())
}

func TestActiveSegmentsExcludesSurfaceAndCancelled(t *testing.T) {
	pnr := &Pnr{Segments: []Segment{
		{Number: 1, Status: SegmentStatusConfirmed},
		{Number: 2, Status: SegmentStatusConfirmed, IsSurfaceSegment: true},
		{Number: 3, Status: SegmentStatusCancelled},
		{Number: 4, Status: SegmentStatusWaitlisted},
	}}

	active := pnr.ActiveSegments()
	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].Number)
	assert.Equal(t, 4, active[1].Number)
}

func TestCabinConfigurationSeatValidation(t *testing.T) {
	cfg := &CabinConfiguration{
		AircraftType: "789",
		SeatLetters:  "ABCDEF",
		ClassRows:    map[string][2]int{"J": {1, 8}, "Y": {20, 48}},
		BlockedSeats: map[string]bool{"20A": true},
	}

	assert.True(t, cfg.IsValidSeat("21C", "Y"))
	assert.True(t, cfg.IsValidSeat("3A", "J"))
	assert.False(t, cfg.IsValidSeat("21C", "J"), "row outside class range")
	assert.False(t, cfg.IsValidSeat("21G", "Y"), "letter not in cabin")
	assert.False(t, cfg.IsValidSeat("20A", "Y"), "blocked seat")
	assert.False(t, cfg.IsValidSeat("0A", "Y"))
	assert.False(t, cfg.IsValidSeat("", "Y"))
}
