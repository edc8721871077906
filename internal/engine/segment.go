package engine

import (
	"context"
	"fmt"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

// handleSellSegment takes the inventory hold before mutating the draft.
// On decrement failure the workspace is untouched; on success the hold is
// journaled so a later ignore can return the seats.
func (e *Engine) handleSellSegment(ctx context.Context, sess *model.Session, tokenHash string, req parser.SellSegmentRequest) (*Result, error) {
	flight, err := e.flights.FindFlight(ctx, req.FlightNumber)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if flight == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("FLIGHT %s", req.FlightNumber))
	}
	if flight.Origin != req.Origin || flight.Destination != req.Destination {
		return nil, apperrors.ValidationError(
			fmt.Sprintf("FLIGHT %s DOES NOT OPERATE %s%s", req.FlightNumber, req.Origin, req.Destination))
	}

	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}
	if ws.Draft.Status.Terminal() {
		return nil, apperrors.ValidationError("PNR IS CLOSED - NO FURTHER SELLING")
	}

	date := req.Date.Resolve(e.nowFn())
	if err := e.allocator.Sell(ctx, req.FlightNumber, date, req.BookingClass, req.Quantity); err != nil {
		return nil, err
	}
	ws.RecordReservation(workspace.Reservation{
		FlightNumber: req.FlightNumber,
		Date:         date,
		Class:        req.BookingClass,
		Quantity:     req.Quantity,
	})

	seg := model.Segment{
		Number:        ws.Draft.NextSegmentNumber(),
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: date,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		BookingClass:  req.BookingClass,
		Quantity:      req.Quantity,
		Status:        model.SegmentStatusConfirmed,
	}
	ws.Draft.Segments = append(ws.Draft.Segments, seg)
	if ws.Draft.Status == model.PnrStatusPending {
		status, err := ws.Draft.Status.Transition(model.PnrStatusConfirmed)
		if err != nil {
			return nil, err
		}
		ws.Draft.Status = status
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("SEGMENT %d CONFIRMED\n%s", seg.Number, renderPnr(ws.Draft)), ws.Draft), nil
}

func (e *Engine) handleSurfaceSegment(ctx context.Context, sess *model.Session, tokenHash string) (*Result, error) {
	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}

	seg := model.Segment{
		Number:           ws.Draft.NextSegmentNumber(),
		Status:           model.SegmentStatusConfirmed,
		IsSurfaceSegment: true,
	}
	ws.Draft.Segments = append(ws.Draft.Segments, seg)
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("ARNK ADDED AS SEGMENT %d", seg.Number), ws.Draft), nil
}

func (e *Engine) handleDeleteElement(ctx context.Context, tokenHash string, req parser.DeleteElementRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	seg := ws.Draft.Segment(req.Number)
	if seg == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("ELEMENT %d", req.Number))
	}
	if err := e.cancelSegment(ctx, ws, seg); err != nil {
		return nil, err
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("SEGMENT %d CANCELLED\n%s", req.Number, renderPnr(ws.Draft)), ws.Draft), nil
}

func (e *Engine) handleCancelItinerary(ctx context.Context, tokenHash string) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	cancelled := 0
	for i := range ws.Draft.Segments {
		seg := &ws.Draft.Segments[i]
		if seg.Status == model.SegmentStatusCancelled || seg.Status == model.SegmentStatusFlown {
			continue
		}
		if err := e.cancelSegment(ctx, ws, seg); err != nil {
			return nil, err
		}
		cancelled++
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("ITINERARY CANCELLED - %d SEGMENT(S)", cancelled), ws.Draft), nil
}

// cancelSegment marks the segment cancelled, returns its inventory and
// releases any seats assigned on it. Cancelling an already cancelled or
// flown segment is a no-op.
func (e *Engine) cancelSegment(ctx context.Context, ws *workspace.Workspace, seg *model.Segment) error {
	if seg.Status == model.SegmentStatusCancelled || seg.Status == model.SegmentStatusFlown {
		return nil
	}
	wasActive := seg.Status.Active()

	status, err := seg.Status.Transition(model.SegmentStatusCancelled)
	if err != nil {
		return err
	}
	seg.Status = status

	if seg.IsSurfaceSegment || !wasActive {
		return nil
	}

	kept := ws.Draft.SeatAssignments[:0]
	for _, assignment := range ws.Draft.SeatAssignments {
		if assignment.SegmentNumber != seg.Number {
			kept = append(kept, assignment)
			continue
		}
		if err := e.allocator.ReleaseSeat(ctx, seg.FlightNumber, seg.DepartureDate, assignment.SeatNumber); err != nil {
			return err
		}
		ws.DropSeatHold(workspace.SeatHold{
			FlightNumber: seg.FlightNumber,
			Date:         seg.DepartureDate,
			SeatNumber:   assignment.SeatNumber,
			Class:        seg.BookingClass,
			PassengerRef: fmt.Sprintf("%s/P%d", ws.SessionID, assignment.PassengerID),
		})
	}
	ws.Draft.SeatAssignments = kept

	if err := e.allocator.Release(ctx, seg.FlightNumber, seg.DepartureDate, seg.BookingClass, seg.Quantity); err != nil {
		return err
	}
	ws.DropReservation(seg.FlightNumber, seg.DepartureDate, seg.BookingClass, seg.Quantity)
	return nil
}
