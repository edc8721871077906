package engine

import (
	"context"
	"fmt"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

func (e *Engine) handleAssignSeat(ctx context.Context, tokenHash string, req parser.AssignSeatRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	if err := validateAssociations(ws, req.PassengerID, req.SegmentNumber); err != nil {
		return nil, err
	}
	seg := ws.Draft.Segment(req.SegmentNumber)
	if !seg.Status.Active() {
		return nil, apperrors.ValidationError(fmt.Sprintf("SEGMENT %d NOT ACTIVE", req.SegmentNumber))
	}
	for _, assignment := range ws.Draft.SeatAssignments {
		if assignment.PassengerID == req.PassengerID && assignment.SegmentNumber == req.SegmentNumber {
			return nil, apperrors.Conflict(
				fmt.Sprintf("PASSENGER %d ALREADY SEATED ON SEGMENT %d - USE STX FIRST",
					req.PassengerID, req.SegmentNumber))
		}
	}

	paxRef := fmt.Sprintf("%s/P%d", ws.SessionID, req.PassengerID)
	err = e.allocator.AssignSeat(ctx, seg.FlightNumber, seg.DepartureDate, seg.BookingClass, req.SeatNumber, paxRef)
	if err != nil {
		return nil, err
	}
	ws.RecordSeatHold(workspace.SeatHold{
		FlightNumber: seg.FlightNumber,
		Date:         seg.DepartureDate,
		SeatNumber:   req.SeatNumber,
		Class:        seg.BookingClass,
		PassengerRef: paxRef,
	})

	ws.Draft.SeatAssignments = append(ws.Draft.SeatAssignments, model.SeatAssignment{
		PassengerID:   req.PassengerID,
		SegmentNumber: req.SegmentNumber,
		SeatNumber:    req.SeatNumber,
		AssignedAt:    e.nowFn(),
	})
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("SEAT %s CONFIRMED P%d S%d", req.SeatNumber, req.PassengerID, req.SegmentNumber), ws.Draft), nil
}

func (e *Engine) handleReleaseSeat(ctx context.Context, tokenHash string, req parser.ReleaseSeatRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	for i, assignment := range ws.Draft.SeatAssignments {
		if assignment.PassengerID != req.PassengerID || assignment.SegmentNumber != req.SegmentNumber {
			continue
		}
		seg := ws.Draft.Segment(req.SegmentNumber)
		if seg == nil {
			return nil, apperrors.NotFound(fmt.Sprintf("SEGMENT %d", req.SegmentNumber))
		}
		if err := e.allocator.ReleaseSeat(ctx, seg.FlightNumber, seg.DepartureDate, assignment.SeatNumber); err != nil {
			return nil, err
		}
		ws.DropSeatHold(workspace.SeatHold{
			FlightNumber: seg.FlightNumber,
			Date:         seg.DepartureDate,
			SeatNumber:   assignment.SeatNumber,
			Class:        seg.BookingClass,
			PassengerRef: fmt.Sprintf("%s/P%d", ws.SessionID, assignment.PassengerID),
		})

		ws.Draft.SeatAssignments = append(ws.Draft.SeatAssignments[:i], ws.Draft.SeatAssignments[i+1:]...)
		ws.Draft.UpdatedAt = e.nowFn()
		return ok(fmt.Sprintf("SEAT %s RELEASED", assignment.SeatNumber), ws.Draft), nil
	}
	return nil, apperrors.NotFound(fmt.Sprintf("SEAT FOR P%d S%d", req.PassengerID, req.SegmentNumber))
}
