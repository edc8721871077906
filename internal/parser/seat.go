package parser

import (
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

const (
	seatUsage        = "INVALID SEAT FORMAT - USE ST/12A/P1/S2"
	seatReleaseUsage = "INVALID SEAT FORMAT - USE STX/P1/S2"
)

// ParseAssignSeat handles ST/<seat>/P<n>/S<n>.
func ParseAssignSeat(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimPrefix(cmd, VerbAssignSeat)

	if !strings.HasPrefix(body, "/") {
		return nil, apperrors.Parse(seatUsage)
	}
	parts := strings.Split(body[1:], "/")
	if len(parts) != 3 {
		return nil, apperrors.Parse(seatUsage)
	}

	seat := parts[0]
	if _, _, ok := model.SplitSeat(seat); !ok {
		return nil, apperrors.Parse(seatUsage)
	}

	paxID, segmentNo, err := parseAssociations(parts[1:], seatUsage)
	if err != nil {
		return nil, err
	}
	if paxID == 0 || segmentNo == 0 {
		return nil, apperrors.Parse(seatUsage)
	}

	return AssignSeatRequest{
		SeatNumber:    seat,
		PassengerID:   paxID,
		SegmentNumber: segmentNo,
	}, nil
}

// ParseReleaseSeat handles STX/P<n>/S<n>.
func ParseReleaseSeat(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimPrefix(cmd, VerbReleaseSeat)

	if !strings.HasPrefix(body, "/") {
		return nil, apperrors.Parse(seatReleaseUsage)
	}
	paxID, segmentNo, err := parseAssociations(strings.Split(body[1:], "/"), seatReleaseUsage)
	if err != nil {
		return nil, err
	}
	if paxID == 0 || segmentNo == 0 {
		return nil, apperrors.Parse(seatReleaseUsage)
	}

	return ReleaseSeatRequest{PassengerID: paxID, SegmentNumber: segmentNo}, nil
}
