package parser

import (
	"strconv"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

const sellUsage = "INVALID SELL FORMAT - USE SS VS001Y20JUNLHRJFK1"

// ParseSellSegment handles SS <flight><class><date><origin><dest><qty>.
// Fixed positions after the space: flight 5, class 1, date 5, origin 3,
// destination 3, quantity is the remaining digits.
func ParseSellSegment(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	body := strings.TrimSpace(strings.TrimPrefix(cmd, VerbSellSegment))

	if len(body) < 18 {
		return nil, apperrors.Parse(sellUsage)
	}

	flight := body[:5]
	class := body[5:6]
	date, ok := ParseDayMonth(body[6:11])
	if !ok {
		return nil, apperrors.Parse(sellUsage)
	}
	origin, dest := body[11:14], body[14:17]
	if !validStation(origin) || !validStation(dest) {
		return nil, apperrors.Parse(sellUsage)
	}

	qty, err := strconv.Atoi(body[17:])
	if err != nil || qty < 1 || qty > 9 {
		return nil, apperrors.Parse(sellUsage)
	}

	if !validFlightNumber(flight) || class[0] < 'A' || class[0] > 'Z' {
		return nil, apperrors.Parse(sellUsage)
	}

	return SellSegmentRequest{
		FlightNumber: flight,
		BookingClass: class,
		Date:         date,
		Origin:       origin,
		Destination:  dest,
		Quantity:     qty,
	}, nil
}

// ParseSurfaceSegment handles the bare ARNK entry.
func ParseSurfaceSegment(raw string) (Request, error) {
	if strings.ToUpper(strings.TrimSpace(raw)) != VerbSurfaceSegment {
		return nil, apperrors.Parse("INVALID SURFACE SEGMENT FORMAT - USE ARNK")
	}
	return SurfaceSegmentRequest{}, nil
}

// validFlightNumber checks the fixed 5-character airline code + number form.
func validFlightNumber(flight string) bool {
	if len(flight) != 5 {
		return false
	}
	for i := 0; i < 2; i++ {
		if flight[i] < 'A' || flight[i] > 'Z' {
			return false
		}
	}
	for i := 2; i < 5; i++ {
		if flight[i] < '0' || flight[i] > '9' {
			return false
		}
	}
	return true
}
