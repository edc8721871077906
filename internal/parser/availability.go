package parser

import (
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
)

const availabilityUsage = "INVALID AVAILABILITY FORMAT - USE AN20JUNLHRJFK/1400"

// ParseAvailability handles AN<date><origin><dest>[/<time>].
// Fixed positions: chars 2-6 date, 7-9 origin, 10-12 destination.
func ParseAvailability(raw string) (Request, error) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))

	body := strings.TrimPrefix(cmd, VerbAvailability)

	var preferred string
	if idx := strings.IndexByte(body, '/'); idx >= 0 {
		preferred = body[idx+1:]
		body = body[:idx]
		if !validTime(preferred) {
			return nil, apperrors.Parse(availabilityUsage)
		}
	}

	if len(body) != 11 {
		return nil, apperrors.Parse(availabilityUsage)
	}

	date, ok := ParseDayMonth(body[:5])
	if !ok {
		return nil, apperrors.Parse(availabilityUsage)
	}
	origin, dest := body[5:8], body[8:11]
	if !validStation(origin) || !validStation(dest) {
		return nil, apperrors.Parse(availabilityUsage)
	}

	return AvailabilityRequest{
		Date:          date,
		Origin:        origin,
		Destination:   dest,
		PreferredTime: preferred,
	}, nil
}
