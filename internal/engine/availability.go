package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/parser"
)

// Cabin display order, premium first. Classes missing from this string
// sort after it in alphabetical order.
const classDisplayOrder = "FJCWYBMKLQ"

// Display counts cap at 9, terminal convention for "9 or more".
const displaySeatCap = 9

type AvailabilityLine struct {
	FlightNumber  string         `json:"flightNumber"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departureDate"`
	DepartureTime string         `json:"departureTime"`
	ArrivalTime   string         `json:"arrivalTime"`
	Seats         map[string]int `json:"seats"`
}

func (e *Engine) handleAvailability(ctx context.Context, req parser.AvailabilityRequest) (*Result, error) {
	date := req.Date.Resolve(e.nowFn())

	flights, err := e.flights.FindByRoute(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if len(flights) == 0 {
		return ok(fmt.Sprintf("NO FLIGHTS %s%s %s", req.Origin, req.Destination, req.Date), nil), nil
	}

	if req.PreferredTime != "" {
		// Closest departure to the requested time displays first.
		sort.SliceStable(flights, func(i, j int) bool {
			return timeDistance(flights[i].DepartureTime, req.PreferredTime) <
				timeDistance(flights[j].DepartureTime, req.PreferredTime)
		})
	}

	lines := make([]AvailabilityLine, 0, len(flights))
	var display strings.Builder
	fmt.Fprintf(&display, "** AVAILABILITY %s%s %s **\n", req.Origin, req.Destination, req.Date)

	for i, flight := range flights {
		cfg, err := e.flights.CabinConfig(ctx, flight.AircraftType)
		if err != nil {
			return nil, apperrors.Database(err)
		}

		var classes []string
		if cfg != nil {
			for class := range cfg.ClassRows {
				classes = append(classes, class)
			}
		}
		sortClasses(classes)

		seats := make(map[string]int, len(classes))
		var cells []string
		for _, class := range classes {
			inv, err := e.allocator.AvailableSeats(ctx, flight.FlightNumber, date, class)
			if err != nil || inv == nil {
				continue
			}
			remaining := inv.Remaining
			if remaining > displaySeatCap {
				remaining = displaySeatCap
			}
			seats[class] = remaining
			cells = append(cells, fmt.Sprintf("%s%d", class, remaining))
		}

		lines = append(lines, AvailabilityLine{
			FlightNumber:  flight.FlightNumber,
			Origin:        flight.Origin,
			Destination:   flight.Destination,
			DepartureDate: req.Date.String(),
			DepartureTime: flight.DepartureTime,
			ArrivalTime:   flight.ArrivalTime,
			Seats:         seats,
		})
		fmt.Fprintf(&display, "%d %s %s%s %s %s %s\n",
			i+1, flight.FlightNumber, flight.Origin, flight.Destination,
			flight.DepartureTime, flight.ArrivalTime, strings.Join(cells, " "))
	}

	return ok(strings.TrimRight(display.String(), "\n"), lines), nil
}

func sortClasses(classes []string) {
	sort.Slice(classes, func(i, j int) bool {
		pi, pj := strings.Index(classDisplayOrder, classes[i]), strings.Index(classDisplayOrder, classes[j])
		if pi == -1 && pj == -1 {
			return classes[i] < classes[j]
		}
		if pi == -1 {
			return false
		}
		if pj == -1 {
			return true
		}
		return pi < pj
	})
}

// timeDistance is the absolute gap in minutes between two HHMM strings.
func timeDistance(a, b string) int {
	d := hhmmMinutes(a) - hhmmMinutes(b)
	if d < 0 {
		return -d
	}
	return d
}

func hhmmMinutes(hhmm string) int {
	if len(hhmm) != 4 {
		return 0
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[2]-'0')*10 + int(hhmm[3]-'0')
	return h*60 + m
}
