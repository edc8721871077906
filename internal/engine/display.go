package engine

import (
	"fmt"
	"strings"

	"github.com/opengds/terminal-server-go/internal/model"
)

// renderPnr builds the terminal display of a booking record, the response
// body of RT and of every command that echoes the record back.
func renderPnr(p *model.Pnr) string {
	var b strings.Builder

	locator := p.RecordLocator
	if locator == "" {
		locator = "------"
	}
	fmt.Fprintf(&b, "--- RLR --- %s %s\n", locator, strings.ToUpper(string(p.Status)))

	for _, pax := range p.Passengers {
		name := fmt.Sprintf("%d.%s/%s", pax.ID, strings.ToUpper(pax.LastName), strings.ToUpper(pax.FirstName))
		if pax.Title != "" {
			name += " " + pax.Title
		}
		if pax.Type != model.PassengerTypeAdult {
			name += fmt.Sprintf(" (%s)", pax.Type)
		}
		b.WriteString(name + "\n")
	}

	for _, seg := range p.Segments {
		if seg.IsSurfaceSegment {
			fmt.Fprintf(&b, "%d  ARNK\n", seg.Number)
			continue
		}
		fmt.Fprintf(&b, "%d  %s %s %s %s%s %s%d %s %s\n",
			seg.Number, seg.FlightNumber, seg.BookingClass,
			strings.ToUpper(seg.DepartureDate.Format("02Jan")),
			seg.Origin, seg.Destination,
			segmentStatusCode(seg.Status), seg.Quantity,
			seg.DepartureTime, seg.ArrivalTime)
	}

	for _, seat := range p.SeatAssignments {
		fmt.Fprintf(&b, "ST %s P%d S%d\n", seat.SeatNumber, seat.PassengerID, seat.SegmentNumber)
	}

	if p.Contact != nil {
		if p.Contact.Phone != "" {
			line := "AP " + p.Contact.Phone
			if p.Contact.City != "" {
				line = "AP " + p.Contact.City + " " + p.Contact.Phone
			}
			b.WriteString(line + "\n")
		}
		if p.Contact.Email != "" {
			b.WriteString("APE " + p.Contact.Email + "\n")
		}
	}
	if p.Agency != nil {
		fmt.Fprintf(&b, "AAA %s/%s\n", p.Agency.City, p.Agency.IataCode)
	}

	for _, ssr := range p.Ssrs {
		line := fmt.Sprintf("SR%d %s %s", ssr.Number, ssr.Code, strings.ToUpper(string(ssr.Status)))
		if ssr.FreeText != "" {
			line += " " + ssr.FreeText
		}
		line += ssrAssociationSuffix(ssr.PassengerID, ssr.SegmentNumber)
		b.WriteString(line + "\n")
	}
	for _, osi := range p.Osis {
		fmt.Fprintf(&b, "OS %s %s\n", osi.Airline, osi.FreeText)
	}
	for _, rm := range p.Remarks {
		fmt.Fprintf(&b, "RM %s\n", rm.Text)
	}

	if p.TicketingInfo != nil && p.TicketingInfo.TimeLimit != nil {
		fmt.Fprintf(&b, "TKTL %s\n", strings.ToUpper(p.TicketingInfo.TimeLimit.Format("02Jan")))
	}
	for _, fare := range p.Fares {
		fmt.Fprintf(&b, "FARE P%d %s %.2f\n", fare.PassengerID, fare.Currency, fare.TotalAmount)
	}
	if p.FormOfPayment != nil {
		fmt.Fprintf(&b, "FP %s\n", fopDisplay(p.FormOfPayment))
	}
	for _, t := range p.Tickets {
		fmt.Fprintf(&b, "TKT %s P%d %s\n", t.Number, t.PassengerID, strings.ToUpper(string(t.Status)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// segmentStatusCode maps lifecycle states to the two-letter display codes
// agents read on the segment line.
func segmentStatusCode(s model.SegmentStatus) string {
	switch s {
	case model.SegmentStatusHolding:
		return "SS"
	case model.SegmentStatusRequestPending:
		return "PN"
	case model.SegmentStatusConfirmed:
		return "HK"
	case model.SegmentStatusWaitlisted:
		return "HL"
	case model.SegmentStatusCancelled:
		return "XX"
	case model.SegmentStatusFlown:
		return "FL"
	default:
		return "??"
	}
}

func ssrAssociationSuffix(passengerID, segmentNumber int) string {
	var suffix string
	if passengerID > 0 {
		suffix += fmt.Sprintf("/P%d", passengerID)
	}
	if segmentNumber > 0 {
		suffix += fmt.Sprintf("/S%d", segmentNumber)
	}
	return suffix
}

// fopDisplay masks card numbers down to the last four digits.
func fopDisplay(fop *model.FormOfPayment) string {
	switch fop.Kind {
	case "CC":
		return fmt.Sprintf("CC %s %s/%s", fop.CardVendor, maskCardNumber(fop.CardNumber), fop.CardExpiry)
	default:
		return fop.Kind
	}
}

func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("X", len(number)-4) + number[len(number)-4:]
}
