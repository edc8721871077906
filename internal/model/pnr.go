package model

import "time"

type PassengerType string

const (
	PassengerTypeAdult    PassengerType = "ADT"
	PassengerTypeChild    PassengerType = "CHD"
	PassengerTypeInfant   PassengerType = "INF"
	PassengerTypeStudent  PassengerType = "STU"
	PassengerTypeSenior   PassengerType = "SRC"
	PassengerTypeMilitary PassengerType = "MIL"
)

// Pnr is the booking record. The same type serves as the session-owned
// draft (no record locator until first commit) and, serialized to the
// document column, as the committed store row.
type Pnr struct {
	RecordLocator   string           `json:"recordLocator,omitempty"`
	Status          PnrStatus        `json:"status"`
	Passengers      []Passenger      `json:"passengers"`
	Segments        []Segment        `json:"segments"`
	SeatAssignments []SeatAssignment `json:"seatAssignments,omitempty"`
	Ssrs            []Ssr            `json:"ssrs,omitempty"`
	Osis            []Osi            `json:"osis,omitempty"`
	Remarks         []Remark         `json:"remarks,omitempty"`
	Contact         *Contact         `json:"contact,omitempty"`
	Agency          *Agency          `json:"agency,omitempty"`
	TicketingInfo   *TicketingInfo   `json:"ticketingInfo,omitempty"`
	Fares           []Fare           `json:"fares,omitempty"`
	Tickets         []Ticket         `json:"tickets,omitempty"`
	FormOfPayment   *FormOfPayment   `json:"formOfPayment,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func NewPnr(now time.Time) *Pnr {
	return &Pnr{
		Status:    PnrStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NextPassengerID returns the next stable passenger id. Ids are never
// reused, even after a passenger is deleted.
func (p *Pnr) NextPassengerID() int {
	max := 0
	for _, pax := range p.Passengers {
		if pax.ID > max {
			max = pax.ID
		}
	}
	return max + 1
}

// NextSegmentNumber returns the next itinerary element number.
func (p *Pnr) NextSegmentNumber() int {
	max := 0
	for _, seg := range p.Segments {
		if seg.Number > max {
			max = seg.Number
		}
	}
	return max + 1
}

func (p *Pnr) Passenger(id int) *Passenger {
	for i := range p.Passengers {
		if p.Passengers[i].ID == id {
			return &p.Passengers[i]
		}
	}
	return nil
}

func (p *Pnr) Segment(number int) *Segment {
	for i := range p.Segments {
		if p.Segments[i].Number == number {
			return &p.Segments[i]
		}
	}
	return nil
}

// ActiveSegments returns the segments that currently hold inventory,
// surface segments excluded.
func (p *Pnr) ActiveSegments() []Segment {
	var out []Segment
	for _, seg := range p.Segments {
		if !seg.IsSurfaceSegment && seg.Status.Active() {
			out = append(out, seg)
		}
	}
	return out
}

// FareFor returns the fare quoted for a passenger, or nil.
func (p *Pnr) FareFor(passengerID int) *Fare {
	for i := range p.Fares {
		if p.Fares[i].PassengerID == passengerID {
			return &p.Fares[i]
		}
	}
	return nil
}

type Passenger struct {
	ID            int           `json:"id"`
	LastName      string        `json:"lastName"`
	FirstName     string        `json:"firstName"`
	Title         string        `json:"title,omitempty"`
	Type          PassengerType `json:"type"`
	FrequentFlyer string        `json:"frequentFlyer,omitempty"`
	Documents     []Document    `json:"documents,omitempty"`
}

// Document is a travel document captured through SRDOCS (APIS data).
type Document struct {
	Type           string    `json:"type"` // P = passport, I = identity card
	Number         string    `json:"number"`
	IssuingCountry string    `json:"issuingCountry"`
	Nationality    string    `json:"nationality"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	ExpiryDate     time.Time `json:"expiryDate"`
	Surname        string    `json:"surname"`
	GivenName      string    `json:"givenName"`
}

type Contact struct {
	City  string `json:"city,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Agency struct {
	City     string `json:"city"`
	IataCode string `json:"iataCode"`
	AgentID  string `json:"agentId"`
}

type TicketingInfo struct {
	TimeLimit *time.Time `json:"timeLimit,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
}

type Remark struct {
	Number    int       `json:"number"`
	Text      string    `json:"text"`
	AgentID   string    `json:"agentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Fare struct {
	PassengerID int       `json:"passengerId"`
	BaseAmount  float64   `json:"baseAmount"`
	TaxAmount   float64   `json:"taxAmount"`
	TotalAmount float64   `json:"totalAmount"`
	Currency    string    `json:"currency"`
	FareBasis   string    `json:"fareBasis,omitempty"`
	QuotedAt    time.Time `json:"quotedAt"`
}

type FormOfPayment struct {
	Kind       string `json:"kind"` // CASH, CC, INV
	CardVendor string `json:"cardVendor,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"` // masked on store
	CardExpiry string `json:"cardExpiry,omitempty"`
	AuthCode   string `json:"authCode,omitempty"`
}
