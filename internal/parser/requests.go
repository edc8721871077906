package parser

import "github.com/opengds/terminal-server-go/internal/model"

// Request is the closed set of typed commands the dispatcher routes on.
// Each variant is produced by exactly one parse function in the registry.
type Request interface {
	Verb() string
}

type AvailabilityRequest struct {
	Date          DayMonth
	Origin        string
	Destination   string
	PreferredTime string // HHMM, empty when no slash suffix given
}

func (AvailabilityRequest) Verb() string { return VerbAvailability }

type NameEntry struct {
	FirstName string
	Title     string
	Type      model.PassengerType
}

type AddNameRequest struct {
	LastName string
	Entries  []NameEntry
}

func (AddNameRequest) Verb() string { return VerbAddName }

type SellSegmentRequest struct {
	FlightNumber string
	BookingClass string
	Date         DayMonth
	Origin       string
	Destination  string
	Quantity     int
}

func (SellSegmentRequest) Verb() string { return VerbSellSegment }

type SurfaceSegmentRequest struct{}

func (SurfaceSegmentRequest) Verb() string { return VerbSurfaceSegment }

type RetrieveMode string

const (
	RetrieveCurrent   RetrieveMode = "current"
	RetrieveByLocator RetrieveMode = "locator"
	RetrieveByName    RetrieveMode = "name"
)

type RetrieveRequest struct {
	Mode      RetrieveMode
	Locator   string
	LastName  string
	FirstName string
}

func (RetrieveRequest) Verb() string { return VerbRetrieve }

type RetrieveByFlightRequest struct {
	FlightNumber string
	Date         DayMonth
}

func (RetrieveByFlightRequest) Verb() string { return VerbRetrieveFlight }

type RetrieveByPhoneRequest struct {
	Phone string
}

func (RetrieveByPhoneRequest) Verb() string { return VerbRetrievePhone }

type RetrieveByTicketRequest struct {
	TicketNumber string
}

func (RetrieveByTicketRequest) Verb() string { return VerbRetrieveTicket }

type RetrieveByFrequentFlyerRequest struct {
	FrequentFlyer string
}

func (RetrieveByFrequentFlyerRequest) Verb() string { return VerbRetrieveFF }

type ContactPhoneRequest struct {
	City      string
	Phone     string
	Qualifier string // H home, B business, M mobile
}

func (ContactPhoneRequest) Verb() string { return VerbContactPhone }

type ContactEmailRequest struct {
	Email string
}

func (ContactEmailRequest) Verb() string { return VerbContactEmail }

type AgencyRequest struct {
	City     string
	IataCode string
}

func (AgencyRequest) Verb() string { return VerbAgency }

type RemarkRequest struct {
	Text string
}

func (RemarkRequest) Verb() string { return VerbRemark }

type AddSsrRequest struct {
	Code          string
	PassengerID   int // 0 = all passengers
	SegmentNumber int // 0 = all segments
	FreeText      string
}

func (AddSsrRequest) Verb() string { return VerbAddSsr }

type ListSsrRequest struct{}

func (ListSsrRequest) Verb() string { return VerbListSsr }

type DeleteSsrRequest struct {
	Number int
}

func (DeleteSsrRequest) Verb() string { return VerbDeleteSsr }

type DocumentRequest struct {
	Document    model.Document
	PassengerID int
}

func (DocumentRequest) Verb() string { return VerbDocuments }

type AddOsiRequest struct {
	Airline     string
	FreeText    string
	PassengerID int
}

func (AddOsiRequest) Verb() string { return VerbAddOsi }

type AssignSeatRequest struct {
	SeatNumber    string
	PassengerID   int
	SegmentNumber int
}

func (AssignSeatRequest) Verb() string { return VerbAssignSeat }

type ReleaseSeatRequest struct {
	PassengerID   int
	SegmentNumber int
}

func (ReleaseSeatRequest) Verb() string { return VerbReleaseSeat }

type PricingRequest struct {
	IsReprice bool
	Currency  string // empty = agency default
	// SkippedOptions are modifiers the parser did not recognize and
	// dropped; the handler reports them in the command log.
	SkippedOptions []string
}

func (PricingRequest) Verb() string { return VerbPricing }

type FormOfPaymentRequest struct {
	Kind       string
	CardVendor string
	CardNumber string
	CardExpiry string
}

func (FormOfPaymentRequest) Verb() string { return VerbFormOfPayment }

type IssueTicketsRequest struct{}

func (IssueTicketsRequest) Verb() string { return VerbIssueTickets }

type CheckInRequest struct {
	PassengerID   int
	SegmentNumber int
}

func (CheckInRequest) Verb() string { return VerbCheckIn }

type TimeLimitRequest struct {
	Date DayMonth
}

func (TimeLimitRequest) Verb() string { return VerbTimeLimit }

type DeleteElementRequest struct {
	Number int
}

func (DeleteElementRequest) Verb() string { return VerbDeleteElement }

type CancelItineraryRequest struct{}

func (CancelItineraryRequest) Verb() string { return VerbCancelItinerary }

type CommitRequest struct {
	// Recall keeps the workspace loaded with the freshly committed state
	// (ET); otherwise the workspace is cleared after commit (ER).
	Recall bool
}

func (r CommitRequest) Verb() string {
	if r.Recall {
		return VerbCommit
	}
	return VerbCommitClear
}

type IgnoreRequest struct{}

func (IgnoreRequest) Verb() string { return VerbIgnore }
