// Package collab defines the downstream services the reservation engine
// depends on. Each contract takes a context and either fully succeeds or
// returns an error; the engine applies no workspace mutation until the
// collaborator has answered.
package collab

import (
	"context"
	"time"

	"github.com/opengds/terminal-server-go/internal/model"
)

// PricingOptions carries the modifiers accepted by a pricing request.
type PricingOptions struct {
	Currency string // ISO 4217, empty means quoter default
}

type FareQuoter interface {
	Quote(ctx context.Context, pnr *model.Pnr, opts PricingOptions) ([]model.Fare, error)
}

type TicketIssuer interface {
	Issue(ctx context.Context, pnr *model.Pnr, now time.Time) ([]model.Ticket, error)
}

type CheckInAgent interface {
	CheckIn(ctx context.Context, pnr *model.Pnr, passengerID, segmentNumber int, now time.Time) (model.BoardingRecord, error)
}

type PaymentGateway interface {
	Authorize(ctx context.Context, fop model.FormOfPayment, amount float64, currency string) (string, error)
}

type ApisValidator interface {
	Validate(ctx context.Context, doc model.Document, travelDate time.Time) error
}
