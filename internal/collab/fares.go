package collab

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

const (
	defaultCurrency = "USD"
	taxRate         = 0.12
)

// Flat base amounts per booking class and segment. A real quoter would
// consult a fare filing; this one is deterministic so repricing the same
// itinerary always returns the same totals.
var classBaseFares = map[string]float64{
	"F": 1200.00,
	"J": 850.00,
	"C": 700.00,
	"W": 420.00,
	"Y": 300.00,
	"B": 260.00,
	"M": 220.00,
	"K": 180.00,
	"L": 150.00,
	"Q": 120.00,
}

// Discounts applied off the adult fare by passenger type.
var typeDiscounts = map[model.PassengerType]float64{
	model.PassengerTypeChild:  0.25,
	model.PassengerTypeInfant: 0.90,
	model.PassengerTypeSenior: 0.10,
}

// LocalFareQuoter prices an itinerary from the in-process fare table.
type LocalFareQuoter struct {
	nowFn func() time.Time
}

func NewLocalFareQuoter() *LocalFareQuoter {
	return &LocalFareQuoter{nowFn: time.Now}
}

func (q *LocalFareQuoter) Quote(ctx context.Context, pnr *model.Pnr, opts PricingOptions) ([]model.Fare, error) {
	segments := pnr.ActiveSegments()
	if len(segments) == 0 {
		return nil, apperrors.ValidationError("NO ACTIVE ITINERARY TO PRICE")
	}
	if len(pnr.Passengers) == 0 {
		return nil, apperrors.ValidationError("NO NAMES IN PNR")
	}

	currency := opts.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var perPaxBase float64
	var basisClasses []string
	for _, seg := range segments {
		base, ok := classBaseFares[seg.BookingClass]
		if !ok {
			return nil, apperrors.Collaborator("fare-quoter",
				fmt.Errorf("no fare filed for class %s", seg.BookingClass))
		}
		perPaxBase += base
		basisClasses = append(basisClasses, seg.BookingClass)
	}

	now := q.nowFn()
	fares := make([]model.Fare, 0, len(pnr.Passengers))
	for _, pax := range pnr.Passengers {
		base := perPaxBase
		if discount, ok := typeDiscounts[pax.Type]; ok {
			base = base * (1 - discount)
		}
		tax := base * taxRate
		fares = append(fares, model.Fare{
			PassengerID: pax.ID,
			BaseAmount:  base,
			TaxAmount:   tax,
			TotalAmount: base + tax,
			Currency:    currency,
			FareBasis:   strings.Join(basisClasses, "") + "OW",
			QuotedAt:    now,
		})
	}
	return fares, nil
}
