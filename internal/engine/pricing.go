package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/opengds/terminal-server-go/internal/collab"
	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
)

func (e *Engine) handlePricing(ctx context.Context, tokenHash string, req parser.PricingRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	if len(req.SkippedOptions) > 0 {
		// The parser drops unknown modifiers instead of failing. Keep a
		// trace so a fat-fingered option is diagnosable after the fact.
		log.Warn().
			Strs("options", req.SkippedOptions).
			Str("sessionId", ws.SessionID).
			Msg("pricing options ignored")
	}
	if len(ws.Draft.Fares) > 0 && !req.IsReprice {
		return nil, apperrors.Conflict("ALREADY PRICED - USE FXP R TO REPRICE")
	}

	quoteCtx, cancel := collabContext(ctx)
	defer cancel()
	fares, err := e.quoter.Quote(quoteCtx, ws.Draft, collab.PricingOptions{Currency: req.Currency})
	if err != nil {
		return nil, err
	}

	ws.Draft.Fares = fares
	for i := range ws.Draft.Segments {
		if ws.Draft.Segments[i].Status.Active() && !ws.Draft.Segments[i].IsSurfaceSegment {
			ws.Draft.Segments[i].Priced = true
		}
	}
	ws.Draft.UpdatedAt = e.nowFn()

	var total float64
	currency := ""
	var display strings.Builder
	for _, fare := range fares {
		total += fare.TotalAmount
		currency = fare.Currency
		fmt.Fprintf(&display, "P%d %s %s %.2f\n", fare.PassengerID, fare.FareBasis, fare.Currency, fare.TotalAmount)
	}
	fmt.Fprintf(&display, "TOTAL %s %.2f", currency, total)

	return ok(display.String(), fares), nil
}

func (e *Engine) handleFormOfPayment(tokenHash string, req parser.FormOfPaymentRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	// The full card number stays in the draft until ticketing authorizes
	// it; the committed document only ever carries the masked form.
	ws.Draft.FormOfPayment = &model.FormOfPayment{
		Kind:       req.Kind,
		CardVendor: req.CardVendor,
		CardNumber: req.CardNumber,
		CardExpiry: req.CardExpiry,
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok("FORM OF PAYMENT ADDED - "+fopDisplay(ws.Draft.FormOfPayment), ws.Draft), nil
}

func (e *Engine) handleTimeLimit(tokenHash string, req parser.TimeLimitRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	deadline := req.Date.Resolve(e.nowFn())
	if ws.Draft.TicketingInfo == nil {
		ws.Draft.TicketingInfo = &model.TicketingInfo{}
	}
	ws.Draft.TicketingInfo.TimeLimit = &deadline
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("TICKETING TIME LIMIT %s", req.Date), ws.Draft), nil
}
