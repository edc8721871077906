package engine

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
)

// MatchLine summarizes one hit of a multi-match retrieval.
type MatchLine struct {
	RecordLocator string `json:"recordLocator"`
	Name          string `json:"name"`
	FirstFlight   string `json:"firstFlight,omitempty"`
}

func (e *Engine) handleRetrieve(ctx context.Context, sess *model.Session, tokenHash string, req parser.RetrieveRequest) (*Result, error) {
	switch req.Mode {
	case parser.RetrieveCurrent:
		if ws := e.workspaces.Get(tokenHash); ws != nil {
			return ok(renderPnr(ws.Draft), ws.Draft), nil
		}
		if sess.ActiveLocator != "" {
			return e.openLocator(ctx, sess, tokenHash, sess.ActiveLocator)
		}
		// Session affinity fallback: the booking most recently committed
		// under this session id.
		pnr, err := e.pnrs.FindBySessionID(ctx, sess.SessionID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if pnr != nil {
			return e.openLocator(ctx, sess, tokenHash, pnr.RecordLocator)
		}
		return nil, apperrors.ValidationError("NO ACTIVE PNR - CREATE OR RETRIEVE FIRST")

	case parser.RetrieveByLocator:
		return e.openLocator(ctx, sess, tokenHash, req.Locator)

	case parser.RetrieveByName:
		pnrs, err := e.pnrs.FindByName(ctx, req.LastName, req.FirstName)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		return e.presentMatches(ctx, sess, tokenHash, pnrs,
			fmt.Sprintf("NO MATCH FOR %s", strings.ToUpper(req.LastName)))

	default:
		return nil, apperrors.Internal("unknown retrieve mode " + string(req.Mode))
	}
}

func (e *Engine) handleRetrieveByFlight(ctx context.Context, sess *model.Session, tokenHash string, req parser.RetrieveByFlightRequest) (*Result, error) {
	date := req.Date.Resolve(e.nowFn())
	pnrs, err := e.pnrs.FindByFlight(ctx, req.FlightNumber, date)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return e.presentMatches(ctx, sess, tokenHash, pnrs,
		fmt.Sprintf("NO MATCH FOR %s/%s", req.FlightNumber, req.Date))
}

func (e *Engine) handleRetrieveByPhone(ctx context.Context, sess *model.Session, tokenHash string, req parser.RetrieveByPhoneRequest) (*Result, error) {
	pnrs, err := e.pnrs.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return e.presentMatches(ctx, sess, tokenHash, pnrs, "NO MATCH FOR PHONE "+req.Phone)
}

func (e *Engine) handleRetrieveByTicket(ctx context.Context, sess *model.Session, tokenHash string, req parser.RetrieveByTicketRequest) (*Result, error) {
	pnrs, err := e.pnrs.FindByTicket(ctx, req.TicketNumber)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return e.presentMatches(ctx, sess, tokenHash, pnrs, "NO MATCH FOR TICKET "+req.TicketNumber)
}

func (e *Engine) handleRetrieveByFrequentFlyer(ctx context.Context, sess *model.Session, tokenHash string, req parser.RetrieveByFrequentFlyerRequest) (*Result, error) {
	pnrs, err := e.pnrs.FindByFrequentFlyer(ctx, req.FrequentFlyer)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return e.presentMatches(ctx, sess, tokenHash, pnrs, "NO MATCH FOR FF "+req.FrequentFlyer)
}

// openLocator loads a committed PNR into the session workspace. A draft
// with uncommitted inventory blocks the switch so its holds are not
// silently abandoned.
func (e *Engine) openLocator(ctx context.Context, sess *model.Session, tokenHash, locator string) (*Result, error) {
	if ws := e.workspaces.Get(tokenHash); ws != nil && ws.HasPendingInventory() {
		return nil, apperrors.Conflict("UNCOMMITTED CHANGES - END TRANSACTION OR IGNORE FIRST")
	}

	ws, err := e.coordinator.Load(ctx, tokenHash, sess.SessionID, locator)
	if err != nil {
		return nil, err
	}

	sess.ActiveLocator = locator
	if err := e.saveSession(ctx, tokenHash, sess); err != nil {
		return nil, err
	}
	return ok(renderPnr(ws.Draft), ws.Draft), nil
}

// presentMatches loads a unique hit directly and lists multiple hits for
// the agent to pick a locator from.
func (e *Engine) presentMatches(ctx context.Context, sess *model.Session, tokenHash string, pnrs []model.Pnr, noMatch string) (*Result, error) {
	switch len(pnrs) {
	case 0:
		return nil, apperrors.NotFound(noMatch)
	case 1:
		return e.openLocator(ctx, sess, tokenHash, pnrs[0].RecordLocator)
	}

	lines := make([]MatchLine, 0, len(pnrs))
	var display strings.Builder
	display.WriteString("SELECT BY RT<LOCATOR>\n")
	for i, pnr := range pnrs {
		line := MatchLine{RecordLocator: pnr.RecordLocator}
		if len(pnr.Passengers) > 0 {
			pax := pnr.Passengers[0]
			line.Name = strings.ToUpper(pax.LastName + "/" + pax.FirstName)
		}
		for _, seg := range pnr.ActiveSegments() {
			line.FirstFlight = fmt.Sprintf("%s %s", seg.FlightNumber,
				strings.ToUpper(seg.DepartureDate.Format("02Jan")))
			break
		}
		lines = append(lines, line)
		fmt.Fprintf(&display, "%d %s %s %s\n", i+1, line.RecordLocator, line.Name, line.FirstFlight)
	}
	return ok(strings.TrimRight(display.String(), "\n"), lines), nil
}
