package engine

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

func (e *Engine) handleAddSsr(ctx context.Context, tokenHash string, req parser.AddSsrRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	if err := validateAssociations(ws, req.PassengerID, req.SegmentNumber); err != nil {
		return nil, err
	}

	ssr := model.Ssr{
		Number:        nextSsrNumber(ws.Draft),
		Code:          req.Code,
		Status:        model.SsrStatusRequested,
		PassengerID:   req.PassengerID,
		SegmentNumber: req.SegmentNumber,
		FreeText:      req.FreeText,
		CreatedAt:     e.nowFn(),
	}
	ws.Draft.Ssrs = append(ws.Draft.Ssrs, ssr)
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("SR%d %s REQUESTED", ssr.Number, ssr.Code), ws.Draft), nil
}

func (e *Engine) handleListSsr(tokenHash string) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	if len(ws.Draft.Ssrs) == 0 {
		return ok("NO SSR ELEMENTS", nil), nil
	}

	var display strings.Builder
	for _, ssr := range ws.Draft.Ssrs {
		line := fmt.Sprintf("SR%d %s %s", ssr.Number, ssr.Code, strings.ToUpper(string(ssr.Status)))
		if ssr.FreeText != "" {
			line += " " + ssr.FreeText
		}
		line += ssrAssociationSuffix(ssr.PassengerID, ssr.SegmentNumber)
		display.WriteString(line + "\n")
	}
	return ok(strings.TrimRight(display.String(), "\n"), ws.Draft.Ssrs), nil
}

func (e *Engine) handleDeleteSsr(tokenHash string, req parser.DeleteSsrRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	for i := range ws.Draft.Ssrs {
		ssr := &ws.Draft.Ssrs[i]
		if ssr.Number != req.Number {
			continue
		}
		status, err := ssr.Status.Transition(model.SsrStatusCancelled)
		if err != nil {
			return nil, err
		}
		ssr.Status = status
		ws.Draft.UpdatedAt = e.nowFn()
		return ok(fmt.Sprintf("SR%d CANCELLED", req.Number), ws.Draft), nil
	}
	return nil, apperrors.NotFound(fmt.Sprintf("SSR %d", req.Number))
}

// handleDocuments runs the APIS checks before the draft is touched; a
// rejected document leaves the passenger unchanged.
func (e *Engine) handleDocuments(ctx context.Context, tokenHash string, req parser.DocumentRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	pax := ws.Draft.Passenger(req.PassengerID)
	if pax == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("PASSENGER %d", req.PassengerID))
	}

	travelDate := e.nowFn()
	if segments := ws.Draft.ActiveSegments(); len(segments) > 0 {
		travelDate = segments[len(segments)-1].DepartureDate
	}
	apisCtx, cancel := collabContext(ctx)
	defer cancel()
	if err := e.apis.Validate(apisCtx, req.Document, travelDate); err != nil {
		return nil, err
	}

	pax.Documents = append(pax.Documents, req.Document)
	ws.Draft.Ssrs = append(ws.Draft.Ssrs, model.Ssr{
		Number:      nextSsrNumber(ws.Draft),
		Code:        "DOCS",
		Status:      model.SsrStatusConfirmed,
		PassengerID: req.PassengerID,
		FreeText:    fmt.Sprintf("%s %s %s", req.Document.Type, req.Document.IssuingCountry, req.Document.Number),
		CreatedAt:   e.nowFn(),
	})
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("DOCUMENT ADDED FOR PASSENGER %d", req.PassengerID), ws.Draft), nil
}

func (e *Engine) handleAddOsi(tokenHash string, req parser.AddOsiRequest) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}
	if err := validateAssociations(ws, req.PassengerID, 0); err != nil {
		return nil, err
	}

	osi := model.Osi{
		Number:      len(ws.Draft.Osis) + 1,
		Airline:     req.Airline,
		Status:      model.SsrStatusNoAction,
		PassengerID: req.PassengerID,
		FreeText:    req.FreeText,
		CreatedAt:   e.nowFn(),
	}
	ws.Draft.Osis = append(ws.Draft.Osis, osi)
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("OSI %s ADDED", req.Airline), ws.Draft), nil
}

// nextSsrNumber keeps SSR numbering stable across deletes, matching
// passenger id behavior.
func nextSsrNumber(p *model.Pnr) int {
	max := 0
	for _, ssr := range p.Ssrs {
		if ssr.Number > max {
			max = ssr.Number
		}
	}
	return max + 1
}

// validateAssociations rejects /P and /S references to elements that are
// not in the draft. Zero means "applies to all" and always passes.
func validateAssociations(ws *workspace.Workspace, passengerID, segmentNumber int) error {
	if passengerID > 0 && ws.Draft.Passenger(passengerID) == nil {
		return apperrors.NotFound(fmt.Sprintf("PASSENGER %d", passengerID))
	}
	if segmentNumber > 0 {
		seg := ws.Draft.Segment(segmentNumber)
		if seg == nil || seg.IsSurfaceSegment {
			return apperrors.NotFound(fmt.Sprintf("SEGMENT %d", segmentNumber))
		}
	}
	return nil
}
