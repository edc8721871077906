// Package engine dispatches parsed terminal commands to their handlers.
// The dispatch table is the closed type switch in Execute: every request
// variant the parser can produce has exactly one arm, and an unmatched
// variant is a programming error, not a user error.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opengds/terminal-server-go/internal/collab"
	"github.com/opengds/terminal-server-go/internal/config"
	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/inventory"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
	"github.com/opengds/terminal-server-go/internal/repository"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

// Result is the uniform command envelope returned to the terminal.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
}

func ok(message string, payload any) *Result {
	return &Result{Success: true, Message: message, Payload: payload}
}

// Deps collects everything a handler may touch. All fields are required
// except NowFn, which defaults to time.Now.
type Deps struct {
	Registry    *parser.Registry
	Workspaces  *workspace.Manager
	Coordinator *workspace.Coordinator
	Allocator   *inventory.Allocator
	Flights     repository.FlightRepository
	Pnrs        repository.PnrRepository
	Sessions    repository.SessionRepository
	Quoter      collab.FareQuoter
	Issuer      collab.TicketIssuer
	CheckIn     collab.CheckInAgent
	Payments    collab.PaymentGateway
	Apis        collab.ApisValidator
	SessionTTL  time.Duration
	NowFn       func() time.Time
}

type Engine struct {
	registry    *parser.Registry
	workspaces  *workspace.Manager
	coordinator *workspace.Coordinator
	allocator   *inventory.Allocator
	flights     repository.FlightRepository
	pnrs        repository.PnrRepository
	sessions    repository.SessionRepository
	quoter      collab.FareQuoter
	issuer      collab.TicketIssuer
	checkin     collab.CheckInAgent
	payments    collab.PaymentGateway
	apis        collab.ApisValidator
	sessionTTL  time.Duration
	nowFn       func() time.Time

	mu       sync.Mutex
	cmdLocks map[string]*sync.Mutex
}

func New(deps Deps) *Engine {
	nowFn := deps.NowFn
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Engine{
		registry:    deps.Registry,
		workspaces:  deps.Workspaces,
		coordinator: deps.Coordinator,
		allocator:   deps.Allocator,
		flights:     deps.Flights,
		pnrs:        deps.Pnrs,
		sessions:    deps.Sessions,
		quoter:      deps.Quoter,
		issuer:      deps.Issuer,
		checkin:     deps.CheckIn,
		payments:    deps.Payments,
		apis:        deps.Apis,
		sessionTTL:  deps.SessionTTL,
		nowFn:       nowFn,
		cmdLocks:    make(map[string]*sync.Mutex),
	}
}

// Execute parses and runs one raw command for a signed-in session.
// Commands within one session run in submission order under the session
// lock; handlers never run concurrently for the same token.
func (e *Engine) Execute(ctx context.Context, sess *model.Session, tokenHash, raw string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("command", raw).Msg("command handler panicked")
			result = nil
			err = apperrors.Internal("COMMAND FAILED")
		}
	}()

	req, err := e.registry.Resolve(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	unlock := e.lockSession(tokenHash)
	defer unlock()

	switch req := req.(type) {
	case parser.AvailabilityRequest:
		return e.handleAvailability(ctx, req)
	case parser.AddNameRequest:
		return e.handleAddName(ctx, sess, tokenHash, req)
	case parser.SellSegmentRequest:
		return e.handleSellSegment(ctx, sess, tokenHash, req)
	case parser.SurfaceSegmentRequest:
		return e.handleSurfaceSegment(ctx, sess, tokenHash)
	case parser.DeleteElementRequest:
		return e.handleDeleteElement(ctx, tokenHash, req)
	case parser.CancelItineraryRequest:
		return e.handleCancelItinerary(ctx, tokenHash)
	case parser.RetrieveRequest:
		return e.handleRetrieve(ctx, sess, tokenHash, req)
	case parser.RetrieveByFlightRequest:
		return e.handleRetrieveByFlight(ctx, sess, tokenHash, req)
	case parser.RetrieveByPhoneRequest:
		return e.handleRetrieveByPhone(ctx, sess, tokenHash, req)
	case parser.RetrieveByTicketRequest:
		return e.handleRetrieveByTicket(ctx, sess, tokenHash, req)
	case parser.RetrieveByFrequentFlyerRequest:
		return e.handleRetrieveByFrequentFlyer(ctx, sess, tokenHash, req)
	case parser.ContactPhoneRequest:
		return e.handleContactPhone(ctx, sess, tokenHash, req)
	case parser.ContactEmailRequest:
		return e.handleContactEmail(ctx, sess, tokenHash, req)
	case parser.AgencyRequest:
		return e.handleAgency(ctx, sess, tokenHash, req)
	case parser.RemarkRequest:
		return e.handleRemark(ctx, sess, tokenHash, req)
	case parser.AddSsrRequest:
		return e.handleAddSsr(ctx, tokenHash, req)
	case parser.ListSsrRequest:
		return e.handleListSsr(tokenHash)
	case parser.DeleteSsrRequest:
		return e.handleDeleteSsr(tokenHash, req)
	case parser.DocumentRequest:
		return e.handleDocuments(ctx, tokenHash, req)
	case parser.AddOsiRequest:
		return e.handleAddOsi(tokenHash, req)
	case parser.AssignSeatRequest:
		return e.handleAssignSeat(ctx, tokenHash, req)
	case parser.ReleaseSeatRequest:
		return e.handleReleaseSeat(ctx, tokenHash, req)
	case parser.PricingRequest:
		return e.handlePricing(ctx, tokenHash, req)
	case parser.FormOfPaymentRequest:
		return e.handleFormOfPayment(tokenHash, req)
	case parser.IssueTicketsRequest:
		return e.handleIssueTickets(ctx, tokenHash)
	case parser.CheckInRequest:
		return e.handleCheckIn(ctx, tokenHash, req)
	case parser.TimeLimitRequest:
		return e.handleTimeLimit(tokenHash, req)
	case parser.CommitRequest:
		return e.handleCommit(ctx, sess, tokenHash, req.Recall)
	case parser.IgnoreRequest:
		return e.handleIgnore(ctx, sess, tokenHash)
	default:
		return nil, apperrors.Internal("no handler for verb " + req.Verb())
	}
}

func (e *Engine) lockSession(tokenHash string) func() {
	e.mu.Lock()
	lock, okLock := e.cmdLocks[tokenHash]
	if !okLock {
		lock = &sync.Mutex{}
		e.cmdLocks[tokenHash] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ReleaseSession drops the per-token command lock after sign-out.
func (e *Engine) ReleaseSession(tokenHash string) {
	e.mu.Lock()
	delete(e.cmdLocks, tokenHash)
	e.mu.Unlock()
}

// ensureWorkspace returns the session's open workspace, reopening the
// active committed PNR or starting a fresh draft when none is open.
func (e *Engine) ensureWorkspace(ctx context.Context, sess *model.Session, tokenHash string) (*workspace.Workspace, error) {
	if ws := e.workspaces.Get(tokenHash); ws != nil {
		return ws, nil
	}
	if sess.ActiveLocator != "" {
		return e.coordinator.Load(ctx, tokenHash, sess.SessionID, sess.ActiveLocator)
	}
	return e.workspaces.GetOrCreate(tokenHash, sess.SessionID, e.nowFn()), nil
}

// requireWorkspace is ensureWorkspace for commands that only make sense
// against an already-open draft.
func (e *Engine) requireWorkspace(tokenHash string) (*workspace.Workspace, error) {
	ws := e.workspaces.Get(tokenHash)
	if ws == nil {
		return nil, apperrors.ValidationError("NO ACTIVE PNR - CREATE OR RETRIEVE FIRST")
	}
	return ws, nil
}

// collabContext bounds a collaborator call so a stalled fare, payment,
// check-in or APIS backend cannot hold the session lock for the whole
// request timeout.
func collabContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.CollaboratorTimeout)
}

func (e *Engine) saveSession(ctx context.Context, tokenHash string, sess *model.Session) error {
	if err := e.sessions.Save(ctx, tokenHash, sess, e.sessionTTL); err != nil {
		return apperrors.Database(err)
	}
	return nil
}
