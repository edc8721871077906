package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/inventory"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/repository"
	"github.com/opengds/terminal-server-go/internal/util"
)

const locatorRetries = 5

// Coordinator implements the end-transaction and ignore contracts: commit
// persists the draft and clears the journal; discard replays the journal
// against the allocator and drops the draft.
type Coordinator struct {
	pnrRepo   repository.PnrRepository
	allocator *inventory.Allocator
	manager   *Manager
}

func NewCoordinator(pnrRepo repository.PnrRepository, allocator *inventory.Allocator, manager *Manager) *Coordinator {
	return &Coordinator{
		pnrRepo:   pnrRepo,
		allocator: allocator,
		manager:   manager,
	}
}

// Commit persists the workspace document. The locator is assigned on first
// commit and stable afterwards. Concurrent commits of the same locator
// serialize on the store's version check; the loser gets a CONFLICT and
// must retrieve the fresh state. Inventory is NOT re-validated here: holds
// were taken eagerly at handler time and become durable by the journal
// being cleared.
func (c *Coordinator) Commit(ctx context.Context, ws *Workspace, recall bool) (*model.Pnr, error) {
	if ws.Draft == nil {
		return nil, apperrors.ValidationError("NO ACTIVE PNR")
	}

	if ws.Draft.RecordLocator == "" {
		if err := c.commitNew(ctx, ws); err != nil {
			return nil, err
		}
	} else {
		version, err := c.pnrRepo.Save(ctx, ws.Draft, ws.SessionID, ws.BaseVersion)
		if err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil, repository.ErrVersionConflict
			}
			return nil, apperrors.Database(err)
		}
		ws.BaseVersion = version
	}

	ws.ClearJournal()
	log.Info().
		Str("sessionId", ws.SessionID).
		Str("recordLocator", ws.Draft.RecordLocator).
		Int64("version", ws.BaseVersion).
		Msg("pnr committed")

	committed := ws.Draft
	if recall {
		// ET keeps the workspace, reloaded from the committed state.
		reloaded, version, err := c.pnrRepo.FindByLocator(ctx, committed.RecordLocator)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if reloaded != nil {
			ws.Draft = reloaded
			ws.BaseVersion = version
			committed = reloaded
		}
	} else {
		c.manager.Drop(ws.TokenHash)
	}
	return committed, nil
}

func (c *Coordinator) commitNew(ctx context.Context, ws *Workspace) error {
	for attempt := 0; attempt < locatorRetries; attempt++ {
		ws.Draft.RecordLocator = util.GenerateRecordLocator()
		version, err := c.pnrRepo.Save(ctx, ws.Draft, ws.SessionID, 0)
		if err == nil {
			ws.BaseVersion = version
			return nil
		}
		if !isUniqueViolation(err) {
			ws.Draft.RecordLocator = ""
			return apperrors.Database(err)
		}
	}
	ws.Draft.RecordLocator = ""
	return apperrors.Internal(fmt.Sprintf("record locator space exhausted after %d attempts", locatorRetries))
}

// Discard reverses every inventory effect journaled since the last commit
// and drops the workspace: holds taken this transaction are returned, and
// committed holds the handlers released are taken back. Failures are logged
// and skipped so one bad key cannot strand the rest of the journal.
func (c *Coordinator) Discard(ctx context.Context, ws *Workspace) {
	reservations, seatHolds := ws.Journal()
	released, seatsReleased := ws.Released()

	for _, h := range seatHolds {
		if err := c.allocator.ReleaseSeat(ctx, h.FlightNumber, h.Date, h.SeatNumber); err != nil {
			log.Error().Err(err).
				Str("flight", h.FlightNumber).
				Str("seat", h.SeatNumber).
				Msg("discard: seat release failed")
		}
	}
	for _, r := range reservations {
		if err := c.allocator.Release(ctx, r.FlightNumber, r.Date, r.Class, r.Quantity); err != nil {
			log.Error().Err(err).
				Str("flight", r.FlightNumber).
				Str("class", r.Class).
				Int("qty", r.Quantity).
				Msg("discard: inventory release failed")
		}
	}
	for _, r := range released {
		if err := c.allocator.Sell(ctx, r.FlightNumber, r.Date, r.Class, r.Quantity); err != nil {
			log.Error().Err(err).
				Str("flight", r.FlightNumber).
				Str("class", r.Class).
				Int("qty", r.Quantity).
				Msg("discard: committed hold could not be re-taken")
		}
	}
	for _, h := range seatsReleased {
		if err := c.allocator.AssignSeat(ctx, h.FlightNumber, h.Date, h.Class, h.SeatNumber, h.PassengerRef); err != nil {
			log.Error().Err(err).
				Str("flight", h.FlightNumber).
				Str("seat", h.SeatNumber).
				Msg("discard: committed seat could not be re-occupied")
		}
	}

	ws.ClearJournal()
	c.manager.Drop(ws.TokenHash)
	log.Info().
		Str("sessionId", ws.SessionID).
		Int("reservations", len(reservations)).
		Int("seats", len(seatHolds)).
		Msg("workspace discarded")
}

// Load opens a workspace over a committed PNR for further edits.
func (c *Coordinator) Load(ctx context.Context, tokenHash, sessionID, locator string) (*Workspace, error) {
	pnr, version, err := c.pnrRepo.FindByLocator(ctx, locator)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if pnr == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("PNR %s", locator))
	}

	ws := &Workspace{
		SessionID:   sessionID,
		TokenHash:   tokenHash,
		Draft:       pnr,
		BaseVersion: version,
	}
	c.manager.Replace(tokenHash, ws)
	return ws, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
