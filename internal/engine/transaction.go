package engine

import (
	"context"
	"fmt"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

func (e *Engine) handleCommit(ctx context.Context, sess *model.Session, tokenHash string, recall bool) (*Result, error) {
	ws, err := e.requireWorkspace(tokenHash)
	if err != nil {
		return nil, err
	}

	committed, err := e.coordinator.Commit(ctx, ws, recall)
	if err != nil {
		return nil, err
	}

	if recall {
		sess.ActiveLocator = committed.RecordLocator
	} else {
		sess.ActiveLocator = ""
	}
	if err := e.saveSession(ctx, tokenHash, sess); err != nil {
		return nil, err
	}

	if recall {
		return ok(fmt.Sprintf("END OF TRANSACTION - %s\n%s",
			committed.RecordLocator, renderPnr(committed)), committed), nil
	}
	return ok(fmt.Sprintf("END OF TRANSACTION - %s", committed.RecordLocator), committed), nil
}

// handleIgnore discards any open workspace, returning its inventory, and
// signs the terminal out.
func (e *Engine) handleIgnore(ctx context.Context, sess *model.Session, tokenHash string) (*Result, error) {
	if ws := e.workspaces.Get(tokenHash); ws != nil {
		e.coordinator.Discard(ctx, ws)
	}
	if err := e.sessions.Delete(ctx, tokenHash); err != nil {
		return nil, apperrors.Database(err)
	}
	return ok("IGNORED - SIGNED OUT", nil), nil
}
