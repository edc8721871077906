package engine

import (
	"context"
	"fmt"

	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
)

func (e *Engine) handleAddName(ctx context.Context, sess *model.Session, tokenHash string, req parser.AddNameRequest) (*Result, error) {
	ws, err := e.ensureWorkspace(ctx, sess, tokenHash)
	if err != nil {
		return nil, err
	}

	for _, entry := range req.Entries {
		ws.Draft.Passengers = append(ws.Draft.Passengers, model.Passenger{
			ID:        ws.Draft.NextPassengerID(),
			LastName:  req.LastName,
			FirstName: entry.FirstName,
			Title:     entry.Title,
			Type:      entry.Type,
		})
	}
	ws.Draft.UpdatedAt = e.nowFn()

	return ok(fmt.Sprintf("%d NAME(S) ADDED\n%s", len(req.Entries), renderPnr(ws.Draft)), ws.Draft), nil
}
