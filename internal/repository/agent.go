package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/opengds/terminal-server-go/internal/model"
)

type AgentRepository interface {
	FindByAgentID(ctx context.Context, agentID string) (*model.Agent, error)
}

type agentRepo struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) AgentRepository {
	return &agentRepo{db: db}
}

func (r *agentRepo) FindByAgentID(ctx context.Context, agentID string) (*model.Agent, error) {
	var agent model.Agent
	err := r.db.GetContext(ctx, &agent, `
		SELECT id, agent_id, password_hash, role, office_city, created_at
		FROM agents WHERE agent_id = $1
	`, agentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}
