package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/redis"
)

// SessionRepository holds signed-in terminal sessions in redis, keyed by
// token hash with a sliding TTL. Redis expiry is the session timeout.
type SessionRepository interface {
	Find(ctx context.Context, tokenHash string) (*model.Session, error)
	Save(ctx context.Context, tokenHash string, session *model.Session, ttl time.Duration) error
	Delete(ctx context.Context, tokenHash string) error
	// Touch extends the TTL without rewriting the document.
	Touch(ctx context.Context, tokenHash string, ttl time.Duration) error
	// Exists reports whether the session is still live; the cleanup job
	// uses it to find workspaces whose session has expired.
	Exists(ctx context.Context, tokenHash string) (bool, error)
}

type sessionRepo struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepo{client: client}
}

func (r *sessionRepo) Find(ctx context.Context, tokenHash string) (*model.Session, error) {
	data, err := r.client.Get(ctx, redis.SessionKey(tokenHash)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepo) Save(ctx context.Context, tokenHash string, session *model.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, redis.SessionKey(tokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, redis.SessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Touch(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if err := r.client.Expire(ctx, redis.SessionKey(tokenHash), ttl).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Exists(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Client.Exists(ctx, redis.SessionKey(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}
