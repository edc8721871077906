package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/httputil"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/repository"
	"github.com/opengds/terminal-server-go/internal/util"
)

type contextKey string

const (
	SessionContextKey   contextKey = "session"
	TokenHashContextKey contextKey = "tokenHash"
)

func GetSession(ctx context.Context) *model.Session {
	if session, ok := ctx.Value(SessionContextKey).(*model.Session); ok {
		return session
	}
	return nil
}

func GetTokenHash(ctx context.Context) string {
	if hash, ok := ctx.Value(TokenHashContextKey).(string); ok {
		return hash
	}
	return ""
}

// AuthMiddleware verifies the bearer token signature and requires a live
// redis session for its hash. The session TTL slides on every request.
type AuthMiddleware struct {
	sessionRepo repository.SessionRepository
	jwtSecret   []byte
	sessionTTL  time.Duration
}

func NewAuthMiddleware(sessionRepo repository.SessionRepository, jwtSecret string, sessionTTL time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
	}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, apperrors.Unauthenticated("MISSING AUTHENTICATION TOKEN"))
			return
		}

		if _, err := m.parseClaims(token); err != nil {
			log.Warn().Err(err).Msg("auth middleware: token rejected")
			httputil.WriteError(w, apperrors.Unauthenticated("INVALID TOKEN"))
			return
		}

		tokenHash := util.HashToken(token)
		session, err := m.sessionRepo.Find(r.Context(), tokenHash)
		if err != nil {
			log.Error().Err(err).Msg("auth middleware: session lookup failed")
			httputil.WriteError(w, apperrors.Database(err))
			return
		}
		if session == nil {
			httputil.WriteError(w, apperrors.SessionExpired())
			return
		}

		if err := m.sessionRepo.Touch(r.Context(), tokenHash, m.sessionTTL); err != nil {
			log.Warn().Err(err).Msg("auth middleware: session touch failed")
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		ctx = context.WithValue(ctx, TokenHashContextKey, tokenHash)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseClaims enforces HS256 and the claims sign-in issues: sub, role,
// agentId, exp.
func (m *AuthMiddleware) parseClaims(token string) (*model.UserContext, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid claims")
	}

	user := &model.UserContext{}
	if sub, ok := claims["sub"].(string); ok {
		user.UserID = sub
	}
	if role, ok := claims["role"].(string); ok {
		user.Role = model.Role(role)
	}
	if agentID, ok := claims["agentId"].(string); ok {
		user.AgentID = agentID
	}
	if user.UserID == "" || user.AgentID == "" {
		return nil, fmt.Errorf("missing subject claims")
	}
	return user, nil
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
