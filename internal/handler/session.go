package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/opengds/terminal-server-go/internal/audit"
	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/httputil"
	"github.com/opengds/terminal-server-go/internal/middleware"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/repository"
	"github.com/opengds/terminal-server-go/internal/util"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

type SessionHandler struct {
	agentRepo   repository.AgentRepository
	sessionRepo repository.SessionRepository
	workspaces  *workspace.Manager
	coordinator *workspace.Coordinator
	jwtSecret   []byte
	sessionTTL  time.Duration
}

func NewSessionHandler(
	agentRepo repository.AgentRepository,
	sessionRepo repository.SessionRepository,
	workspaces *workspace.Manager,
	coordinator *workspace.Coordinator,
	jwtSecret string,
	sessionTTL time.Duration,
) *SessionHandler {
	return &SessionHandler{
		agentRepo:   agentRepo,
		sessionRepo: sessionRepo,
		workspaces:  workspaces,
		coordinator: coordinator,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sign-in", h.SignIn)
	return r
}

type signInRequest struct {
	AgentID  string `json:"agentId"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token     string    `json:"token"`
	AgentID   string    `json:"agentId"`
	Role      model.Role `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("INVALID REQUEST BODY"))
		return
	}
	if req.AgentID == "" || req.Password == "" {
		httputil.WriteError(w, apperrors.ValidationError("AGENT ID AND PASSWORD REQUIRED"))
		return
	}

	agent, err := h.agentRepo.FindByAgentID(r.Context(), req.AgentID)
	if err != nil {
		log.Error().Err(err).Msg("sign-in: agent lookup failed")
		httputil.WriteError(w, apperrors.Database(err))
		return
	}
	if agent == nil || !util.CheckPasswordHash(req.Password, agent.PasswordHash) {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventSignInFailure, AgentID: req.AgentID})
		httputil.WriteError(w, apperrors.Unauthenticated("INVALID AGENT ID OR PASSWORD"))
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     agent.ID,
		"role":    string(agent.Role),
		"agentId": agent.AgentID,
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Msg("sign-in: token signing failed")
		httputil.WriteError(w, apperrors.Internal("SIGN IN FAILED"))
		return
	}

	session := &model.Session{
		SessionID:        uuid.NewString(),
		SessionTimestamp: now,
		User: model.UserContext{
			UserID:    agent.ID,
			Role:      agent.Role,
			AgentID:   agent.AgentID,
			ExpiresAt: expiresAt,
		},
	}
	if err := h.sessionRepo.Save(r.Context(), util.HashToken(signed), session, h.sessionTTL); err != nil {
		log.Error().Err(err).Msg("sign-in: session save failed")
		httputil.WriteError(w, apperrors.Database(err))
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventSignInSuccess,
		AgentID:   agent.AgentID,
		SessionID: session.SessionID,
	})
	httputil.WriteJSON(w, http.StatusOK, signInResponse{
		Token:     signed,
		AgentID:   agent.AgentID,
		Role:      agent.Role,
		ExpiresAt: expiresAt,
	})
}

// SignOut discards any open workspace, returning its inventory holds, and
// invalidates the session. Reachable only behind the auth middleware.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	tokenHash := middleware.GetTokenHash(r.Context())
	if sess == nil || tokenHash == "" {
		httputil.WriteError(w, apperrors.Unauthenticated("NOT SIGNED IN"))
		return
	}

	if ws := h.workspaces.Get(tokenHash); ws != nil {
		h.coordinator.Discard(r.Context(), ws)
	}
	if err := h.sessionRepo.Delete(r.Context(), tokenHash); err != nil {
		httputil.WriteError(w, apperrors.Database(err))
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventSignOut,
		AgentID:   sess.User.AgentID,
		SessionID: sess.SessionID,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
