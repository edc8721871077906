package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opengds/terminal-server-go/internal/audit"
	"github.com/opengds/terminal-server-go/internal/engine"
	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/httputil"
	"github.com/opengds/terminal-server-go/internal/middleware"
)

type TerminalHandler struct {
	engine *engine.Engine
}

func NewTerminalHandler(eng *engine.Engine) *TerminalHandler {
	return &TerminalHandler{engine: eng}
}

func (h *TerminalHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/command", h.Command)
	return r
}

type commandRequest struct {
	Command string `json:"command"`
}

// commandFailure is the payload of a failed command result, carrying the
// machine-readable code alongside the terminal message.
type commandFailure struct {
	Code    apperrors.ErrorCode `json:"code"`
	Details any                 `json:"details,omitempty"`
}

func (h *TerminalHandler) Command(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	tokenHash := middleware.GetTokenHash(r.Context())
	if sess == nil || tokenHash == "" {
		httputil.WriteError(w, apperrors.Unauthenticated("NOT SIGNED IN"))
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("INVALID REQUEST BODY"))
		return
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		httputil.WriteError(w, apperrors.ValidationError("EMPTY COMMAND"))
		return
	}

	result, err := h.engine.Execute(r.Context(), sess, tokenHash, command)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:          audit.EventCommandFailure,
			AgentID:       sess.User.AgentID,
			SessionID:     sess.SessionID,
			RecordLocator: sess.ActiveLocator,
			Verb:          verbOf(command),
			Details:       map[string]interface{}{"error": apperrors.GetCode(err)},
		})
		writeCommandFailure(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:          audit.EventCommand,
		AgentID:       sess.User.AgentID,
		SessionID:     sess.SessionID,
		RecordLocator: sess.ActiveLocator,
		Verb:          verbOf(command),
	})
	httputil.WriteJSON(w, http.StatusOK, result)
}

// writeCommandFailure renders an engine error in the same envelope as a
// success: {success, message, payload}. Transport failures (auth, bad
// request body) keep the plain error response; once a command reaches the
// engine, both outcomes share one shape.
func writeCommandFailure(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("COMMAND FAILED")
	}
	httputil.WriteJSON(w, httputil.StatusFromCode(appErr.Code), engine.Result{
		Success: false,
		Message: appErr.Message,
		Payload: commandFailure{Code: appErr.Code, Details: appErr.Details},
	})
}

// verbOf trims a command to its leading token for audit purposes. Free
// text after the verb stays out of the audit stream.
func verbOf(command string) string {
	fields := strings.Fields(strings.ToUpper(command))
	if len(fields) == 0 {
		return ""
	}
	verb := fields[0]
	if len(verb) > 6 {
		verb = verb[:6]
	}
	return verb
}
