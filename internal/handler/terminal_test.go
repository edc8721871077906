package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengds/terminal-server-go/internal/engine"
	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/middleware"
	"github.com/opengds/terminal-server-go/internal/model"
	"github.com/opengds/terminal-server-go/internal/parser"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

// commandResult mirrors the wire shape of an engine result with a failure
// payload, for decoding in assertions.
type commandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload struct {
		Code apperrors.ErrorCode `json:"code"`
	} `json:"payload"`
}

func newTerminalHandler() *TerminalHandler {
	eng := engine.New(engine.Deps{
		Registry:   parser.NewRegistry(),
		Workspaces: workspace.NewManager(),
	})
	return NewTerminalHandler(eng)
}

func commandRequestFor(t *testing.T, command string) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]string{"command": command})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/terminal/command", strings.NewReader(string(body)))
	sess := &model.Session{SessionID: "s1", User: model.UserContext{AgentID: "AG001"}}
	ctx := context.WithValue(req.Context(), middleware.SessionContextKey, sess)
	ctx = context.WithValue(ctx, middleware.TokenHashContextKey, "tokenhash1")
	return req.WithContext(ctx)
}

func TestCommandEnvelope(t *testing.T) {
	t.Run("success carries success true", func(t *testing.T) {
		h := newTerminalHandler()
		rec := httptest.NewRecorder()

		h.Command(rec, commandRequestFor(t, "NM1SMITH/JOHN MR"))

		require.Equal(t, http.StatusOK, rec.Code)
		var result commandResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Contains(t, result.Message, "1 NAME(S) ADDED")
	})

	t.Run("engine error carries success false in the same envelope", func(t *testing.T) {
		h := newTerminalHandler()
		rec := httptest.NewRecorder()

		h.Command(rec, commandRequestFor(t, "RM REMARK WITHOUT A PNR"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var result commandResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "NO ACTIVE PNR")
		assert.Equal(t, apperrors.ErrCodeValidation, result.Payload.Code)
	})

	t.Run("unknown verb surfaces its code", func(t *testing.T) {
		h := newTerminalHandler()
		rec := httptest.NewRecorder()

		h.Command(rec, commandRequestFor(t, "QQ123"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var result commandResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "QQ123")
		assert.Equal(t, apperrors.ErrCodeUnknownCommand, result.Payload.Code)
	})

	t.Run("missing session is a transport error, not a command result", func(t *testing.T) {
		h := newTerminalHandler()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/terminal/command", strings.NewReader(`{"command":"RT"}`))

		h.Command(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var errResp struct {
			Error string              `json:"error"`
			Code  apperrors.ErrorCode `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, apperrors.ErrCodeUnauthenticated, errResp.Code)
	})
}
