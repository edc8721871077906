package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventSignInSuccess  EventType = "sign_in_success"
	EventSignInFailure  EventType = "sign_in_failure"
	EventSignOut        EventType = "sign_out"
	EventCommand        EventType = "command"
	EventCommandFailure EventType = "command_failure"
	EventCommit         EventType = "commit"
	EventDiscard        EventType = "discard"
	EventTicketIssue    EventType = "ticket_issue"
	EventSessionExpired EventType = "session_expired"
	EventAuthFailure    EventType = "auth_failure"
)

type Event struct {
	Type          EventType
	AgentID       string
	SessionID     string
	RecordLocator string
	Verb          string
	IP            string
	UserAgent     string
	Details       map[string]interface{}
}

func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "terminal").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.AgentID != "" {
		logger = logger.With().Str("agent_id", event.AgentID).Logger()
	}
	if event.SessionID != "" {
		logger = logger.With().Str("session_id", event.SessionID).Logger()
	}
	if event.RecordLocator != "" {
		logger = logger.With().Str("record_locator", event.RecordLocator).Logger()
	}
	if event.Verb != "" {
		logger = logger.With().Str("verb", event.Verb).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("terminal audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = getClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
