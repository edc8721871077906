package model

import "time"

type Role string

const (
	RoleAgent      Role = "agent"
	RoleSupervisor Role = "supervisor"
	RoleAirline    Role = "airline"
)

// UserContext is established at sign-in and read-only afterwards.
type UserContext struct {
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	AgentID   string    `json:"agentId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (u *UserContext) Expired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}

// Session is the redis-held document for one signed-in terminal. It owns at
// most one open workspace, identified by SessionID.
type Session struct {
	SessionID        string      `json:"sessionId"`
	SessionTimestamp time.Time   `json:"sessionTimestamp"`
	User             UserContext `json:"user"`
	// ActiveLocator is set after a committed PNR is retrieved or committed,
	// so follow-up edits in the same session address the same booking.
	ActiveLocator string `json:"activeLocator,omitempty"`
}

// Agent is the sign-in credential row.
type Agent struct {
	ID           string    `db:"id" json:"id"`
	AgentID      string    `db:"agent_id" json:"agentId"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	OfficeCity   string    `db:"office_city" json:"officeCity"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
