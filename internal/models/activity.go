package models

import "time"

// Account activity actions recorded for auditing.
const (
	ActionRegister       = "REGISTER"
	ActionLogin          = "LOGIN"
	ActionLogout         = "LOGOUT"
	ActionProfileUpdate  = "PROFILE_UPDATE"
	ActionPasswordChange = "PASSWORD_CHANGE"
	ActionPasswordReset  = "PASSWORD_RESET"
	ActionBook           = "BOOK"
	ActionCancel         = "CANCEL"
)

// UserActivity is a single audit log entry. Writes are best-effort and must
// never fail the request that produced them.
type UserActivity struct {
	ID        string    `json:"id"` // uuid
	UserID    int       `json:"user_id"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Metadata  any       `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
