package domain

import "time"

// Session identifies the authenticated caller of a request.
type Session struct {
	HostelID  string
	UserID    string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Token is a signed session token handed out on login.
type Token struct {
	Value     string    `json:"token"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
