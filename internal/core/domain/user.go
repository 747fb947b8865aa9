package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// SystemActor is recorded as added_by for accounts created during hostel registration.
const SystemActor = "SYSTEM"

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

type User struct {
	ID           int64     `json:"-"`
	HostelID     string    `json:"hostel_id"`
	UserID       string    `json:"user_id"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	AddedBy      string    `json:"added_by"`
	AddedAt      time.Time `json:"added_at"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ValidPassword reports whether a password is non-empty and fits in
// MaxPasswordBytes bytes.
func ValidPassword(password string) bool {
	return password != "" && len(password) <= MaxPasswordBytes
}

// Credential is one (user id, plaintext password) pair fed into bulk import.
// Line is the source line in the uploaded file, zero when unknown.
type Credential struct {
	UserID   string
	Password string
	Line     int
}

type ImportResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped"`
}

// NormalizeID trims and uppercases a user-facing identifier.
// Hostel ids, user ids and pass codes are stored and looked up in this form.
func NormalizeID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
