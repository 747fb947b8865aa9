package domain

import (
	"strings"
	"time"
)

type Hostel struct {
	ID        string    `json:"hostel_id"`
	Name      string    `json:"hostel_name"`
	CreatedAt time.Time `json:"created_at"`
}

type HostelSummary struct {
	ID           string `json:"hostel_id"`
	Name         string `json:"hostel_name"`
	StudentCount int    `json:"student_count"`
}

// HostelNameKey is the case and whitespace insensitive form of a hostel name
// used for the uniqueness check on registration.
func HostelNameKey(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// HostelIDPrefix returns the first four ASCII alphanumerics of name, uppercased.
func HostelIDPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	return b.String()
}
