package mocks

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MutableClock is a clock a test can move.
type MutableClock struct {
	now time.Time
}

func NewMutableClock(t time.Time) *MutableClock {
	return &MutableClock{now: t}
}

func (c *MutableClock) Now() time.Time { return c.now }

func (c *MutableClock) Set(t time.Time) { c.now = t }

// GenerateTestKeys creates an RSA key pair for signing test tokens.
func GenerateTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

func Student(hostelID, userID string) domain.User {
	return domain.User{
		HostelID:     hostelID,
		UserID:       userID,
		PasswordHash: mockHashPrefix + "secret",
		Role:         domain.RoleStudent,
		AddedBy:      "ADMIN1",
	}
}

func Admin(hostelID, userID string) domain.User {
	return domain.User{
		HostelID:     hostelID,
		UserID:       userID,
		PasswordHash: mockHashPrefix + "secret",
		Role:         domain.RoleAdmin,
		AddedBy:      domain.SystemActor,
	}
}

// CreateTestEvent returns a sample report event.
func CreateTestEvent() ports.ReportGeneratedEvent {
	return ports.ReportGeneratedEvent{
		HostelID:      "NORT1234",
		ReportDate:    "2025-03-11",
		TotalStudents: 10,
		Breakfast:     10,
		Lunch:         8,
		Dinner:        9,
		Responded:     6,
		PassesIssued:  15,
		GeneratedAt:   time.Date(2025, 3, 10, 18, 5, 0, 0, time.UTC),
	}
}
