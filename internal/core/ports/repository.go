package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

type HostelRepository interface {
	// CreateWithAdmin stores the hostel and its first admin atomically.
	// Returns domain.ErrHostelExists when the name is taken and
	// domain.ErrHostelIDTaken when only the generated id collides.
	CreateWithAdmin(ctx context.Context, hostel domain.Hostel, admin domain.User) error
	NameTaken(ctx context.Context, nameKey string) (bool, error)
	FindHostel(ctx context.Context, hostelID string) (*domain.Hostel, error)
	HostelSummary(ctx context.Context, hostelID string) (*domain.HostelSummary, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	FindByUserID(ctx context.Context, hostelID, userID string) (*domain.User, error)
	UpdatePassword(ctx context.Context, hostelID, userID, passwordHash string) error
	DeleteUser(ctx context.Context, hostelID, userID string) error
}

type MealRepository interface {
	// Upsert inserts or overwrites the student's row for the date in one
	// statement. Returns domain.ErrPassesIssued once the date is finalized.
	Upsert(ctx context.Context, response domain.MealResponse) (*domain.MealResponse, error)
	FindResponse(ctx context.Context, hostelID, studentID string, date domain.Date) (*domain.MealResponse, error)
	Tally(ctx context.Context, hostelID string, date domain.Date) (domain.MealTally, error)
	// Redeem marks the pass attended if it exists and is unused.
	Redeem(ctx context.Context, hostelID string, date domain.Date, meal domain.MealType, code string) (domain.Redemption, error)
}

// PassAssigner mints pass codes for the responses of a date being finalized.
// It runs inside the finalize transaction.
type PassAssigner func(responses []domain.MealResponse) ([]domain.PassAssignment, error)

type ReportRepository interface {
	// Finalize freezes the tally into a daily summary, writes passes through
	// assign and records a report event, all in one transaction. A date that
	// already has a summary yields domain.ReportAlreadyGenerated untouched.
	Finalize(ctx context.Context, hostelID string, date domain.Date, at time.Time, assign PassAssigner) (*domain.ReportResult, error)
	FindSummary(ctx context.Context, hostelID string, date domain.Date) (*domain.DailySummary, error)
}

type BillRepository interface {
	CreateBill(ctx context.Context, bill domain.Bill) (*domain.Bill, error)
	ListBills(ctx context.Context, hostelID string) ([]domain.Bill, error)
}
