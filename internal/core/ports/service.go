package ports

import (
	"context"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

type IdentityService interface {
	RegisterHostel(ctx context.Context, name, adminID, password string) (*domain.Hostel, error)
	GetHostel(ctx context.Context, hostelID string) (*domain.Hostel, error)
	HostelSummary(ctx context.Context, hostelID string) (*domain.HostelSummary, error)
	AddUser(ctx context.Context, actor domain.Session, userID, password string, role domain.Role) (*domain.User, error)
	RemoveUser(ctx context.Context, actor domain.Session, userID string) error
	ChangePassword(ctx context.Context, actor domain.Session, userID, newPassword string) error
	ImportStudents(ctx context.Context, actor domain.Session, rows []domain.Credential) (*domain.ImportResult, error)
}

type AuthService interface {
	Login(ctx context.Context, hostelID, userID, password string) (*domain.Token, error)
	Logout(ctx context.Context, session domain.Session) error
}

type MealService interface {
	TargetDate() domain.Date
	SubmitResponse(ctx context.Context, hostelID, studentID string, date domain.Date, choice domain.MealChoice) (*domain.MealResponse, error)
	// GetResponse returns nil without error when no selection was made.
	GetResponse(ctx context.Context, hostelID, studentID string, date domain.Date) (*domain.MealResponse, error)
	StudentMealInfo(ctx context.Context, hostelID, studentID string) (*domain.StudentMealInfo, error)
	LiveCounts(ctx context.Context, hostelID string, date domain.Date) (domain.MealCounts, error)
}

type ReportService interface {
	GenerateReport(ctx context.Context, hostelID string, date domain.Date) (*domain.ReportResult, error)
	GetSummary(ctx context.Context, hostelID string, date domain.Date) (*domain.DailySummary, error)
}

type VerificationService interface {
	VerifyPass(ctx context.Context, hostelID string, date domain.Date, meal domain.MealType, input string) (*domain.Redemption, error)
}

type BillingService interface {
	AddBill(ctx context.Context, hostelID, itemName string, price float64) (*domain.Bill, error)
	ListBills(ctx context.Context, hostelID string) ([]domain.Bill, error)
}
