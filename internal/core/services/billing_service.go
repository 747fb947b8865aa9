package services

import (
	"context"
	"math"
	"strings"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type BillingService struct {
	bills  ports.BillRepository
	policy domain.CutoffPolicy
	clock  Clock
}

var _ ports.BillingService = (*BillingService)(nil)

func NewBillingService(bills ports.BillRepository, policy domain.CutoffPolicy, clock Clock) *BillingService {
	return &BillingService{bills: bills, policy: policy, clock: clockOrNow(clock)}
}

// AddBill records a purchase dated today in the hostel's time zone.
func (s *BillingService) AddBill(ctx context.Context, hostelID, itemName string, price float64) (*domain.Bill, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" || price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return nil, domain.ErrInvalidInput
	}

	now := s.clock()
	return s.bills.CreateBill(ctx, domain.Bill{
		HostelID:     domain.NormalizeID(hostelID),
		ItemName:     itemName,
		Price:        price,
		PurchaseDate: s.policy.Today(now),
		CreatedAt:    now,
	})
}

// ListBills returns the hostel's bills, newest purchase first.
func (s *BillingService) ListBills(ctx context.Context, hostelID string) ([]domain.Bill, error) {
	return s.bills.ListBills(ctx, domain.NormalizeID(hostelID))
}
