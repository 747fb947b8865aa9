package services

import (
	"context"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type VerificationService struct {
	meals   ports.MealRepository
	metrics ports.Metrics
}

var _ ports.VerificationService = (*VerificationService)(nil)

func NewVerificationService(meals ports.MealRepository, metrics ports.Metrics) *VerificationService {
	return &VerificationService{meals: meals, metrics: metrics}
}

// VerifyPass redeems a pass presented at the counter. input is the three
// character suffix or the full code. A pass is accepted once; later attempts
// report who already used it.
func (s *VerificationService) VerifyPass(
	ctx context.Context,
	hostelID string,
	date domain.Date,
	meal domain.MealType,
	input string,
) (*domain.Redemption, error) {
	if meal.Prefix() == "" {
		return nil, domain.ErrInvalidInput
	}

	suffix, ok := domain.NormalizePassSuffix(meal, input)
	if !ok {
		s.metrics.PassChecked(meal.String(), string(domain.PassInvalid))
		return &domain.Redemption{Status: domain.PassInvalid, Meal: meal}, nil
	}

	code := domain.FormatPassCode(meal, suffix)
	redemption, err := s.meals.Redeem(ctx, domain.NormalizeID(hostelID), date, meal, code)
	if err != nil {
		return nil, err
	}

	s.metrics.PassChecked(meal.String(), string(redemption.Status))
	return &redemption, nil
}
