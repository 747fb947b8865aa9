package services

import (
	"context"
	"errors"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type MealService struct {
	meals   ports.MealRepository
	users   ports.UserRepository
	policy  domain.CutoffPolicy
	clock   Clock
	metrics ports.Metrics
}

var _ ports.MealService = (*MealService)(nil)

func NewMealService(
	meals ports.MealRepository,
	users ports.UserRepository,
	policy domain.CutoffPolicy,
	clock Clock,
	metrics ports.Metrics,
) *MealService {
	return &MealService{
		meals:   meals,
		users:   users,
		policy:  policy,
		clock:   clockOrNow(clock),
		metrics: metrics,
	}
}

func (s *MealService) TargetDate() domain.Date {
	return s.policy.TargetDate(s.clock())
}

// SubmitResponse records the student's choice for date. Only the target date
// is accepted and only before the cutoff. Repeated submissions overwrite.
func (s *MealService) SubmitResponse(
	ctx context.Context,
	hostelID, studentID string,
	date domain.Date,
	choice domain.MealChoice,
) (*domain.MealResponse, error) {
	hostelID = domain.NormalizeID(hostelID)
	studentID = domain.NormalizeID(studentID)

	now := s.clock()
	if !s.policy.CanEdit(date, now) {
		return nil, domain.ErrSelectionClosed
	}

	user, err := s.users.FindByUserID(ctx, hostelID, studentID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleStudent {
		return nil, domain.ErrNotFound
	}

	saved, err := s.meals.Upsert(ctx, domain.MealResponse{
		HostelID:    hostelID,
		StudentID:   studentID,
		Date:        date,
		Choice:      choice,
		SubmittedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.MealResponseSubmitted()
	return saved, nil
}

func (s *MealService) GetResponse(ctx context.Context, hostelID, studentID string, date domain.Date) (*domain.MealResponse, error) {
	resp, err := s.meals.FindResponse(ctx, domain.NormalizeID(hostelID), domain.NormalizeID(studentID), date)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *MealService) StudentMealInfo(ctx context.Context, hostelID, studentID string) (*domain.StudentMealInfo, error) {
	now := s.clock()
	date := s.policy.TargetDate(now)

	resp, err := s.GetResponse(ctx, hostelID, studentID, date)
	if err != nil {
		return nil, err
	}

	return &domain.StudentMealInfo{
		Date:     date,
		Phase:    s.policy.PhaseAt(now),
		Editable: s.policy.CanEdit(date, now),
		Response: resp,
	}, nil
}

// LiveCounts returns the expected heads per meal for date, counting students
// who have not responded as attending every meal.
func (s *MealService) LiveCounts(ctx context.Context, hostelID string, date domain.Date) (domain.MealCounts, error) {
	tally, err := s.meals.Tally(ctx, domain.NormalizeID(hostelID), date)
	if err != nil {
		return domain.MealCounts{}, err
	}
	return tally.Counts(), nil
}
