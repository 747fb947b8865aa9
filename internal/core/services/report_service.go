package services

import (
	"context"
	"strings"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type ReportService struct {
	reports ports.ReportRepository
	passes  *PassGenerator
	policy  domain.CutoffPolicy
	clock   Clock
	metrics ports.Metrics
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(
	reports ports.ReportRepository,
	passes *PassGenerator,
	policy domain.CutoffPolicy,
	clock Clock,
	metrics ports.Metrics,
) *ReportService {
	return &ReportService{
		reports: reports,
		passes:  passes,
		policy:  policy,
		clock:   clockOrNow(clock),
		metrics: metrics,
	}
}

// GenerateReport finalizes date for the hostel: it freezes the counts and
// issues passes to every responder for each meal they opted into. It is only
// allowed between the cutoff and midnight for tomorrow's date. Calling it
// again for a finalized date changes nothing.
func (s *ReportService) GenerateReport(ctx context.Context, hostelID string, date domain.Date) (*domain.ReportResult, error) {
	now := s.clock()
	if !s.policy.CanFinalize(date, now) {
		s.metrics.ReportRequested("rejected")
		return nil, domain.ErrReportNotOpen
	}

	result, err := s.reports.Finalize(ctx, domain.NormalizeID(hostelID), date, now, s.passes.Assign)
	if err != nil {
		s.metrics.ReportRequested("error")
		return nil, err
	}

	s.metrics.ReportRequested(strings.ToLower(string(result.Status)))
	return result, nil
}

func (s *ReportService) GetSummary(ctx context.Context, hostelID string, date domain.Date) (*domain.DailySummary, error) {
	return s.reports.FindSummary(ctx, domain.NormalizeID(hostelID), date)
}
