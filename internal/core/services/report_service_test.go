package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/mocks"
)

type reportFixture struct {
	store   *mocks.MockStore
	clock   *mocks.MutableClock
	metrics *mocks.MockMetrics
	meals   *MealService
	reports *ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	store := mocks.NewMockStore()
	seedHostel(store, "S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9", "S10")
	clock := mocks.NewMutableClock(beforeCutoff)
	metrics := mocks.NewMockMetrics()
	policy := domain.DefaultCutoffPolicy(time.UTC)

	f := &reportFixture{
		store:   store,
		clock:   clock,
		metrics: metrics,
		meals:   NewMealService(store, store, policy, clock.Now, metrics),
		reports: NewReportService(store, NewPassGenerator(nil), policy, clock.Now, metrics),
	}

	choices := map[string]domain.MealChoice{
		"S1": {Breakfast: true, Lunch: true, Dinner: true},
		"S2": {Breakfast: true, Lunch: true, Dinner: true},
		"S3": {Breakfast: true, Lunch: true, Dinner: true},
		"S4": {Breakfast: true, Lunch: true, Dinner: true},
		"S5": {Breakfast: true, Dinner: true},
		"S6": {Breakfast: true},
	}
	for id, c := range choices {
		if _, err := f.meals.SubmitResponse(context.Background(), "NORT1234", id, tomorrow, c); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}
	return f
}

func TestGenerateReport(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	live, err := f.meals.LiveCounts(ctx, "NORT1234", tomorrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if live != (domain.MealCounts{Breakfast: 10, Lunch: 8, Dinner: 9, Responded: 6, Total: 10}) {
		t.Errorf("unexpected live counts %+v", live)
	}

	f.clock.Set(afterCutoff)
	result, err := f.reports.GenerateReport(ctx, "NORT1234", tomorrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.ReportGenerated {
		t.Fatalf("status = %s", result.Status)
	}
	if result.PassesIssued != 15 {
		t.Errorf("expected 15 passes, got %d", result.PassesIssued)
	}
	s := result.Summary
	if s.TotalStudents != 10 || s.BreakfastOptIn != 10 || s.LunchOptIn != 8 || s.DinnerOptIn != 9 || s.RespondedStudents != 6 {
		t.Errorf("unexpected summary %+v", s)
	}
	if !s.GeneratedAt.Equal(afterCutoff) {
		t.Errorf("GeneratedAt = %v", s.GeneratedAt)
	}

	s5 := f.store.Response("NORT1234", "S5", tomorrow)
	if s5.Passes.Breakfast == "" || s5.Passes.Lunch != "" || s5.Passes.Dinner == "" {
		t.Errorf("unexpected passes for S5: %+v", s5.Passes)
	}
	if f.store.Response("NORT1234", "S7", tomorrow) != nil {
		t.Error("non-responder should have no row")
	}

	if len(f.store.Events) != 1 || f.store.Events[0].PassesIssued != 15 {
		t.Errorf("unexpected events %+v", f.store.Events)
	}
	if f.metrics.ReportCount("generated") != 1 {
		t.Errorf("generated metric = %d", f.metrics.ReportCount("generated"))
	}
}

func TestGenerateReport_Idempotent(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	f.clock.Set(afterCutoff)

	if _, err := f.reports.GenerateReport(ctx, "NORT1234", tomorrow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := f.store.Response("NORT1234", "S1", tomorrow).Passes

	again, err := f.reports.GenerateReport(ctx, "NORT1234", tomorrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Status != domain.ReportAlreadyGenerated {
		t.Errorf("status = %s", again.Status)
	}
	if after := f.store.Response("NORT1234", "S1", tomorrow).Passes; after != before {
		t.Errorf("passes changed on second run: %+v -> %+v", before, after)
	}
	if f.store.SummaryCount() != 1 || len(f.store.Events) != 1 {
		t.Error("second run wrote a summary or event")
	}
	if f.metrics.ReportCount("already_generated") != 1 {
		t.Errorf("already_generated metric = %d", f.metrics.ReportCount("already_generated"))
	}
}

func TestGenerateReport_Concurrent(t *testing.T) {
	f := newReportFixture(t)
	f.clock.Set(afterCutoff)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		generated int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.reports.GenerateReport(context.Background(), "NORT1234", tomorrow)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if res.Status == domain.ReportGenerated {
				mu.Lock()
				generated++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if generated != 1 {
		t.Errorf("expected exactly one generation, got %d", generated)
	}
}

func TestGenerateReport_Window(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		date domain.Date
	}{
		{name: "before cutoff", now: beforeCutoff, date: tomorrow},
		{name: "today's date", now: afterCutoff, date: "2025-03-10"},
		{name: "next day after midnight", now: time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC), date: tomorrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReportFixture(t)
			f.clock.Set(tt.now)

			_, err := f.reports.GenerateReport(context.Background(), "NORT1234", tt.date)
			if !errors.Is(err, domain.ErrReportNotOpen) {
				t.Errorf("expected ErrReportNotOpen, got %v", err)
			}
			if f.store.FinalizeCalls != 0 {
				t.Error("store was called outside the window")
			}
			if f.metrics.ReportCount("rejected") != 1 {
				t.Error("rejection not counted")
			}
		})
	}
}

func TestGenerateReport_StoreFailure(t *testing.T) {
	f := newReportFixture(t)
	f.clock.Set(afterCutoff)
	f.store.FinalizeError = errors.New("tx aborted")

	if _, err := f.reports.GenerateReport(context.Background(), "NORT1234", tomorrow); err == nil {
		t.Fatal("expected error")
	}
	if f.metrics.ReportCount("error") != 1 {
		t.Error("error not counted")
	}
	if _, err := f.reports.GetSummary(context.Background(), "NORT1234", tomorrow); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected no summary, got %v", err)
	}
}

func TestGetSummary(t *testing.T) {
	f := newReportFixture(t)
	f.clock.Set(afterCutoff)
	if _, err := f.reports.GenerateReport(context.Background(), "NORT1234", tomorrow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := f.reports.GetSummary(context.Background(), "nort1234", tomorrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LunchOptIn != 8 {
		t.Errorf("unexpected summary %+v", s)
	}
}
