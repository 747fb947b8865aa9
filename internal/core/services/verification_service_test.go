package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/mocks"
)

func newVerificationFixture() (*VerificationService, *mocks.MockStore, *mocks.MockMetrics) {
	store := mocks.NewMockStore()
	seedHostel(store, "S101", "S102")
	store.SeedResponse(domain.MealResponse{
		HostelID:  "NORT1234",
		StudentID: "S101",
		Date:      tomorrow,
		Choice:    domain.MealChoice{Breakfast: true, Lunch: true},
		Passes:    domain.PassCodes{Breakfast: "BRK-7QX", Lunch: "LCH-7QX"},
	})
	metrics := mocks.NewMockMetrics()
	return NewVerificationService(store, metrics), store, metrics
}

func TestVerifyPass(t *testing.T) {
	svc, store, metrics := newVerificationFixture()
	ctx := context.Background()

	first, err := svc.VerifyPass(ctx, "NORT1234", tomorrow, domain.Breakfast, "7qx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != domain.PassVerified || first.StudentID != "S101" {
		t.Errorf("unexpected redemption %+v", first)
	}
	if first.Message() != "Pass Verified for S101" {
		t.Errorf("message = %q", first.Message())
	}

	second, err := svc.VerifyPass(ctx, "NORT1234", tomorrow, domain.Breakfast, "BRK-7QX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Status != domain.PassAlreadyUsed || second.StudentID != "S101" {
		t.Errorf("unexpected redemption %+v", second)
	}

	// the same suffix is a separate pass for lunch
	lunch, err := svc.VerifyPass(ctx, "NORT1234", tomorrow, domain.Lunch, "7QX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lunch.Status != domain.PassVerified {
		t.Errorf("lunch status = %s", lunch.Status)
	}

	if got := store.Response("NORT1234", "S101", tomorrow).Attended; !got.Breakfast || !got.Lunch || got.Dinner {
		t.Errorf("unexpected attendance %+v", got)
	}
	if metrics.PassCount("breakfast", "ALREADY_USED") != 1 {
		t.Error("already used check not counted")
	}
}

func TestVerifyPass_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		meal       domain.MealType
		input      string
		date       domain.Date
		storeCalls int
	}{
		{name: "unknown code", meal: domain.Breakfast, input: "ZZZ", date: tomorrow, storeCalls: 1},
		{name: "no pass for that meal", meal: domain.Dinner, input: "7QX", date: tomorrow, storeCalls: 1},
		{name: "wrong date", meal: domain.Breakfast, input: "7QX", date: "2025-03-12", storeCalls: 1},
		{name: "malformed", meal: domain.Breakfast, input: "7Q", date: tomorrow},
		{name: "other meal prefix", meal: domain.Breakfast, input: "LCH-7QX", date: tomorrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newVerificationFixture()

			r, err := svc.VerifyPass(context.Background(), "NORT1234", tt.date, tt.meal, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Status != domain.PassInvalid || r.StudentID != "" {
				t.Errorf("unexpected redemption %+v", r)
			}
			if r.Message() != "Invalid Pass Code" {
				t.Errorf("message = %q", r.Message())
			}
			if store.RedeemCalls != tt.storeCalls {
				t.Errorf("expected %d store calls, got %d", tt.storeCalls, store.RedeemCalls)
			}
		})
	}
}

func TestVerifyPass_OtherHostel(t *testing.T) {
	svc, _, _ := newVerificationFixture()
	r, err := svc.VerifyPass(context.Background(), "SOUT0001", tomorrow, domain.Breakfast, "7QX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != domain.PassInvalid {
		t.Errorf("pass leaked across hostels: %+v", r)
	}
}

func TestVerifyPass_UnknownMeal(t *testing.T) {
	svc, _, _ := newVerificationFixture()
	if _, err := svc.VerifyPass(context.Background(), "NORT1234", tomorrow, domain.MealType(9), "7QX"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerifyPass_ConcurrentRedemption(t *testing.T) {
	svc, _, _ := newVerificationFixture()

	const workers = 20
	var (
		wg       sync.WaitGroup
		verified atomic.Int32
		used     atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.VerifyPass(context.Background(), "NORT1234", tomorrow, domain.Breakfast, "7QX")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			switch r.Status {
			case domain.PassVerified:
				verified.Add(1)
			case domain.PassAlreadyUsed:
				used.Add(1)
			}
		}()
	}
	wg.Wait()

	if verified.Load() != 1 {
		t.Errorf("expected exactly one verification, got %d", verified.Load())
	}
	if used.Load() != workers-1 {
		t.Errorf("expected %d already used, got %d", workers-1, used.Load())
	}
}

func TestVerifyPass_StoreFailure(t *testing.T) {
	svc, store, _ := newVerificationFixture()
	store.RedeemError = errors.New("db down")
	if _, err := svc.VerifyPass(context.Background(), "NORT1234", tomorrow, domain.Breakfast, "7QX"); err == nil {
		t.Error("expected error")
	}
}
