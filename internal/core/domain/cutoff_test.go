package domain

import (
	"testing"
	"time"
)

func TestCutoffPolicy_Phases(t *testing.T) {
	policy := DefaultCutoffPolicy(time.UTC)

	tests := []struct {
		name        string
		now         time.Time
		target      Date
		phase       Phase
		canEdit     bool
		canFinalize bool
	}{
		{
			name:    "morning is open",
			now:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			target:  "2025-03-11",
			phase:   PhaseOpen,
			canEdit: true,
		},
		{
			name:    "one minute before cutoff",
			now:     time.Date(2025, 3, 10, 17, 59, 59, 0, time.UTC),
			target:  "2025-03-11",
			phase:   PhaseOpen,
			canEdit: true,
		},
		{
			name:        "at cutoff",
			now:         time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
			target:      "2025-03-11",
			phase:       PhaseLocked,
			canFinalize: true,
		},
		{
			name:        "just before midnight",
			now:         time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			target:      "2025-03-11",
			phase:       PhaseLocked,
			canFinalize: true,
		},
		{
			name:    "midnight rolls the target",
			now:     time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			target:  "2025-03-12",
			phase:   PhaseOpen,
			canEdit: true,
		},
		{
			name:    "month boundary",
			now:     time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC),
			target:  "2025-03-01",
			phase:   PhaseOpen,
			canEdit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.TargetDate(tt.now); got != tt.target {
				t.Errorf("TargetDate = %s, want %s", got, tt.target)
			}
			if got := policy.PhaseAt(tt.now); got != tt.phase {
				t.Errorf("PhaseAt = %s, want %s", got, tt.phase)
			}
			if got := policy.CanEdit(tt.target, tt.now); got != tt.canEdit {
				t.Errorf("CanEdit = %v, want %v", got, tt.canEdit)
			}
			if got := policy.CanFinalize(tt.target, tt.now); got != tt.canFinalize {
				t.Errorf("CanFinalize = %v, want %v", got, tt.canFinalize)
			}
		})
	}
}

func TestCutoffPolicy_OnlyTargetDateIsActionable(t *testing.T) {
	policy := DefaultCutoffPolicy(time.UTC)
	open := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	locked := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	for _, d := range []Date{"2025-03-10", "2025-03-12", "2024-03-11"} {
		if policy.CanEdit(d, open) {
			t.Errorf("CanEdit(%s) should be false", d)
		}
		if policy.CanFinalize(d, locked) {
			t.Errorf("CanFinalize(%s) should be false", d)
		}
	}
}

func TestCutoffPolicy_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	policy := CutoffPolicy{Hour: 21, Minute: 30, Location: ist}

	// 16:00 UTC is 21:30 IST
	now := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	if got := policy.PhaseAt(now); got != PhaseLocked {
		t.Errorf("PhaseAt = %s, want LOCKED", got)
	}
	if got := policy.PhaseAt(now.Add(-time.Second)); got != PhaseOpen {
		t.Errorf("PhaseAt one second earlier = %s, want OPEN", got)
	}

	// 20:00 UTC is already 01:30 the next day in IST
	late := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := policy.Today(late); got != "2025-03-11" {
		t.Errorf("Today = %s, want 2025-03-11", got)
	}
	if got := policy.TargetDate(late); got != "2025-03-12" {
		t.Errorf("TargetDate = %s, want 2025-03-12", got)
	}
}

func TestParseCutoff(t *testing.T) {
	h, m, err := ParseCutoff("19:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != 19 || m != 45 {
		t.Errorf("got %d:%d, want 19:45", h, m)
	}

	for _, bad := range []string{"", "25:00", "7pm", "18-00"} {
		if _, _, err := ParseCutoff(bad); err == nil {
			t.Errorf("ParseCutoff(%q) should fail", bad)
		}
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.AddDays(1); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s, want 2024-02-29", got)
	}
	if got := d.AddDays(2); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}

	for _, bad := range []string{"", "2024-2-28", "28-02-2024", "2024-13-01"} {
		if _, err := ParseDate(bad); err != ErrInvalidInput {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}
