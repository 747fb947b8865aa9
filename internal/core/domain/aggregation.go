package domain

import "time"

// MealTally is the raw state of the ledger for one (hostel, date).
type MealTally struct {
	TotalStudents int
	Responded     int
	Breakfast     int
	Lunch         int
	Dinner        int
}

// MealCounts are the expected heads per meal used for kitchen planning.
type MealCounts struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Responded int `json:"responded"`
	Total     int `json:"total"`
}

// Counts applies the non-responder policy: every student without a response
// is expected at all three meals.
func (t MealTally) Counts() MealCounts {
	unresponded := t.TotalStudents - t.Responded
	if unresponded < 0 {
		unresponded = 0
	}
	return MealCounts{
		Breakfast: t.Breakfast + unresponded,
		Lunch:     t.Lunch + unresponded,
		Dinner:    t.Dinner + unresponded,
		Responded: t.Responded,
		Total:     t.TotalStudents,
	}
}

// DailySummary is the frozen snapshot written when a date is finalized.
// Its existence marks the date as finalized.
type DailySummary struct {
	HostelID          string    `json:"hostel_id"`
	ReportDate        Date      `json:"report_date"`
	TotalStudents     int       `json:"total_students"`
	BreakfastOptIn    int       `json:"breakfast_opt_in"`
	LunchOptIn        int       `json:"lunch_opt_in"`
	DinnerOptIn       int       `json:"dinner_opt_in"`
	RespondedStudents int       `json:"responded_students"`
	GeneratedAt       time.Time `json:"generated_at"`
}

func NewDailySummary(hostelID string, date Date, c MealCounts, at time.Time) DailySummary {
	return DailySummary{
		HostelID:          hostelID,
		ReportDate:        date,
		TotalStudents:     c.Total,
		BreakfastOptIn:    c.Breakfast,
		LunchOptIn:        c.Lunch,
		DinnerOptIn:       c.Dinner,
		RespondedStudents: c.Responded,
		GeneratedAt:       at,
	}
}
