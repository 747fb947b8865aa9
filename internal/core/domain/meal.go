package domain

import (
	"strings"
	"time"
)

type MealType int

const (
	Breakfast MealType = iota
	Lunch
	Dinner
)

// Meals lists the served meals in serving order.
var Meals = []MealType{Breakfast, Lunch, Dinner}

func (m MealType) String() string {
	switch m {
	case Breakfast:
		return "breakfast"
	case Lunch:
		return "lunch"
	case Dinner:
		return "dinner"
	}
	return "unknown"
}

// Prefix is the pass code prefix printed before the suffix, e.g. BRK-7QX.
func (m MealType) Prefix() string {
	switch m {
	case Breakfast:
		return "BRK"
	case Lunch:
		return "LCH"
	case Dinner:
		return "DNR"
	}
	return ""
}

// ParseMealType accepts a meal name or its pass prefix in any case.
func ParseMealType(s string) (MealType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Meals {
		if s == m.String() || s == strings.ToLower(m.Prefix()) {
			return m, nil
		}
	}
	return 0, ErrInvalidInput
}

type MealChoice struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
}

func (c MealChoice) Wants(m MealType) bool {
	switch m {
	case Breakfast:
		return c.Breakfast
	case Lunch:
		return c.Lunch
	case Dinner:
		return c.Dinner
	}
	return false
}

// PassCodes holds one code per meal. An empty string means no pass.
type PassCodes struct {
	Breakfast string `json:"breakfast,omitempty"`
	Lunch     string `json:"lunch,omitempty"`
	Dinner    string `json:"dinner,omitempty"`
}

func (p PassCodes) For(m MealType) string {
	switch m {
	case Breakfast:
		return p.Breakfast
	case Lunch:
		return p.Lunch
	case Dinner:
		return p.Dinner
	}
	return ""
}

func (p *PassCodes) Set(m MealType, code string) {
	switch m {
	case Breakfast:
		p.Breakfast = code
	case Lunch:
		p.Lunch = code
	case Dinner:
		p.Dinner = code
	}
}

func (p PassCodes) Issued() bool {
	return p.Count() > 0
}

func (p PassCodes) Count() int {
	n := 0
	for _, m := range Meals {
		if p.For(m) != "" {
			n++
		}
	}
	return n
}

type Attendance struct {
	Breakfast bool `json:"breakfast"`
	Lunch     bool `json:"lunch"`
	Dinner    bool `json:"dinner"`
}

func (a Attendance) For(m MealType) bool {
	switch m {
	case Breakfast:
		return a.Breakfast
	case Lunch:
		return a.Lunch
	case Dinner:
		return a.Dinner
	}
	return false
}

func (a *Attendance) Set(m MealType, v bool) {
	switch m {
	case Breakfast:
		a.Breakfast = v
	case Lunch:
		a.Lunch = v
	case Dinner:
		a.Dinner = v
	}
}

// MealResponse is a student's row for one date. There is at most one per
// (hostel, student, date).
type MealResponse struct {
	ID          int64      `json:"-"`
	HostelID    string     `json:"hostel_id"`
	StudentID   string     `json:"student_id"`
	Date        Date       `json:"response_date"`
	Choice      MealChoice `json:"choice"`
	Passes      PassCodes  `json:"passes"`
	Attended    Attendance `json:"attended"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// StudentMealInfo is what a student sees for a date: the editable window,
// their selection if any, and passes once generated.
type StudentMealInfo struct {
	Date     Date
	Phase    Phase
	Editable bool
	Response *MealResponse
}

// AssumedAttending reports the fallback for students with no selection:
// they are counted for every meal but hold no pass.
func (i StudentMealInfo) AssumedAttending() bool {
	return i.Response == nil
}

// PassAssignment carries codes to be written onto one response row.
type PassAssignment struct {
	ResponseID int64
	Passes     PassCodes
}
