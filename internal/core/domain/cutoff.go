package domain

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseOpen   Phase = "OPEN"
	PhaseLocked Phase = "LOCKED"
)

// CutoffPolicy decides whether tomorrow's meal selection is still editable.
// Before the daily cutoff the target date is OPEN; from the cutoff until
// midnight it is LOCKED and its report may be generated.
type CutoffPolicy struct {
	Hour     int
	Minute   int
	Location *time.Location
}

func DefaultCutoffPolicy(loc *time.Location) CutoffPolicy {
	return CutoffPolicy{Hour: 18, Minute: 0, Location: loc}
}

// ParseCutoff parses an HH:MM wall-clock time.
func ParseCutoff(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cutoff %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func (p CutoffPolicy) local(now time.Time) time.Time {
	if p.Location != nil {
		return now.In(p.Location)
	}
	return now
}

// CutoffOn returns the cutoff instant on the local day containing now.
func (p CutoffPolicy) CutoffOn(now time.Time) time.Time {
	n := p.local(now)
	return time.Date(n.Year(), n.Month(), n.Day(), p.Hour, p.Minute, 0, 0, n.Location())
}

func (p CutoffPolicy) Today(now time.Time) Date {
	return DateOf(p.local(now))
}

// TargetDate is the date meal selections and passes pertain to: tomorrow.
func (p CutoffPolicy) TargetDate(now time.Time) Date {
	n := p.local(now)
	// noon avoids landing on the wrong day across DST shifts
	return DateOf(time.Date(n.Year(), n.Month(), n.Day()+1, 12, 0, 0, 0, n.Location()))
}

func (p CutoffPolicy) PhaseAt(now time.Time) Phase {
	if p.local(now).Before(p.CutoffOn(now)) {
		return PhaseOpen
	}
	return PhaseLocked
}

func (p CutoffPolicy) CanEdit(date Date, now time.Time) bool {
	return date == p.TargetDate(now) && p.PhaseAt(now) == PhaseOpen
}

func (p CutoffPolicy) CanFinalize(date Date, now time.Time) bool {
	return date == p.TargetDate(now) && p.PhaseAt(now) == PhaseLocked
}
