package domain

import "time"

const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidInput
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return string(d)
}

func (d Date) AddDays(n int) Date {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}
