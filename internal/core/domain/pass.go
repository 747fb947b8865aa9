package domain

import "strings"

const (
	PassSuffixLen = 3
	PassAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// PassSpace is the number of distinct suffixes available per meal.
	PassSpace = 36 * 36 * 36
)

func FormatPassCode(m MealType, suffix string) string {
	return m.Prefix() + "-" + suffix
}

// NormalizePassSuffix turns staff input into a bare suffix. A full code
// carrying the meal's own prefix is accepted. ok is false when the result
// is not exactly PassSuffixLen characters from PassAlphabet.
func NormalizePassSuffix(m MealType, input string) (suffix string, ok bool) {
	s := NormalizeID(input)
	s = strings.TrimPrefix(s, m.Prefix()+"-")
	if len(s) != PassSuffixLen {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(PassAlphabet, s[i]) < 0 {
			return "", false
		}
	}
	return s, true
}

type RedemptionStatus string

const (
	PassVerified    RedemptionStatus = "VERIFIED"
	PassAlreadyUsed RedemptionStatus = "ALREADY_USED"
	PassInvalid     RedemptionStatus = "INVALID"
)

// Redemption is the outcome of presenting a pass at the counter.
// StudentID is empty for invalid codes.
type Redemption struct {
	Status    RedemptionStatus `json:"status"`
	Meal      MealType         `json:"-"`
	Code      string           `json:"code,omitempty"`
	StudentID string           `json:"student_id,omitempty"`
}

func (r Redemption) Message() string {
	switch r.Status {
	case PassVerified:
		return "Pass Verified for " + r.StudentID
	case PassAlreadyUsed:
		return "Pass already used by " + r.StudentID
	}
	return "Invalid Pass Code"
}
