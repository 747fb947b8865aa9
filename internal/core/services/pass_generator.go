package services

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

const (
	maxPassDraws = 10000
	// largest multiple of the alphabet size that fits in a byte
	passByteLimit = 252
)

// PassGenerator mints meal pass codes. Codes are unique per meal within one
// batch of responses, which is always a single (hostel, date).
type PassGenerator struct {
	random io.Reader
}

func NewPassGenerator(random io.Reader) *PassGenerator {
	if random == nil {
		random = rand.Reader
	}
	return &PassGenerator{random: random}
}

// Assign draws a code for every meal a response opted into that has no code
// yet. Existing codes are kept and reserved so new draws never repeat them.
func (g *PassGenerator) Assign(responses []domain.MealResponse) ([]domain.PassAssignment, error) {
	taken := make(map[domain.MealType]map[string]bool, len(domain.Meals))
	needed := make(map[domain.MealType]int, len(domain.Meals))
	for _, m := range domain.Meals {
		taken[m] = make(map[string]bool)
	}
	for _, r := range responses {
		for _, m := range domain.Meals {
			if code := r.Passes.For(m); code != "" {
				taken[m][code] = true
			} else if r.Choice.Wants(m) {
				needed[m]++
			}
		}
	}
	for _, m := range domain.Meals {
		if len(taken[m])+needed[m] > domain.PassSpace {
			return nil, fmt.Errorf("%s: %w", m, domain.ErrPassSpaceExhausted)
		}
	}

	var out []domain.PassAssignment
	for _, r := range responses {
		passes := r.Passes
		fresh := false
		for _, m := range domain.Meals {
			if !r.Choice.Wants(m) || passes.For(m) != "" {
				continue
			}
			code, err := g.draw(m, taken[m])
			if err != nil {
				return nil, err
			}
			taken[m][code] = true
			passes.Set(m, code)
			fresh = true
		}
		if fresh {
			out = append(out, domain.PassAssignment{ResponseID: r.ID, Passes: passes})
		}
	}
	return out, nil
}

func (g *PassGenerator) draw(m domain.MealType, taken map[string]bool) (string, error) {
	for i := 0; i < maxPassDraws; i++ {
		suffix, err := g.suffix()
		if err != nil {
			return "", err
		}
		code := domain.FormatPassCode(m, suffix)
		if !taken[code] {
			return code, nil
		}
	}
	return "", fmt.Errorf("%s: %w", m, domain.ErrPassSpaceExhausted)
}

func (g *PassGenerator) suffix() (string, error) {
	out := make([]byte, 0, domain.PassSuffixLen)
	var b [1]byte
	for len(out) < domain.PassSuffixLen {
		if _, err := io.ReadFull(g.random, b[:]); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		if b[0] >= passByteLimit {
			continue
		}
		out = append(out, domain.PassAlphabet[int(b[0])%len(domain.PassAlphabet)])
	}
	return string(out), nil
}
