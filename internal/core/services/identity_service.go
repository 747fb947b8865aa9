package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

const maxHostelIDAttempts = 5

type IdentityService struct {
	hostels ports.HostelRepository
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	clock   Clock
	random  io.Reader
}

var _ ports.IdentityService = (*IdentityService)(nil)

func NewIdentityService(
	hostels ports.HostelRepository,
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	clock Clock,
) *IdentityService {
	return &IdentityService{
		hostels: hostels,
		users:   users,
		hasher:  hasher,
		clock:   clockOrNow(clock),
		random:  rand.Reader,
	}
}

// RegisterHostel creates a hostel and its first admin. The hostel id is the
// first four alphanumerics of the name followed by four random digits and is
// regenerated when it collides with an existing id.
func (s *IdentityService) RegisterHostel(ctx context.Context, name, adminID, password string) (*domain.Hostel, error) {
	name = strings.TrimSpace(name)
	adminID = domain.NormalizeID(adminID)
	if name == "" || adminID == "" || !domain.ValidPassword(password) {
		return nil, domain.ErrInvalidInput
	}
	prefix := domain.HostelIDPrefix(name)
	if prefix == "" {
		return nil, domain.ErrInvalidInput
	}

	taken, err := s.hostels.NameTaken(ctx, domain.HostelNameKey(name))
	if err != nil {
		return nil, fmt.Errorf("check hostel name: %w", err)
	}
	if taken {
		return nil, domain.ErrHostelExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock()
	for attempt := 0; attempt < maxHostelIDAttempts; attempt++ {
		id, err := s.newHostelID(prefix)
		if err != nil {
			return nil, err
		}

		hostel := domain.Hostel{ID: id, Name: name, CreatedAt: now}
		admin := domain.User{
			HostelID:     id,
			UserID:       adminID,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			AddedBy:      domain.SystemActor,
			AddedAt:      now,
		}

		err = s.hostels.CreateWithAdmin(ctx, hostel, admin)
		if errors.Is(err, domain.ErrHostelIDTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &hostel, nil
	}
	return nil, domain.ErrHostelIDTaken
}

func (s *IdentityService) newHostelID(prefix string) (string, error) {
	n, err := rand.Int(s.random, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate hostel id: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, n.Int64()), nil
}

func (s *IdentityService) GetHostel(ctx context.Context, hostelID string) (*domain.Hostel, error) {
	id := domain.NormalizeID(hostelID)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return s.hostels.FindHostel(ctx, id)
}

func (s *IdentityService) HostelSummary(ctx context.Context, hostelID string) (*domain.HostelSummary, error) {
	return s.hostels.HostelSummary(ctx, domain.NormalizeID(hostelID))
}

func (s *IdentityService) AddUser(ctx context.Context, actor domain.Session, userID, password string, role domain.Role) (*domain.User, error) {
	userID = domain.NormalizeID(userID)
	if userID == "" || !domain.ValidPassword(password) || !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		HostelID:     actor.HostelID,
		UserID:       userID,
		PasswordHash: hash,
		Role:         role,
		AddedBy:      actor.UserID,
		AddedAt:      s.clock(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *IdentityService) RemoveUser(ctx context.Context, actor domain.Session, userID string) error {
	userID = domain.NormalizeID(userID)
	if userID == "" {
		return domain.ErrInvalidInput
	}
	if userID == actor.UserID {
		return domain.ErrSelfRemoval
	}
	return s.users.DeleteUser(ctx, actor.HostelID, userID)
}

func (s *IdentityService) ChangePassword(ctx context.Context, actor domain.Session, userID, newPassword string) error {
	userID = domain.NormalizeID(userID)
	if userID == "" || !domain.ValidPassword(newPassword) {
		return domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, actor.HostelID, userID, hash)
}

// ImportStudents adds every valid row as a student. Rows with an empty field
// or an unusable password, rows repeating an id seen earlier in the batch and
// ids that already exist are reported as skipped. A row without an id is
// reported by its line.
func (s *IdentityService) ImportStudents(ctx context.Context, actor domain.Session, rows []domain.Credential) (*domain.ImportResult, error) {
	result := &domain.ImportResult{Skipped: []string{}}
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		id := domain.NormalizeID(row.UserID)
		if id == "" {
			result.Skipped = append(result.Skipped, rowLabel(row, i))
			continue
		}
		password := strings.TrimSpace(row.Password)
		if !domain.ValidPassword(password) || seen[id] {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		seen[id] = true

		_, err := s.AddUser(ctx, actor, id, password, domain.RoleStudent)
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrInvalidInput) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err != nil {
			return result, err
		}
		result.Added++
	}
	return result, nil
}

func rowLabel(row domain.Credential, index int) string {
	if row.Line > 0 {
		return fmt.Sprintf("line %d", row.Line)
	}
	return fmt.Sprintf("row %d", index+1)
}
