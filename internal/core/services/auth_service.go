package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type AuthService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenStore
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
	clock      Clock
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenStore,
	privateKey *rsa.PrivateKey,
	tokenTTL time.Duration,
	clock Clock,
) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
		clock:      clockOrNow(clock),
	}
}

// Login checks the credentials and returns a signed RS256 session token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, hostelID, userID, password string) (*domain.Token, error) {
	hostelID = domain.NormalizeID(hostelID)
	userID = domain.NormalizeID(userID)

	user, err := s.users.FindByUserID(ctx, hostelID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock()
	exp := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.UserID,
		"hid":  user.HostelID,
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.Token{Value: signed, Role: user.Role, ExpiresAt: exp}, nil
}

// Logout revokes the session's token for the rest of its lifetime. A session
// without a token id or already past expiry has nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.clock())
	if session.TokenID == "" || ttl <= 0 {
		return nil
	}
	return s.tokens.Revoke(ctx, session.TokenID, ttl)
}
