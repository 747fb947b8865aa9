package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

const mockHashPrefix = "hashed:"

// MockPasswordHasher hashes by prefixing, which keeps service tests fast.
type MockPasswordHasher struct {
	mu sync.RWMutex

	HashCalls int
	HashError error
}

var _ ports.PasswordHasher = (*MockPasswordHasher)(nil)

func NewMockPasswordHasher() *MockPasswordHasher {
	return &MockPasswordHasher{}
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HashCalls++
	if m.HashError != nil {
		return "", m.HashError
	}
	return mockHashPrefix + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	return strings.HasPrefix(hash, mockHashPrefix) && hash == mockHashPrefix+password
}

// MockTokenStore keeps revoked token ids in memory.
type MockTokenStore struct {
	mu sync.RWMutex

	revoked map[string]time.Duration

	RevokeCalls     []string
	RevokeError     error
	IsRevokedError  error
	IsRevokedCalled int
}

var _ ports.TokenStore = (*MockTokenStore)(nil)

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{revoked: make(map[string]time.Duration)}
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RevokeCalls = append(m.RevokeCalls, tokenID)
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IsRevokedCalled++
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// RevokedTTL returns the ttl a token was revoked with.
func (m *MockTokenStore) RevokedTTL(tokenID string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ttl, ok := m.revoked[tokenID]
	return ttl, ok
}
