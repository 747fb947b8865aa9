package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/mocks"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newIdentityService(store *mocks.MockStore, hasher *mocks.MockPasswordHasher) *IdentityService {
	return NewIdentityService(store, store, hasher, mocks.FixedClock(testNow))
}

func TestRegisterHostel(t *testing.T) {
	tests := []struct {
		name        string
		hostelName  string
		adminID     string
		password    string
		setupMock   func(*mocks.MockStore, *mocks.MockPasswordHasher)
		expectError error
		expectCalls int
	}{
		{
			name:        "successful registration",
			hostelName:  "North Hall",
			adminID:     "warden1",
			password:    "s3cret",
			setupMock:   func(*mocks.MockStore, *mocks.MockPasswordHasher) {},
			expectCalls: 1,
		},
		{
			name:       "retries on id collision",
			hostelName: "North Hall",
			adminID:    "warden1",
			password:   "s3cret",
			setupMock: func(s *mocks.MockStore, _ *mocks.MockPasswordHasher) {
				s.CreateWithAdminErrors = []error{domain.ErrHostelIDTaken, domain.ErrHostelIDTaken}
			},
			expectCalls: 3,
		},
		{
			name:       "gives up after repeated collisions",
			hostelName: "North Hall",
			adminID:    "warden1",
			password:   "s3cret",
			setupMock: func(s *mocks.MockStore, _ *mocks.MockPasswordHasher) {
				for i := 0; i < maxHostelIDAttempts; i++ {
					s.CreateWithAdminErrors = append(s.CreateWithAdminErrors, domain.ErrHostelIDTaken)
				}
			},
			expectError: domain.ErrHostelIDTaken,
			expectCalls: maxHostelIDAttempts,
		},
		{
			name:       "duplicate name in different case",
			hostelName: "north  HALL",
			adminID:    "warden2",
			password:   "s3cret",
			setupMock: func(s *mocks.MockStore, _ *mocks.MockPasswordHasher) {
				s.SeedHostel(domain.Hostel{ID: "NORT0001", Name: "North Hall"})
			},
			expectError: domain.ErrHostelExists,
		},
		{
			name:        "name without letters or digits",
			hostelName:  "***",
			adminID:     "warden1",
			password:    "s3cret",
			setupMock:   func(*mocks.MockStore, *mocks.MockPasswordHasher) {},
			expectError: domain.ErrInvalidInput,
		},
		{
			name:        "missing password",
			hostelName:  "North Hall",
			adminID:     "warden1",
			setupMock:   func(*mocks.MockStore, *mocks.MockPasswordHasher) {},
			expectError: domain.ErrInvalidInput,
		},
		{
			name:       "hasher failure",
			hostelName: "North Hall",
			adminID:    "warden1",
			password:   "s3cret",
			setupMock: func(_ *mocks.MockStore, h *mocks.MockPasswordHasher) {
				h.HashError = errors.New("bcrypt failed")
			},
			expectError: errors.New("bcrypt failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			hasher := mocks.NewMockPasswordHasher()
			tt.setupMock(store, hasher)
			svc := newIdentityService(store, hasher)

			hostel, err := svc.RegisterHostel(context.Background(), tt.hostelName, tt.adminID, tt.password)

			if tt.expectError != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectError)
				}
				if !errors.Is(err, tt.expectError) && !strings.Contains(err.Error(), tt.expectError.Error()) {
					t.Errorf("expected error %v, got %v", tt.expectError, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.HasPrefix(hostel.ID, "NORT") || len(hostel.ID) != 8 {
					t.Errorf("unexpected hostel id %q", hostel.ID)
				}
				if hostel.Name != "North Hall" {
					t.Errorf("unexpected name %q", hostel.Name)
				}
				admin, ok := store.User(hostel.ID, "WARDEN1")
				if !ok {
					t.Fatal("admin account was not created")
				}
				if admin.Role != domain.RoleAdmin || admin.AddedBy != domain.SystemActor {
					t.Errorf("unexpected admin %+v", admin)
				}
				if admin.PasswordHash == tt.password {
					t.Error("password stored in plaintext")
				}
			}

			if len(store.CreateWithAdminCalls) != tt.expectCalls {
				t.Errorf("expected %d create calls, got %d", tt.expectCalls, len(store.CreateWithAdminCalls))
			}
		})
	}
}

func TestRegisterHostel_IDDigits(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newIdentityService(store, mocks.NewMockPasswordHasher())
	// two zero bytes make rand.Int return 0
	svc.random = bytes.NewReader(make([]byte, 64))

	hostel, err := svc.RegisterHostel(context.Background(), "St. Mary's", "admin", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hostel.ID != "STMA0000" {
		t.Errorf("expected STMA0000, got %s", hostel.ID)
	}
}

func TestAddUser(t *testing.T) {
	store := mocks.NewMockStore()
	svc := newIdentityService(store, mocks.NewMockPasswordHasher())
	actor := domain.Session{HostelID: "NORT1234", UserID: "ADMIN1", Role: domain.RoleAdmin}

	user, err := svc.AddUser(context.Background(), actor, " s101 ", "pw", domain.RoleStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserID != "S101" || user.HostelID != "NORT1234" || user.AddedBy != "ADMIN1" {
		t.Errorf("unexpected user %+v", user)
	}
	if !user.AddedAt.Equal(testNow) {
		t.Errorf("AddedAt = %v", user.AddedAt)
	}

	if _, err := svc.AddUser(context.Background(), actor, "S101", "pw", domain.RoleStudent); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
	if _, err := svc.AddUser(context.Background(), actor, "S102", "pw", domain.Role("warden")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestRemoveUser(t *testing.T) {
	store := mocks.NewMockStore()
	store.SeedUser(mocks.Admin("NORT1234", "ADMIN1"))
	store.SeedUser(mocks.Student("NORT1234", "S101"))
	svc := newIdentityService(store, mocks.NewMockPasswordHasher())
	actor := domain.Session{HostelID: "NORT1234", UserID: "ADMIN1", Role: domain.RoleAdmin}

	if err := svc.RemoveUser(context.Background(), actor, "admin1"); !errors.Is(err, domain.ErrSelfRemoval) {
		t.Errorf("expected ErrSelfRemoval, got %v", err)
	}
	if err := svc.RemoveUser(context.Background(), actor, "s101"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.User("NORT1234", "S101"); ok {
		t.Error("student still present")
	}
	if err := svc.RemoveUser(context.Background(), actor, "S101"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := mocks.NewMockStore()
	store.SeedUser(mocks.Student("NORT1234", "S101"))
	svc := newIdentityService(store, mocks.NewMockPasswordHasher())
	actor := domain.Session{HostelID: "NORT1234", UserID: "ADMIN1", Role: domain.RoleAdmin}

	if err := svc.ChangePassword(context.Background(), actor, "S101", "fresh"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := store.User("NORT1234", "S101")
	if u.PasswordHash != "hashed:fresh" {
		t.Errorf("password not updated: %q", u.PasswordHash)
	}

	other := domain.Session{HostelID: "SOUT0001", UserID: "ADMIN9", Role: domain.RoleAdmin}
	if err := svc.ChangePassword(context.Background(), other, "S101", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("admin of another hostel should get ErrNotFound, got %v", err)
	}
}

func TestImportStudents(t *testing.T) {
	store := mocks.NewMockStore()
	store.SeedUser(mocks.Student("NORT1234", "S100"))
	svc := newIdentityService(store, mocks.NewMockPasswordHasher())
	actor := domain.Session{HostelID: "NORT1234", UserID: "ADMIN1", Role: domain.RoleAdmin}

	rows := []domain.Credential{
		{UserID: "S101", Password: "a"},
		{UserID: "s102", Password: " b "},
		{UserID: "S101", Password: "dup"},
		{UserID: "S100", Password: "exists"},
		{UserID: "S103", Password: ""},
		{UserID: "  ", Password: "x", Line: 7},
		{UserID: "S105", Password: strings.Repeat("x", domain.MaxPasswordBytes+1)},
		{UserID: "", Password: "y"},
		{UserID: "S104", Password: "d"},
	}

	result, err := svc.ImportStudents(context.Background(), actor, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Added != 3 {
		t.Errorf("expected 3 added, got %d", result.Added)
	}
	want := []string{"S101", "S100", "S103", "line 7", "S105", "row 8"}
	if strings.Join(result.Skipped, ",") != strings.Join(want, ",") {
		t.Errorf("skipped = %v, want %v", result.Skipped, want)
	}

	u, ok := store.User("NORT1234", "S102")
	if !ok || u.Role != domain.RoleStudent || u.PasswordHash != "hashed:b" {
		t.Errorf("unexpected imported user %+v", u)
	}
}

func TestImportStudents_HasherRejectsPassword(t *testing.T) {
	store := mocks.NewMockStore()
	hasher := mocks.NewMockPasswordHasher()
	hasher.HashError = domain.ErrInvalidInput
	svc := newIdentityService(store, hasher)
	actor := domain.Session{HostelID: "NORT1234", UserID: "ADMIN1", Role: domain.RoleAdmin}

	rows := []domain.Credential{{UserID: "S1", Password: "a"}, {UserID: "S2", Password: "b"}}
	result, err := svc.ImportStudents(context.Background(), actor, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Added != 0 || strings.Join(result.Skipped, ",") != "S1,S2" {
		t.Errorf("unexpected result %+v", result)
	}
	if hasher.HashCalls != 2 {
		t.Errorf("expected every row to be tried, got %d hash calls", hasher.HashCalls)
	}
}

func TestPasswordLength(t *testing.T) {
	actor := domain.Session{HostelID: "NORT1234", UserID: "ADMIN1", Role: domain.RoleAdmin}
	tests := []struct {
		name        string
		password    string
		expectError error
	}{
		{name: "at the limit", password: strings.Repeat("x", domain.MaxPasswordBytes)},
		{name: "one byte over", password: strings.Repeat("x", domain.MaxPasswordBytes+1), expectError: domain.ErrInvalidInput},
		{name: "multibyte runes over the byte limit", password: strings.Repeat("é", domain.MaxPasswordBytes), expectError: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			store.SeedUser(mocks.Student("NORT1234", "S100"))
			hasher := mocks.NewMockPasswordHasher()
			svc := newIdentityService(store, hasher)
			ctx := context.Background()

			if _, err := svc.RegisterHostel(ctx, "North Hall", "warden1", tt.password); !errors.Is(err, tt.expectError) {
				t.Errorf("RegisterHostel: expected %v, got %v", tt.expectError, err)
			}
			if _, err := svc.AddUser(ctx, actor, "S101", tt.password, domain.RoleStudent); !errors.Is(err, tt.expectError) {
				t.Errorf("AddUser: expected %v, got %v", tt.expectError, err)
			}
			if err := svc.ChangePassword(ctx, actor, "S100", tt.password); !errors.Is(err, tt.expectError) {
				t.Errorf("ChangePassword: expected %v, got %v", tt.expectError, err)
			}
			if tt.expectError != nil && hasher.HashCalls != 0 {
				t.Errorf("rejected password reached the hasher %d times", hasher.HashCalls)
			}
		})
	}
}

func TestImportStudents_StoreFailure(t *testing.T) {
	store := mocks.NewMockStore()
	store.CreateUserError = errors.New("db down")
	svc := newIdentityService(store, mocks.NewMockPasswordHasher())

	_, err := svc.ImportStudents(context.Background(), domain.Session{HostelID: "NORT1234"}, []domain.Credential{{UserID: "S1", Password: "x"}})
	if err == nil {
		t.Fatal("expected error")
	}
}
