// Package mocks provides in-memory implementations of the core ports for
// tests. Each mock tracks calls and lets a test inject errors.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

// MockStore implements every repository port over maps guarded by one mutex,
// so each call is atomic the way a single statement or transaction is.
type MockStore struct {
	mu sync.Mutex

	hostels   map[string]domain.Hostel
	nameKeys  map[string]string
	users     map[string]domain.User
	responses map[string]*domain.MealResponse
	summaries map[string]domain.DailySummary
	bills     []domain.Bill
	nextID    int64

	// Events holds the report events that would have gone to the outbox.
	Events []ports.ReportGeneratedEvent

	// Call tracking
	CreateWithAdminCalls []domain.Hostel
	CreateUserCalls      []domain.User
	UpsertCalls          []domain.MealResponse
	FinalizeCalls        int
	RedeemCalls          int

	// Error injection. CreateWithAdminErrors is consumed one per call.
	CreateWithAdminErrors []error
	NameTakenError        error
	FindUserError         error
	CreateUserError       error
	UpsertError           error
	TallyError            error
	FinalizeError         error
	RedeemError           error
	CreateBillError       error
}

var (
	_ ports.HostelRepository = (*MockStore)(nil)
	_ ports.UserRepository   = (*MockStore)(nil)
	_ ports.MealRepository   = (*MockStore)(nil)
	_ ports.ReportRepository = (*MockStore)(nil)
	_ ports.BillRepository   = (*MockStore)(nil)
)

func NewMockStore() *MockStore {
	m := &MockStore{}
	m.Reset()
	return m
}

// Reset clears all stored data, call tracking and injected errors.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hostels = make(map[string]domain.Hostel)
	m.nameKeys = make(map[string]string)
	m.users = make(map[string]domain.User)
	m.responses = make(map[string]*domain.MealResponse)
	m.summaries = make(map[string]domain.DailySummary)
	m.bills = nil
	m.nextID = 0
	m.Events = nil

	m.CreateWithAdminCalls = nil
	m.CreateUserCalls = nil
	m.UpsertCalls = nil
	m.FinalizeCalls = 0
	m.RedeemCalls = 0

	m.CreateWithAdminErrors = nil
	m.NameTakenError = nil
	m.FindUserError = nil
	m.CreateUserError = nil
	m.UpsertError = nil
	m.TallyError = nil
	m.FinalizeError = nil
	m.RedeemError = nil
	m.CreateBillError = nil
}

func userKey(hostelID, userID string) string {
	return hostelID + "|" + userID
}

func responseKey(hostelID, studentID string, date domain.Date) string {
	return hostelID + "|" + studentID + "|" + date.String()
}

func summaryKey(hostelID string, date domain.Date) string {
	return hostelID + "|" + date.String()
}

// SeedHostel stores a hostel directly, bypassing the registration path.
func (m *MockStore) SeedHostel(h domain.Hostel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hostels[h.ID] = h
	m.nameKeys[domain.HostelNameKey(h.Name)] = h.ID
}

func (m *MockStore) SeedUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.users[userKey(u.HostelID, u.UserID)] = u
}

// SeedResponse stores a response row as-is, passes included.
func (m *MockStore) SeedResponse(r domain.MealResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.responses[responseKey(r.HostelID, r.StudentID, r.Date)] = &r
}

// Response returns a copy of the stored row, or nil.
func (m *MockStore) Response(hostelID, studentID string, date domain.Date) *domain.MealResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[responseKey(hostelID, studentID, date)]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

func (m *MockStore) User(hostelID, userID string) (domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userKey(hostelID, userID)]
	return u, ok
}

func (m *MockStore) SummaryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summaries)
}

func (m *MockStore) CreateWithAdmin(ctx context.Context, hostel domain.Hostel, admin domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateWithAdminCalls = append(m.CreateWithAdminCalls, hostel)
	if len(m.CreateWithAdminErrors) > 0 {
		err := m.CreateWithAdminErrors[0]
		m.CreateWithAdminErrors = m.CreateWithAdminErrors[1:]
		if err != nil {
			return err
		}
	}

	key := domain.HostelNameKey(hostel.Name)
	if _, ok := m.nameKeys[key]; ok {
		return domain.ErrHostelExists
	}
	if _, ok := m.hostels[hostel.ID]; ok {
		return domain.ErrHostelIDTaken
	}

	m.hostels[hostel.ID] = hostel
	m.nameKeys[key] = hostel.ID
	m.nextID++
	admin.ID = m.nextID
	m.users[userKey(admin.HostelID, admin.UserID)] = admin
	return nil
}

func (m *MockStore) NameTaken(ctx context.Context, nameKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NameTakenError != nil {
		return false, m.NameTakenError
	}
	_, ok := m.nameKeys[nameKey]
	return ok, nil
}

func (m *MockStore) FindHostel(ctx context.Context, hostelID string) (*domain.Hostel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hostels[hostelID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &h, nil
}

func (m *MockStore) HostelSummary(ctx context.Context, hostelID string) (*domain.HostelSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hostels[hostelID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.HostelSummary{ID: h.ID, Name: h.Name, StudentCount: m.studentCount(hostelID)}, nil
}

func (m *MockStore) studentCount(hostelID string) int {
	n := 0
	for _, u := range m.users {
		if u.HostelID == hostelID && u.Role == domain.RoleStudent {
			n++
		}
	}
	return n
}

func (m *MockStore) CreateUser(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateUserCalls = append(m.CreateUserCalls, user)
	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	key := userKey(user.HostelID, user.UserID)
	if _, ok := m.users[key]; ok {
		return domain.ErrUserExists
	}
	m.nextID++
	user.ID = m.nextID
	m.users[key] = user
	return nil
}

func (m *MockStore) FindByUserID(ctx context.Context, hostelID, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindUserError != nil {
		return nil, m.FindUserError
	}
	u, ok := m.users[userKey(hostelID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *MockStore) UpdatePassword(ctx context.Context, hostelID, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey(hostelID, userID)
	u, ok := m.users[key]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	m.users[key] = u
	return nil
}

func (m *MockStore) DeleteUser(ctx context.Context, hostelID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey(hostelID, userID)
	if _, ok := m.users[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, key)
	return nil
}

func (m *MockStore) Upsert(ctx context.Context, resp domain.MealResponse) (*domain.MealResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertCalls = append(m.UpsertCalls, resp)
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}

	key := responseKey(resp.HostelID, resp.StudentID, resp.Date)
	existing, ok := m.responses[key]
	if ok {
		if _, finalized := m.summaries[summaryKey(resp.HostelID, resp.Date)]; finalized {
			return nil, domain.ErrPassesIssued
		}
		existing.Choice = resp.Choice
		existing.SubmittedAt = resp.SubmittedAt
		cp := *existing
		return &cp, nil
	}

	m.nextID++
	resp.ID = m.nextID
	stored := resp
	m.responses[key] = &stored
	return &resp, nil
}

func (m *MockStore) FindResponse(ctx context.Context, hostelID, studentID string, date domain.Date) (*domain.MealResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[responseKey(hostelID, studentID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockStore) Tally(ctx context.Context, hostelID string, date domain.Date) (domain.MealTally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TallyError != nil {
		return domain.MealTally{}, m.TallyError
	}
	return m.tally(hostelID, date), nil
}

// studentResponses returns the date's rows whose author is still a student,
// ordered by id.
func (m *MockStore) studentResponses(hostelID string, date domain.Date) []*domain.MealResponse {
	var out []*domain.MealResponse
	for _, r := range m.responses {
		if r.HostelID != hostelID || r.Date != date {
			continue
		}
		u, ok := m.users[userKey(r.HostelID, r.StudentID)]
		if !ok || u.Role != domain.RoleStudent {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MockStore) tally(hostelID string, date domain.Date) domain.MealTally {
	t := domain.MealTally{TotalStudents: m.studentCount(hostelID)}
	for _, r := range m.studentResponses(hostelID, date) {
		t.Responded++
		if r.Choice.Breakfast {
			t.Breakfast++
		}
		if r.Choice.Lunch {
			t.Lunch++
		}
		if r.Choice.Dinner {
			t.Dinner++
		}
	}
	return t
}

func (m *MockStore) Redeem(ctx context.Context, hostelID string, date domain.Date, meal domain.MealType, code string) (domain.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RedeemCalls++
	if m.RedeemError != nil {
		return domain.Redemption{}, m.RedeemError
	}

	for _, r := range m.responses {
		if r.HostelID != hostelID || r.Date != date || r.Passes.For(meal) != code {
			continue
		}
		if r.Attended.For(meal) {
			return domain.Redemption{Status: domain.PassAlreadyUsed, Meal: meal, Code: code, StudentID: r.StudentID}, nil
		}
		r.Attended.Set(meal, true)
		return domain.Redemption{Status: domain.PassVerified, Meal: meal, Code: code, StudentID: r.StudentID}, nil
	}
	return domain.Redemption{Status: domain.PassInvalid, Meal: meal}, nil
}

// Finalize mirrors the SQL transaction: nothing is written unless every step
// succeeds.
func (m *MockStore) Finalize(ctx context.Context, hostelID string, date domain.Date, at time.Time, assign ports.PassAssigner) (*domain.ReportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FinalizeCalls++
	if m.FinalizeError != nil {
		return nil, m.FinalizeError
	}

	key := summaryKey(hostelID, date)
	if _, ok := m.summaries[key]; ok {
		return &domain.ReportResult{Status: domain.ReportAlreadyGenerated, Date: date}, nil
	}

	summary := domain.NewDailySummary(hostelID, date, m.tally(hostelID, date).Counts(), at)

	rows := m.studentResponses(hostelID, date)
	responses := make([]domain.MealResponse, 0, len(rows))
	byID := make(map[int64]*domain.MealResponse, len(rows))
	for _, r := range rows {
		responses = append(responses, *r)
		byID[r.ID] = r
	}

	assignments, err := assign(responses)
	if err != nil {
		return nil, err
	}

	issued := 0
	for _, a := range assignments {
		r, ok := byID[a.ResponseID]
		if !ok {
			continue
		}
		for _, meal := range domain.Meals {
			if r.Passes.For(meal) == "" && a.Passes.For(meal) != "" {
				r.Passes.Set(meal, a.Passes.For(meal))
			}
		}
		issued += a.Passes.Count()
	}

	m.summaries[key] = summary
	m.Events = append(m.Events, ports.ReportGeneratedEvent{
		HostelID:      hostelID,
		ReportDate:    date.String(),
		TotalStudents: summary.TotalStudents,
		Breakfast:     summary.BreakfastOptIn,
		Lunch:         summary.LunchOptIn,
		Dinner:        summary.DinnerOptIn,
		Responded:     summary.RespondedStudents,
		PassesIssued:  issued,
		GeneratedAt:   at,
	})

	return &domain.ReportResult{
		Status:       domain.ReportGenerated,
		Date:         date,
		Summary:      &summary,
		PassesIssued: issued,
	}, nil
}

func (m *MockStore) FindSummary(ctx context.Context, hostelID string, date domain.Date) (*domain.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[summaryKey(hostelID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MockStore) CreateBill(ctx context.Context, bill domain.Bill) (*domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateBillError != nil {
		return nil, m.CreateBillError
	}
	m.nextID++
	bill.ID = m.nextID
	m.bills = append(m.bills, bill)
	return &bill, nil
}

func (m *MockStore) ListBills(ctx context.Context, hostelID string) ([]domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Bill{}
	for _, b := range m.bills {
		if b.HostelID == hostelID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PurchaseDate != out[j].PurchaseDate {
			return out[i].PurchaseDate > out[j].PurchaseDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
