package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

const mealResponseColumns = `m.id, m.hostel_id, m.student_id, m.response_date,
	m.breakfast, m.lunch, m.dinner,
	m.breakfast_pass, m.lunch_pass, m.dinner_pass,
	m.breakfast_attended, m.lunch_attended, m.dinner_attended,
	m.submitted_at`

type mealResponseRow struct {
	ID                int64          `db:"id"`
	HostelID          string         `db:"hostel_id"`
	StudentID         string         `db:"student_id"`
	ResponseDate      string         `db:"response_date"`
	Breakfast         bool           `db:"breakfast"`
	Lunch             bool           `db:"lunch"`
	Dinner            bool           `db:"dinner"`
	BreakfastPass     sql.NullString `db:"breakfast_pass"`
	LunchPass         sql.NullString `db:"lunch_pass"`
	DinnerPass        sql.NullString `db:"dinner_pass"`
	BreakfastAttended bool           `db:"breakfast_attended"`
	LunchAttended     bool           `db:"lunch_attended"`
	DinnerAttended    bool           `db:"dinner_attended"`
	SubmittedAt       time.Time      `db:"submitted_at"`
}

func (row mealResponseRow) toDomain() domain.MealResponse {
	return domain.MealResponse{
		ID:        row.ID,
		HostelID:  row.HostelID,
		StudentID: row.StudentID,
		Date:      domain.Date(row.ResponseDate),
		Choice: domain.MealChoice{
			Breakfast: row.Breakfast,
			Lunch:     row.Lunch,
			Dinner:    row.Dinner,
		},
		Passes: domain.PassCodes{
			Breakfast: row.BreakfastPass.String,
			Lunch:     row.LunchPass.String,
			Dinner:    row.DinnerPass.String,
		},
		Attended: domain.Attendance{
			Breakfast: row.BreakfastAttended,
			Lunch:     row.LunchAttended,
			Dinner:    row.DinnerAttended,
		},
		SubmittedAt: row.SubmittedAt,
	}
}

// Upsert writes the choice in a single statement. The update branch is
// skipped once the date has a daily summary, which leaves no row to return.
func (r *SQLRepository) Upsert(ctx context.Context, resp domain.MealResponse) (*domain.MealResponse, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.q(`
		INSERT INTO meal_responses (hostel_id, student_id, response_date, breakfast, lunch, dinner, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hostel_id, student_id, response_date) DO UPDATE SET
			breakfast = excluded.breakfast,
			lunch = excluded.lunch,
			dinner = excluded.dinner,
			submitted_at = excluded.submitted_at
		WHERE NOT EXISTS (
			SELECT 1 FROM daily_summary s
			WHERE s.hostel_id = meal_responses.hostel_id AND s.report_date = meal_responses.response_date
		)
		RETURNING id`),
		resp.HostelID,
		resp.StudentID,
		resp.Date.String(),
		resp.Choice.Breakfast,
		resp.Choice.Lunch,
		resp.Choice.Dinner,
		utc(resp.SubmittedAt),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPassesIssued
	}
	if err != nil {
		return nil, fmt.Errorf("upsert meal response: %w", err)
	}

	resp.ID = id
	return &resp, nil
}

func (r *SQLRepository) FindResponse(ctx context.Context, hostelID, studentID string, date domain.Date) (*domain.MealResponse, error) {
	var row mealResponseRow
	err := r.db.GetContext(ctx, &row, r.q(`
		SELECT `+mealResponseColumns+`
		FROM meal_responses m
		WHERE m.hostel_id = ? AND m.student_id = ? AND m.response_date = ?`),
		hostelID, studentID, date.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find meal response: %w", err)
	}
	resp := row.toDomain()
	return &resp, nil
}

func (r *SQLRepository) Tally(ctx context.Context, hostelID string, date domain.Date) (domain.MealTally, error) {
	tally, err := r.tally(ctx, r.db, hostelID, date)
	if err != nil {
		return domain.MealTally{}, fmt.Errorf("tally meals: %w", err)
	}
	return tally, nil
}

// tally counts only responses whose author is still a student of the hostel,
// so responded never exceeds the student total.
func (r *SQLRepository) tally(ctx context.Context, q sqlx.QueryerContext, hostelID string, date domain.Date) (domain.MealTally, error) {
	var row struct {
		TotalStudents int `db:"total_students"`
		Responded     int `db:"responded"`
		Breakfast     int `db:"breakfast"`
		Lunch         int `db:"lunch"`
		Dinner        int `db:"dinner"`
	}
	err := sqlx.GetContext(ctx, q, &row, r.q(`
		SELECT
			(SELECT COUNT(*) FROM users WHERE hostel_id = ? AND role = 'student') AS total_students,
			COUNT(m.id) AS responded,
			COALESCE(SUM(CASE WHEN m.breakfast THEN 1 ELSE 0 END), 0) AS breakfast,
			COALESCE(SUM(CASE WHEN m.lunch THEN 1 ELSE 0 END), 0) AS lunch,
			COALESCE(SUM(CASE WHEN m.dinner THEN 1 ELSE 0 END), 0) AS dinner
		FROM meal_responses m
		JOIN users u ON u.hostel_id = m.hostel_id AND u.user_id = m.student_id AND u.role = 'student'
		WHERE m.hostel_id = ? AND m.response_date = ?`),
		hostelID, hostelID, date.String(),
	)
	if err != nil {
		return domain.MealTally{}, err
	}
	return domain.MealTally{
		TotalStudents: row.TotalStudents,
		Responded:     row.Responded,
		Breakfast:     row.Breakfast,
		Lunch:         row.Lunch,
		Dinner:        row.Dinner,
	}, nil
}

func passColumns(m domain.MealType) (pass, attended string, err error) {
	switch m {
	case domain.Breakfast:
		return "breakfast_pass", "breakfast_attended", nil
	case domain.Lunch:
		return "lunch_pass", "lunch_attended", nil
	case domain.Dinner:
		return "dinner_pass", "dinner_attended", nil
	}
	return "", "", domain.ErrInvalidInput
}

// Redeem flips the attended flag with one conditional update so that of any
// number of concurrent attempts exactly one sees a changed row.
func (r *SQLRepository) Redeem(
	ctx context.Context,
	hostelID string,
	date domain.Date,
	meal domain.MealType,
	code string,
) (domain.Redemption, error) {
	passCol, attendedCol, err := passColumns(meal)
	if err != nil {
		return domain.Redemption{}, err
	}
	result := domain.Redemption{Meal: meal, Code: code}

	var studentID string
	err = r.db.QueryRowxContext(ctx, r.q(fmt.Sprintf(`
		UPDATE meal_responses SET %[2]s = TRUE
		WHERE hostel_id = ? AND response_date = ? AND %[1]s = ? AND %[2]s = FALSE
		RETURNING student_id`, passCol, attendedCol)),
		hostelID, date.String(), code,
	).Scan(&studentID)
	if err == nil {
		result.Status = domain.PassVerified
		result.StudentID = studentID
		return result, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Redemption{}, fmt.Errorf("redeem pass: %w", err)
	}

	err = r.db.GetContext(ctx, &studentID, r.q(fmt.Sprintf(`
		SELECT student_id FROM meal_responses
		WHERE hostel_id = ? AND response_date = ? AND %s = ?`, passCol)),
		hostelID, date.String(), code,
	)
	if errors.Is(err, sql.ErrNoRows) {
		result.Status = domain.PassInvalid
		result.Code = ""
		return result, nil
	}
	if err != nil {
		return domain.Redemption{}, fmt.Errorf("look up pass: %w", err)
	}

	result.Status = domain.PassAlreadyUsed
	result.StudentID = studentID
	return result, nil
}
