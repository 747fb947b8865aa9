package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type summaryRow struct {
	HostelID          string    `db:"hostel_id"`
	ReportDate        string    `db:"report_date"`
	TotalStudents     int       `db:"total_students"`
	BreakfastOptIn    int       `db:"breakfast_opt_in"`
	LunchOptIn        int       `db:"lunch_opt_in"`
	DinnerOptIn       int       `db:"dinner_opt_in"`
	RespondedStudents int       `db:"responded_students"`
	GeneratedAt       time.Time `db:"generated_at"`
}

// Finalize runs the whole report in one transaction. The summary insert is
// the gate: when another call already wrote it nothing else is touched.
func (r *SQLRepository) Finalize(
	ctx context.Context,
	hostelID string,
	date domain.Date,
	at time.Time,
	assign ports.PassAssigner,
) (*domain.ReportResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tally, err := r.tally(ctx, tx, hostelID, date)
	if err != nil {
		return nil, fmt.Errorf("tally meals: %w", err)
	}
	summary := domain.NewDailySummary(hostelID, date, tally.Counts(), at)

	res, err := tx.ExecContext(ctx, r.q(`
		INSERT INTO daily_summary (hostel_id, report_date, total_students, breakfast_opt_in, lunch_opt_in, dinner_opt_in, responded_students, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hostel_id, report_date) DO NOTHING`),
		summary.HostelID,
		summary.ReportDate.String(),
		summary.TotalStudents,
		summary.BreakfastOptIn,
		summary.LunchOptIn,
		summary.DinnerOptIn,
		summary.RespondedStudents,
		utc(summary.GeneratedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert daily summary: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if inserted == 0 {
		return &domain.ReportResult{Status: domain.ReportAlreadyGenerated, Date: date}, nil
	}

	var rows []mealResponseRow
	err = tx.SelectContext(ctx, &rows, r.q(`
		SELECT `+mealResponseColumns+`
		FROM meal_responses m
		JOIN users u ON u.hostel_id = m.hostel_id AND u.user_id = m.student_id AND u.role = 'student'
		WHERE m.hostel_id = ? AND m.response_date = ?
		ORDER BY m.id`), hostelID, date.String())
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	responses := make([]domain.MealResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, row.toDomain())
	}

	assignments, err := assign(responses)
	if err != nil {
		return nil, err
	}

	issued := 0
	for _, a := range assignments {
		_, err := tx.ExecContext(ctx, r.q(`
			UPDATE meal_responses SET
				breakfast_pass = COALESCE(breakfast_pass, ?),
				lunch_pass = COALESCE(lunch_pass, ?),
				dinner_pass = COALESCE(dinner_pass, ?)
			WHERE id = ?`),
			nullString(a.Passes.Breakfast),
			nullString(a.Passes.Lunch),
			nullString(a.Passes.Dinner),
			a.ResponseID,
		)
		if err != nil {
			return nil, fmt.Errorf("write passes: %w", err)
		}
		issued += a.Passes.Count()
	}

	if r.outbox {
		if err := r.insertReportEvent(ctx, tx, summary, issued); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.ReportResult{
		Status:       domain.ReportGenerated,
		Date:         date,
		Summary:      &summary,
		PassesIssued: issued,
	}, nil
}

func (r *SQLRepository) insertReportEvent(ctx context.Context, tx *sqlx.Tx, summary domain.DailySummary, issued int) error {
	payload, err := json.Marshal(ports.ReportGeneratedEvent{
		HostelID:      summary.HostelID,
		ReportDate:    summary.ReportDate.String(),
		TotalStudents: summary.TotalStudents,
		Breakfast:     summary.BreakfastOptIn,
		Lunch:         summary.LunchOptIn,
		Dinner:        summary.DinnerOptIn,
		Responded:     summary.RespondedStudents,
		PassesIssued:  issued,
		GeneratedAt:   summary.GeneratedAt,
	})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		r.q("INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES (?, ?, ?, ?)"),
		uuid.NewString(),
		ports.EventReportGenerated,
		string(payload),
		utc(summary.GeneratedAt),
	)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindSummary(ctx context.Context, hostelID string, date domain.Date) (*domain.DailySummary, error) {
	var row summaryRow
	err := r.db.GetContext(ctx, &row, r.q(`
		SELECT hostel_id, report_date, total_students, breakfast_opt_in, lunch_opt_in, dinner_opt_in, responded_students, generated_at
		FROM daily_summary
		WHERE hostel_id = ? AND report_date = ?`), hostelID, date.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find daily summary: %w", err)
	}
	return &domain.DailySummary{
		HostelID:          row.HostelID,
		ReportDate:        domain.Date(row.ReportDate),
		TotalStudents:     row.TotalStudents,
		BreakfastOptIn:    row.BreakfastOptIn,
		LunchOptIn:        row.LunchOptIn,
		DinnerOptIn:       row.DinnerOptIn,
		RespondedStudents: row.RespondedStudents,
		GeneratedAt:       row.GeneratedAt,
	}, nil
}
