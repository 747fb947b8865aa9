package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

func (r *SQLRepository) CreateWithAdmin(ctx context.Context, hostel domain.Hostel, admin domain.User) error {
	err := r.insertHostel(ctx, hostel, admin)
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return fmt.Errorf("create hostel: %w", err)
	}

	taken, checkErr := r.NameTaken(ctx, domain.HostelNameKey(hostel.Name))
	if checkErr != nil {
		return fmt.Errorf("create hostel: %w", checkErr)
	}
	if taken {
		return domain.ErrHostelExists
	}
	return domain.ErrHostelIDTaken
}

func (r *SQLRepository) insertHostel(ctx context.Context, hostel domain.Hostel, admin domain.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		r.q("INSERT INTO hostels (hostel_id, hostel_name, name_key, created_at) VALUES (?, ?, ?, ?)"),
		hostel.ID,
		hostel.Name,
		domain.HostelNameKey(hostel.Name),
		utc(hostel.CreatedAt),
	)
	if err != nil {
		return err
	}

	if err := r.insertUser(ctx, tx, admin); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLRepository) NameTaken(ctx context.Context, nameKey string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.q("SELECT COUNT(*) FROM hostels WHERE name_key = ?"), nameKey)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type hostelRow struct {
	ID        string    `db:"hostel_id"`
	Name      string    `db:"hostel_name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *SQLRepository) FindHostel(ctx context.Context, hostelID string) (*domain.Hostel, error) {
	var row hostelRow
	err := r.db.GetContext(ctx, &row,
		r.q("SELECT hostel_id, hostel_name, created_at FROM hostels WHERE hostel_id = ?"),
		hostelID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find hostel: %w", err)
	}
	return &domain.Hostel{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}

func (r *SQLRepository) HostelSummary(ctx context.Context, hostelID string) (*domain.HostelSummary, error) {
	var row struct {
		ID           string `db:"hostel_id"`
		Name         string `db:"hostel_name"`
		StudentCount int    `db:"student_count"`
	}
	err := r.db.GetContext(ctx, &row, r.q(`
		SELECT h.hostel_id, h.hostel_name,
		       (SELECT COUNT(*) FROM users u WHERE u.hostel_id = h.hostel_id AND u.role = 'student') AS student_count
		FROM hostels h
		WHERE h.hostel_id = ?`), hostelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("hostel summary: %w", err)
	}
	return &domain.HostelSummary{ID: row.ID, Name: row.Name, StudentCount: row.StudentCount}, nil
}
