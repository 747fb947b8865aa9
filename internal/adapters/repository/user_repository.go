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

type userRow struct {
	ID           int64     `db:"id"`
	HostelID     string    `db:"hostel_id"`
	UserID       string    `db:"user_id"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	AddedBy      string    `db:"added_by"`
	AddedAt      time.Time `db:"added_at"`
}

func (row userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           row.ID,
		HostelID:     row.HostelID,
		UserID:       row.UserID,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		AddedBy:      row.AddedBy,
		AddedAt:      row.AddedAt,
	}
}

func (r *SQLRepository) CreateUser(ctx context.Context, user domain.User) error {
	err := r.insertUser(ctx, r.db, user)
	if isUniqueViolation(err) {
		return domain.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLRepository) insertUser(ctx context.Context, exec sqlx.ExecerContext, user domain.User) error {
	_, err := exec.ExecContext(ctx,
		r.q("INSERT INTO users (hostel_id, user_id, password_hash, role, added_by, added_at) VALUES (?, ?, ?, ?, ?, ?)"),
		user.HostelID,
		user.UserID,
		user.PasswordHash,
		string(user.Role),
		user.AddedBy,
		utc(user.AddedAt),
	)
	return err
}

func (r *SQLRepository) FindByUserID(ctx context.Context, hostelID, userID string) (*domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, r.q(`
		SELECT id, hostel_id, user_id, password_hash, role, added_by, added_at
		FROM users
		WHERE hostel_id = ? AND user_id = ?`), hostelID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, hostelID, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		r.q("UPDATE users SET password_hash = ? WHERE hostel_id = ? AND user_id = ?"),
		passwordHash, hostelID, userID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectOne(res)
}

func (r *SQLRepository) DeleteUser(ctx context.Context, hostelID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		r.q("DELETE FROM users WHERE hostel_id = ? AND user_id = ?"),
		hostelID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
