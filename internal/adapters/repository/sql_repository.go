package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

// SQLRepository implements every store port on one connection pool. Queries
// are written with ? placeholders and rebound for the driver in use.
// Outbox events are only written on Postgres, the one store the relay reads.
type SQLRepository struct {
	db     *sqlx.DB
	outbox bool
}

var (
	_ ports.HostelRepository = (*SQLRepository)(nil)
	_ ports.UserRepository   = (*SQLRepository)(nil)
	_ ports.MealRepository   = (*SQLRepository)(nil)
	_ ports.ReportRepository = (*SQLRepository)(nil)
	_ ports.BillRepository   = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db, outbox: db.DriverName() == DriverPostgres}
}

func (r *SQLRepository) q(query string) string {
	return r.db.Rebind(query)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// utc drops the monotonic reading and zone so both drivers store the same instant.
func utc(t time.Time) time.Time {
	return t.UTC().Round(time.Microsecond)
}
