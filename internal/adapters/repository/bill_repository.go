package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

type billRow struct {
	ID           int64     `db:"id"`
	HostelID     string    `db:"hostel_id"`
	ItemName     string    `db:"item_name"`
	Price        float64   `db:"price"`
	PurchaseDate string    `db:"purchase_date"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r *SQLRepository) CreateBill(ctx context.Context, bill domain.Bill) (*domain.Bill, error) {
	bill.CreatedAt = utc(bill.CreatedAt)
	err := r.db.QueryRowxContext(ctx,
		r.q("INSERT INTO bills (hostel_id, item_name, price, purchase_date, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		bill.HostelID,
		bill.ItemName,
		bill.Price,
		bill.PurchaseDate.String(),
		bill.CreatedAt,
	).Scan(&bill.ID)
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	return &bill, nil
}

func (r *SQLRepository) ListBills(ctx context.Context, hostelID string) ([]domain.Bill, error) {
	var rows []billRow
	err := r.db.SelectContext(ctx, &rows, r.q(`
		SELECT id, hostel_id, item_name, price, purchase_date, created_at
		FROM bills
		WHERE hostel_id = ?
		ORDER BY purchase_date DESC, id DESC`), hostelID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	bills := make([]domain.Bill, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, domain.Bill{
			ID:           row.ID,
			HostelID:     row.HostelID,
			ItemName:     row.ItemName,
			Price:        row.Price,
			PurchaseDate: domain.Date(row.PurchaseDate),
			CreatedAt:    row.CreatedAt,
		})
	}
	return bills, nil
}
