package domain

import "time"

// Bill is a mess purchase. Bills are only appended and listed.
type Bill struct {
	ID           int64     `json:"id"`
	HostelID     string    `json:"hostel_id"`
	ItemName     string    `json:"item_name"`
	Price        float64   `json:"price"`
	PurchaseDate Date      `json:"purchase_date"`
	CreatedAt    time.Time `json:"created_at"`
}
