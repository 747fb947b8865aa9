package ports

import (
	"context"
	"time"
)

// EventReportGenerated is the outbox event type written when a date is finalized.
const EventReportGenerated = "meal.report_generated"

type ReportGeneratedEvent struct {
	HostelID      string    `json:"hostel_id"`
	ReportDate    string    `json:"report_date"`
	TotalStudents int       `json:"total_students"`
	Breakfast     int       `json:"breakfast"`
	Lunch         int       `json:"lunch"`
	Dinner        int       `json:"dinner"`
	Responded     int       `json:"responded"`
	PassesIssued  int       `json:"passes_issued"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type ReportEventPublisher interface {
	PublishReportGenerated(ctx context.Context, evt ReportGeneratedEvent) error
}
