package domain

import "fmt"

type ReportStatus string

const (
	ReportGenerated        ReportStatus = "GENERATED"
	ReportAlreadyGenerated ReportStatus = "ALREADY_GENERATED"
)

type ReportResult struct {
	Status       ReportStatus
	Date         Date
	Summary      *DailySummary
	PassesIssued int
}

func (r ReportResult) Message() string {
	if r.Status == ReportAlreadyGenerated {
		return "Report and passes for this date have already been generated."
	}
	return fmt.Sprintf("Successfully generated report and meal passes for %s.", r.Date)
}
