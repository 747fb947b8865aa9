package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

// DateSource supplies the default date when a request names none.
type DateSource interface {
	TargetDate() domain.Date
}

type ReportHandler struct {
	reports ports.ReportService
	dates   DateSource
}

func NewReportHandler(reports ports.ReportService, dates DateSource) *ReportHandler {
	return &ReportHandler{reports: reports, dates: dates}
}

// GenerateReportRequest is optional; an empty body targets tomorrow.
type GenerateReportRequest struct {
	Date string `json:"date"`
}

type ReportResponse struct {
	Status       domain.ReportStatus  `json:"status"`
	Message      string               `json:"message"`
	Date         domain.Date          `json:"date"`
	PassesIssued int                  `json:"passes_issued"`
	Summary      *domain.DailySummary `json:"summary,omitempty"`
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	var req GenerateReportRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	date, err := dateParam(req.Date, h.dates.TargetDate())
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.reports.GenerateReport(r.Context(), session.HostelID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Status == domain.ReportGenerated {
		status = http.StatusCreated
	}
	writeJSON(w, status, ReportResponse{
		Status:       result.Status,
		Message:      result.Message(),
		Date:         result.Date,
		PassesIssued: result.PassesIssued,
		Summary:      result.Summary,
	})
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	date, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.reports.GetSummary(r.Context(), session.HostelID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
