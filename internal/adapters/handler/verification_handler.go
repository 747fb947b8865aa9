package handler

import (
	"net/http"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type VerificationHandler struct {
	verifier ports.VerificationService
	dates    DateSource
}

func NewVerificationHandler(verifier ports.VerificationService, dates DateSource) *VerificationHandler {
	return &VerificationHandler{verifier: verifier, dates: dates}
}

type VerifyPassRequest struct {
	Meal string `json:"meal" validate:"required"`
	Code string `json:"code" validate:"required"`
	// Date defaults to the current target date.
	Date string `json:"date" validate:"omitempty"`
}

type VerifyPassResponse struct {
	Status    domain.RedemptionStatus `json:"status"`
	Message   string                  `json:"message"`
	StudentID string                  `json:"student_id,omitempty"`
	Code      string                  `json:"code,omitempty"`
}

// Verify always answers 200 for a well-formed request. Unknown and reused
// codes are outcomes of the check, not request errors.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	var req VerifyPassRequest
	if !decode(w, r, &req) {
		return
	}

	meal, err := domain.ParseMealType(req.Meal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := dateParam(req.Date, h.dates.TargetDate())
	if err != nil {
		writeError(w, r, err)
		return
	}

	redemption, err := h.verifier.VerifyPass(r.Context(), session.HostelID, date, meal, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, VerifyPassResponse{
		Status:    redemption.Status,
		Message:   redemption.Message(),
		StudentID: redemption.StudentID,
		Code:      redemption.Code,
	})
}
