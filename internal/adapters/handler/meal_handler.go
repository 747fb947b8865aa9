package handler

import (
	"net/http"
	"time"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type MealHandler struct {
	meals ports.MealService
}

func NewMealHandler(meals ports.MealService) *MealHandler {
	return &MealHandler{meals: meals}
}

type SubmitMealRequest struct {
	Breakfast *bool `json:"breakfast" validate:"required"`
	Lunch     *bool `json:"lunch" validate:"required"`
	Dinner    *bool `json:"dinner" validate:"required"`
}

// MealInfoResponse is the student dashboard view. A student without a
// selection is assumed to attend every meal but holds no passes.
type MealInfoResponse struct {
	Date             domain.Date        `json:"date"`
	Phase            domain.Phase       `json:"phase"`
	Editable         bool               `json:"editable"`
	Responded        bool               `json:"responded"`
	AssumedAttending bool               `json:"assumed_attending"`
	Choice           *domain.MealChoice `json:"choice"`
	Passes           *domain.PassCodes  `json:"passes"`
	SubmittedAt      *time.Time         `json:"submitted_at,omitempty"`
}

type LiveCountsResponse struct {
	Date domain.Date `json:"date"`
	domain.MealCounts
}

func (h *MealHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	info, err := h.meals.StudentMealInfo(r.Context(), session.HostelID, session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mealInfoResponse(info))
}

func mealInfoResponse(info *domain.StudentMealInfo) MealInfoResponse {
	resp := MealInfoResponse{
		Date:             info.Date,
		Phase:            info.Phase,
		Editable:         info.Editable,
		Responded:        info.Response != nil,
		AssumedAttending: info.AssumedAttending(),
	}
	if info.Response != nil {
		choice := info.Response.Choice
		resp.Choice = &choice
		submitted := info.Response.SubmittedAt
		resp.SubmittedAt = &submitted
		if info.Response.Passes.Issued() {
			passes := info.Response.Passes
			resp.Passes = &passes
		}
	}
	return resp
}

func (h *MealHandler) SubmitMine(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	var req SubmitMealRequest
	if !decode(w, r, &req) {
		return
	}

	choice := domain.MealChoice{Breakfast: *req.Breakfast, Lunch: *req.Lunch, Dinner: *req.Dinner}
	saved, err := h.meals.SubmitResponse(r.Context(), session.HostelID, session.UserID, h.meals.TargetDate(), choice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *MealHandler) LiveCounts(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	date, err := dateParam(r.URL.Query().Get("date"), h.meals.TargetDate())
	if err != nil {
		writeError(w, r, err)
		return
	}

	counts, err := h.meals.LiveCounts(r.Context(), session.HostelID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LiveCountsResponse{Date: date, MealCounts: counts})
}
