package handler

import (
	"net/http"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type BillHandler struct {
	billing ports.BillingService
}

func NewBillHandler(billing ports.BillingService) *BillHandler {
	return &BillHandler{billing: billing}
}

type AddBillRequest struct {
	ItemName string  `json:"item_name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

func (h *BillHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	var req AddBillRequest
	if !decode(w, r, &req) {
		return
	}

	bill, err := h.billing.AddBill(r.Context(), session.HostelID, req.ItemName, req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	bills, err := h.billing.ListBills(r.Context(), session.HostelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}
