package handler

import (
	"net/http"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type HostelHandler struct {
	identity ports.IdentityService
}

func NewHostelHandler(identity ports.IdentityService) *HostelHandler {
	return &HostelHandler{identity: identity}
}

type RegisterHostelRequest struct {
	HostelName string `json:"hostel_name" validate:"required,max=120"`
	AdminID    string `json:"admin_id" validate:"required,max=64"`
	Password   string `json:"password" validate:"required,min=4,max=72"`
}

type HostelResponse struct {
	Message    string `json:"message,omitempty"`
	HostelID   string `json:"hostel_id"`
	HostelName string `json:"hostel_name"`
}

func (h *HostelHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterHostelRequest
	if !decode(w, r, &req) {
		return
	}

	hostel, err := h.identity.RegisterHostel(r.Context(), req.HostelName, req.AdminID, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, HostelResponse{
		Message:    "Hostel registered successfully",
		HostelID:   hostel.ID,
		HostelName: hostel.Name,
	})
}

func (h *HostelHandler) Get(w http.ResponseWriter, r *http.Request) {
	hostel, err := h.identity.GetHostel(r.Context(), r.PathValue("hostelID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HostelResponse{HostelID: hostel.ID, HostelName: hostel.Name})
}

func (h *HostelHandler) Summary(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	summary, err := h.identity.HostelSummary(r.Context(), session.HostelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
