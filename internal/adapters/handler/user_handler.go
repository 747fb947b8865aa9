package handler

import (
	"encoding/csv"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type UserHandler struct {
	identity ports.IdentityService
}

func NewUserHandler(identity ports.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

type AddUserRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Role     string `json:"role" validate:"required,oneof=student admin"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=4,max=72"`
}

type UserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	var req AddUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.identity.AddUser(r.Context(), session, req.UserID, req.Password, domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		Message: "User added successfully",
		UserID:  user.UserID,
		Role:    string(user.Role),
	})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.identity.ChangePassword(r.Context(), session, r.PathValue("userID"), req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated"})
}

func (h *UserHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	if err := h.identity.RemoveUser(r.Context(), session, r.PathValue("userID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User removed"})
}

// Import adds students from a user_id,password CSV sent either as the raw
// body or as the "file" field of a multipart form.
func (h *UserHandler) Import(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := csvBody(r)
	if err != nil {
		http.Error(w, "missing csv file", http.StatusBadRequest)
		return
	}
	defer body.Close()

	rows, err := parseCredentials(body)
	if err != nil {
		http.Error(w, "invalid csv: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.identity.ImportStudents(r.Context(), session, rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func csvBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	return file, nil
}

func parseCredentials(body io.Reader) ([]domain.Credential, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []domain.Credential
	for line := 0; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 0 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "user_id") {
			continue
		}

		pos, _ := reader.FieldPos(0)
		c := domain.Credential{Line: pos}
		if len(record) > 0 {
			c.UserID = record[0]
		}
		if len(record) > 1 {
			c.Password = record[1]
		}
		rows = append(rows, c)
	}
	return rows, nil
}
