package handler

import (
	"net/http"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/adapters/middleware"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

type Handlers struct {
	Hostel       *HostelHandler
	Auth         *AuthHandler
	User         *UserHandler
	Meal         *MealHandler
	Report       *ReportHandler
	Verification *VerificationHandler
	Bill         *BillHandler
	Health       *HealthHandler
	Metrics      http.Handler
}

// NewRouter wires every route onto a ServeMux. Admin routes act on the
// caller's own hostel only.
func NewRouter(h Handlers, auth *middleware.AuthMiddleware) *http.ServeMux {
	admin := []domain.Role{domain.RoleAdmin}
	student := []domain.Role{domain.RoleStudent}
	anyone := []domain.Role{domain.RoleAdmin, domain.RoleStudent}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.HandleFunc("POST /hostels", h.Hostel.Register)
	mux.HandleFunc("GET /hostels/{hostelID}", h.Hostel.Get)
	mux.HandleFunc("POST /login", h.Auth.Login)
	mux.Handle("POST /logout", auth.RequireRole(anyone, h.Auth.Logout))

	mux.Handle("GET /meals/me", auth.RequireRole(student, h.Meal.GetMine))
	mux.Handle("PUT /meals/me", auth.RequireRole(student, h.Meal.SubmitMine))

	mux.Handle("GET /admin/summary", auth.RequireRole(admin, h.Hostel.Summary))
	mux.Handle("GET /admin/meals/live", auth.RequireRole(admin, h.Meal.LiveCounts))
	mux.Handle("POST /admin/reports", auth.RequireRole(admin, h.Report.Generate))
	mux.Handle("GET /admin/reports/{date}", auth.RequireRole(admin, h.Report.Get))
	mux.Handle("POST /admin/passes/verify", auth.RequireRole(admin, h.Verification.Verify))
	mux.Handle("POST /admin/users", auth.RequireRole(admin, h.User.Add))
	mux.Handle("POST /admin/users/import", auth.RequireRole(admin, h.User.Import))
	mux.Handle("PUT /admin/users/{userID}/password", auth.RequireRole(admin, h.User.ChangePassword))
	mux.Handle("DELETE /admin/users/{userID}", auth.RequireRole(admin, h.User.Remove))
	mux.Handle("POST /admin/bills", auth.RequireRole(admin, h.Bill.Add))
	mux.Handle("GET /admin/bills", auth.RequireRole(admin, h.Bill.List))

	return mux
}
