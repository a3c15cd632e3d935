package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patungan/backend/internal/auth"
	"github.com/patungan/backend/internal/middleware"
	"github.com/patungan/backend/internal/service"
)

// Services bundles the dependencies the router needs.
type Services struct {
	Auth     *service.AuthService
	Groups   *service.GroupService
	Bills    *service.BillService
	Invoices *service.InvoiceService
	JWT      *auth.JWTManager
}

// NewRouter builds the full route table with the middleware chain applied:
// metrics and request logging on everything, JWT auth on everything except
// register, login, health and metrics.
func NewRouter(svcs Services) http.Handler {
	authHandler := NewAuthHandler(svcs.Auth)
	groupHandler := NewGroupHandler(svcs.Groups)
	billHandler := NewBillHandler(svcs.Bills)
	invoiceHandler := NewInvoiceHandler(svcs.Invoices)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	protected := func(pattern string, handler http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(svcs.JWT, handler))
	}

	protected("GET /auth/profile", authHandler.Profile)
	protected("PUT /auth/profile", authHandler.UpdateProfile)
	protected("DELETE /auth/profile", authHandler.DeleteProfile)

	protected("POST /auth/groups", groupHandler.Create)
	protected("GET /auth/groups", groupHandler.List)
	protected("GET /auth/groups/{id}", groupHandler.Get)
	protected("POST /auth/groups/{id}/join", groupHandler.Join)

	protected("POST /api/bills", billHandler.Create)
	protected("GET /api/bills/{id}", billHandler.Get)
	protected("DELETE /api/bills/{id}", billHandler.Delete)
	protected("GET /api/bills/group/{groupId}", billHandler.ListByGroup)
	protected("POST /api/bills/{id}/toggle", billHandler.ToggleAssignment)
	protected("POST /api/bills/{id}/split-equally", billHandler.SplitEqually)
	protected("GET /api/bills/{id}/preview", billHandler.Preview)
	protected("GET /api/bills/summarize/{groupId}", billHandler.Summarize)

	protected("POST /api/invoices/generate/{groupId}", invoiceHandler.Generate)
	protected("GET /api/invoices/{id}", invoiceHandler.Get)
	protected("GET /api/invoices/group/{groupId}", invoiceHandler.ListByGroup)
	protected("PUT /api/invoices/{id}/records/{recordId}/paid", invoiceHandler.MarkRecordPaid)

	return middleware.Measure(middleware.LogRequests(mux))
}
