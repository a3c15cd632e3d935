package handlers

import (
	"net/http"

	"github.com/patungan/backend/internal/middleware"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/service"
)

// InvoiceHandler serves invoice generation and settlement endpoints.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type recordResponse struct {
	ID         string `json:"id"`
	DebtorID   string `json:"debtor_id"`
	DebtorName string `json:"debtor_name"`
	DebteeID   string `json:"debtee_id"`
	DebteeName string `json:"debtee_name"`
	Nominal    int64  `json:"nominal"`
	IsPaid     bool   `json:"is_paid"`
}

func toRecordResponses(records []models.DebtRecord) []recordResponse {
	resp := make([]recordResponse, len(records))
	for i, rec := range records {
		resp[i] = recordResponse{
			ID:         rec.ID,
			DebtorID:   rec.DebtorID,
			DebtorName: rec.DebtorName,
			DebteeID:   rec.DebteeID,
			DebteeName: rec.DebteeName,
			Nominal:    rec.Nominal,
			IsPaid:     rec.IsPaid,
		}
	}
	return resp
}

// summaryResponse is shared between the summarize preview (no invoice_id)
// and persisted invoices.
type summaryResponse struct {
	InvoiceID   string           `json:"invoice_id,omitempty"`
	GroupID     string           `json:"group_id"`
	DateStart   int64            `json:"date_start"`
	DateEnd     int64            `json:"date_end"`
	TotalBills  int              `json:"total_bills"`
	RecordCount int              `json:"record_count"`
	TotalAmount int64            `json:"total_amount"`
	Records     []recordResponse `json:"records"`
	CreatedAt   int64            `json:"created_at,omitempty"`
}

func toInvoiceResponse(invoice *models.Invoice) summaryResponse {
	return summaryResponse{
		InvoiceID:   invoice.ID,
		GroupID:     invoice.GroupID,
		DateStart:   invoice.DateStart,
		DateEnd:     invoice.DateEnd,
		TotalBills:  invoice.TotalBills,
		RecordCount: invoice.RecordCount(),
		TotalAmount: invoice.TotalAmount,
		Records:     toRecordResponses(invoice.Records),
		CreatedAt:   invoice.CreatedAt,
	}
}

// Generate handles POST /api/invoices/generate/{groupId}.
func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	invoice, err := h.invoices.Generate(r.Context(), userID, r.PathValue("groupId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceResponse(invoice))
}

// Get handles GET /api/invoices/{id}.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	invoice, err := h.invoices.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(invoice))
}

// ListByGroup handles GET /api/invoices/group/{groupId}.
func (h *InvoiceHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	invoices, err := h.invoices.ListByGroup(r.Context(), userID, r.PathValue("groupId"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]summaryResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toInvoiceResponse(inv)
	}
	writeJSON(w, http.StatusOK, resp)
}

type markPaidRequest struct {
	IsPaid bool `json:"is_paid"`
}

// MarkRecordPaid handles PUT /api/invoices/{id}/records/{recordId}/paid.
func (h *InvoiceHandler) MarkRecordPaid(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	var req markPaidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.invoices.MarkRecordPaid(r.Context(), userID,
		r.PathValue("id"), r.PathValue("recordId"), req.IsPaid)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := toRecordResponses([]models.DebtRecord{*rec})
	writeJSON(w, http.StatusOK, resp[0])
}
