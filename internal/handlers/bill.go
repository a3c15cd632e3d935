package handlers

import (
	"net/http"

	"github.com/patungan/backend/internal/calculator"
	"github.com/patungan/backend/internal/middleware"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/service"
)

// BillHandler serves bill creation, assignment and preview endpoints.
type BillHandler struct {
	bills *service.BillService
}

// NewBillHandler creates a BillHandler.
func NewBillHandler(bills *service.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

type billItemRequest struct {
	Name      string   `json:"name"`
	Quantity  int64    `json:"quantity"`
	Price     int64    `json:"price"`
	WhoToPaid []string `json:"who_to_paid"`
}

type createBillRequest struct {
	GroupID  string            `json:"group_id"`
	Title    string            `json:"title"`
	PaidBy   string            `json:"paid_by"`
	Items    []billItemRequest `json:"items"`
	Tax      float64           `json:"tax"`
	Discount int64             `json:"discount"`
	Service  int64             `json:"service"`
}

type billItemResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  int64    `json:"quantity"`
	Price     int64    `json:"price"`
	Nominal   int64    `json:"nominal"`
	WhoToPaid []string `json:"who_to_paid"`
}

type billResponse struct {
	ID        string             `json:"id"`
	GroupID   string             `json:"group_id"`
	Title     string             `json:"title"`
	PaidBy    string             `json:"paid_by"`
	Items     []billItemResponse `json:"items"`
	Tax       float64            `json:"tax"`
	Discount  int64              `json:"discount"`
	Service   int64              `json:"service"`
	Subtotal  int64              `json:"subtotal"`
	Total     int64              `json:"total"`
	Status    string             `json:"status"`
	CreatedAt int64              `json:"created_at"`
}

func toBillResponse(bill *models.Bill) billResponse {
	resp := billResponse{
		ID:        bill.ID,
		GroupID:   bill.GroupID,
		Title:     bill.Title,
		PaidBy:    bill.PaidBy,
		Items:     make([]billItemResponse, len(bill.Items)),
		Tax:       bill.TaxRate,
		Discount:  bill.Discount,
		Service:   bill.ServiceFee,
		Subtotal:  bill.Subtotal(),
		Total:     bill.Total(),
		Status:    string(bill.Status),
		CreatedAt: bill.CreatedAt,
	}
	for i, item := range bill.Items {
		assigned := item.AssignedTo
		if assigned == nil {
			assigned = []string{}
		}
		resp.Items[i] = billItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			Nominal:   item.Nominal(),
			WhoToPaid: assigned,
		}
	}
	return resp
}

// Create handles POST /api/bills.
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	var req createBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	items := make([]models.BillItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = models.BillItem{
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price,
			AssignedTo: it.WhoToPaid,
		}
	}

	bill, err := h.bills.Create(r.Context(), userID, req.GroupID, req.Title,
		req.PaidBy, items, req.Tax, req.Discount, req.Service)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResponse(bill))
}

// Get handles GET /api/bills/{id}.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	bill, err := h.bills.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// Delete handles DELETE /api/bills/{id}.
func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	if err := h.bills.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ListByGroup handles GET /api/bills/group/{groupId}.
func (h *BillHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	bills, err := h.bills.ListByGroup(r.Context(), userID, r.PathValue("groupId"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

type toggleAssignmentRequest struct {
	ItemIndex int    `json:"item_index"`
	MemberID  string `json:"member_id"`
}

// ToggleAssignment handles POST /api/bills/{id}/toggle.
func (h *BillHandler) ToggleAssignment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	var req toggleAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	bill, err := h.bills.ToggleAssignment(r.Context(), userID, r.PathValue("id"),
		req.ItemIndex, req.MemberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// SplitEqually handles POST /api/bills/{id}/split-equally.
func (h *BillHandler) SplitEqually(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	bill, err := h.bills.SplitEqually(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

type shareResponse struct {
	MemberID string `json:"member_id"`
	Subtotal int64  `json:"subtotal"`
	Tax      int64  `json:"tax"`
	Fee      int64  `json:"service"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
}

type previewResponse struct {
	Bill         billResponse    `json:"bill"`
	Shares       []shareResponse `json:"shares"`
	SkippedItems []int           `json:"skipped_items"`
}

// Preview handles GET /api/bills/{id}/preview. Unassigned items are skipped
// and their indexes reported rather than failing the request.
func (h *BillHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	bill, alloc, err := h.bills.Preview(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := previewResponse{
		Bill:         toBillResponse(bill),
		Shares:       make([]shareResponse, len(alloc.Shares)),
		SkippedItems: alloc.SkippedItems,
	}
	if resp.SkippedItems == nil {
		resp.SkippedItems = []int{}
	}
	for i, share := range alloc.Shares {
		resp.Shares[i] = shareResponse{
			MemberID: share.MemberID,
			Subtotal: share.Subtotal,
			Tax:      share.Tax,
			Fee:      share.Fee,
			Discount: share.Discount,
			Total:    share.Total,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Summarize handles GET /api/bills/summarize/{groupId}: a non-persisting
// preview of the group's netted debts.
func (h *BillHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	summary, err := h.bills.Summarize(r.Context(), userID, r.PathValue("groupId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func toSummaryResponse(summary *calculator.Summary) summaryResponse {
	resp := summaryResponse{
		GroupID:     summary.GroupID,
		DateStart:   summary.DateStart,
		DateEnd:     summary.DateEnd,
		TotalBills:  summary.TotalBills,
		RecordCount: len(summary.Records),
		TotalAmount: summary.TotalAmount,
		Records:     toRecordResponses(summary.Records),
	}
	return resp
}
