package handlers

import (
	"net/http"

	"github.com/patungan/backend/internal/middleware"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/service"
)

// GroupHandler serves group management endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type memberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	OwnerID   string           `json:"owner_id"`
	Members   []memberResponse `json:"members"`
	CreatedAt int64            `json:"created_at"`
}

func toGroupResponse(group *models.Group) groupResponse {
	resp := groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		OwnerID:   group.OwnerID,
		Members:   make([]memberResponse, len(group.Members)),
		CreatedAt: group.CreatedAt,
	}
	for i, m := range group.Members {
		resp.Members[i] = memberResponse{ID: m.ID, Name: m.Name}
	}
	return resp
}

type createGroupRequest struct {
	Name string `json:"name"`
}

// Create handles POST /auth/groups.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// List handles GET /auth/groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	groups, err := h.groups.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /auth/groups/{id}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	group, err := h.groups.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// Join handles POST /auth/groups/{id}/join.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	group, err := h.groups.Join(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}
