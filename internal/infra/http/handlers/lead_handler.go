package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/database"
)

type LeadHandler struct {
	Leads *database.LeadRepository
}

func NewLeadHandler(leads *database.LeadRepository) *LeadHandler {
	return &LeadHandler{Leads: leads}
}

// List accepts clubId, sent, q, importId and limit query params.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.ListFilter{
		ClubID:   q.Get("clubId"),
		Search:   q.Get("q"),
		ImportID: q.Get("importId"),
	}
	if v := q.Get("sent"); v != "" {
		sent, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "sent must be true or false")
			return
		}
		filter.Sent = &sent
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	leads, err := h.Leads.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if lead == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type UpdateLeadRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	LeadStatus  *string `json:"leadStatus"`
	Age         *string `json:"age"`
	ClubID      *string `json:"clubId"`
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	lead, err := h.Leads.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if lead == nil {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	if req.FirstName != nil {
		lead.FirstName = req.FirstName
	}
	if req.LastName != nil {
		lead.LastName = req.LastName
	}
	if req.Email != nil {
		lead.Email = req.Email
	}
	if req.PhoneNumber != nil {
		lead.PhoneNumber = req.PhoneNumber
	}
	if req.LeadStatus != nil {
		lead.LeadStatus = req.LeadStatus
	}
	if req.Age != nil {
		lead.Age = req.Age
	}
	if req.ClubID != nil {
		// Empty string detaches the lead from its club.
		if *req.ClubID == "" {
			lead.ClubID = nil
		} else {
			lead.ClubID = req.ClubID
		}
	}

	if err := h.Leads.Update(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.Leads.Delete(r.Context(), []string{chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *LeadHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	n, err := h.Leads.Delete(r.Context(), req.IDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
