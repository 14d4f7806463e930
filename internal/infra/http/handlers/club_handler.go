package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/database"
)

type ClubHandler struct {
	Clubs *database.ClubRepository
}

func NewClubHandler(clubs *database.ClubRepository) *ClubHandler {
	return &ClubHandler{Clubs: clubs}
}

func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.Clubs.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if clubs == nil {
		clubs = []entity.Club{}
	}
	writeJSON(w, http.StatusOK, clubs)
}

func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	club, err := h.Clubs.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if club == nil {
		writeError(w, http.StatusNotFound, "club not found")
		return
	}
	writeJSON(w, http.StatusOK, club)
}

type ClubRequest struct {
	Name           *string `json:"name"`
	NutritionEmail *string `json:"nutritionEmail"`
	KidsEmail      *string `json:"kidsEmail"`
}

func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}

	club, err := entity.NewClub(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	club.NutritionEmail = req.NutritionEmail
	club.KidsEmail = req.KidsEmail

	if err := h.Clubs.Insert(r.Context(), club); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			writeError(w, http.StatusConflict, "club name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, club)
}

func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	club, err := h.Clubs.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if club == nil {
		writeError(w, http.StatusNotFound, "club not found")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		club.Name = strings.TrimSpace(*req.Name)
	}
	if req.NutritionEmail != nil {
		club.NutritionEmail = req.NutritionEmail
	}
	if req.KidsEmail != nil {
		club.KidsEmail = req.KidsEmail
	}

	if err := h.Clubs.Update(r.Context(), club); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			writeError(w, http.StatusConflict, "club name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// Delete detaches the club's leads (their club_id goes null) and removes
// the club.
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Clubs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
