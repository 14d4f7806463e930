package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"

	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/database"
)

type AdHandler struct {
	Ads *database.AdRepository
}

func NewAdHandler(ads *database.AdRepository) *AdHandler {
	return &AdHandler{Ads: ads}
}

func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	ads, err := h.Ads.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ads == nil {
		ads = []entity.Ad{}
	}
	writeJSON(w, http.StatusOK, ads)
}

func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	ad, err := h.Ads.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ad == nil {
		writeError(w, http.StatusNotFound, "ad not found")
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

type CreateAdRequest struct {
	AdID string `json:"adId"`
	UpdateAdRequest
}

// Create registers an ad ahead of any import carrying it; imports then
// update it in place.
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ad, err := entity.NewAd(req.AdID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ad.AdName = req.AdName
	ad.AdsetID = req.AdsetID
	ad.AdsetName = req.AdsetName
	ad.AdgroupID = req.AdgroupID
	ad.CampaignID = req.CampaignID
	ad.CampaignName = req.CampaignName
	ad.FormID = req.FormID
	ad.FormName = req.FormName

	if err := h.Ads.Insert(r.Context(), ad); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			writeError(w, http.StatusConflict, "ad id already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, ad)
}

type UpdateAdRequest struct {
	AdName       *string `json:"adName"`
	AdsetID      *string `json:"adsetId"`
	AdsetName    *string `json:"adsetName"`
	AdgroupID    *string `json:"adgroupId"`
	CampaignID   *string `json:"campaignId"`
	CampaignName *string `json:"campaignName"`
	FormID       *string `json:"formId"`
	FormName     *string `json:"formName"`
}

func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ad, err := h.Ads.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ad == nil {
		writeError(w, http.StatusNotFound, "ad not found")
		return
	}

	if req.AdName != nil {
		ad.AdName = req.AdName
	}
	if req.AdsetID != nil {
		ad.AdsetID = req.AdsetID
	}
	if req.AdsetName != nil {
		ad.AdsetName = req.AdsetName
	}
	if req.AdgroupID != nil {
		ad.AdgroupID = req.AdgroupID
	}
	if req.CampaignID != nil {
		ad.CampaignID = req.CampaignID
	}
	if req.CampaignName != nil {
		ad.CampaignName = req.CampaignName
	}
	if req.FormID != nil {
		ad.FormID = req.FormID
	}
	if req.FormName != nil {
		ad.FormName = req.FormName
	}

	if err := h.Ads.Update(r.Context(), ad); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Ads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			writeError(w, http.StatusConflict, "ad still has leads attached")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
