package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ad is one Meta ad/campaign/adset/form tuple. AdID is the external Meta
// identifier and is unique; everything else is whatever the latest CSV row
// said about it.
type Ad struct {
	ID           string    `json:"id"`
	AdID         string    `json:"adId"`
	AdName       *string   `json:"adName"`
	AdsetID      *string   `json:"adsetId"`
	AdsetName    *string   `json:"adsetName"`
	AdgroupID    *string   `json:"adgroupId"`
	CampaignID   *string   `json:"campaignId"`
	CampaignName *string   `json:"campaignName"`
	FormID       *string   `json:"formId"`
	FormName     *string   `json:"formName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewAd(adID string) (*Ad, error) {
	if adID == "" {
		return nil, ErrAdIDRequired
	}
	now := time.Now()
	return &Ad{
		ID:        uuid.New().String(),
		AdID:      adID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
