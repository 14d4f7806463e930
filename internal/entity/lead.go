package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is one captured contact. MetaID is the external lead identifier from
// the Meta export (values can carry prefixes like "l:", kept as text).
// Every lead references exactly one Ad; the Club reference is optional.
type Lead struct {
	ID          string     `json:"id"`
	MetaID      string     `json:"metaId"`
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Email       *string    `json:"email"`
	PhoneNumber *string    `json:"phoneNumber"`
	LeadStatus  *string    `json:"leadStatus"`
	Age         *string    `json:"age"`
	Platform    *string    `json:"platform"`
	CreatedTime *time.Time `json:"createdTime"`
	Sent        bool       `json:"sent"`

	AdID   string  `json:"adId"`
	ClubID *string `json:"clubId"`

	// ImportID groups leads created or touched by the same uploaded file.
	ImportID *string `json:"importId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewLead(metaID, adID string) (*Lead, error) {
	if metaID == "" {
		return nil, ErrMetaIDRequired
	}
	if adID == "" {
		return nil, ErrAdIDRequired
	}
	now := time.Now()
	return &Lead{
		ID:        uuid.New().String(),
		MetaID:    metaID,
		AdID:      adID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
