package entity

import (
	"time"

	"github.com/google/uuid"
)

// Club is a physical location with two contact mailboxes. Name is unique at
// the normalized level (case-, accent- and punctuation-insensitive matching
// happens in the import pipeline).
type Club struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NutritionEmail *string   `json:"nutritionEmail"`
	KidsEmail      *string   `json:"kidsEmail"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewClub(name string) (*Club, error) {
	if name == "" {
		return nil, ErrClubNameRequired
	}
	now := time.Now()
	return &Club{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
