package usecase

import "time"

type ImportOutput struct {
	Rows     int    `json:"rows"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	ImportID string `json:"importId"`
}

// DispatchRow is one lead left-joined with its club's mailboxes. Club fields
// are nil when the lead has no club.
type DispatchRow struct {
	LeadID         string
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	Age            *string
	CreatedTime    *time.Time
	ClubID         *string
	ClubName       *string
	KidsEmail      *string
	NutritionEmail *string
}

type SendClubLeadsInput struct {
	IDs    []string `json:"ids"`
	All    bool     `json:"all"`
	Target string   `json:"target"` // "kids" or "nutrition"
}

type SendClubLeadsOutput struct {
	Queued  int `json:"queued"`
	Skipped int `json:"skipped"`
}
