package leadcsv

import (
	"strings"
	"time"
)

// Alias lists per logical field, in precedence order. The exports have gone
// through at least two header schemas (plus assorted typos), so aliasing is
// additive rather than a mode switch.
var (
	adIDAliases     = []string{"ad_id", "adid", "adid_"}
	metaIDAliases   = []string{"id", "lead_id"}
	firstNameAlias  = []string{"first_name", "name"}
	emailAliases    = []string{"email", "correo"}
	phoneAliases    = []string{"phone_number", "phone"}
	ageAliases      = []string{"que_edad_tiene_tu_peque", "que_edad_tiene_tu_peque_"}
	clubAliases     = []string{"cual_es_el_club_de_tu_interes", "cual_es_el_club_de_tu_preferencia"}
	platformAliases = []string{"platform", "plaform", "plataforma"}
)

// AdCandidate holds the ad fields mapped from one row. An empty AdID means
// the row carries no usable ad identity and must be skipped.
type AdCandidate struct {
	AdID         string
	AdName       *string
	AdsetID      *string
	AdsetName    *string
	AdgroupID    *string
	CampaignID   *string
	CampaignName *string
	FormID       *string
	FormName     *string
}

// LeadCandidate holds the lead fields mapped from one row. An empty MetaID
// means the row must be skipped.
type LeadCandidate struct {
	MetaID      string
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	LeadStatus  *string
	Age         *string
	ClubName    string
	Platform    *string
	CreatedTime *time.Time
}

func (r Row) first(aliases []string) string {
	for _, a := range aliases {
		if v, ok := r[a]; ok && v != "" {
			return v
		}
	}
	return ""
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// AdFromRow maps a normalized row to its ad candidate.
func AdFromRow(row Row) AdCandidate {
	return AdCandidate{
		AdID:         row.first(adIDAliases),
		AdName:       optional(row["ad_name"]),
		AdsetID:      optional(row["adset_id"]),
		AdsetName:    optional(row["adset_name"]),
		AdgroupID:    optional(row["adgroup_id"]),
		CampaignID:   optional(row["campaign_id"]),
		CampaignName: optional(row["campaign_name"]),
		FormID:       optional(row["form_id"]),
		FormName:     optional(row["form_name"]),
	}
}

// LeadFromRow maps a normalized row to its lead candidate. Email is
// lower-cased and trimmed; created_time is parsed leniently.
func LeadFromRow(row Row) LeadCandidate {
	email := strings.ToLower(strings.TrimSpace(row.first(emailAliases)))

	return LeadCandidate{
		MetaID:      row.first(metaIDAliases),
		FirstName:   optional(row.first(firstNameAlias)),
		LastName:    optional(row["last_name"]),
		Email:       optional(email),
		PhoneNumber: optional(row.first(phoneAliases)),
		LeadStatus:  optional(row["lead_status"]),
		Age:         optional(row.first(ageAliases)),
		ClubName:    row.first(clubAliases),
		Platform:    optional(row.first(platformAliases)),
		CreatedTime: ParseCreatedTime(row["created_time"]),
	}
}
