package usecase

import (
	"context"
	"time"

	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/leadcsv"
	"github.com/closingmachines/leads-api/internal/normalize"
)

// ImportLeadsUseCase runs one CSV import: per row it resolves-or-creates the
// Ad, resolves-or-creates the Club (through a per-run name cache) and
// upserts the Lead by metaId with an (email, createdTime) fallback.
//
// Rows run strictly in order; a club created by an earlier row must be
// visible to later rows of the same file, which is what the cache is for.
// There is no enclosing transaction: a failure mid-file leaves the already
// processed rows committed, and re-running the same file is safe because
// every resolution is keyed.
type ImportLeadsUseCase struct {
	AdRepo   AdRepositoryInterface
	ClubRepo ClubRepositoryInterface
	LeadRepo LeadRepositoryInterface
}

func NewImportLeadsUseCase(
	adRepo AdRepositoryInterface,
	clubRepo ClubRepositoryInterface,
	leadRepo LeadRepositoryInterface,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		AdRepo:   adRepo,
		ClubRepo: clubRepo,
		LeadRepo: leadRepo,
	}
}

func (uc *ImportLeadsUseCase) Execute(ctx context.Context, fileText, importID string) (*ImportOutput, error) {
	rows := leadcsv.Parse(fileText)

	out := &ImportOutput{ImportID: importID}

	clubCache, err := uc.loadClubCache(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "CLUB_PRELOAD_FAILED", Message: err.Error()}
	}

	for _, row := range rows {
		out.Rows++

		adCandidate := leadcsv.AdFromRow(row)
		if adCandidate.AdID == "" {
			continue
		}

		adRecordID, err := uc.resolveAd(ctx, adCandidate)
		if err != nil {
			return nil, err
		}

		leadCandidate := leadcsv.LeadFromRow(row)
		if leadCandidate.MetaID == "" {
			continue
		}

		clubID, err := uc.resolveClub(ctx, leadCandidate.ClubName, clubCache)
		if err != nil {
			return nil, err
		}

		created, err := uc.upsertLead(ctx, leadCandidate, adRecordID, clubID, importID)
		if err != nil {
			return nil, err
		}
		if created {
			out.Created++
		} else {
			out.Updated++
		}
	}

	return out, nil
}

// loadClubCache reads all clubs once and indexes them by normalized name.
// The cache is per-invocation so concurrent imports stay isolated.
func (uc *ImportLeadsUseCase) loadClubCache(ctx context.Context) (map[string]string, error) {
	clubs, err := uc.ClubRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	cache := make(map[string]string, len(clubs))
	for _, c := range clubs {
		cache[normalize.NameKey(c.Name)] = c.ID
	}
	return cache, nil
}

// resolveAd finds the ad by its external id and overwrites all mutable
// fields with the latest row's values (including clearing them), or inserts
// a fresh ad. Returns the internal record id.
func (uc *ImportLeadsUseCase) resolveAd(ctx context.Context, c leadcsv.AdCandidate) (string, error) {
	existing, err := uc.AdRepo.FindByAdID(ctx, c.AdID)
	if err != nil {
		return "", err
	}

	if existing != nil {
		existing.AdName = c.AdName
		existing.AdsetID = c.AdsetID
		existing.AdsetName = c.AdsetName
		existing.AdgroupID = c.AdgroupID
		existing.CampaignID = c.CampaignID
		existing.CampaignName = c.CampaignName
		existing.FormID = c.FormID
		existing.FormName = c.FormName
		existing.UpdatedAt = time.Now()
		if err := uc.AdRepo.Update(ctx, existing); err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	ad, err := entity.NewAd(c.AdID)
	if err != nil {
		return "", err
	}
	ad.AdName = c.AdName
	ad.AdsetID = c.AdsetID
	ad.AdsetName = c.AdsetName
	ad.AdgroupID = c.AdgroupID
	ad.CampaignID = c.CampaignID
	ad.CampaignName = c.CampaignName
	ad.FormID = c.FormID
	ad.FormName = c.FormName
	if err := uc.AdRepo.Insert(ctx, ad); err != nil {
		return "", err
	}
	return ad.ID, nil
}

// resolveClub returns the club id for a raw club name, creating the club on
// a cache miss. Empty names resolve to nil.
func (uc *ImportLeadsUseCase) resolveClub(ctx context.Context, rawName string, cache map[string]string) (*string, error) {
	if rawName == "" {
		return nil, nil
	}
	key := normalize.NameKey(rawName)
	if key == "" {
		return nil, nil
	}

	if id, ok := cache[key]; ok {
		return &id, nil
	}

	club, err := entity.NewClub(normalize.DisplayName(rawName))
	if err != nil {
		return nil, err
	}
	if err := uc.ClubRepo.Insert(ctx, club); err != nil {
		return nil, err
	}
	cache[key] = club.ID
	return &club.ID, nil
}

// upsertLead resolves by metaId first; if that misses it tries the
// (email, createdTime) pair, which absorbs re-exports where Meta assigned a
// new lead id to the same physical lead. Returns true when a row was inserted.
func (uc *ImportLeadsUseCase) upsertLead(ctx context.Context, c leadcsv.LeadCandidate, adRecordID string, clubID *string, importID string) (bool, error) {
	existing, err := uc.LeadRepo.FindByMetaID(ctx, c.MetaID)
	if err != nil {
		return false, err
	}

	if existing == nil && c.Email != nil && c.CreatedTime != nil {
		existing, err = uc.LeadRepo.FindByEmailAndCreatedTime(ctx, *c.Email, *c.CreatedTime)
		if err != nil {
			return false, err
		}
	}

	if existing != nil {
		existing.MetaID = c.MetaID
		existing.FirstName = c.FirstName
		existing.LastName = c.LastName
		existing.Email = c.Email
		existing.PhoneNumber = c.PhoneNumber
		existing.LeadStatus = c.LeadStatus
		existing.Age = c.Age
		existing.Platform = c.Platform
		if c.CreatedTime != nil {
			existing.CreatedTime = c.CreatedTime
		}
		if clubID != nil {
			existing.ClubID = clubID
		}
		existing.AdID = adRecordID
		existing.ImportID = &importID
		existing.UpdatedAt = time.Now()
		if err := uc.LeadRepo.Update(ctx, existing); err != nil {
			return false, err
		}
		return false, nil
	}

	lead, err := entity.NewLead(c.MetaID, adRecordID)
	if err != nil {
		return false, err
	}
	lead.FirstName = c.FirstName
	lead.LastName = c.LastName
	lead.Email = c.Email
	lead.PhoneNumber = c.PhoneNumber
	lead.LeadStatus = c.LeadStatus
	lead.Age = c.Age
	lead.Platform = c.Platform
	lead.CreatedTime = c.CreatedTime
	lead.ClubID = clubID
	lead.ImportID = &importID
	if err := uc.LeadRepo.Insert(ctx, lead); err != nil {
		return false, err
	}
	return true, nil
}
