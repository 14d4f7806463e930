package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closingmachines/leads-api/internal/entity"
)

// In-memory repositories backing the import engine tests. They mimic the
// real ones: lookups return (nil, nil) on a miss and hand out copies so the
// engine cannot mutate stored rows without calling Update.

type memAdRepo struct {
	ads  map[string]entity.Ad // keyed by external adId
	fail error
}

func newMemAdRepo() *memAdRepo { return &memAdRepo{ads: map[string]entity.Ad{}} }

func (r *memAdRepo) FindByAdID(_ context.Context, adID string) (*entity.Ad, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	if ad, ok := r.ads[adID]; ok {
		cp := ad
		return &cp, nil
	}
	return nil, nil
}

func (r *memAdRepo) Insert(_ context.Context, ad *entity.Ad) error {
	r.ads[ad.AdID] = *ad
	return nil
}

func (r *memAdRepo) Update(_ context.Context, ad *entity.Ad) error {
	r.ads[ad.AdID] = *ad
	return nil
}

type memClubRepo struct {
	clubs   []entity.Club
	inserts int
}

func (r *memClubRepo) All(_ context.Context) ([]entity.Club, error) {
	return append([]entity.Club(nil), r.clubs...), nil
}

func (r *memClubRepo) Insert(_ context.Context, club *entity.Club) error {
	r.inserts++
	r.clubs = append(r.clubs, *club)
	return nil
}

type memLeadRepo struct {
	leads []entity.Lead
}

func (r *memLeadRepo) FindByMetaID(_ context.Context, metaID string) (*entity.Lead, error) {
	for i := range r.leads {
		if r.leads[i].MetaID == metaID {
			cp := r.leads[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLeadRepo) FindByEmailAndCreatedTime(_ context.Context, email string, createdTime time.Time) (*entity.Lead, error) {
	for i := range r.leads {
		l := r.leads[i]
		if l.Email != nil && *l.Email == email && l.CreatedTime != nil && l.CreatedTime.Equal(createdTime) {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLeadRepo) Insert(_ context.Context, lead *entity.Lead) error {
	r.leads = append(r.leads, *lead)
	return nil
}

func (r *memLeadRepo) Update(_ context.Context, lead *entity.Lead) error {
	for i := range r.leads {
		if r.leads[i].ID == lead.ID {
			r.leads[i] = *lead
			return nil
		}
	}
	return fmt.Errorf("lead %s not found", lead.ID)
}

func newImportFixture() (*ImportLeadsUseCase, *memAdRepo, *memClubRepo, *memLeadRepo) {
	adRepo := newMemAdRepo()
	clubRepo := &memClubRepo{}
	leadRepo := &memLeadRepo{}
	return NewImportLeadsUseCase(adRepo, clubRepo, leadRepo), adRepo, clubRepo, leadRepo
}

const sampleCSV = `id,ad_id,ad_name,first_name,last_name,email,phone_number,created_time,¿Cuál es el club de tu interés?
l:1,ad-1,Verano Kids,Ana,López,ana@example.com,555-0001,2025-08-06 23:56:22(UTC-06:00),Midtown Club
l:2,ad-1,Verano Kids,Luis,Pérez,luis@example.com,555-0002,2025-08-07 10:00:00(UTC-06:00),MIDTOWN_CLUB
l:3,ad-2,Nutrición Agosto,María,Gómez,maria@example.com,555-0003,2025-08-07 11:30:00(UTC-06:00),Club Del Valle
`

func TestImportCreatesAdsClubsLeads(t *testing.T) {
	uc, adRepo, clubRepo, leadRepo := newImportFixture()

	out, err := uc.Execute(context.Background(), sampleCSV, "imp-1")
	require.NoError(t, err)

	assert.Equal(t, 3, out.Rows)
	assert.Equal(t, 3, out.Created)
	assert.Equal(t, 0, out.Updated)
	assert.Equal(t, "imp-1", out.ImportID)

	assert.Len(t, adRepo.ads, 2)
	assert.Len(t, leadRepo.leads, 3)

	// Two spellings of Midtown plus Club Del Valle.
	assert.Equal(t, 2, clubRepo.inserts)

	lead, err := leadRepo.FindByMetaID(context.Background(), "l:1")
	require.NoError(t, err)
	require.NotNil(t, lead)
	require.NotNil(t, lead.ImportID)
	assert.Equal(t, "imp-1", *lead.ImportID)
	require.NotNil(t, lead.ClubID)
}

func TestImportIdempotent(t *testing.T) {
	uc, adRepo, clubRepo, leadRepo := newImportFixture()
	ctx := context.Background()

	first, err := uc.Execute(ctx, sampleCSV, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 0, first.Updated)

	second, err := uc.Execute(ctx, sampleCSV, "imp-2")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Updated)

	assert.Len(t, adRepo.ads, 2)
	assert.Len(t, clubRepo.clubs, 2)
	assert.Len(t, leadRepo.leads, 3)
}

func TestImportHeaderAliasesProduceSameAd(t *testing.T) {
	fileA := "id,ad_id,ad_name,campaign_name\nl:1,ad-9,Promo,Kids Agosto\n"
	fileB := "lead_id,adid,ad_name,campaign_name\nl:1,ad-9,Promo,Kids Agosto\n"

	ucA, adRepoA, _, _ := newImportFixture()
	_, err := ucA.Execute(context.Background(), fileA, "a")
	require.NoError(t, err)

	ucB, adRepoB, _, _ := newImportFixture()
	_, err = ucB.Execute(context.Background(), fileB, "b")
	require.NoError(t, err)

	adA := adRepoA.ads["ad-9"]
	adB := adRepoB.ads["ad-9"]
	assert.Equal(t, adA.AdID, adB.AdID)
	require.NotNil(t, adA.AdName)
	require.NotNil(t, adB.AdName)
	assert.Equal(t, *adA.AdName, *adB.AdName)
	assert.Equal(t, *adA.CampaignName, *adB.CampaignName)
}

func TestImportClubNameCanonicalization(t *testing.T) {
	file := "id,ad_id,¿Cuál es el club de tu interés?\n" +
		"l:1,ad-1,Midtown Club\n" +
		"l:2,ad-1,MIDTOWN_CLUB\n" +
		"l:3,ad-1,Midtown  Club\n"

	uc, _, clubRepo, leadRepo := newImportFixture()
	_, err := uc.Execute(context.Background(), file, "imp")
	require.NoError(t, err)

	require.Equal(t, 1, clubRepo.inserts)
	assert.Equal(t, "Midtown Club", clubRepo.clubs[0].Name)

	for _, lead := range leadRepo.leads {
		require.NotNil(t, lead.ClubID)
		assert.Equal(t, clubRepo.clubs[0].ID, *lead.ClubID)
	}
}

func TestImportPrefersExistingClubOverInsert(t *testing.T) {
	uc, _, clubRepo, _ := newImportFixture()
	clubRepo.clubs = []entity.Club{{ID: "club-1", Name: "Midtown Club"}}

	file := "id,ad_id,¿Cuál es el club de tu interés?\nl:1,ad-1,midtown club\n"
	_, err := uc.Execute(context.Background(), file, "imp")
	require.NoError(t, err)

	assert.Equal(t, 0, clubRepo.inserts)
}

func TestImportSecondaryDedupByEmailAndCreatedTime(t *testing.T) {
	// Same physical lead exported twice with a drifted metaId.
	file := "id,ad_id,email,created_time\n" +
		"l:old,ad-1,ana@example.com,2025-08-06 23:56:22(UTC-06:00)\n" +
		"l:new,ad-1,ana@example.com,2025-08-06 23:56:22(UTC-06:00)\n"

	uc, _, _, leadRepo := newImportFixture()
	out, err := uc.Execute(context.Background(), file, "imp")
	require.NoError(t, err)

	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 1, out.Updated)
	require.Len(t, leadRepo.leads, 1)
	assert.Equal(t, "l:new", leadRepo.leads[0].MetaID)
}

func TestImportSkipAccounting(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,ad_id,email\n")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&b, "l:%d,ad-%d,u%d@example.com\n", i, i, i)
	}
	b.WriteString("l:8,,x@example.com\n") // no ad_id
	b.WriteString("l:9,,y@example.com\n") // no ad_id
	b.WriteString(",ad-99,z@example.com\n") // no metaId

	uc, _, _, _ := newImportFixture()
	out, err := uc.Execute(context.Background(), b.String(), "imp")
	require.NoError(t, err)

	assert.Equal(t, 10, out.Rows)
	assert.Equal(t, 7, out.Created+out.Updated)
}

func TestImportKeepsCreatedTimeWhenNewRowLacksIt(t *testing.T) {
	uc, _, _, leadRepo := newImportFixture()
	ctx := context.Background()

	_, err := uc.Execute(ctx, "id,ad_id,created_time\nl:1,ad-1,2025-08-06 23:56:22(UTC-06:00)\n", "imp-1")
	require.NoError(t, err)

	_, err = uc.Execute(ctx, "id,ad_id,created_time\nl:1,ad-1,\n", "imp-2")
	require.NoError(t, err)

	require.Len(t, leadRepo.leads, 1)
	require.NotNil(t, leadRepo.leads[0].CreatedTime)
	require.NotNil(t, leadRepo.leads[0].ImportID)
	assert.Equal(t, "imp-2", *leadRepo.leads[0].ImportID)
}

func TestImportAdUpdateOverwritesWithLatestRow(t *testing.T) {
	uc, adRepo, _, _ := newImportFixture()
	ctx := context.Background()

	_, err := uc.Execute(ctx, "id,ad_id,ad_name,campaign_name\nl:1,ad-1,Old Name,Old Campaign\n", "a")
	require.NoError(t, err)

	// Second file renames the ad and drops the campaign column entirely.
	_, err = uc.Execute(ctx, "id,ad_id,ad_name\nl:1,ad-1,New Name\n", "b")
	require.NoError(t, err)

	ad := adRepo.ads["ad-1"]
	require.NotNil(t, ad.AdName)
	assert.Equal(t, "New Name", *ad.AdName)
	assert.Nil(t, ad.CampaignName, "missing columns clear the stored value")
}

func TestImportEmptyFile(t *testing.T) {
	uc, _, _, _ := newImportFixture()
	out, err := uc.Execute(context.Background(), "", "imp")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Rows)
	assert.Equal(t, 0, out.Created)
	assert.Equal(t, 0, out.Updated)
}

func TestImportAbortsOnRepositoryError(t *testing.T) {
	uc, adRepo, _, _ := newImportFixture()
	adRepo.fail = errors.New("connection reset")

	_, err := uc.Execute(context.Background(), sampleCSV, "imp")
	require.Error(t, err)
}
