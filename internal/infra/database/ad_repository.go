package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/closingmachines/leads-api/internal/entity"
)

type AdRepository struct {
	DB *sql.DB
}

func NewAdRepository(db *sql.DB) *AdRepository {
	return &AdRepository{DB: db}
}

const adColumns = `id, ad_id, ad_name, adset_id, adset_name, adgroup_id,
	campaign_id, campaign_name, form_id, form_name, created_at, updated_at`

func scanAd(row *sql.Row) (*entity.Ad, error) {
	var ad entity.Ad
	err := row.Scan(
		&ad.ID, &ad.AdID, &ad.AdName, &ad.AdsetID, &ad.AdsetName, &ad.AdgroupID,
		&ad.CampaignID, &ad.CampaignName, &ad.FormID, &ad.FormName,
		&ad.CreatedAt, &ad.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning ad: %w", err)
	}
	return &ad, nil
}

func (r *AdRepository) FindByAdID(ctx context.Context, adID string) (*entity.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE ad_id = $1`
	return scanAd(r.DB.QueryRowContext(ctx, query, adID))
}

func (r *AdRepository) FindByID(ctx context.Context, id string) (*entity.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE id = $1`
	return scanAd(r.DB.QueryRowContext(ctx, query, id))
}

func (r *AdRepository) Insert(ctx context.Context, ad *entity.Ad) error {
	query := `
		INSERT INTO ads (id, ad_id, ad_name, adset_id, adset_name, adgroup_id,
			campaign_id, campaign_name, form_id, form_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query,
		ad.ID, ad.AdID, ad.AdName, ad.AdsetID, ad.AdsetName, ad.AdgroupID,
		ad.CampaignID, ad.CampaignName, ad.FormID, ad.FormName,
		ad.CreatedAt, ad.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateKey
		}
		return fmt.Errorf("inserting ad: %w", err)
	}
	return nil
}

func (r *AdRepository) Update(ctx context.Context, ad *entity.Ad) error {
	query := `
		UPDATE ads SET
			ad_id = $2, ad_name = $3, adset_id = $4, adset_name = $5,
			adgroup_id = $6, campaign_id = $7, campaign_name = $8,
			form_id = $9, form_name = $10, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query,
		ad.ID, ad.AdID, ad.AdName, ad.AdsetID, ad.AdsetName, ad.AdgroupID,
		ad.CampaignID, ad.CampaignName, ad.FormID, ad.FormName,
	)
	if err != nil {
		return fmt.Errorf("updating ad: %w", err)
	}
	return nil
}

func (r *AdRepository) List(ctx context.Context, limit int) ([]entity.Ad, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + adColumns + ` FROM ads ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing ads: %w", err)
	}
	defer rows.Close()

	var ads []entity.Ad
	for rows.Next() {
		var ad entity.Ad
		if err := rows.Scan(
			&ad.ID, &ad.AdID, &ad.AdName, &ad.AdsetID, &ad.AdsetName, &ad.AdgroupID,
			&ad.CampaignID, &ad.CampaignName, &ad.FormID, &ad.FormName,
			&ad.CreatedAt, &ad.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning ad: %w", err)
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

// Delete fails with a foreign-key violation while any lead still references
// the ad.
func (r *AdRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting ad: %w", err)
	}
	return nil
}
