package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, meta_id, first_name, last_name, email, phone_number,
	lead_status, age, platform, created_time, sent, ad_id, club_id, import_id,
	created_at, updated_at`

func scanLead(s interface{ Scan(...any) error }) (*entity.Lead, error) {
	var l entity.Lead
	err := s.Scan(
		&l.ID, &l.MetaID, &l.FirstName, &l.LastName, &l.Email, &l.PhoneNumber,
		&l.LeadStatus, &l.Age, &l.Platform, &l.CreatedTime, &l.Sent,
		&l.AdID, &l.ClubID, &l.ImportID, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning lead: %w", err)
	}
	return &l, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	return scanLead(r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (r *LeadRepository) FindByMetaID(ctx context.Context, metaID string) (*entity.Lead, error) {
	return scanLead(r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE meta_id = $1`, metaID))
}

func (r *LeadRepository) FindByEmailAndCreatedTime(ctx context.Context, email string, createdTime time.Time) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = $1 AND created_time = $2`
	return scanLead(r.DB.QueryRowContext(ctx, query, email, createdTime))
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, meta_id, first_name, last_name, email, phone_number,
			lead_status, age, platform, created_time, sent, ad_id, club_id, import_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID, lead.MetaID, lead.FirstName, lead.LastName, lead.Email, lead.PhoneNumber,
		lead.LeadStatus, lead.Age, lead.Platform, lead.CreatedTime, lead.Sent,
		lead.AdID, lead.ClubID, lead.ImportID, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateKey
		}
		return fmt.Errorf("inserting lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			meta_id = $2, first_name = $3, last_name = $4, email = $5,
			phone_number = $6, lead_status = $7, age = $8, platform = $9,
			created_time = $10, sent = $11, ad_id = $12, club_id = $13,
			import_id = $14, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.ID, lead.MetaID, lead.FirstName, lead.LastName, lead.Email,
		lead.PhoneNumber, lead.LeadStatus, lead.Age, lead.Platform,
		lead.CreatedTime, lead.Sent, lead.AdID, lead.ClubID, lead.ImportID,
	)
	if err != nil {
		return fmt.Errorf("updating lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("deleting leads: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *LeadRepository) MarkSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET sent = TRUE, updated_at = NOW() WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("marking leads sent: %w", err)
	}
	return nil
}

// CountByImportSince reports how many leads a given import run has written
// so far; the upload dialog polls it for progress.
func (r *LeadRepository) CountByImportSince(ctx context.Context, importID string, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE import_id = $1 AND created_at >= $2`,
		importID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting import leads: %w", err)
	}
	return n, nil
}

// ListForDispatch loads leads left-joined with their club mailboxes, either
// for an explicit id selection or for the whole table.
func (r *LeadRepository) ListForDispatch(ctx context.Context, ids []string, all bool) ([]usecase.DispatchRow, error) {
	query := `
		SELECT l.id, l.first_name, l.last_name, l.email, l.phone_number, l.age,
		       l.created_time, l.club_id, c.name, c.kids_email, c.nutrition_email
		FROM leads l
		LEFT JOIN clubs c ON c.id = l.club_id
	`
	var (
		rows *sql.Rows
		err  error
	)
	if all {
		rows, err = r.DB.QueryContext(ctx, query)
	} else {
		rows, err = r.DB.QueryContext(ctx, query+` WHERE l.id = ANY($1)`, pq.Array(ids))
	}
	if err != nil {
		return nil, fmt.Errorf("loading leads for dispatch: %w", err)
	}
	defer rows.Close()

	var out []usecase.DispatchRow
	for rows.Next() {
		var d usecase.DispatchRow
		if err := rows.Scan(
			&d.LeadID, &d.FirstName, &d.LastName, &d.Email, &d.PhoneNumber, &d.Age,
			&d.CreatedTime, &d.ClubID, &d.ClubName, &d.KidsEmail, &d.NutritionEmail,
		); err != nil {
			return nil, fmt.Errorf("scanning dispatch row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListFilter narrows the leads listing; zero values mean "no filter".
type ListFilter struct {
	ClubID   string
	Sent     *bool
	Search   string // matches name, email or phone
	ImportID string
	Limit    int
}

func (r *LeadRepository) List(ctx context.Context, f ListFilter) ([]entity.Lead, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := []any{}
	idx := 1

	if f.ClubID != "" {
		query += fmt.Sprintf(" AND club_id = $%d", idx)
		args = append(args, f.ClubID)
		idx++
	}
	if f.Sent != nil {
		query += fmt.Sprintf(" AND sent = $%d", idx)
		args = append(args, *f.Sent)
		idx++
	}
	if f.ImportID != "" {
		query += fmt.Sprintf(" AND import_id = $%d", idx)
		args = append(args, f.ImportID)
		idx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(
			" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone_number ILIKE $%d)",
			idx, idx, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", idx)
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(
			&l.ID, &l.MetaID, &l.FirstName, &l.LastName, &l.Email, &l.PhoneNumber,
			&l.LeadStatus, &l.Age, &l.Platform, &l.CreatedTime, &l.Sent,
			&l.AdID, &l.ClubID, &l.ImportID, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
