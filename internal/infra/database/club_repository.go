package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/closingmachines/leads-api/internal/entity"
)

type ClubRepository struct {
	DB *sql.DB
}

func NewClubRepository(db *sql.DB) *ClubRepository {
	return &ClubRepository{DB: db}
}

const clubColumns = `id, name, nutrition_email, kids_email, created_at, updated_at`

func (r *ClubRepository) All(ctx context.Context) ([]entity.Club, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("loading clubs: %w", err)
	}
	defer rows.Close()

	var clubs []entity.Club
	for rows.Next() {
		var c entity.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.NutritionEmail, &c.KidsEmail, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning club: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func (r *ClubRepository) FindByID(ctx context.Context, id string) (*entity.Club, error) {
	var c entity.Club
	err := r.DB.QueryRowContext(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.NutritionEmail, &c.KidsEmail, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding club: %w", err)
	}
	return &c, nil
}

func (r *ClubRepository) Insert(ctx context.Context, club *entity.Club) error {
	query := `
		INSERT INTO clubs (id, name, nutrition_email, kids_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		club.ID, club.Name, club.NutritionEmail, club.KidsEmail, club.CreatedAt, club.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateKey
		}
		return fmt.Errorf("inserting club: %w", err)
	}
	return nil
}

func (r *ClubRepository) Update(ctx context.Context, club *entity.Club) error {
	query := `
		UPDATE clubs SET name = $2, nutrition_email = $3, kids_email = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, club.ID, club.Name, club.NutritionEmail, club.KidsEmail)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateKey
		}
		return fmt.Errorf("updating club: %w", err)
	}
	return nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting club: %w", err)
	}
	return nil
}
