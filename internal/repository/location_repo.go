package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fireworks-wms-api-server/internal/models"

	"github.com/jmoiron/sqlx"
)

type LocationRepository struct {
	DB *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{DB: db}
}

func (r *LocationRepository) Create(ctx context.Context, l *models.StorageLocation) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
        INSERT INTO storage_locations (
            code, zone, shelf_row, shelf, level, capacity, current_usage,
            created_at, updated_at
        )
        VALUES (
            :code, :zone, :shelf_row, :shelf, :level, :capacity, :current_usage,
            :created_at, :updated_at
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, l)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&l.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *LocationRepository) Update(ctx context.Context, l *models.StorageLocation) error {
	l.UpdatedAt = time.Now()

	query := `
        UPDATE storage_locations
        SET capacity = :capacity,
            current_usage = :current_usage,
            updated_at = :updated_at
        WHERE code = :code
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return err
}

func (r *LocationRepository) FindByCode(ctx context.Context, code string) (*models.StorageLocation, error) {
	var l models.StorageLocation
	err := r.DB.GetContext(ctx, &l, `SELECT * FROM storage_locations WHERE code = $1 LIMIT 1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) List(ctx context.Context) ([]models.StorageLocation, error) {
	locations := []models.StorageLocation{}
	err := r.DB.SelectContext(ctx, &locations,
		`SELECT * FROM storage_locations ORDER BY code`)
	return locations, err
}

func (r *LocationRepository) Delete(ctx context.Context, code string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM storage_locations WHERE code = $1`, code)
	return err
}
