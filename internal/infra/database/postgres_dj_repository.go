package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dj_booking_service/internal/domain/dj"
)

// Custom errors
var ErrDJNotFound = fmt.Errorf("dj not found")
var ErrDuplicateDJEmail = fmt.Errorf("dj with this email already exists")

type PostgresDJRepository struct {
	db *sql.DB
}

func NewPostgresDJRepository(db *sql.DB) *PostgresDJRepository {
	return &PostgresDJRepository{db: db}
}

func (r *PostgresDJRepository) Create(ctx context.Context, d *dj.DJ) error {
	query := `INSERT INTO djs (name, email, genres, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, d.Name, d.Email, d.Genres, d.IsActive).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "djs_email_key") {
			return ErrDuplicateDJEmail
		}
		return fmt.Errorf("error creating dj: %w", err)
	}
	return nil
}

func (r *PostgresDJRepository) GetByID(ctx context.Context, id int64) (*dj.DJ, error) {
	query := `SELECT id, name, email, genres, is_active, created_at, updated_at FROM djs WHERE id = $1`
	d := &dj.DJ{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Email, &d.Genres, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDJNotFound
		}
		return nil, fmt.Errorf("error getting dj by ID: %w", err)
	}
	return d, nil
}

func (r *PostgresDJRepository) GetByEmail(ctx context.Context, email string) (*dj.DJ, error) {
	query := `SELECT id, name, email, genres, is_active, created_at, updated_at FROM djs WHERE email = $1`
	d := &dj.DJ{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&d.ID, &d.Name, &d.Email, &d.Genres, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDJNotFound
		}
		return nil, fmt.Errorf("error getting dj by email: %w", err)
	}
	return d, nil
}

func (r *PostgresDJRepository) Update(ctx context.Context, d *dj.DJ) error {
	query := `UPDATE djs
		SET name = $1, email = $2, genres = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, d.Name, d.Email, d.Genres, d.IsActive, d.ID).Scan(&d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrDJNotFound
		}
		return fmt.Errorf("error updating dj: %w", err)
	}
	return nil
}

func scanDJs(rows *sql.Rows) ([]*dj.DJ, error) {
	djs := make([]*dj.DJ, 0)
	for rows.Next() {
		d := &dj.DJ{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Genres, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning dj row: %w", err)
		}
		djs = append(djs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dj rows: %w", err)
	}
	return djs, nil
}

func (r *PostgresDJRepository) ListActive(ctx context.Context) ([]*dj.DJ, error) {
	query := `SELECT id, name, email, genres, is_active, created_at, updated_at
		FROM djs WHERE is_active = TRUE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active djs: %w", err)
	}
	defer rows.Close()
	return scanDJs(rows)
}

func (r *PostgresDJRepository) ListAll(ctx context.Context) ([]*dj.DJ, error) {
	query := `SELECT id, name, email, genres, is_active, created_at, updated_at FROM djs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing all djs: %w", err)
	}
	defer rows.Close()
	return scanDJs(rows)
}

func (r *PostgresDJRepository) SetAvailability(ctx context.Context, a *dj.Availability) error {
	query := `INSERT INTO dj_availability (dj_id, day, status)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT dj_availability_day_unique
		DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, a.DJID, a.Day, a.Status).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("error setting dj availability: %w", err)
	}
	return nil
}

func (r *PostgresDJRepository) ListAvailability(ctx context.Context, djID int64, from, to time.Time) ([]*dj.Availability, error) {
	query := `SELECT id, dj_id, day, status, created_at
		FROM dj_availability
		WHERE dj_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, djID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying dj availability: %w", err)
	}
	defer rows.Close()

	entries := make([]*dj.Availability, 0)
	for rows.Next() {
		a := &dj.Availability{}
		if err := rows.Scan(&a.ID, &a.DJID, &a.Day, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning dj availability row: %w", err)
		}
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dj availability rows: %w", err)
	}
	return entries, nil
}
