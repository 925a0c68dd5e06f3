// internal/infra/database/postgres_interaction_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dj_booking_service/internal/domain/interaction"

	"github.com/google/uuid"
)

var ErrInteractionNotFound = fmt.Errorf("client interaction not found")

type PostgresInteractionRepository struct {
	db *sql.DB
}

func NewPostgresInteractionRepository(db *sql.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

func (r *PostgresInteractionRepository) Create(ctx context.Context, in *interaction.Interaction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Metadata == nil {
		in.Metadata = map[string]string{}
	}
	metadata, err := json.Marshal(in.Metadata)
	if err != nil {
		return fmt.Errorf("error marshaling interaction metadata: %w", err)
	}

	query := `INSERT INTO client_interactions
			(id, booking_request_id, method, notes, metadata, is_follow_up, is_client_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	// lib/pq encodes []byte as bytea, so JSONB values go over as text.
	err = r.db.QueryRowContext(ctx, query,
		in.ID, in.RequestID, in.Method, in.Notes, string(metadata), in.IsFollowUp, in.IsClientResponse,
	).Scan(&in.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating client interaction: %w", err)
	}
	return nil
}

// Helper to scan multiple rows
func scanInteractions(rows *sql.Rows) ([]*interaction.Interaction, error) {
	interactions := make([]*interaction.Interaction, 0)
	for rows.Next() {
		in := interaction.Interaction{}
		var metadata []byte
		if err := rows.Scan(
			&in.ID, &in.RequestID, &in.Method, &in.Notes, &metadata,
			&in.IsFollowUp, &in.IsClientResponse, &in.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning client interaction row: %w", err)
		}
		if err := json.Unmarshal(metadata, &in.Metadata); err != nil {
			return nil, fmt.Errorf("error unmarshaling interaction metadata: %w", err)
		}
		interactions = append(interactions, &in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client interaction rows: %w", err)
	}
	return interactions, nil
}

func (r *PostgresInteractionRepository) ListByRequest(ctx context.Context, requestID int64) ([]*interaction.Interaction, error) {
	query := `SELECT id, booking_request_id, method, notes, metadata, is_follow_up, is_client_response, created_at
		FROM client_interactions
		WHERE booking_request_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("error querying interactions by request: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}

func (r *PostgresInteractionRepository) ListManualReminders(ctx context.Context, since time.Time) ([]*interaction.Interaction, error) {
	query := `SELECT id, booking_request_id, method, notes, metadata, is_follow_up, is_client_response, created_at
		FROM client_interactions
		WHERE is_follow_up = TRUE
			AND is_client_response = FALSE
			AND method = 'NONE'
			AND created_at >= $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error querying manual reminders: %w", err)
	}
	defer rows.Close()
	return scanInteractions(rows)
}
