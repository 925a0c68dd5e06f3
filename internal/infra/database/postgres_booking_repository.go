// internal/infra/database/postgres_booking_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dj_booking_service/internal/domain/booking"
)

// Custom errors specific to booking repository
var ErrRequestNotFound = fmt.Errorf("booking request not found")
var ErrAlreadyResponded = fmt.Errorf("booking request already has a client response")
var ErrRequestNotNew = fmt.Errorf("booking request is not in NEW status")

const bookingRequestColumns = `id, client_name, client_email, client_phone, event_date, dj_id,
	quote_amount, status, has_responded, response_method, last_response_at,
	next_follow_up_at, follow_up_count, follow_up_history, automated_follow_up,
	claimed_at, created_at, updated_at`

type PostgresBookingRepository struct {
	db *sql.DB
}

func NewPostgresBookingRepository(db *sql.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

func (r *PostgresBookingRepository) Create(ctx context.Context, req *booking.Request) error {
	if req.Status == "" {
		req.Status = booking.StatusNew
	}
	if req.ResponseMethod == "" {
		req.ResponseMethod = booking.MethodNone
	}
	history, err := json.Marshal(req.FollowUpHistory)
	if err != nil {
		return fmt.Errorf("error marshaling follow-up history: %w", err)
	}

	query := `INSERT INTO booking_requests
			(client_name, client_email, client_phone, event_date, dj_id, quote_amount,
			 status, has_responded, response_method, follow_up_count, follow_up_history,
			 automated_follow_up)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`
	// lib/pq encodes []byte as bytea, so JSONB values go over as text.
	err = r.db.QueryRowContext(ctx, query,
		req.ClientName, req.ClientEmail, req.ClientPhone, req.EventDate, req.DJID,
		req.QuoteAmount, req.Status, req.HasResponded, req.ResponseMethod,
		req.FollowUpCount, string(history), req.AutomatedFollowUp,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating booking request: %w", err)
	}
	return nil
}

// scanRequest scans one booking request row, unmarshaling the JSONB history.
func scanRequest(scanner interface{ Scan(...any) error }) (*booking.Request, error) {
	req := booking.Request{}
	var history []byte
	err := scanner.Scan(
		&req.ID, &req.ClientName, &req.ClientEmail, &req.ClientPhone, &req.EventDate,
		&req.DJID, &req.QuoteAmount, &req.Status, &req.HasResponded, &req.ResponseMethod,
		&req.LastResponseAt, &req.NextFollowUpAt, &req.FollowUpCount, &history,
		&req.AutomatedFollowUp, &req.ClaimedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &req.FollowUpHistory); err != nil {
		return nil, fmt.Errorf("error unmarshaling follow-up history: %w", err)
	}
	return &req, nil
}

func (r *PostgresBookingRepository) GetByID(ctx context.Context, id int64) (*booking.Request, error) {
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("error getting booking request by ID: %w", err)
	}
	return req, nil
}

func (r *PostgresBookingRepository) Update(ctx context.Context, req *booking.Request) error {
	history, err := json.Marshal(req.FollowUpHistory)
	if err != nil {
		return fmt.Errorf("error marshaling follow-up history: %w", err)
	}
	query := `UPDATE booking_requests
		SET client_name = $1, client_email = $2, client_phone = $3, event_date = $4,
			dj_id = $5, quote_amount = $6, status = $7, has_responded = $8,
			response_method = $9, last_response_at = $10, next_follow_up_at = $11,
			follow_up_count = $12, follow_up_history = $13, automated_follow_up = $14,
			updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query,
		req.ClientName, req.ClientEmail, req.ClientPhone, req.EventDate, req.DJID,
		req.QuoteAmount, req.Status, req.HasResponded, req.ResponseMethod,
		req.LastResponseAt, req.NextFollowUpAt, req.FollowUpCount, string(history),
		req.AutomatedFollowUp, req.ID,
	).Scan(&req.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRequestNotFound
		}
		return fmt.Errorf("error updating booking request: %w", err)
	}
	return nil
}

// Helper to scan multiple rows
func scanRequests(rows *sql.Rows) ([]*booking.Request, error) {
	requests := make([]*booking.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking request rows: %w", err)
	}
	return requests, nil
}

func (r *PostgresBookingRepository) List(ctx context.Context) ([]*booking.Request, error) {
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing booking requests: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *PostgresBookingRepository) ListByStatus(ctx context.Context, status booking.Status) ([]*booking.Request, error) {
	query := `SELECT ` + bookingRequestColumns + ` FROM booking_requests WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("error listing booking requests by status: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *PostgresBookingRepository) MarkQuoted(ctx context.Context, id int64, amount float64) (*booking.Request, error) {
	query := `UPDATE booking_requests
		SET status = $2, quote_amount = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING ` + bookingRequestColumns
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, booking.StatusQuoted, amount, booking.StatusNew))
	if err != nil {
		if err == sql.ErrNoRows {
			// Either the request doesn't exist or it has already left NEW.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrRequestNotNew
		}
		return nil, fmt.Errorf("error marking booking request quoted: %w", err)
	}
	return req, nil
}

func (r *PostgresBookingRepository) ClaimDueFollowUps(ctx context.Context, asOf, staleBefore time.Time) ([]*booking.Request, error) {
	query := `UPDATE booking_requests
		SET claimed_at = $1
		WHERE id IN (
			SELECT id FROM booking_requests
			WHERE status = $3
				AND has_responded = FALSE
				AND (
					(next_follow_up_at IS NOT NULL AND next_follow_up_at <= $1)
					OR
					(next_follow_up_at IS NULL AND updated_at <= $1::timestamptz - INTERVAL '3 days')
				)
				AND (claimed_at IS NULL OR claimed_at < $2)
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + bookingRequestColumns
	rows, err := r.db.QueryContext(ctx, query, asOf, staleBefore, booking.StatusQuoted)
	if err != nil {
		return nil, fmt.Errorf("error claiming due follow-ups: %w", err)
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *PostgresBookingRepository) ReleaseClaim(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE booking_requests SET claimed_at = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error releasing follow-up claim: %w", err)
	}
	return nil
}

// ScheduleFollowUp applies the three schedule mutations in one statement so
// count, history and next_follow_up_at can never be observed out of step.
func (r *PostgresBookingRepository) ScheduleFollowUp(ctx context.Context, id int64, date time.Time, entry booking.FollowUpEntry) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshaling follow-up history entry: %w", err)
	}
	query := `UPDATE booking_requests
		SET follow_up_count = follow_up_count + 1,
			next_follow_up_at = $2,
			follow_up_history = follow_up_history || $3::jsonb,
			updated_at = NOW()
		WHERE id = $1 AND has_responded = FALSE
		RETURNING follow_up_count`
	var count int
	err = r.db.QueryRowContext(ctx, query, id, date, string(entryJSON)).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return getErr
			}
			return ErrAlreadyResponded
		}
		return fmt.Errorf("error scheduling follow-up: %w", err)
	}
	return nil
}

func (r *PostgresBookingRepository) RecordClientResponse(ctx context.Context, id int64, method booking.ResponseMethod, at time.Time) error {
	query := `UPDATE booking_requests
		SET has_responded = TRUE,
			response_method = $2,
			last_response_at = $3,
			next_follow_up_at = NULL,
			updated_at = NOW()
		WHERE id = $1 AND has_responded = FALSE
		RETURNING id`
	var returned int64
	err := r.db.QueryRowContext(ctx, query, id, method, at).Scan(&returned)
	if err != nil {
		if err == sql.ErrNoRows {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return getErr
			}
			return ErrAlreadyResponded
		}
		return fmt.Errorf("error recording client response: %w", err)
	}
	return nil
}
