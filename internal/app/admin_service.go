package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dj_booking_service/internal/domain/dj"
	idb "dj_booking_service/internal/infra/database"
)

// Custom application-level errors for admin service
var ErrDJAlreadyExists = fmt.Errorf("dj with this email already exists")
var ErrDJAlreadyInactive = fmt.Errorf("dj is already inactive")
var ErrInvalidAvailabilityStatus = fmt.Errorf("invalid availability status")

// AdminService manages the DJ roster and calendar availability.
type AdminService struct {
	djRepo dj.Repository
}

func NewAdminService(dr dj.Repository) *AdminService {
	return &AdminService{djRepo: dr}
}

// AddDJ handles the business logic for adding a new DJ to the roster.
func (s *AdminService) AddDJ(ctx context.Context, name, email, genres string) (*dj.DJ, error) {
	// Check if a DJ already exists with this email
	_, err := s.djRepo.GetByEmail(ctx, email)
	if err == nil { // DJ found, so already exists
		return nil, ErrDJAlreadyExists
	}
	if err != idb.ErrDJNotFound { // Another error occurred during lookup
		return nil, fmt.Errorf("failed to check existing dj: %w", err)
	}

	var genresValue sql.NullString
	if genres != "" {
		genresValue.String = genres
		genresValue.Valid = true
	}

	newDJ := &dj.DJ{
		Name:     name,
		Email:    email,
		Genres:   genresValue,
		IsActive: true, // New DJs are active by default
	}

	err = s.djRepo.Create(ctx, newDJ)
	if err != nil {
		if err == idb.ErrDuplicateDJEmail {
			return nil, ErrDJAlreadyExists
		}
		return nil, fmt.Errorf("failed to create dj in repository: %w", err)
	}

	return newDJ, nil
}

// DeactivateDJ handles the business logic for taking a DJ off the roster.
func (s *AdminService) DeactivateDJ(ctx context.Context, id int64) (*dj.DJ, error) {
	target, err := s.djRepo.GetByID(ctx, id)
	if err != nil {
		if err == idb.ErrDJNotFound {
			return nil, idb.ErrDJNotFound // Propagate specific error
		}
		return nil, fmt.Errorf("failed to get dj for deactivation: %w", err)
	}

	if !target.IsActive {
		return target, ErrDJAlreadyInactive
	}

	target.IsActive = false
	err = s.djRepo.Update(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update dj to inactive in repository: %w", err)
	}

	return target, nil
}

func (s *AdminService) ListDJs(ctx context.Context, activeOnly bool) ([]*dj.DJ, error) {
	if activeOnly {
		return s.djRepo.ListActive(ctx)
	}
	return s.djRepo.ListAll(ctx)
}

// SetAvailability upserts one calendar day for a DJ.
func (s *AdminService) SetAvailability(ctx context.Context, djID int64, day time.Time, status dj.AvailabilityStatus) (*dj.Availability, error) {
	switch status {
	case dj.StatusAvailable, dj.StatusBooked, dj.StatusUnavailable:
	default:
		return nil, ErrInvalidAvailabilityStatus
	}

	if _, err := s.djRepo.GetByID(ctx, djID); err != nil {
		return nil, err
	}

	entry := &dj.Availability{
		DJID:   djID,
		Day:    day,
		Status: status,
	}
	if err := s.djRepo.SetAvailability(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to set dj availability: %w", err)
	}
	return entry, nil
}

func (s *AdminService) ListAvailability(ctx context.Context, djID int64, from, to time.Time) ([]*dj.Availability, error) {
	if _, err := s.djRepo.GetByID(ctx, djID); err != nil {
		return nil, err
	}
	return s.djRepo.ListAvailability(ctx, djID, from, to)
}
