package app

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dj_booking_service/internal/domain/dj"
	idb "dj_booking_service/internal/infra/database"
)

type fakeDJRepo struct {
	djs          map[int64]*dj.DJ
	availability map[int64]map[string]*dj.Availability
	nextID       int64
}

func newFakeDJRepo() *fakeDJRepo {
	return &fakeDJRepo{
		djs:          make(map[int64]*dj.DJ),
		availability: make(map[int64]map[string]*dj.Availability),
	}
}

func (f *fakeDJRepo) Create(_ context.Context, d *dj.DJ) error {
	for _, existing := range f.djs {
		if existing.Email == d.Email {
			return idb.ErrDuplicateDJEmail
		}
	}
	f.nextID++
	d.ID = f.nextID
	f.djs[d.ID] = d
	return nil
}

func (f *fakeDJRepo) GetByID(_ context.Context, id int64) (*dj.DJ, error) {
	d, ok := f.djs[id]
	if !ok {
		return nil, idb.ErrDJNotFound
	}
	return d, nil
}

func (f *fakeDJRepo) GetByEmail(_ context.Context, email string) (*dj.DJ, error) {
	for _, d := range f.djs {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, idb.ErrDJNotFound
}

func (f *fakeDJRepo) Update(_ context.Context, d *dj.DJ) error {
	if _, ok := f.djs[d.ID]; !ok {
		return idb.ErrDJNotFound
	}
	f.djs[d.ID] = d
	return nil
}

func (f *fakeDJRepo) list(activeOnly bool) []*dj.DJ {
	out := make([]*dj.DJ, 0, len(f.djs))
	for _, d := range f.djs {
		if activeOnly && !d.IsActive {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeDJRepo) ListActive(_ context.Context) ([]*dj.DJ, error) { return f.list(true), nil }
func (f *fakeDJRepo) ListAll(_ context.Context) ([]*dj.DJ, error)    { return f.list(false), nil }

func (f *fakeDJRepo) SetAvailability(_ context.Context, a *dj.Availability) error {
	days, ok := f.availability[a.DJID]
	if !ok {
		days = make(map[string]*dj.Availability)
		f.availability[a.DJID] = days
	}
	days[a.Day.Format("2006-01-02")] = a
	return nil
}

func (f *fakeDJRepo) ListAvailability(_ context.Context, djID int64, from, to time.Time) ([]*dj.Availability, error) {
	out := make([]*dj.Availability, 0)
	for _, a := range f.availability[djID] {
		if !a.Day.Before(from) && !a.Day.After(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func TestAddDJ(t *testing.T) {
	repo := newFakeDJRepo()
	svc := NewAdminService(repo)

	d, err := svc.AddDJ(context.Background(), "DJ Nova", "nova@example.com", "house, techno")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsActive {
		t.Errorf("new DJ should be active")
	}
	if !d.Genres.Valid || d.Genres.String != "house, techno" {
		t.Errorf("genres = %+v", d.Genres)
	}

	if _, err := svc.AddDJ(context.Background(), "Impostor", "nova@example.com", ""); !errors.Is(err, ErrDJAlreadyExists) {
		t.Errorf("expected ErrDJAlreadyExists, got %v", err)
	}
}

func TestDeactivateDJ(t *testing.T) {
	repo := newFakeDJRepo()
	svc := NewAdminService(repo)

	d, err := svc.AddDJ(context.Background(), "DJ Nova", "nova@example.com", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.DeactivateDJ(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsActive {
		t.Errorf("DJ still active after deactivation")
	}

	if _, err := svc.DeactivateDJ(context.Background(), d.ID); !errors.Is(err, ErrDJAlreadyInactive) {
		t.Errorf("expected ErrDJAlreadyInactive, got %v", err)
	}
	if _, err := svc.DeactivateDJ(context.Background(), 999); !errors.Is(err, idb.ErrDJNotFound) {
		t.Errorf("expected ErrDJNotFound, got %v", err)
	}
}

func TestSetAvailability(t *testing.T) {
	repo := newFakeDJRepo()
	svc := NewAdminService(repo)

	d, err := svc.AddDJ(context.Background(), "DJ Nova", "nova@example.com", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	if _, err := svc.SetAvailability(context.Background(), d.ID, day, dj.StatusBooked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SetAvailability(context.Background(), d.ID, day, dj.AvailabilityStatus("MAYBE")); !errors.Is(err, ErrInvalidAvailabilityStatus) {
		t.Errorf("expected ErrInvalidAvailabilityStatus, got %v", err)
	}

	entries, err := svc.ListAvailability(context.Background(), d.ID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != dj.StatusBooked {
		t.Errorf("availability entries = %+v", entries)
	}
}
