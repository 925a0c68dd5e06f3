// internal/infra/web/server.go
package web

import (
	"context"
	"net/http"
	"time"

	"dj_booking_service/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// SweepRunner triggers one follow-up sweep outside the cron cadence.
type SweepRunner interface {
	RunNow(ctx context.Context) error
}

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Bookings  *app.BookingService
	FollowUps app.FollowUpService
	Admin     *app.AdminService
	Sweep     SweepRunner
	Logger    *logrus.Logger
}

// Server wraps the HTTP server exposing the admin JSON API.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
}

func NewServer(addr string, deps Deps) *Server {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Operator-triggered reprocessing of due follow-ups.
	r.Post("/jobs/follow-up-sweep", handleRunSweep(deps))

	r.Route("/booking-requests", func(r chi.Router) {
		r.Post("/", handleCreateRequest(deps))
		r.Get("/", handleListRequests(deps))
		r.Get("/{id}", handleGetRequest(deps))
		r.Post("/{id}/quote", handleMarkQuoted(deps))
		r.Post("/{id}/cancel", handleCancelRequest(deps))
		r.Post("/{id}/response", handleRecordResponse(deps))
		r.Post("/{id}/follow-up", handleScheduleFollowUp(deps))
		r.Post("/{id}/send-follow-up", handleSendFollowUpNow(deps))
		r.Get("/{id}/interactions", handleListInteractions(deps))
	})

	r.Get("/reminders", handleListReminders(deps))

	r.Route("/djs", func(r chi.Router) {
		r.Post("/", handleAddDJ(deps))
		r.Get("/", handleListDJs(deps))
		r.Delete("/{id}", handleDeactivateDJ(deps))
		r.Put("/{id}/availability", handleSetAvailability(deps))
		r.Get("/{id}/availability", handleListAvailability(deps))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
