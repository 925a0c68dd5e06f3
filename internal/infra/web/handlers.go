// internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dj_booking_service/internal/app"
	"dj_booking_service/internal/domain/booking"
	"dj_booking_service/internal/domain/dj"
	"dj_booking_service/internal/domain/interaction"
	idb "dj_booking_service/internal/infra/database"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// defaultReminderLookBack bounds the /reminders feed window.
const defaultReminderLookBack = 14 * 24 * time.Hour

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps repository/service sentinel errors onto HTTP codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, idb.ErrRequestNotFound), errors.Is(err, idb.ErrDJNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, idb.ErrAlreadyResponded),
		errors.Is(err, idb.ErrRequestNotNew),
		errors.Is(err, app.ErrDJAlreadyExists),
		errors.Is(err, app.ErrDJAlreadyInactive),
		errors.Is(err, app.ErrFollowUpNotAllowed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidResponseMethod),
		errors.Is(err, app.ErrMissingClientDetails),
		errors.Is(err, app.ErrInvalidAvailabilityStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// --- DTOs ---

type requestDTO struct {
	ID                int64                   `json:"id"`
	ClientName        string                  `json:"client_name"`
	ClientEmail       string                  `json:"client_email"`
	ClientPhone       *string                 `json:"client_phone,omitempty"`
	EventDate         string                  `json:"event_date"`
	DJID              *int64                  `json:"dj_id,omitempty"`
	QuoteAmount       *float64                `json:"quote_amount,omitempty"`
	Status            booking.Status          `json:"status"`
	HasResponded      bool                    `json:"has_responded"`
	ResponseMethod    booking.ResponseMethod  `json:"response_method"`
	LastResponseAt    *time.Time              `json:"last_response_at,omitempty"`
	NextFollowUpAt    *time.Time              `json:"next_follow_up_at,omitempty"`
	FollowUpCount     int                     `json:"follow_up_count"`
	FollowUpHistory   []booking.FollowUpEntry `json:"follow_up_history"`
	AutomatedFollowUp bool                    `json:"automated_follow_up"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func toRequestDTO(req *booking.Request) requestDTO {
	dto := requestDTO{
		ID:                req.ID,
		ClientName:        req.ClientName,
		ClientEmail:       req.ClientEmail,
		EventDate:         req.EventDate.Format(dateLayout),
		Status:            req.Status,
		HasResponded:      req.HasResponded,
		ResponseMethod:    req.ResponseMethod,
		FollowUpCount:     req.FollowUpCount,
		FollowUpHistory:   req.FollowUpHistory,
		AutomatedFollowUp: req.AutomatedFollowUp,
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         req.UpdatedAt,
	}
	if req.FollowUpHistory == nil {
		dto.FollowUpHistory = []booking.FollowUpEntry{}
	}
	if req.ClientPhone.Valid {
		dto.ClientPhone = &req.ClientPhone.String
	}
	if req.DJID.Valid {
		dto.DJID = &req.DJID.Int64
	}
	if req.QuoteAmount.Valid {
		dto.QuoteAmount = &req.QuoteAmount.Float64
	}
	if req.LastResponseAt.Valid {
		dto.LastResponseAt = &req.LastResponseAt.Time
	}
	if req.NextFollowUpAt.Valid {
		dto.NextFollowUpAt = &req.NextFollowUpAt.Time
	}
	return dto
}

func toRequestDTOs(reqs []*booking.Request) []requestDTO {
	out := make([]requestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toRequestDTO(req))
	}
	return out
}

type interactionDTO struct {
	ID               string                 `json:"id"`
	RequestID        int64                  `json:"booking_request_id"`
	Method           booking.ResponseMethod `json:"method"`
	Notes            string                 `json:"notes"`
	Metadata         map[string]string      `json:"metadata"`
	IsFollowUp       bool                   `json:"is_follow_up"`
	IsClientResponse bool                   `json:"is_client_response"`
	CreatedAt        time.Time              `json:"created_at"`
}

func toInteractionDTOs(ins []*interaction.Interaction) []interactionDTO {
	out := make([]interactionDTO, 0, len(ins))
	for _, in := range ins {
		out = append(out, interactionDTO{
			ID:               in.ID,
			RequestID:        in.RequestID,
			Method:           in.Method,
			Notes:            in.Notes,
			Metadata:         in.Metadata,
			IsFollowUp:       in.IsFollowUp,
			IsClientResponse: in.IsClientResponse,
			CreatedAt:        in.CreatedAt,
		})
	}
	return out
}

type djDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Genres    string    `json:"genres,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toDJDTO(d *dj.DJ) djDTO {
	dto := djDTO{ID: d.ID, Name: d.Name, Email: d.Email, IsActive: d.IsActive, CreatedAt: d.CreatedAt}
	if d.Genres.Valid {
		dto.Genres = d.Genres.String
	}
	return dto
}

// --- Handlers ---

func handleRunSweep(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Sweep.RunNow(r.Context()); err != nil {
			deps.Logger.WithError(err).Error("Manual follow-up sweep failed")
			writeError(w, http.StatusInternalServerError, "sweep failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "sweep completed"})
	}
}

func handleCreateRequest(deps Deps) http.HandlerFunc {
	type createRequest struct {
		ClientName        string `json:"client_name"`
		ClientEmail       string `json:"client_email"`
		ClientPhone       string `json:"client_phone"`
		EventDate         string `json:"event_date"`
		DJID              *int64 `json:"dj_id"`
		AutomatedFollowUp *bool  `json:"automated_follow_up"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		eventDate, err := time.Parse(dateLayout, body.EventDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "event_date must be YYYY-MM-DD")
			return
		}

		automated := true
		if body.AutomatedFollowUp != nil {
			automated = *body.AutomatedFollowUp
		}

		req, err := deps.Bookings.CreateRequest(r.Context(), app.CreateRequestParams{
			ClientName:        body.ClientName,
			ClientEmail:       body.ClientEmail,
			ClientPhone:       body.ClientPhone,
			EventDate:         eventDate,
			DJID:              body.DJID,
			AutomatedFollowUp: automated,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRequestDTO(req))
	}
}

func handleListRequests(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := booking.Status(r.URL.Query().Get("status"))
		reqs, err := deps.Bookings.ListRequests(r.Context(), status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
	}
}

func handleGetRequest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		req, err := deps.Bookings.GetRequest(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestDTO(req))
	}
}

func handleMarkQuoted(deps Deps) http.HandlerFunc {
	type quoteRequest struct {
		Amount float64 `json:"amount"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var body quoteRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Amount <= 0 {
			writeError(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		req, err := deps.Bookings.MarkQuoted(r.Context(), id, body.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestDTO(req))
	}
}

func handleCancelRequest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		req, err := deps.Bookings.CancelRequest(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestDTO(req))
	}
}

func handleRecordResponse(deps Deps) http.HandlerFunc {
	type responseRequest struct {
		Method booking.ResponseMethod `json:"method"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var body responseRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := deps.Bookings.RecordClientResponse(r.Context(), id, body.Method); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "response recorded"})
	}
}

func handleScheduleFollowUp(deps Deps) http.HandlerFunc {
	type scheduleRequest struct {
		Date string `json:"date"` // optional, YYYY-MM-DD
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var body scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var explicit *time.Time
		if body.Date != "" {
			parsed, err := time.Parse(dateLayout, body.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			explicit = &parsed
		}

		effective, err := deps.FollowUps.ScheduleFollowUp(r.Context(), id, explicit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"follow_up_at": effective.Format(dateLayout)})
	}
}

func handleSendFollowUpNow(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := deps.FollowUps.SendFollowUpNow(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "follow-up sent"})
	}
}

func handleListInteractions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		ins, err := deps.Bookings.ListInteractions(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInteractionDTOs(ins))
	}
}

func handleListReminders(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ins, err := deps.Bookings.ListManualReminders(r.Context(), defaultReminderLookBack)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInteractionDTOs(ins))
	}
}

func handleAddDJ(deps Deps) http.HandlerFunc {
	type addDJRequest struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Genres string `json:"genres"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body addDJRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Name == "" || body.Email == "" {
			writeError(w, http.StatusBadRequest, "name and email are required")
			return
		}
		d, err := deps.Admin.AddDJ(r.Context(), body.Name, body.Email, body.Genres)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDJDTO(d))
	}
}

func handleListDJs(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := r.URL.Query().Get("active") == "true"
		djs, err := deps.Admin.ListDJs(r.Context(), activeOnly)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]djDTO, 0, len(djs))
		for _, d := range djs {
			out = append(out, toDJDTO(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleDeactivateDJ(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		d, err := deps.Admin.DeactivateDJ(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDJDTO(d))
	}
}

func handleSetAvailability(deps Deps) http.HandlerFunc {
	type availabilityRequest struct {
		Day    string                `json:"day"`
		Status dj.AvailabilityStatus `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var body availabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		day, err := time.Parse(dateLayout, body.Day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
			return
		}
		entry, err := deps.Admin.SetAvailability(r.Context(), id, day, body.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"dj_id":  entry.DJID,
			"day":    entry.Day.Format(dateLayout),
			"status": entry.Status,
		})
	}
}

func handleListAvailability(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		now := time.Now()
		from, to := now, now.AddDate(0, 3, 0)
		if v := r.URL.Query().Get("from"); v != "" {
			parsed, err := time.Parse(dateLayout, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
				return
			}
			from = parsed
		}
		if v := r.URL.Query().Get("to"); v != "" {
			parsed, err := time.Parse(dateLayout, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
				return
			}
			to = parsed
		}

		entries, err := deps.Admin.ListAvailability(r.Context(), id, from, to)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]map[string]any, 0, len(entries))
		for _, entry := range entries {
			out = append(out, map[string]any{
				"day":    entry.Day.Format(dateLayout),
				"status": entry.Status,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
