package worksessionhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftpay/internal/domain/worksession"
	"shiftpay/internal/platform/metrics"
	"shiftpay/internal/transport/http/api"
	"shiftpay/internal/transport/http/middleware"
	"shiftpay/internal/transport/http/shared"
)

type Handler struct {
	Sessions *worksession.Service
}

func NewHandler(sessions *worksession.Service) *Handler {
	return &Handler{Sessions: sessions}
}

type createPayload struct {
	EventID        string `json:"eventId"`
	StaffID        string `json:"staffId"`
	StaffName      string `json:"staffName"`
	Role           string `json:"role"`
	WorkDate       string `json:"workDate"`
	ScheduledStart any    `json:"scheduledStart"`
	ScheduledEnd   any    `json:"scheduledEnd"`
}

type attendancePayload struct {
	Time any `json:"time"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/work-sessions", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{sessionID}", h.handleGet)
		r.Post("/{sessionID}/check-in", h.handleCheckIn)
		r.Post("/{sessionID}/check-out", h.handleCheckOut)
		r.Post("/{sessionID}/complete", h.handleComplete)
		r.Post("/{sessionID}/cancel", h.handleCancel)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	eventID := query.Get("event")
	staffID := query.Get("staff")

	if eventID == "" && staffID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_filter", "event or staff query parameter is required", reqID)
		return
	}

	from, to, err := shared.DateRangeParams(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from/to must be RFC3339 or yyyy-MM-dd", reqID)
		return
	}

	var sessions []worksession.WorkSession
	if eventID != "" {
		sessions, err = h.Sessions.ListByEvent(r.Context(), eventID, from, to)
	} else {
		sessions, err = h.Sessions.ListByStaff(r.Context(), staffID, from, to)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "work_sessions_list_failed", "failed to list work sessions", reqID)
		return
	}
	api.Success(w, sessions, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("eventId", payload.EventID, "eventId is required")
	v.Required("staffId", payload.StaffID, "staffId is required")
	v.Required("workDate", payload.WorkDate, "workDate is required")
	if payload.WorkDate != "" {
		v.Date("workDate", payload.WorkDate)
	}
	if v.Reject(w, reqID) {
		return
	}

	session, err := h.Sessions.Create(r.Context(), worksession.CreateInput{
		EventID:        payload.EventID,
		StaffID:        payload.StaffID,
		StaffName:      payload.StaffName,
		Role:           payload.Role,
		WorkDate:       payload.WorkDate,
		ScheduledStart: payload.ScheduledStart,
		ScheduledEnd:   payload.ScheduledEnd,
	})
	if err != nil {
		failSession(w, err, reqID)
		return
	}
	api.Created(w, session, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	session, err := h.Sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		failSession(w, err, reqID)
		return
	}
	api.Success(w, session, reqID)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleAttendance(w, r, h.Sessions.CheckIn, worksession.StatusCheckedIn)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleAttendance(w, r, h.Sessions.CheckOut, worksession.StatusCheckedOut)
}

func (h *Handler) handleAttendance(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sessionID string, at any) (worksession.WorkSession, error), to worksession.Status) {
	reqID := middleware.GetRequestID(r.Context())

	// The body is optional; an empty one stamps the server clock.
	var payload attendancePayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	session, err := op(r.Context(), chi.URLParam(r, "sessionID"), payload.Time)
	if err != nil {
		failSession(w, err, reqID)
		return
	}
	metrics.SessionTransitions.WithLabelValues(string(to)).Inc()
	api.Success(w, session, reqID)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	session, err := h.Sessions.Complete(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		failSession(w, err, reqID)
		return
	}
	metrics.SessionTransitions.WithLabelValues(string(worksession.StatusCompleted)).Inc()
	api.Success(w, session, reqID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	session, err := h.Sessions.Cancel(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		failSession(w, err, reqID)
		return
	}
	metrics.SessionTransitions.WithLabelValues(string(worksession.StatusCancelled)).Inc()
	api.Success(w, session, reqID)
}

func failSession(w http.ResponseWriter, err error, reqID string) {
	var transition *worksession.TransitionError
	switch {
	case errors.Is(err, worksession.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "work session not found", reqID)
	case errors.Is(err, worksession.ErrAlreadyExists):
		api.Fail(w, http.StatusConflict, "already_exists", "a session already exists for that staff member and date", reqID)
	case errors.Is(err, worksession.ErrSessionLocked):
		api.Fail(w, http.StatusConflict, "session_locked", "session belongs to a finalized settlement batch", reqID)
	case errors.As(err, &transition):
		api.Fail(w, http.StatusConflict, "invalid_transition", transition.Error(), reqID)
	case errors.Is(err, worksession.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", "session was modified concurrently, retry", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "work_session_failed", "work session operation failed", reqID)
	}
}
