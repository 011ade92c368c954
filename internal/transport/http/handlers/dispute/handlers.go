package disputehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftpay/internal/domain/dispute"
	"shiftpay/internal/domain/worksession"
	"shiftpay/internal/platform/metrics"
	"shiftpay/internal/transport/http/api"
	"shiftpay/internal/transport/http/middleware"
	"shiftpay/internal/transport/http/shared"
)

type Handler struct {
	Disputes *dispute.Service
}

func NewHandler(disputes *dispute.Service) *Handler {
	return &Handler{Disputes: disputes}
}

type filePayload struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

type resolvePayload struct {
	Approve      bool   `json:"approve"`
	Note         string `json:"note"`
	AmendedTimes *struct {
		ActualStart any `json:"actualStart"`
		ActualEnd   any `json:"actualEnd"`
	} `json:"amendedTimes"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/disputes", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleFile)
		r.Get("/{disputeID}", h.handleGet)
		r.With(middleware.RequireApprover).Post("/{disputeID}/resolve", h.handleResolve)
	})
}

// handleFile opens a dispute on behalf of the authenticated staff member.
func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload filePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("sessionId", payload.SessionID, "sessionId is required")
	if v.Reject(w, reqID) {
		return
	}

	filed, err := h.Disputes.File(r.Context(), payload.SessionID, user.StaffID, payload.Reason)
	if err != nil {
		failDispute(w, err, reqID)
		return
	}
	metrics.DisputesFiled.Inc()
	api.Created(w, filed, reqID)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload resolvePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	var amended *worksession.AmendedTimes
	if payload.AmendedTimes != nil {
		amended = &worksession.AmendedTimes{
			ActualStart: worksession.ParseTime(payload.AmendedTimes.ActualStart),
			ActualEnd:   worksession.ParseTime(payload.AmendedTimes.ActualEnd),
		}
	}

	resolved, err := h.Disputes.Resolve(r.Context(), chi.URLParam(r, "disputeID"), user.UserID, payload.Approve, amended, payload.Note)
	if err != nil {
		failDispute(w, err, reqID)
		return
	}
	api.Success(w, resolved, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filed, err := h.Disputes.Get(r.Context(), chi.URLParam(r, "disputeID"))
	if err != nil {
		failDispute(w, err, reqID)
		return
	}
	api.Success(w, filed, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	eventID := query.Get("event")
	staffID := query.Get("staff")

	var disputes []dispute.Dispute
	var err error
	switch {
	case eventID != "":
		disputes, err = h.Disputes.ListByEvent(r.Context(), eventID)
	case staffID != "":
		disputes, err = h.Disputes.ListByStaff(r.Context(), staffID)
	default:
		api.Fail(w, http.StatusBadRequest, "missing_filter", "event or staff query parameter is required", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "disputes_list_failed", "failed to list disputes", reqID)
		return
	}
	api.Success(w, disputes, reqID)
}

func failDispute(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, dispute.ErrReasonEmpty), errors.Is(err, dispute.ErrReasonTooShort):
		api.Fail(w, http.StatusBadRequest, "invalid_reason", err.Error(), reqID)
	case errors.Is(err, dispute.ErrNotFound), errors.Is(err, worksession.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "dispute or session not found", reqID)
	case errors.Is(err, dispute.ErrNotOwner):
		api.Fail(w, http.StatusForbidden, "not_owner", "only the session's staff member may dispute it", reqID)
	case errors.Is(err, dispute.ErrAlreadyResolved):
		api.Fail(w, http.StatusConflict, "already_resolved", "dispute has already been resolved", reqID)
	case errors.Is(err, worksession.ErrSessionLocked):
		api.Fail(w, http.StatusConflict, "session_locked", "session belongs to a finalized settlement batch", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "dispute_failed", "dispute operation failed", reqID)
	}
}
