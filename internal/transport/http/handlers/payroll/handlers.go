package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftpay/internal/domain/payroll"
	"shiftpay/internal/platform/metrics"
	"shiftpay/internal/transport/http/api"
	"shiftpay/internal/transport/http/middleware"
	"shiftpay/internal/transport/http/shared"
)

type Handler struct {
	Payroll *payroll.Service
	Idem    *middleware.IdempotencyStore
}

func NewHandler(payrollSvc *payroll.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Payroll: payrollSvc, Idem: idem}
}

type runPayload struct {
	EventID string `json:"eventId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type wageProfilePayload struct {
	EventID string              `json:"eventId"`
	Profile payroll.WageProfile `json:"profile"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/summary", h.handleSummary)
		r.Get("/breakdowns", h.handleBreakdowns)
		r.With(middleware.RequireApprover).Post("/run", h.handleRun)
		r.With(middleware.RequireApprover).Put("/wage-profiles", h.handleSetWageProfile)
	})
}

// handleRun settles an event's sessions for a date range. Retries with the
// same Idempotency-Key and payload replay the stored response instead of
// re-running the batch.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "failed to read request body", reqID)
		return
	}

	var payload runPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("eventId", payload.EventID, "eventId is required")
	if v.Reject(w, reqID) {
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(bytes.TrimSpace(raw))
	if idemKey != "" {
		stored, hit, err := h.Idem.Check(r.Context(), user.UserID, "payroll.run", idemKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", reqID)
			return
		}
		if err == nil && hit {
			var report payroll.RunReport
			if json.Unmarshal(stored, &report) == nil {
				api.Success(w, report, reqID)
				return
			}
		}
	}

	rng := payroll.DateRange{From: payload.From, To: payload.To}
	report, err := h.Payroll.Run(r.Context(), payload.EventID, rng, nil)
	if err != nil {
		metrics.PayrollRuns.WithLabelValues("failed").Inc()
		failPayroll(w, err, reqID)
		return
	}
	metrics.PayrollRuns.WithLabelValues("ok").Inc()

	if idemKey != "" {
		if response, err := json.Marshal(report); err == nil {
			_ = h.Idem.Save(r.Context(), user.UserID, "payroll.run", idemKey, requestHash, response)
		}
	}
	api.Success(w, report, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_filter", "event query parameter is required", reqID)
		return
	}

	from, to, err := shared.DateRangeParams(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from/to must be RFC3339 or yyyy-MM-dd", reqID)
		return
	}

	result, err := h.Payroll.Summary(r.Context(), eventID, payroll.DateRange{From: from, To: to})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_summary_failed", "failed to compute summary", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleBreakdowns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_filter", "event query parameter is required", reqID)
		return
	}

	from, to, err := shared.DateRangeParams(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from/to must be RFC3339 or yyyy-MM-dd", reqID)
		return
	}

	breakdowns, err := h.Payroll.Breakdowns(r.Context(), eventID, payroll.DateRange{From: from, To: to})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_breakdowns_failed", "failed to list breakdowns", reqID)
		return
	}
	api.Success(w, breakdowns, reqID)
}

func (h *Handler) handleSetWageProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload wageProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("eventId", payload.EventID, "eventId is required")
	v.Required("profile.staffId", payload.Profile.StaffID, "profile.staffId is required")
	v.Enum("profile.wageType", string(payload.Profile.Type), []string{
		string(payroll.WageHourly), string(payroll.WageDaily), string(payroll.WageMonthly),
		string(payroll.WageNegotiable), string(payroll.WageOther),
	}, "profile.wageType is not a known wage type")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Payroll.SetWageProfile(r.Context(), payload.EventID, payload.Profile); err != nil {
		api.Fail(w, http.StatusInternalServerError, "wage_profile_failed", "failed to save wage profile", reqID)
		return
	}
	api.Success(w, payload.Profile, reqID)
}

func failPayroll(w http.ResponseWriter, err error, reqID string) {
	var partial *payroll.PartialWriteError
	switch {
	case errors.Is(err, payroll.ErrNoSessions):
		api.Fail(w, http.StatusNotFound, "no_sessions", "no sessions match the event and range", reqID)
	case errors.As(err, &partial):
		api.FailWithDetails(w, http.StatusInternalServerError, "partial_write",
			"payroll run committed some staff before failing; retry to resume",
			map[string]any{
				"committedStaff": partial.CommittedStaff,
				"remainingStaff": partial.RemainingStaff,
			}, reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "payroll run failed", reqID)
	}
}
