package settlementhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"shiftpay/internal/domain/payroll"
	"shiftpay/internal/domain/settlement"
	"shiftpay/internal/platform/metrics"
	"shiftpay/internal/transport/http/api"
	"shiftpay/internal/transport/http/middleware"
	"shiftpay/internal/transport/http/shared"
)

type Handler struct {
	Settlement *settlement.Service
}

func NewHandler(settlementSvc *settlement.Service) *Handler {
	return &Handler{Settlement: settlementSvc}
}

type createBatchPayload struct {
	EventID string `json:"eventId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settlement/batches", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListBatches)
		r.Get("/{batchID}", h.handleGetBatch)
		r.Get("/{batchID}/rows", h.handleRows)
		r.Get("/{batchID}/statement", h.handleStatement)
		r.With(middleware.RequireApprover).Post("/", h.handleCreateBatch)
		r.Post("/{batchID}/rows/{rowID}/confirm", h.handleConfirmRow)
		r.With(middleware.RequireApprover).Post("/{batchID}/finalize", h.handleFinalize)
	})
}

func (h *Handler) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createBatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("eventId", payload.EventID, "eventId is required")
	var from, to time.Time
	if payload.From != "" {
		from, _ = v.Date("from", payload.From)
	}
	if payload.To != "" {
		to, _ = v.Date("to", payload.To)
	}
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	batch, err := h.Settlement.CreateBatch(r.Context(), payload.EventID, payroll.DateRange{From: payload.From, To: payload.To})
	if err != nil {
		failSettlement(w, err, reqID)
		return
	}
	api.Created(w, batch, reqID)
}

func (h *Handler) handleListBatches(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_filter", "event query parameter is required", reqID)
		return
	}

	batches, err := h.Settlement.ListBatches(r.Context(), eventID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "batches_list_failed", "failed to list batches", reqID)
		return
	}
	api.Success(w, batches, reqID)
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	batch, err := h.Settlement.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		failSettlement(w, err, reqID)
		return
	}
	api.Success(w, batch, reqID)
}

func (h *Handler) handleRows(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	rows, err := h.Settlement.Rows(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		failSettlement(w, err, reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleConfirmRow(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Settlement.ConfirmRow(r.Context(), chi.URLParam(r, "batchID"), chi.URLParam(r, "rowID")); err != nil {
		failSettlement(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"confirmed": true}, reqID)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	batch, err := h.Settlement.Finalize(r.Context(), chi.URLParam(r, "batchID"), user.UserID)
	if err != nil {
		failSettlement(w, err, reqID)
		return
	}
	metrics.BatchesFinalized.Inc()
	api.Success(w, batch, reqID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	path, err := h.Settlement.Statement(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		failSettlement(w, err, reqID)
		return
	}
	if _, err := os.Stat(path); err != nil {
		api.Fail(w, http.StatusInternalServerError, "statement_failed", "statement file missing", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

func failSettlement(w http.ResponseWriter, err error, reqID string) {
	var unconfirmed *settlement.UnconfirmedError
	switch {
	case errors.Is(err, settlement.ErrNotFound), errors.Is(err, settlement.ErrRowNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "settlement batch or row not found", reqID)
	case errors.Is(err, settlement.ErrBatchLocked):
		api.Fail(w, http.StatusConflict, "batch_locked", "settlement batch is locked", reqID)
	case errors.Is(err, settlement.ErrEmptyBatch):
		api.Fail(w, http.StatusUnprocessableEntity, "empty_batch", "no staff rows for the event and range", reqID)
	case errors.Is(err, settlement.ErrAlreadyExists):
		api.Fail(w, http.StatusConflict, "already_exists", "a batch already exists for that range", reqID)
	case errors.As(err, &unconfirmed):
		api.FailWithDetails(w, http.StatusPreconditionFailed, "unconfirmed_rows",
			"every staff row must be confirmed before finalizing",
			map[string]any{"staffIds": unconfirmed.StaffIDs}, reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "settlement_failed", "settlement operation failed", reqID)
	}
}
