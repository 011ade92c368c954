package audithandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shiftpay/internal/domain/audit"
	"shiftpay/internal/transport/http/api"
	"shiftpay/internal/transport/http/middleware"
	"shiftpay/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequireApprover).Get("/events", h.handleListEvents)
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	page := shared.ParsePagination(r, 100, 500)
	query := r.URL.Query()
	filter := audit.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		EntityID:   query.Get("entityId"),
		ActorID:    query.Get("actorId"),
	}
	includeDetails := query.Get("includeDetails") == "true"

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		slog.Warn("audit count failed", "err", err)
	}

	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", reqID)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, reqID)
}
