package payments

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	audit    *shared.AuditLogger
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, service: service, audit: audit, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAuth())
		r.Get("/", h.search)
		r.Get("/{id}", h.get)
		r.Get("/leases/{leaseID}/snapshot", h.snapshot)
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireRole(shared.RoleAdmin, shared.RoleManager))
		r.Post("/", h.record)
		r.Patch("/{id}/status", h.updateStatus)
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)
	q := r.URL.Query()

	req := SearchPaymentsRequest{AdminID: principal.UserID}
	if v := q.Get("lease_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.LeaseID = parsed
		}
	}
	if v := q.Get("unit_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.UnitID = parsed
		}
	}
	if v := q.Get("from"); v != "" {
		from, err := shared.ParseDate(v)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: from: %v", httpx.ErrValidation, err))
			return
		}
		req.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := shared.ParseDate(v)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: to: %v", httpx.ErrValidation, err))
			return
		}
		req.To = &to
	}
	req.Method = q.Get("method")
	req.Reference = q.Get("reference")
	req.Status = q.Get("status")
	req.Limit, req.Offset = shared.PageParams(q)

	items, total, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.logger.Error("search payments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"payments": items,
		"total":    total,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid payment id", httpx.ErrValidation))
		return
	}
	payment, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	leaseID, err := strconv.ParseInt(chi.URLParam(r, "leaseID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid lease id", httpx.ErrValidation))
		return
	}

	var asOf time.Time
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := shared.ParseDate(v)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: as_of: %v", httpx.ErrValidation, err))
			return
		}
		asOf = parsed
	}

	snapshot, err := h.service.Snapshot(r.Context(), leaseID, asOf)
	if err != nil {
		h.logger.Error("lease snapshot", slog.Any("error", err), slog.Int64("lease_id", leaseID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snapshot)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	result, err := h.service.RecordPayment(r.Context(), req, principal.UserID)
	if err != nil {
		h.logger.Error("record payment", slog.Any("error", err), slog.Int64("unit_id", req.UnitID))
		httpx.RespondError(w, err)
		return
	}

	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   "payment.record",
		Entity:   "payment",
		EntityID: strconv.FormatInt(result.Payment.ID, 10),
		Meta:     map[string]any{"lease_id": result.Payment.LeaseID, "amount": result.Payment.Amount},
	}); err != nil {
		h.logger.Warn("audit payment", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid payment id", httpx.ErrValidation))
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	payment, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("update payment status", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}
