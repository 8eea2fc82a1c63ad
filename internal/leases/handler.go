package leases

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

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
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireRole(shared.RoleAdmin, shared.RoleManager))
		r.Post("/", h.assign)
		r.Post("/{id}/end", h.end)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)

	req := ListLeasesRequest{AdminID: principal.UserID}
	if u := r.URL.Query().Get("unit_id"); u != "" {
		if parsed, err := strconv.ParseInt(u, 10, 64); err == nil {
			req.UnitID = parsed
		}
	}
	if tn := r.URL.Query().Get("tenant_id"); tn != "" {
		if parsed, err := strconv.ParseInt(tn, 10, 64); err == nil {
			req.TenantID = parsed
		}
	}
	req.Status = LeaseStatus(r.URL.Query().Get("status"))
	req.Limit, req.Offset = shared.PageParams(r.URL.Query())

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list leases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"leases": items,
		"total":  total,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid lease id", httpx.ErrValidation))
		return
	}
	lease, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lease)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req AssignTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	lease, err := h.service.AssignTenant(r.Context(), req, principal.UserID)
	if err != nil {
		h.logger.Error("assign tenant", slog.Any("error", err), slog.Int64("unit_id", req.UnitID))
		httpx.RespondError(w, err)
		return
	}

	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   "lease.assign",
		Entity:   "lease",
		EntityID: strconv.FormatInt(lease.ID, 10),
		Meta:     map[string]any{"unit_id": lease.UnitID, "tenant_id": lease.TenantID},
	}); err != nil {
		h.logger.Warn("audit lease assignment", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusCreated, lease)
}

func (h *Handler) end(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid lease id", httpx.ErrValidation))
		return
	}
	var req EndLeaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	lease, err := h.service.EndLease(r.Context(), id, req)
	if err != nil {
		h.logger.Error("end lease", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}

	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   "lease.end",
		Entity:   "lease",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     map[string]any{"end_date": req.EndDate},
	}); err != nil {
		h.logger.Warn("audit lease end", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, lease)
}
