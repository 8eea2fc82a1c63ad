package maintenance

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
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAuth())
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireRole(shared.RoleAdmin, shared.RoleManager))
		r.Patch("/{id}/status", h.updateStatus)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)
	q := r.URL.Query()

	req := ListRequest{AdminID: principal.UserID}
	if v := q.Get("lease_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.LeaseID = parsed
		}
	}
	req.Status = RequestStatus(q.Get("status"))
	req.Priority = q.Get("priority")
	req.Limit, req.Offset = shared.PageParams(q)

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list maintenance requests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"requests": items,
		"total":    total,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid request id", httpx.ErrValidation))
		return
	}
	request, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, request)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	request, err := h.service.Create(r.Context(), req, principal.UserID)
	if err != nil {
		h.logger.Error("create maintenance request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, request)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid request id", httpx.ErrValidation))
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

	request, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update maintenance status", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, request)
}
