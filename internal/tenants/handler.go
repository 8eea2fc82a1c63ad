package tenants

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

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)

	req := ListTenantsRequest{AdminID: principal.UserID}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	req.Current = r.URL.Query().Get("current") == "true"
	req.Limit, req.Offset = shared.PageParams(r.URL.Query())

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list tenants", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"tenants": items,
		"total":   total,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid tenant id", httpx.ErrValidation))
		return
	}
	tenant, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tenant)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	tenant, err := h.service.Create(r.Context(), req, principal.UserID)
	if err != nil {
		h.logger.Error("create tenant", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tenant)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid tenant id", httpx.ErrValidation))
		return
	}
	var req UpdateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	tenant, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update tenant", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tenant)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid tenant id", httpx.ErrValidation))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete tenant", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
