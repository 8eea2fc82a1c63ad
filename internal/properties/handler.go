package properties

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

// Handler wires HTTP endpoints for property management.
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

	req := ListPropertiesRequest{AdminID: principal.UserID}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	req.Limit, req.Offset = shared.PageParams(r.URL.Query())

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list properties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"properties": items,
		"total":      total,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid property id", httpx.ErrValidation))
		return
	}
	property, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, property)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	property, err := h.service.Create(r.Context(), req, principal.UserID)
	if err != nil {
		h.logger.Error("create property", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, property)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid property id", httpx.ErrValidation))
		return
	}
	var req UpdatePropertyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	property, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update property", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, property)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid property id", httpx.ErrValidation))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete property", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
