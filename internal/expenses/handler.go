package expenses

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
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireRole(shared.RoleAdmin, shared.RoleManager))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)
	q := r.URL.Query()

	req := ListExpensesRequest{AdminID: principal.UserID}
	if v := q.Get("lease_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.LeaseID = parsed
		}
	}
	req.PaidBy = q.Get("paid_by")
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
	req.Limit, req.Offset = shared.PageParams(q)

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"expenses": items,
		"total":    total,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid expense id", httpx.ErrValidation))
		return
	}
	expense, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	principal, _ := shared.PrincipalFromRequest(r)
	expense, err := h.service.Create(r.Context(), req, principal.UserID)
	if err != nil {
		h.logger.Error("create expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid expense id", httpx.ErrValidation))
		return
	}
	var req UpdateExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	expense, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update expense", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid expense id", httpx.ErrValidation))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete expense", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
