package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Handler serves login, logout and session introspection.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		sessions: sessions,
		csrf:     csrf,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/csrf", h.csrfToken)
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAuth())
		r.Get("/me", h.me)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", slog.String("identifier", req.Identifier), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, fmt.Errorf("session unavailable"))
		return
	}
	shared.StorePrincipal(sess, shared.Principal{UserID: user.ID, Role: user.Role})

	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("login", slog.Int64("user_id", user.ID), slog.String("role", user.Role))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"csrf_token": token,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	h.sessions.Destroy(sess)
	httpx.NoContent(w)
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)
	user, err := h.service.CurrentUser(r.Context(), principal.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
