package dashboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rentfolio/rentfolio/internal/payments"
	"github.com/rentfolio/rentfolio/internal/platform/cache"
	"github.com/rentfolio/rentfolio/internal/platform/httpx"
	"github.com/rentfolio/rentfolio/internal/shared"
)

// RecentPayments supplies the latest recorded payments for display next to
// the aggregates. Satisfied by the payments service.
type RecentPayments interface {
	Recent(ctx context.Context, adminID int64, n int) ([]payments.Payment, error)
}

type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *cache.Cache
	recent  RecentPayments
	group   singleflight.Group
}

func NewHandler(logger *slog.Logger, service *Service, c *cache.Cache, recent RecentPayments) *Handler {
	return &Handler{logger: logger, service: service, cache: c, recent: recent}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAuth())
		r.Get("/", h.summary)
		r.Get("/export.csv", h.exportCSV)
	})
}

type summaryResponse struct {
	Summary        *Summary           `json:"summary"`
	RecentPayments []payments.Payment `json:"recent_payments"`
}

func parseMonth(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01", raw)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)

	month, err := parseMonth(r.URL.Query().Get("month"), h.service.now())
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: month must be YYYY-MM", httpx.ErrValidation))
		return
	}

	key := cache.Key("dashboard", strconv.FormatInt(principal.UserID, 10), month.Format("2006-01"))

	var cached summaryResponse
	if err := h.cache.Get(r.Context(), key, &cached); err == nil {
		httpx.JSON(w, http.StatusOK, cached)
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		h.logger.Warn("dashboard cache read", slog.Any("error", err))
	}

	// Collapse concurrent misses for the same admin and month into one
	// aggregation run.
	result, err, _ := h.group.Do(key, func() (any, error) {
		var resp summaryResponse
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			summary, err := h.service.Summary(ctx, principal.UserID, month)
			if err != nil {
				return err
			}
			resp.Summary = summary
			return nil
		})
		g.Go(func() error {
			recent, err := h.recent.Recent(ctx, principal.UserID, 5)
			if err != nil {
				return err
			}
			resp.RecentPayments = recent
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := h.cache.Set(r.Context(), key, resp); err != nil {
			h.logger.Warn("dashboard cache write", slog.Any("error", err))
		}
		return resp, nil
	})
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromRequest(r)

	month, err := parseMonth(r.URL.Query().Get("month"), h.service.now())
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: month must be YYYY-MM", httpx.ErrValidation))
		return
	}

	summary, err := h.service.Summary(r.Context(), principal.UserID, month)
	if err != nil {
		h.logger.Error("dashboard export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=dashboard-%s.csv", summary.Month))

	printer := message.NewPrinter(language.English)
	money := func(v float64) string { return printer.Sprintf("%.2f", v) }

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"metric", "value"})
	_ = cw.Write([]string{"month", summary.Month})
	_ = cw.Write([]string{"properties", strconv.Itoa(summary.PropertyCount)})
	_ = cw.Write([]string{"units", strconv.Itoa(summary.UnitCount)})
	_ = cw.Write([]string{"occupied", strconv.Itoa(summary.OccupiedCount)})
	_ = cw.Write([]string{"occupancy_rate", printer.Sprintf("%.2f", summary.OccupancyRate)})
	_ = cw.Write([]string{"potential_rent", money(summary.PotentialRent)})
	_ = cw.Write([]string{"collected", money(summary.CollectedInMonth)})
	_ = cw.Write([]string{"expenses", money(summary.ExpensesInMonth)})
	_ = cw.Write([]string{"net", money(summary.NetInMonth)})
	_ = cw.Write([]string{"outstanding", money(summary.OutstandingTotal)})
	_ = cw.Write([]string{"arrears", money(summary.ArrearsTotal)})
	_ = cw.Write([]string{"open_maintenance", strconv.Itoa(summary.OpenMaintenance)})

	_ = cw.Write(nil)
	_ = cw.Write([]string{"lease_id", "unit_id", "tenant_id", "months_behind", "balance_due"})
	for _, d := range summary.Delinquent {
		_ = cw.Write([]string{
			strconv.FormatInt(d.LeaseID, 10),
			strconv.FormatInt(d.UnitID, 10),
			strconv.FormatInt(d.TenantID, 10),
			strconv.Itoa(d.MonthsBehind),
			money(d.BalanceDue),
		})
	}
	cw.Flush()
}
