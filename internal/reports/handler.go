package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Handler serves the dashboard report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/summary", h.Summary)
	r.Get("/reports/top-products", h.TopProducts)
	r.Get("/reports/daily", h.Daily)
	r.Get("/reports/low-stock", h.LowStock)
}

// MountAdminRoutes registers the cache refresh endpoint.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/reports/refresh", h.Refresh)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.InvalidateCache(r.Context()); err != nil {
		h.logger.Error("invalidate report cache", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseRange(r *http.Request) (Range, error) {
	rng := DefaultRange(time.Now())
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Range{}, err
		}
		rng.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Range{}, err
		}
		rng.To = t
	}
	return rng, nil
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "dates must be YYYY-MM-DD")
		return
	}
	summary, err := h.service.SalesSummary(r.Context(), rng)
	if err != nil {
		h.logger.Error("sales summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "dates must be YYYY-MM-DD")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.service.TopProducts(r.Context(), rng, limit)
	if err != nil {
		h.logger.Error("top products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []TopProduct{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "dates must be YYYY-MM-DD")
		return
	}
	list, err := h.service.RevenueByDay(r.Context(), rng)
	if err != nil {
		h.logger.Error("revenue by day", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []DailyRevenue{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("low stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}
