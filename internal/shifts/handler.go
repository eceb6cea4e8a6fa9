package shifts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Handler serves the shift control endpoints. Each cashier only ever sees
// their own shifts.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers shift endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/shifts", h.List)
	r.Get("/shifts/current", h.Current)
	r.Post("/shifts/open", h.Open)
	r.Post("/shifts/close", h.Close)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	shifts, err := h.service.List(r.Context(), sess.UserID(), limit)
	if err != nil {
		h.logger.Error("list shifts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if shifts == nil {
		shifts = []Shift{}
	}
	httpx.JSON(w, http.StatusOK, shifts)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	shift, err := h.service.Current(r.Context(), sess.UserID())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shift)
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	var form OpenForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	shift, err := h.service.Open(r.Context(), sess.UserID(), sess.UserName(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("shift opened", slog.Int64("cashier", sess.UserID()), slog.Int64("shift", shift.ID))
	httpx.JSON(w, http.StatusCreated, shift)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	var form CloseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	shift, err := h.service.Close(r.Context(), sess.UserID(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("shift closed", slog.Int64("cashier", sess.UserID()),
		slog.Int64("shift", shift.ID), slog.Float64("total_sales", shift.TotalSales))
	httpx.JSON(w, http.StatusOK, shift)
}
