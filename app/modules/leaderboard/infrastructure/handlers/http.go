package leaderboardhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	authdomain "github.com/Black-And-White-Club/weighin-league/app/modules/auth/domain"
	leaderboardservice "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/weighin-league/pkg/httpjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HTTPHandlers serves the leaderboard REST API.
type HTTPHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

func NewHTTPHandlers(service leaderboardservice.Service, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, logger: logger}
}

// Routes mounts under /api/games/{gameID}/leaderboard.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Get("/", h.HandleGetLeaderboard)
	r.Get("/chart", h.HandleWeightChart)
	r.Put("/fasting", h.HandleRecordFastingDay)
}

// FastingRoutes mounts under /api/games/{gameID}/if.
func (h *HTTPHandlers) FastingRoutes(r chi.Router) {
	r.Post("/start", h.HandleStartFast)
	r.Post("/finish", h.HandleFinishFast)
	r.Get("/today", h.HandleFastingToday)
}

func (h *HTTPHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.GetLeaderboard(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, *result.Success)
}

func (h *HTTPHandlers) HandleWeightChart(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.RenderWeightChart(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}

	chart := *result.Success
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(chart.Data)))
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(chart.Data)
}

func (h *HTTPHandlers) HandleRecordFastingDay(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req leaderboardservice.FastingDayRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())
	req.GameID = gameID
	req.UserID = claims.UserID

	result, err := h.service.RecordFastingDay(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, *result.Success)
}

func (h *HTTPHandlers) HandleStartFast(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req leaderboardservice.StartFastRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())
	req.GameID = gameID
	req.UserID = claims.UserID

	result, err := h.service.StartFast(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusCreated, *result.Success)
}

func (h *HTTPHandlers) HandleFinishFast(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.FinishFast(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, *result.Success)
}

func (h *HTTPHandlers) HandleFastingToday(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.FastingToday(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, *result.Success)
}

func (h *HTTPHandlers) failure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leaderboardservice.ErrNotMember):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, leaderboardservice.ErrFastActive):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, leaderboardservice.ErrNoActiveFast):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, leaderboardservice.ErrInvalidFasting), errors.Is(err, leaderboardservice.ErrInvalidTarget):
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	}
}

func (h *HTTPHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpjson.Error(w, http.StatusInternalServerError, "internal error")
}
