package roundhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	authdomain "github.com/Black-And-White-Club/weighin-league/app/modules/auth/domain"
	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	roundtime "github.com/Black-And-White-Club/weighin-league/app/modules/round/time_utils"
	"github.com/Black-And-White-Club/weighin-league/pkg/httpjson"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HTTPHandlers serves the round REST API.
type HTTPHandlers struct {
	service   roundservice.Service
	publisher message.Publisher
	helpers   utils.Helpers
	logger    *slog.Logger
	now       func() time.Time
}

func NewHTTPHandlers(service roundservice.Service, publisher message.Publisher, helpers utils.Helpers, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, publisher: publisher, helpers: helpers, logger: logger, now: time.Now}
}

// GameRoutes mounts under /api/games/{gameID}/rounds.
func (h *HTTPHandlers) GameRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/", h.HandleListRounds)
	r.With(requireAdmin).Post("/", h.HandleCreateRound)
}

// Routes mounts under /api/rounds.
func (h *HTTPHandlers) Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/{roundID}", h.HandleGetRound)
	r.Get("/{roundID}/results", h.HandleGetResults)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/{roundID}/activate", h.HandleActivateRound)
		r.Post("/{roundID}/close", h.HandleCloseRound)
		r.Post("/{roundID}/recompute", h.HandleRecomputeRound)
		r.Get("/{roundID}/export", h.HandleExportResults)
	})
}

func (h *HTTPHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var req roundservice.CreateRoundRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.GameID = gameID

	result, err := h.service.CreateRound(r.Context(), req)
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

func (h *HTTPHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.ListRounds(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"rounds": *result.Success})
}

func (h *HTTPHandlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDParam(w, r)
	if !ok {
		return
	}

	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.GetRound(r.Context(), roundID, claims.UserID)
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

func (h *HTTPHandlers) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDParam(w, r)
	if !ok {
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.GetRoundResults(r.Context(), roundID, claims.UserID)
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

func (h *HTTPHandlers) HandleActivateRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.ActivateRound(r.Context(), roundID)
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

// HandleCloseRound closes the round and starts its settlement. Settlement itself runs
// in the round.closed handler.
func (h *HTTPHandlers) HandleCloseRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.CloseRound(r.Context(), roundID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}

	view := *result.Success
	if view.Changed {
		h.publish(r, RoundClosedResult(view.Round, h.now()))
	}
	httpjson.Write(w, http.StatusOK, view)
}

func (h *HTTPHandlers) HandleRecomputeRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.RecomputeRound(r.Context(), roundID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}

	view := *result.Success
	if !view.Skipped {
		h.publish(r, RoundSettledResult(*view))
	}
	httpjson.Write(w, http.StatusOK, view)
}

// HandleExportResults streams the results document. format defaults to xlsx.
func (h *HTTPHandlers) HandleExportResults(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDParam(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}

	result, err := h.service.ExportRoundResults(r.Context(), roundID, format)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}

	export := *result.Success
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

// publish sends an event for a change that is already committed. A publish failure
// is logged and the sweeper picks the round up again.
func (h *HTTPHandlers) publish(r *http.Request, res handlerwrapper.Result) {
	msg, err := eventbus.NewMessage(h.helpers, res.Topic, res.Payload, r.Header.Get("X-Correlation-ID"))
	if err == nil {
		err = h.publisher.Publish(res.Topic, msg)
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to publish round event",
			attr.String("topic", res.Topic),
			attr.Error(err),
		)
	}
}

func roundIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	roundID, err := uuid.Parse(chi.URLParam(r, "roundID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid round id")
		return uuid.Nil, false
	}
	return roundID, true
}

func (h *HTTPHandlers) failure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roundservice.ErrRoundNotFound),
		errors.Is(err, roundservice.ErrGameNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, roundservice.ErrNotMember):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, roundservice.ErrInvalidTitle),
		errors.Is(err, roundservice.ErrInvalidWindow),
		errors.Is(err, roundservice.ErrInvalidStatus),
		errors.Is(err, roundtime.ErrUnrecognizedTime):
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, rounddomain.ErrInvalidTransition),
		errors.Is(err, roundservice.ErrRoundNotClosed):
		httpjson.Error(w, http.StatusConflict, err.Error())
	default:
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	}
}

func (h *HTTPHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Round request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpjson.Error(w, http.StatusInternalServerError, "internal error")
}
