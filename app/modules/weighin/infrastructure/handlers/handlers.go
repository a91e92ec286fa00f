package weighinhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	authdomain "github.com/Black-And-White-Club/weighin-league/app/modules/auth/domain"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	weighinservice "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/application"
	"github.com/Black-And-White-Club/weighin-league/pkg/httpjson"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WeighInHandlers serves the weigh-in HTTP API and announces accepted submissions.
type WeighInHandlers struct {
	service   weighinservice.Service
	publisher message.Publisher
	helpers   utils.Helpers
	logger    *slog.Logger
}

func NewWeighInHandlers(service weighinservice.Service, publisher message.Publisher, helpers utils.Helpers, logger *slog.Logger) *WeighInHandlers {
	return &WeighInHandlers{service: service, publisher: publisher, helpers: helpers, logger: logger}
}

// Routes mounts under /api/games/{gameID}/weighins.
func (h *WeighInHandlers) Routes(r chi.Router) {
	r.Post("/", h.HandleSubmit)
	r.Get("/me", h.HandleListMine)
}

func (h *WeighInHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	var req weighinservice.SubmitRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.GameID = gameID
	req.UserID = claims.UserID

	result, err := h.service.SubmitWeighIn(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}

	view := *result.Success
	h.announce(r, view)

	status := http.StatusOK
	if view.Created {
		status = http.StatusCreated
	}
	httpjson.Write(w, status, view)
}

func (h *WeighInHandlers) HandleListMine(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.ListMyWeighIns(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"weighIns": *result.Success})
}

// announce publishes the submission. The weigh-in is already committed, so a publish
// failure is logged and the request still succeeds.
func (h *WeighInHandlers) announce(r *http.Request, view *weighinservice.WeighInView) {
	msg, err := eventbus.NewMessage(h.helpers, events.WeighInSubmittedV1, events.WeighInSubmittedPayloadV1{
		GameID:     view.GameID,
		RoundID:    view.RoundID,
		UserID:     view.UserID,
		Edited:     !view.Created,
		Suspicious: view.Suspicious,
	}, r.Header.Get("X-Correlation-ID"))
	if err == nil {
		err = h.publisher.Publish(events.WeighInSubmittedV1, msg)
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to publish weigh-in event",
			attr.StringUUID("game_id", view.GameID.String()),
			attr.StringUUID("round_id", view.RoundID.String()),
			attr.Error(err),
		)
	}
}

func (h *WeighInHandlers) failure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, weighinservice.ErrNotMember):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, weighinservice.ErrRoundNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scoredomain.ErrInvalidWeight):
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, weighinservice.ErrRoundClosed),
		errors.Is(err, weighinservice.ErrDeadlinePassed),
		errors.Is(err, weighinservice.ErrEditLimitReached),
		errors.Is(err, weighinservice.ErrWeighInLocked),
		errors.Is(err, weighinservice.ErrEditConflict):
		httpjson.Error(w, http.StatusConflict, err.Error())
	default:
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	}
}

func (h *WeighInHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Weigh-in request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpjson.Error(w, http.StatusInternalServerError, "internal error")
}
