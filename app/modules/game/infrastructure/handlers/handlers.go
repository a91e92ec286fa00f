package gamehandlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	authdomain "github.com/Black-And-White-Club/weighin-league/app/modules/auth/domain"
	gameservice "github.com/Black-And-White-Club/weighin-league/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/Black-And-White-Club/weighin-league/pkg/httpjson"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GameHandlers serves the game HTTP API and announces membership changes.
type GameHandlers struct {
	service   gameservice.Service
	publisher message.Publisher
	helpers   utils.Helpers
	logger    *slog.Logger
}

func NewGameHandlers(service gameservice.Service, publisher message.Publisher, helpers utils.Helpers, logger *slog.Logger) *GameHandlers {
	return &GameHandlers{service: service, publisher: publisher, helpers: helpers, logger: logger}
}

// Routes mounts the handlers. Callers must already be authenticated.
func (h *GameHandlers) Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/", h.HandleListGames)
	r.Get("/{gameID}", h.HandleGetGame)
	r.Post("/{gameID}/join", h.HandleJoinGame)
	r.Post("/{gameID}/leave", h.HandleLeaveGame)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/", h.HandleCreateGame)
		r.Patch("/{gameID}/settings", h.HandleUpdateSettings)
	})
}

func (h *GameHandlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	var req gameservice.CreateGameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CreatedBy = claims.UserID

	result, err := h.service.CreateGame(r.Context(), req)
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

func (h *GameHandlers) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req gameservice.UpdateSettingsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.UpdateGameSettings(r.Context(), gameID, req)
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

func (h *GameHandlers) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetGame(r.Context(), gameID)
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

func (h *GameHandlers) HandleListGames(w http.ResponseWriter, r *http.Request) {
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.ListGamesForUser(r.Context(), claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"games": *result.Success})
}

func (h *GameHandlers) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.service.JoinGame)
}

func (h *GameHandlers) HandleLeaveGame(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.service.LeaveGame)
}

func (h *GameHandlers) membership(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, gameID uuid.UUID, userID string) (gameservice.MembershipResult, error),
) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := op(r.Context(), gameID, claims.UserID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	h.announce(r, *result.Success)
	httpjson.Write(w, http.StatusOK, *result.Success)
}

// announce publishes a committed membership change. A publish failure is logged and
// the cached leaderboard catches up when its TTL expires.
func (h *GameHandlers) announce(r *http.Request, view *gameservice.MembershipView) {
	msg, err := eventbus.NewMessage(h.helpers, events.GameMembershipChangedV1, events.GameMembershipChangedPayloadV1{
		GameID: view.GameID,
		UserID: view.UserID,
		Active: view.IsActive,
	}, r.Header.Get("X-Correlation-ID"))
	if err == nil {
		err = h.publisher.Publish(events.GameMembershipChangedV1, msg)
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to publish membership event",
			attr.StringUUID("game_id", view.GameID.String()),
			attr.String("user_id", view.UserID),
			attr.Error(err),
		)
	}
}

func gameIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid game id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *GameHandlers) failure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gamedb.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, gameservice.ErrInvalidName),
		errors.Is(err, scoredomain.ErrInvalidPercentCap),
		errors.Is(err, scoredomain.ErrEmptyScheme),
		errors.Is(err, scoredomain.ErrNegativePoints):
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	}
}

func (h *GameHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Game request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpjson.Error(w, http.StatusInternalServerError, "internal error")
}
