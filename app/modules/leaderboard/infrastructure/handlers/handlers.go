package leaderboardhandlers

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	leaderboardservice "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/application"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &LeaderboardHandlers{service: service, logger: logger, tracer: tracer}
}

func (h *LeaderboardHandlers) HandleRoundSettled(ctx context.Context, payload *events.RoundSettledPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleRoundSettled")
	defer span.End()

	h.logger.InfoContext(ctx, "Round settled, refreshing leaderboard",
		attr.ExtractCorrelationID(ctx),
		attr.StringUUID("game_id", payload.GameID.String()),
		attr.StringUUID("round_id", payload.RoundID.String()),
		attr.Int("results", payload.Results),
	)
	return nil, h.invalidate(ctx, payload.GameID)
}

// HandleWeighInSubmitted invalidates because a first weigh-in moves the submission
// tie-break even before the round settles.
func (h *LeaderboardHandlers) HandleWeighInSubmitted(ctx context.Context, payload *events.WeighInSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleWeighInSubmitted")
	defer span.End()

	if payload.Edited {
		return nil, nil
	}
	return nil, h.invalidate(ctx, payload.GameID)
}

// HandleMembershipChanged invalidates because leaderboard rows list active members only.
func (h *LeaderboardHandlers) HandleMembershipChanged(ctx context.Context, payload *events.GameMembershipChangedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleMembershipChanged")
	defer span.End()

	h.logger.InfoContext(ctx, "Game membership changed",
		attr.ExtractCorrelationID(ctx),
		attr.StringUUID("game_id", payload.GameID.String()),
		attr.String("user_id", payload.UserID),
		attr.Bool("active", payload.Active),
	)
	return nil, h.invalidate(ctx, payload.GameID)
}

// HandleCalorieDayUpdated invalidates every game of the user because the tracked
// checkmark is not scoped to a game.
func (h *LeaderboardHandlers) HandleCalorieDayUpdated(ctx context.Context, payload *events.CalorieDayUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleCalorieDayUpdated")
	defer span.End()

	if payload.UserID == "" {
		h.logger.WarnContext(ctx, "Calorie event without user id")
		return nil, nil
	}
	return nil, h.service.InvalidateMemberGames(ctx, payload.UserID)
}

func (h *LeaderboardHandlers) invalidate(ctx context.Context, gameID uuid.UUID) error {
	if gameID == uuid.Nil {
		h.logger.WarnContext(ctx, "Event without game id")
		return nil
	}
	return h.service.InvalidateGame(ctx, gameID)
}
