package leaderboardrouter

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	leaderboardhandlers "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardRouter registers the cache invalidation handlers.
type LeaderboardRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	helper     utils.Helpers
	tracer     trace.Tracer
}

func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	helper utils.Helpers,
	tracer trace.Tracer,
) *LeaderboardRouter {
	return &LeaderboardRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		helper:     helper,
		tracer:     tracer,
	}
}

func (r *LeaderboardRouter) Configure(_ context.Context, handlers leaderboardhandlers.Handlers) error {
	r.logger.Info("Registering leaderboard module handlers",
		slog.String("settled_subject", events.RoundSettledV1),
		slog.String("weighin_subject", events.WeighInSubmittedV1),
		slog.String("membership_subject", events.GameMembershipChangedV1),
		slog.String("calorie_subject", events.CalorieDayUpdatedV1),
	)

	register(r, events.RoundSettledV1, handlers.HandleRoundSettled)
	register(r, events.WeighInSubmittedV1, handlers.HandleWeighInSubmitted)
	register(r, events.GameMembershipChangedV1, handlers.HandleMembershipChanged)
	register(r, events.CalorieDayUpdatedV1, handlers.HandleCalorieDayUpdated)
	return nil
}

func register[T any](
	r *LeaderboardRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "leaderboard." + topic

	var metrics handlerwrapper.ReturningMetrics
	r.router.AddHandler(
		handlerName,
		topic,
		r.subscriber,
		"",
		r.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			r.logger,
			r.tracer,
			r.helper,
			metrics,
			handler,
		),
	)
}
