package leaderboardhandlers

import (
	"context"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/Black-And-White-Club/weighin-league/app/events"
)

// Handlers keeps the cached leaderboards in step with new results, weigh-ins,
// memberships and calorie logs.
type Handlers interface {
	HandleRoundSettled(ctx context.Context, payload *events.RoundSettledPayloadV1) ([]handlerwrapper.Result, error)
	HandleWeighInSubmitted(ctx context.Context, payload *events.WeighInSubmittedPayloadV1) ([]handlerwrapper.Result, error)
	HandleMembershipChanged(ctx context.Context, payload *events.GameMembershipChangedPayloadV1) ([]handlerwrapper.Result, error)
	HandleCalorieDayUpdated(ctx context.Context, payload *events.CalorieDayUpdatedPayloadV1) ([]handlerwrapper.Result, error)
}
