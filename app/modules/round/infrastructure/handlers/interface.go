package roundhandlers

import (
	"context"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/Black-And-White-Club/weighin-league/app/events"
)

// Handlers consumes the round lifecycle events.
type Handlers interface {
	HandleActivateRequested(ctx context.Context, payload *events.RoundRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleCloseRequested(ctx context.Context, payload *events.RoundRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRoundClosed(ctx context.Context, payload *events.RoundClosedPayloadV1) ([]handlerwrapper.Result, error)
}
