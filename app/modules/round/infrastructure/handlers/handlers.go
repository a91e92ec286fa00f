package roundhandlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// RoundHandlers implements the Handlers interface.
type RoundHandlers struct {
	service roundservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewRoundHandlers creates a new RoundHandlers instance.
func NewRoundHandlers(
	service roundservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &RoundHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		now:     time.Now,
	}
}

// HandleActivateRequested moves a round to ACTIVE when its start job fires.
func (h *RoundHandlers) HandleActivateRequested(ctx context.Context, payload *events.RoundRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RoundHandlers.HandleActivateRequested")
	defer span.End()

	if payload.RoundID == uuid.Nil {
		h.logger.WarnContext(ctx, "Activate request without round id")
		return nil, nil
	}

	result, err := h.service.ActivateRound(ctx, payload.RoundID)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		// A round that was closed early or deleted cannot be activated any more.
		h.logger.InfoContext(ctx, "Round activation rejected",
			attr.ExtractCorrelationID(ctx),
			attr.StringUUID("round_id", payload.RoundID.String()),
			attr.Error(*result.Failure),
		)
	}
	return nil, nil
}

// HandleCloseRequested closes a round when its end job fires and announces the close.
func (h *RoundHandlers) HandleCloseRequested(ctx context.Context, payload *events.RoundRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RoundHandlers.HandleCloseRequested")
	defer span.End()

	if payload.RoundID == uuid.Nil {
		h.logger.WarnContext(ctx, "Close request without round id")
		return nil, nil
	}

	result, err := h.service.CloseRound(ctx, payload.RoundID)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		h.logger.InfoContext(ctx, "Round close rejected",
			attr.ExtractCorrelationID(ctx),
			attr.StringUUID("round_id", payload.RoundID.String()),
			attr.Error(*result.Failure),
		)
		return nil, nil
	}

	view := *result.Success
	if !view.Changed {
		return nil, nil
	}
	return []handlerwrapper.Result{RoundClosedResult(view.Round, h.now())}, nil
}

// HandleRoundClosed settles a closed round. Infrastructure errors are returned so the
// message is redelivered; rejected settlements are reported on their own topic.
func (h *RoundHandlers) HandleRoundClosed(ctx context.Context, payload *events.RoundClosedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RoundHandlers.HandleRoundClosed")
	defer span.End()

	if payload.RoundID == uuid.Nil {
		h.logger.WarnContext(ctx, "Round closed event without round id")
		return nil, nil
	}

	result, err := h.service.SettleRound(ctx, payload.RoundID)
	if err != nil {
		if errors.Is(err, scoredomain.ErrInvariantViolation) {
			return []handlerwrapper.Result{settlementFailedResult(payload.RoundID, err)}, nil
		}
		return nil, err
	}
	if result.IsFailure() {
		return []handlerwrapper.Result{settlementFailedResult(payload.RoundID, *result.Failure)}, nil
	}

	view := *result.Success
	if view.Skipped {
		return nil, nil
	}
	return []handlerwrapper.Result{RoundSettledResult(view)}, nil
}

// RoundClosedResult is the event that starts settlement of a closed round.
func RoundClosedResult(round roundservice.RoundView, at time.Time) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: events.RoundClosedV1,
		Payload: &events.RoundClosedPayloadV1{
			GameID:   round.GameID,
			RoundID:  round.ID,
			ClosedAt: at.UTC(),
		},
	}
}

// RoundSettledResult announces committed results.
func RoundSettledResult(view roundservice.SettlementView) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: events.RoundSettledV1,
		Payload: &events.RoundSettledPayloadV1{
			GameID:     view.GameID,
			RoundID:    view.RoundID,
			Results:    view.Results,
			Suspicious: view.Suspicious,
			SettledAt:  view.SettledAt,
		},
	}
}

func settlementFailedResult(roundID uuid.UUID, reason error) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: events.RoundSettlementFailedV1,
		Payload: &events.RoundSettlementFailedPayloadV1{
			RoundID: roundID,
			Reason:  reason.Error(),
		},
	}
}
