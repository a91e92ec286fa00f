package roundqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// ActivateRoundWorker publishes an activation request when a round starts.
type ActivateRoundWorker struct {
	river.WorkerDefaults[ActivateRoundJob]
	logger    *slog.Logger
	publisher message.Publisher
	helpers   utils.Helpers
}

func NewActivateRoundWorker(logger *slog.Logger, publisher message.Publisher, helpers utils.Helpers) *ActivateRoundWorker {
	return &ActivateRoundWorker{logger: logger, publisher: publisher, helpers: helpers}
}

func (w *ActivateRoundWorker) Work(ctx context.Context, job *river.Job[ActivateRoundJob]) error {
	return publishRequest(ctx, w.logger, w.publisher, w.helpers, events.RoundActivateRequestedV1, job.Args.RoundID)
}

// CloseRoundWorker publishes a close request when a round ends.
type CloseRoundWorker struct {
	river.WorkerDefaults[CloseRoundJob]
	logger    *slog.Logger
	publisher message.Publisher
	helpers   utils.Helpers
}

func NewCloseRoundWorker(logger *slog.Logger, publisher message.Publisher, helpers utils.Helpers) *CloseRoundWorker {
	return &CloseRoundWorker{logger: logger, publisher: publisher, helpers: helpers}
}

func (w *CloseRoundWorker) Work(ctx context.Context, job *river.Job[CloseRoundJob]) error {
	return publishRequest(ctx, w.logger, w.publisher, w.helpers, events.RoundCloseRequestedV1, job.Args.RoundID)
}

// publishRequest returns the publish error so River retries the job.
func publishRequest(ctx context.Context, logger *slog.Logger, publisher message.Publisher, helpers utils.Helpers, topic string, roundID uuid.UUID) error {
	msg, err := eventbus.NewMessage(helpers, topic, events.RoundRequestedPayloadV1{RoundID: roundID}, "")
	if err != nil {
		return err
	}
	if err := publisher.Publish(topic, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to publish round request",
			attr.String("topic", topic),
			attr.StringUUID("round_id", roundID.String()),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	logger.InfoContext(ctx, "Published round request",
		attr.String("topic", topic),
		attr.StringUUID("round_id", roundID.String()),
	)
	return nil
}
