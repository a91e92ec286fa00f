// Package roundsweeper periodically repairs round states the job queue missed.
package roundsweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	roundhandlers "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-co-op/gocron/v2"
)

// RoundSweeper is the part of the round service the sweeper drives.
type RoundSweeper interface {
	SweepOverdueRounds(ctx context.Context, now time.Time) (roundservice.SweepResult, error)
}

// Sweeper runs SweepOverdueRounds on a fixed interval and emits round.closed for every
// round that still needs settlement.
type Sweeper struct {
	service   RoundSweeper
	publisher message.Publisher
	helpers   utils.Helpers
	logger    *slog.Logger
	interval  time.Duration
	scheduler gocron.Scheduler
	now       func() time.Time
}

func NewSweeper(service RoundSweeper, publisher message.Publisher, helpers utils.Helpers, logger *slog.Logger, interval time.Duration) (*Sweeper, error) {
	if interval <= 0 {
		interval = time.Minute
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep scheduler: %w", err)
	}
	return &Sweeper{
		service:   service,
		publisher: publisher,
		helpers:   helpers,
		logger:    logger,
		interval:  interval,
		scheduler: scheduler,
		now:       time.Now,
	}, nil
}

// Start schedules the sweep, running it once immediately. A sweep still running when
// the next one is due is not overlapped.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if err := s.Sweep(ctx); err != nil {
				s.logger.ErrorContext(ctx, "Round sweep failed", attr.Error(err))
			}
		}),
		gocron.WithName("round-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule round sweep: %w", err)
	}
	s.scheduler.Start()
	s.logger.InfoContext(ctx, "Round sweeper started", attr.Duration("interval", s.interval))
	return nil
}

func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

// Sweep runs one pass. Publishing is per round, so one failed publish does not hold
// back the others; the next pass retries it through the unsettled list.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now().UTC()
	result, err := s.service.SweepOverdueRounds(ctx, now)
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}

	view := *result.Success
	pending := append(append([]roundservice.RoundView(nil), view.Closed...), view.Unsettled...)
	published := 0
	for _, round := range pending {
		res := roundhandlers.RoundClosedResult(round, now)
		msg, err := eventbus.NewMessage(s.helpers, res.Topic, res.Payload, watermill.NewUUID())
		if err == nil {
			err = s.publisher.Publish(res.Topic, msg)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to publish round closed",
				attr.StringUUID("round_id", round.ID.String()),
				attr.Error(err),
			)
			continue
		}
		published++
	}

	if len(view.Activated)+len(pending) > 0 {
		s.logger.InfoContext(ctx, "Round sweep finished",
			attr.Int("activated", len(view.Activated)),
			attr.Int("closed", len(view.Closed)),
			attr.Int("unsettled", len(view.Unsettled)),
			attr.Int("published", published),
		)
	}
	return nil
}
