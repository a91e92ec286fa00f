package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	"github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/exporters"
	roundhandlers "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/handlers"
	roundqueue "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/queue"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	roundrouter "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/router"
	roundsweeper "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/sweeper"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/Black-And-White-Club/weighin-league/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the round module.
type Module struct {
	RoundService roundservice.Service
	Repository   rounddb.Repository
	HTTP         *roundhandlers.HTTPHandlers
	RoundRouter  *roundrouter.RoundRouter

	queue      *roundqueue.Service
	sweeper    *roundsweeper.Sweeper
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewRoundModule wires the round service with its job queue, sweeper and event handlers.
// The queue is only created when enabled in cfg; the sweeper always runs.
func NewRoundModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	db *bun.DB,
	games roundservice.GameReader,
	weighIns roundservice.WeighInStore,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "round.NewRoundModule initializing")

	repo := rounddb.NewRepository(db)

	m := &Module{Repository: repo, logger: logger}

	var scheduler roundservice.Scheduler
	if cfg.Scheduler.QueueEnabled {
		queue, err := roundqueue.NewService(ctx, cfg.Postgres.DSN, logger, obs.Metrics, eventBus, helpers)
		if err != nil {
			return nil, fmt.Errorf("failed to create round queue: %w", err)
		}
		m.queue = queue
		scheduler = queue
	}

	service := roundservice.NewRoundService(repo, games, weighIns, scheduler, logger, obs.Metrics, obs.Tracer, db, exporters.All()...)
	m.RoundService = service
	m.HTTP = roundhandlers.NewHTTPHandlers(service, eventBus, helpers, logger)

	sweeper, err := roundsweeper.NewSweeper(service, eventBus, helpers, logger, cfg.Scheduler.SweepInterval)
	if err != nil {
		return nil, err
	}
	m.sweeper = sweeper

	m.RoundRouter = roundrouter.NewRoundRouter(logger, router, eventBus, eventBus, helpers, obs.Tracer)
	if err := m.RoundRouter.Configure(ctx, roundhandlers.NewRoundHandlers(service, logger, obs.Tracer)); err != nil {
		return nil, fmt.Errorf("failed to configure round router: %w", err)
	}

	return m, nil
}

// Run starts the queue workers and the sweeper and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting round module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start round queue", slog.Any("error", err))
		}
	}
	if err := m.sweeper.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start round sweeper", slog.Any("error", err))
	}

	<-ctx.Done()
	m.logger.Info("Round module goroutine stopped")
}

// Close stops the sweeper and the queue.
func (m *Module) Close() error {
	m.logger.Info("Stopping round module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var errs []error
	if m.sweeper != nil {
		if err := m.sweeper.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("error stopping round sweeper: %w", err))
		}
	}
	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("error stopping round queue: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	m.logger.Info("Round module stopped")
	return nil
}
