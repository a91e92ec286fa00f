package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/application"
	leaderboardcache "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/cache"
	leaderboardhandlers "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/Black-And-White-Club/weighin-league/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

type cacheCloser interface {
	leaderboardservice.Cache
	Close() error
}

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	HTTP               *leaderboardhandlers.HTTPHandlers
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter

	cache      cacheCloser
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewLeaderboardModule creates the leaderboard module. Without a Redis URL every read
// goes to the database.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
	db *bun.DB,
	members leaderboardservice.MemberReader,
	results leaderboardservice.ResultReader,
	weighIns leaderboardservice.WeighInReader,
	calories leaderboardservice.CalorieReader,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	var cache cacheCloser = leaderboardcache.Noop{}
	if cfg.Redis.URL != "" {
		redisCache, err := leaderboardcache.Connect(ctx, cfg.Redis.URL, cfg.Redis.LeaderboardTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect leaderboard cache: %w", err)
		}
		cache = redisCache
	} else {
		logger.InfoContext(ctx, "REDIS_URL not set, leaderboard cache disabled")
	}

	streaks := leaderboarddb.NewRepository(db)
	service := leaderboardservice.NewLeaderboardService(members, results, weighIns, streaks, calories, cache, logger, obs.Metrics, obs.Tracer, db)

	lbRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, eventBus, helpers, obs.Tracer)
	if err := lbRouter.Configure(ctx, leaderboardhandlers.NewLeaderboardHandlers(service, logger, obs.Tracer)); err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	return &Module{
		LeaderboardService: service,
		HTTP:               leaderboardhandlers.NewHTTPHandlers(service, logger),
		LeaderboardRouter:  lbRouter,
		cache:              cache,
		logger:             logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Leaderboard module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if err := m.cache.Close(); err != nil {
		return fmt.Errorf("error closing leaderboard cache: %w", err)
	}
	return nil
}
