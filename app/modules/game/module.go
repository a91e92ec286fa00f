package game

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	gameservice "github.com/Black-And-White-Club/weighin-league/app/modules/game/application"
	gamehandlers "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/handlers"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/Black-And-White-Club/weighin-league/config"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Module represents the game module. It subscribes to nothing; other modules read
// games and memberships through Repository and follow membership events.
type Module struct {
	GameService gameservice.Service
	Repository  gamedb.Repository
	HTTP        *gamehandlers.GameHandlers

	logger *slog.Logger
}

func NewGameModule(ctx context.Context, cfg *config.Config, obs observability.Observability, eventBus eventbus.EventBus, helpers utils.Helpers, db *bun.DB) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "game.NewGameModule initializing")

	repo := gamedb.NewRepository(db)
	defaultCap := decimal.NewFromFloat(cfg.Game.DefaultPercentCap)
	service := gameservice.NewGameService(repo, logger, obs.Metrics, obs.Tracer, db, defaultCap)

	return &Module{
		GameService: service,
		Repository:  repo,
		HTTP:        gamehandlers.NewGameHandlers(service, eventBus, helpers, logger),
		logger:      logger,
	}
}

func (m *Module) Close() error {
	m.logger.Info("Game module stopped")
	return nil
}
