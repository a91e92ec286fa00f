package calorie

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	calorieservice "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/application"
	caloriehandlers "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/handlers"
	caloriedb "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the calorie module. The leaderboard reads tracked days through
// Repository.
type Module struct {
	CalorieService calorieservice.Service
	Repository     caloriedb.Repository
	HTTP           *caloriehandlers.HTTPHandlers

	logger *slog.Logger
}

func NewCalorieModule(ctx context.Context, obs observability.Observability, eventBus eventbus.EventBus, helpers utils.Helpers, db *bun.DB) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "calorie.NewCalorieModule initializing")

	repo := caloriedb.NewRepository(db)
	service := calorieservice.NewCalorieService(repo, logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		CalorieService: service,
		Repository:     repo,
		HTTP:           caloriehandlers.NewHTTPHandlers(service, eventBus, helpers, logger),
		logger:         logger,
	}
}

func (m *Module) Close() error {
	m.logger.Info("Calorie module stopped")
	return nil
}
