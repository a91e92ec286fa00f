package weighin

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	weighinservice "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/application"
	weighinhandlers "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/handlers"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the weigh-in module.
type Module struct {
	WeighInService weighinservice.Service
	Repository     weighindb.Repository
	HTTP           *weighinhandlers.WeighInHandlers

	logger *slog.Logger
}

// NewWeighInModule wires submission and edit handling. Rounds are read through
// rounds so the module does not depend on the round module's service.
func NewWeighInModule(
	ctx context.Context,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	helpers utils.Helpers,
	db *bun.DB,
	members weighinservice.MemberReader,
	rounds weighinservice.RoundReader,
) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "weighin.NewWeighInModule initializing")

	repo := weighindb.NewRepository(db)
	service := weighinservice.NewWeighInService(repo, members, rounds, logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		WeighInService: service,
		Repository:     repo,
		HTTP:           weighinhandlers.NewWeighInHandlers(service, eventBus, helpers, logger),
		logger:         logger,
	}
}

func (m *Module) Close() error {
	m.logger.Info("Weigh-in module stopped")
	return nil
}
