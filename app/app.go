package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/modules/auth"
	"github.com/Black-And-White-Club/weighin-league/app/modules/calorie"
	"github.com/Black-And-White-Club/weighin-league/app/modules/game"
	"github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard"
	"github.com/Black-And-White-Club/weighin-league/app/modules/round"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/modules/weighin"
	"github.com/Black-And-White-Club/weighin-league/app/observability"
	"github.com/Black-And-White-Club/weighin-league/config"
	"github.com/Black-And-White-Club/weighin-league/pkg/httpjson"
	"github.com/ThreeDotsLabs/watermill"
	watermillmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const shutdownTimeout = 10 * time.Second

// App owns the shared infrastructure and every module.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Helpers       utils.Helpers

	AuthModule        *auth.Module
	GameModule        *game.Module
	RoundModule       *round.Module
	WeighInModule     *weighin.Module
	LeaderboardModule *leaderboard.Module
	CalorieModule     *calorie.Module

	logger *slog.Logger
}

// NewApp connects to Postgres and the event bus and wires the modules. Nothing runs
// until Run is called.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(cfg.Observability)
	logger := obs.Logger

	app := &App{Config: cfg, Observability: obs, Helpers: utils.NewHelper(logger), logger: logger}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(sqldb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		app.DB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		app.DB.Close()
		return nil, err
	}
	app.EventBus = bus

	if err := app.initRouter(); err != nil {
		_ = app.Close()
		return nil, err
	}
	if err := app.initModules(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) initRouter() error {
	wmLogger := watermill.NewSlogLogger(a.logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, wmLogger)
	if err != nil {
		return fmt.Errorf("failed to create message router: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	// Registered once for the shared router; modules only add handlers.
	watermillmetrics.NewPrometheusMetricsBuilder(a.Observability.Registry, "weighin", "events").
		AddPrometheusRouterMetrics(router)

	a.Router = router
	return nil
}

func (a *App) initModules(ctx context.Context) error {
	cfg, obs, db, helpers := a.Config, a.Observability, a.DB, a.Helpers

	a.AuthModule = auth.NewModule(ctx, cfg, obs)
	a.GameModule = game.NewGameModule(ctx, cfg, obs, a.EventBus, helpers, db)
	a.WeighInModule = weighin.NewWeighInModule(ctx, obs, a.EventBus, helpers, db, a.GameModule.Repository, rounddb.NewRepository(db))

	roundModule, err := round.NewRoundModule(ctx, cfg, obs, a.EventBus, a.Router, helpers, db, a.GameModule.Repository, a.WeighInModule.Repository)
	if err != nil {
		return fmt.Errorf("failed to initialize round module: %w", err)
	}
	a.RoundModule = roundModule
	a.CalorieModule = calorie.NewCalorieModule(ctx, obs, a.EventBus, helpers, db)

	lbModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, a.EventBus, a.Router, helpers, db,
		a.GameModule.Repository, a.RoundModule.Repository, a.WeighInModule.Repository, a.CalorieModule.Repository)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	a.LeaderboardModule = lbModule
	return nil
}

// Handler builds the REST API. Everything under /api requires a bearer token.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(a.AuthModule.CORS, a.AuthModule.RateLimit)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAdmin := a.AuthModule.RequireAdmin
	r.Route("/api", func(r chi.Router) {
		r.Use(a.AuthModule.Authenticate)

		r.Route("/games", func(r chi.Router) {
			a.GameModule.HTTP.Routes(r, requireAdmin)
			r.Route("/{gameID}/rounds", func(r chi.Router) { a.RoundModule.HTTP.GameRoutes(r, requireAdmin) })
			r.Route("/{gameID}/weighins", a.WeighInModule.HTTP.Routes)
			r.Route("/{gameID}/leaderboard", a.LeaderboardModule.HTTP.Routes)
			r.Route("/{gameID}/if", a.LeaderboardModule.HTTP.FastingRoutes)
		})
		r.Route("/rounds", func(r chi.Router) { a.RoundModule.HTTP.Routes(r, requireAdmin) })
		r.Route("/calories", a.CalorieModule.HTTP.Routes)
	})
	return r
}

// Run starts the event router, module workers, the API and the metrics endpoint and
// blocks until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go a.RoundModule.Run(ctx, &wg)
	go a.LeaderboardModule.Run(ctx, &wg)

	errCh := make(chan error, 3)
	go func() {
		if err := a.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()
	go func() {
		if err := a.Observability.ServeMetrics(ctx, a.Config.Observability.MetricsAddress); err != nil {
			errCh <- fmt.Errorf("metrics server stopped: %w", err)
		}
	}()

	srv := &http.Server{
		Addr:              a.Config.HTTP.Address,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.InfoContext(ctx, "HTTP server listening", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		a.logger.ErrorContext(ctx, "Component failed, shutting down", slog.Any("error", runErr))
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	wg.Wait()
	return runErr
}

// Close releases modules first, then the router, the event bus and the database.
func (a *App) Close() error {
	var errs []error
	add := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}

	if a.RoundModule != nil {
		add("round module", a.RoundModule.Close())
	}
	if a.LeaderboardModule != nil {
		add("leaderboard module", a.LeaderboardModule.Close())
	}
	if a.CalorieModule != nil {
		add("calorie module", a.CalorieModule.Close())
	}
	if a.WeighInModule != nil {
		add("weighin module", a.WeighInModule.Close())
	}
	if a.GameModule != nil {
		add("game module", a.GameModule.Close())
	}
	if a.Router != nil {
		add("message router", a.Router.Close())
	}
	if a.EventBus != nil {
		add("event bus", a.EventBus.Close())
	}
	if a.DB != nil {
		add("database", a.DB.Close())
	}
	return errors.Join(errs...)
}
