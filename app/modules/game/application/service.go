package gameservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// GameService implements the Service interface.
type GameService struct {
	repo       gamedb.Repository
	runner     *operation.Runner
	defaultCap decimal.Decimal
	now        func() time.Time
}

// NewGameService creates a new GameService. defaultCap applies to games created
// without an explicit cap.
func NewGameService(
	repo gamedb.Repository,
	logger *slog.Logger,
	recorder metrics.Recorder,
	tracer trace.Tracer,
	db *bun.DB,
	defaultCap decimal.Decimal,
) *GameService {
	return &GameService{
		repo:       repo,
		runner:     operation.NewRunner("game", logger, recorder, tracer, db),
		defaultCap: defaultCap,
		now:        time.Now,
	}
}

// CreateGame validates the configuration, stores the game and enrolls its creator.
func (s *GameService) CreateGame(ctx context.Context, req CreateGameRequest) (GameResult, error) {
	return operation.Run(s.runner, ctx, "CreateGame", req.CreatedBy, func(ctx context.Context, db bun.IDB) (GameResult, error) {
		return s.createGameLogic(ctx, db, req)
	})
}

func (s *GameService) createGameLogic(ctx context.Context, db bun.IDB, req CreateGameRequest) (GameResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return results.FailureResult[*GameView, error](ErrInvalidName), nil
	}

	percentCap := s.defaultCap
	if req.PercentCap != nil {
		percentCap = *req.PercentCap
	}
	if err := scoredomain.ValidatePercentCap(percentCap); err != nil {
		return results.FailureResult[*GameView, error](err), nil
	}

	scheme := req.PointsScheme
	if len(scheme) == 0 {
		scheme = scoredomain.DefaultPointsScheme()
	}
	if err := scheme.Validate(); err != nil {
		return results.FailureResult[*GameView, error](err), nil
	}

	game := &gamedb.Game{
		ID:           uuid.New(),
		Name:         name,
		PercentCap:   percentCap,
		PointsScheme: scheme,
		CreatedBy:    req.CreatedBy,
	}
	if err := s.repo.CreateGame(ctx, db, game); err != nil {
		return GameResult{}, fmt.Errorf("failed to create game: %w", err)
	}

	member := &gamedb.Member{GameID: game.ID, UserID: req.CreatedBy, IsActive: true, JoinedAt: s.now().UTC()}
	if err := s.repo.UpsertMember(ctx, db, member); err != nil {
		return GameResult{}, fmt.Errorf("failed to enroll creator: %w", err)
	}

	view := toGameView(game)
	return results.SuccessResult[*GameView, error](&view), nil
}

// UpdateGameSettings replaces the cap and/or scheme. Settled rounds keep their
// results until they are recomputed.
func (s *GameService) UpdateGameSettings(ctx context.Context, gameID uuid.UUID, req UpdateSettingsRequest) (GameResult, error) {
	return operation.Run(s.runner, ctx, "UpdateGameSettings", gameID.String(), func(ctx context.Context, db bun.IDB) (GameResult, error) {
		current, err := s.repo.GetGame(ctx, db, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*GameView, error](err), nil
			}
			return GameResult{}, err
		}

		percentCap := current.PercentCap
		if req.PercentCap != nil {
			percentCap = *req.PercentCap
		}
		if err := scoredomain.ValidatePercentCap(percentCap); err != nil {
			return results.FailureResult[*GameView, error](err), nil
		}

		scheme := current.PointsScheme
		if req.PointsScheme != nil {
			scheme = req.PointsScheme
		}
		if err := scheme.Validate(); err != nil {
			return results.FailureResult[*GameView, error](err), nil
		}

		updated, err := s.repo.UpdateSettings(ctx, db, gameID, percentCap, scheme)
		if err != nil {
			return GameResult{}, fmt.Errorf("failed to update settings: %w", err)
		}
		view := toGameView(updated)
		return results.SuccessResult[*GameView, error](&view), nil
	})
}

func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (GameResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "GetGame", gameID.String(), func(ctx context.Context) (GameResult, error) {
		game, err := s.repo.GetGame(ctx, nil, gameID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*GameView, error](err), nil
			}
			return GameResult{}, err
		}
		view := toGameView(game)
		return results.SuccessResult[*GameView, error](&view), nil
	})
}

func (s *GameService) ListGamesForUser(ctx context.Context, userID string) (GameListResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "ListGamesForUser", userID, func(ctx context.Context) (GameListResult, error) {
		games, err := s.repo.ListGamesForUser(ctx, nil, userID)
		if err != nil {
			return GameListResult{}, err
		}
		views := make([]GameView, 0, len(games))
		for i := range games {
			views = append(views, toGameView(&games[i]))
		}
		return results.SuccessResult[[]GameView, error](views), nil
	})
}

func (s *GameService) JoinGame(ctx context.Context, gameID uuid.UUID, userID string) (MembershipResult, error) {
	return operation.Run(s.runner, ctx, "JoinGame", userID, func(ctx context.Context, db bun.IDB) (MembershipResult, error) {
		if _, err := s.repo.GetGame(ctx, db, gameID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*MembershipView, error](err), nil
			}
			return MembershipResult{}, err
		}

		member := &gamedb.Member{GameID: gameID, UserID: userID, IsActive: true, JoinedAt: s.now().UTC()}
		if existing, err := s.repo.GetMember(ctx, db, gameID, userID); err == nil {
			member.JoinedAt = existing.JoinedAt
		} else if !errors.Is(err, gamedb.ErrNotFound) {
			return MembershipResult{}, err
		}

		if err := s.repo.UpsertMember(ctx, db, member); err != nil {
			return MembershipResult{}, fmt.Errorf("failed to join game: %w", err)
		}
		return results.SuccessResult[*MembershipView, error](toMembershipView(member)), nil
	})
}

func (s *GameService) LeaveGame(ctx context.Context, gameID uuid.UUID, userID string) (MembershipResult, error) {
	return operation.Run(s.runner, ctx, "LeaveGame", userID, func(ctx context.Context, db bun.IDB) (MembershipResult, error) {
		if err := s.repo.DeactivateMember(ctx, db, gameID, userID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*MembershipView, error](err), nil
			}
			return MembershipResult{}, err
		}
		member, err := s.repo.GetMember(ctx, db, gameID, userID)
		if err != nil {
			return MembershipResult{}, err
		}
		return results.SuccessResult[*MembershipView, error](toMembershipView(member)), nil
	})
}
