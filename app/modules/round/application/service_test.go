package roundservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	testGameID      = uuid.MustParse("0b6f9a52-6d1f-4c55-8d43-6a4f4c0e0001")
	testPrevRoundID = uuid.MustParse("0b6f9a52-6d1f-4c55-8d43-6a4f4c0e0002")
	testRoundID     = uuid.MustParse("0b6f9a52-6d1f-4c55-8d43-6a4f4c0e0003")
	testNow         = time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	allMet          = scoredomain.Conditions{Morning: true, AfterToilet: true, NoClothes: true}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	repo      *FakeRoundRepo
	games     *FakeGameReader
	weighIns  *FakeWeighInStore
	scheduler *FakeScheduler
	exporters []Exporter
}

func newFixture() *fixture {
	return &fixture{
		repo:      NewFakeRoundRepo(),
		games:     &FakeGameReader{},
		weighIns:  &FakeWeighInStore{},
		scheduler: &FakeScheduler{},
	}
}

func (f *fixture) service() *RoundService {
	svc := NewRoundService(f.repo, f.games, f.weighIns, f.scheduler, slog.Default(), metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"), nil, f.exporters...)
	svc.now = func() time.Time { return testNow }
	return svc
}

func testGame() *gamedb.Game {
	return &gamedb.Game{
		ID:           testGameID,
		Name:         "Spring Cut",
		PercentCap:   d("2.5"),
		PointsScheme: scoredomain.DefaultPointsScheme(),
	}
}

func testRound(status rounddomain.Status) *rounddb.Round {
	return &rounddb.Round{
		ID:      testRoundID,
		GameID:  testGameID,
		Title:   "Week 2",
		StartAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		Status:  status,
	}
}

func weighIn(roundID uuid.UUID, user, kg string, cond scoredomain.Conditions, takenAt time.Time) weighindb.WeighIn {
	return weighindb.WeighIn{
		ID:          uuid.New(),
		GameID:      testGameID,
		RoundID:     roundID,
		UserID:      user,
		WeightKg:    d(kg),
		Morning:     cond.Morning,
		AfterToilet: cond.AfterToilet,
		NoClothes:   cond.NoClothes,
		TakenAt:     takenAt,
	}
}

func members(ids ...string) func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error) {
	return func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error) {
		out := make([]gamedb.Member, 0, len(ids))
		for _, id := range ids {
			out = append(out, gamedb.Member{GameID: gameID, UserID: id, IsActive: true})
		}
		return out, nil
	}
}

func TestRoundReadsRequireMembership(t *testing.T) {
	outsider := func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
		return nil, gamedb.ErrNotFound
	}

	t.Run("get round as member", func(t *testing.T) {
		f := newFixture()
		f.repo.GetRoundFunc = func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
			return testRound(rounddomain.StatusActive), nil
		}
		result, err := f.service().GetRound(context.Background(), testRoundID, "ann")
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, testRoundID, (*result.Success).ID)
	})

	t.Run("get round as outsider", func(t *testing.T) {
		f := newFixture()
		f.repo.GetRoundFunc = func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
			return testRound(rounddomain.StatusActive), nil
		}
		f.games.GetMemberFunc = outsider
		result, err := f.service().GetRound(context.Background(), testRoundID, "eve")
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.ErrorIs(t, *result.Failure, ErrNotMember)
	})

	t.Run("list rounds as outsider skips the query", func(t *testing.T) {
		f := newFixture()
		f.games.GetMemberFunc = outsider
		result, err := f.service().ListRounds(context.Background(), testGameID, "eve")
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.ErrorIs(t, *result.Failure, ErrNotMember)
		assert.NotContains(t, f.repo.Trace(), "ListRoundsByGame")
	})

	t.Run("list rounds member lookup error", func(t *testing.T) {
		f := newFixture()
		f.games.GetMemberFunc = func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
			return nil, errors.New("db down")
		}
		_, err := f.service().ListRounds(context.Background(), testGameID, "ann")
		require.Error(t, err)
	})
}
