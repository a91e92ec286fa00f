package settlement_integration_tests

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	weighinservice "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/application"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/Black-And-White-Club/weighin-league/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var errMarkSettled = errors.New("settled stamp refused")

// refusingRounds fails the last write of a settlement, after results were replaced
// and weigh-ins locked inside the same transaction.
type refusingRounds struct {
	rounddb.Repository
}

func (r refusingRounds) MarkSettled(ctx context.Context, db bun.IDB, roundID uuid.UUID, at time.Time) error {
	return errMarkSettled
}

// barrierWeighIns holds every caller of GetWeighIn until all expected callers have
// read the row, so concurrent edits race on the same snapshot.
type barrierWeighIns struct {
	weighindb.Repository
	arrived sync.WaitGroup
	timeout time.Duration
}

func (b *barrierWeighIns) GetWeighIn(ctx context.Context, db bun.IDB, userID string, roundID uuid.UUID) (*weighindb.WeighIn, error) {
	w, err := b.Repository.GetWeighIn(ctx, db, userID, roundID)
	b.arrived.Done()

	done := make(chan struct{})
	go func() {
		b.arrived.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(b.timeout):
		return nil, errors.New("concurrent reader never arrived")
	}
	return w, err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestSettlementRollsBackOnLateFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	gen := testutils.NewTestDataGenerator(7)
	users := gen.UserIDs(2)
	ann, bea := users[0], users[1]
	gameID := e.seedGame(t, ctx, gen.GameName(), ann, bea)

	week := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	roundID := e.seedClosedRound(t, ctx, gameID, week)
	e.weighIn(t, ctx, gameID, roundID, ann, "90.000", week.Add(7*time.Hour))
	e.weighIn(t, ctx, gameID, roundID, bea, "70.000", week.Add(8*time.Hour))

	previous := []rounddb.Result{
		{ID: uuid.New(), RoundID: roundID, GameID: gameID, UserID: bea,
			StartWeightKg: decimal.RequireFromString("71"), EndWeightKg: decimal.RequireFromString("70"),
			PercentReal: decimal.RequireFromString("1.408"), PercentCapped: decimal.RequireFromString("1.408"),
			PointsAwarded: 3, Rank: 1},
		{ID: uuid.New(), RoundID: roundID, GameID: gameID, UserID: ann,
			StartWeightKg: decimal.RequireFromString("90"), EndWeightKg: decimal.RequireFromString("90"),
			PercentReal: decimal.Zero, PercentCapped: decimal.Zero,
			PointsAwarded: 1, Rank: 2},
	}
	require.NoError(t, e.rounds.ReplaceResults(ctx, nil, roundID, previous))

	svc := roundservice.NewRoundService(refusingRounds{Repository: e.rounds}, e.games, e.weighIns, nil,
		testLogger(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("integration"), testDB)

	_, err := svc.SettleRound(ctx, roundID)
	require.ErrorIs(t, err, errMarkSettled)

	rows, err := e.rounds.ListResults(ctx, nil, roundID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, bea, rows[0].UserID)
	assert.Equal(t, 3, rows[0].PointsAwarded)
	assert.Equal(t, ann, rows[1].UserID)
	assert.Equal(t, 1, rows[1].PointsAwarded)

	for _, u := range users {
		w, err := e.weighIns.GetWeighIn(ctx, nil, u, roundID)
		require.NoError(t, err)
		assert.False(t, w.Locked, "weigh-in of %s", u)
	}

	unsettled, err := e.rounds.ListUnsettled(ctx, nil)
	require.NoError(t, err)
	require.Len(t, unsettled, 1)
	assert.Equal(t, roundID, unsettled[0].ID)
}

func TestConcurrentEditsAllowOneWinner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	gen := testutils.NewTestDataGenerator(11)
	users := gen.UserIDs(1)
	ann := users[0]
	gameID := e.seedGame(t, ctx, gen.GameName(), ann)

	round := &rounddb.Round{
		ID:      uuid.New(),
		GameID:  gameID,
		Title:   "Open week",
		StartAt: time.Now().Add(-24 * time.Hour),
		EndAt:   time.Now().Add(24 * time.Hour),
		Status:  rounddomain.StatusActive,
	}
	require.NoError(t, e.rounds.CreateRound(ctx, nil, round))
	e.weighIn(t, ctx, gameID, round.ID, ann, "88.000", time.Now().Add(-time.Hour))

	repo := &barrierWeighIns{Repository: e.weighIns, timeout: 10 * time.Second}
	repo.arrived.Add(2)
	svc := weighinservice.NewWeighInService(repo, e.games, e.rounds, testLogger(), metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("integration"), testDB)

	weights := []string{"87.500", "87.200"}
	type outcome struct {
		res weighinservice.SubmitResult
		err error
	}
	outcomes := make([]outcome, len(weights))
	var wg sync.WaitGroup
	for i, kg := range weights {
		wg.Add(1)
		go func(i int, kg string) {
			defer wg.Done()
			res, err := svc.SubmitWeighIn(ctx, weighinservice.SubmitRequest{
				GameID:     gameID,
				RoundID:    round.ID,
				UserID:     ann,
				WeightKg:   decimal.RequireFromString(kg),
				Conditions: scoredomain.Conditions{Morning: true, AfterToilet: true, NoClothes: true},
			})
			outcomes[i] = outcome{res: res, err: err}
		}(i, kg)
	}
	wg.Wait()

	var won, conflicted int
	var winner decimal.Decimal
	for _, o := range outcomes {
		require.NoError(t, o.err)
		switch {
		case o.res.IsSuccess():
			won++
			winner = (*o.res.Success).WeightKg
		case o.res.IsFailure():
			assert.ErrorIs(t, *o.res.Failure, weighinservice.ErrEditConflict)
			conflicted++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, conflicted)

	stored, err := e.weighIns.GetWeighIn(ctx, nil, ann, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.EditedCount)
	assert.True(t, stored.WeightKg.Equal(winner), "stored %s, winner %s", stored.WeightKg, winner)
}

func TestRejectedSettlementLeavesSweep(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	gen := testutils.NewTestDataGenerator(23)
	users := gen.UserIDs(1)
	gameID := e.seedGame(t, ctx, gen.GameName(), users...)

	week := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	roundID := e.seedClosedRound(t, ctx, gameID, week)
	e.weighIn(t, ctx, gameID, roundID, users[0], "82.000", week.Add(7*time.Hour))

	_, err := testDB.ExecContext(ctx, "UPDATE games SET points_scheme = '[]'::jsonb WHERE id = ?", gameID)
	require.NoError(t, err)

	_, err = e.round.SettleRound(ctx, roundID)
	require.ErrorIs(t, err, scoredomain.ErrInvariantViolation)

	stored, err := e.rounds.GetRound(ctx, nil, roundID)
	require.NoError(t, err)
	require.NotNil(t, stored.SettlementFailedAt)
	assert.Nil(t, stored.SettledAt)
	assert.NotEmpty(t, stored.SettlementError)

	sweep, err := e.round.SweepOverdueRounds(ctx, time.Now())
	require.NoError(t, err)
	require.True(t, sweep.IsSuccess())
	assert.Empty(t, (*sweep.Success).Unsettled)

	scheme, err := json.Marshal(scoredomain.DefaultPointsScheme())
	require.NoError(t, err)
	_, err = testDB.ExecContext(ctx, "UPDATE games SET points_scheme = ?::jsonb WHERE id = ?", string(scheme), gameID)
	require.NoError(t, err)

	res, err := e.round.RecomputeRound(ctx, roundID)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	stored, err = e.rounds.GetRound(ctx, nil, roundID)
	require.NoError(t, err)
	assert.NotNil(t, stored.SettledAt)
	assert.Nil(t, stored.SettlementFailedAt)
	assert.Empty(t, stored.SettlementError)
}
