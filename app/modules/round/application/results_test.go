package roundservice

import (
	"context"
	"testing"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func resultsWorld(f *fixture) {
	f.repo.GetRoundFunc = func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
		return testRound(rounddomain.StatusClosed), nil
	}
	f.repo.ListResultsFunc = func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]rounddb.Result, error) {
		return []rounddb.Result{
			{UserID: "bea", Rank: 1, StartWeightKg: d("100"), EndWeightKg: d("97"), PercentReal: d("3"), PercentCapped: d("2.5"), PointsAwarded: 10},
			{UserID: "ann", Rank: 2, StartWeightKg: d("80"), EndWeightKg: d("80"), PercentReal: d("0"), PercentCapped: d("0"), PointsAwarded: 1},
		}, nil
	}
	f.games.ListActiveMembersFunc = members("ann", "bea", "zed", "dan")
}

func TestGetRoundResults(t *testing.T) {
	f := newFixture()
	resultsWorld(f)

	res, err := f.service().GetRoundResults(context.Background(), testRoundID, "ann")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	view := *res.Success
	assert.Equal(t, testRoundID, view.Round.ID)
	require.Len(t, view.Results, 2)
	assert.Nil(t, view.Results[0].PercentReal, "other members' real percent is hidden")
	require.NotNil(t, view.Results[1].PercentReal)
	assert.True(t, view.Results[1].PercentReal.IsZero())
	assert.Equal(t, []string{"dan", "zed"}, view.NotSubmitted)
}

func TestGetRoundResults_Rejections(t *testing.T) {
	f := newFixture()
	res, err := f.service().GetRoundResults(context.Background(), testRoundID, "ann")
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, *res.Failure, ErrRoundNotFound)

	f = newFixture()
	resultsWorld(f)
	f.games.GetMemberFunc = func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
		return nil, gamedb.ErrNotFound
	}
	res, err = f.service().GetRoundResults(context.Background(), testRoundID, "mallory")
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, *res.Failure, ErrNotMember)
}

func TestExportRoundResults(t *testing.T) {
	f := newFixture()
	resultsWorld(f)
	exporter := &FakeExporter{ext: "xlsx"}
	f.exporters = []Exporter{exporter}
	svc := f.service()

	res, err := svc.ExportRoundResults(context.Background(), testRoundID, "xlsx")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	view := *res.Success
	assert.Equal(t, "round-"+testRoundID.String()+".xlsx", view.FileName)
	assert.Equal(t, []byte("Week 2"), view.Data)
	require.Len(t, exporter.Rows, 2)
	for _, row := range exporter.Rows {
		assert.NotNil(t, row.PercentReal, "exports carry every real percent")
	}

	res, err = svc.ExportRoundResults(context.Background(), testRoundID, "pdf")
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, *res.Failure, ErrUnsupportedExport)
}
