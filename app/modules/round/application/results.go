package roundservice

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
)

// GetRoundResults returns the ranked rows of a round. The real percentage is only
// shown on the viewer's own row.
func (s *RoundService) GetRoundResults(ctx context.Context, roundID uuid.UUID, viewerID string) (RoundResultsResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "GetRoundResults", roundID.String(), func(ctx context.Context) (RoundResultsResult, error) {
		fail := func(err error) (RoundResultsResult, error) {
			return results.FailureResult[*RoundResultsView, error](err), nil
		}

		round, err := s.repo.GetRound(ctx, nil, roundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return fail(ErrRoundNotFound)
			}
			return RoundResultsResult{}, err
		}

		if _, err := s.games.GetMember(ctx, nil, round.GameID, viewerID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return fail(ErrNotMember)
			}
			return RoundResultsResult{}, err
		}

		rows, err := s.repo.ListResults(ctx, nil, roundID)
		if err != nil {
			return RoundResultsResult{}, err
		}
		members, err := s.games.ListActiveMembers(ctx, nil, round.GameID)
		if err != nil {
			return RoundResultsResult{}, err
		}

		view := &RoundResultsView{
			Round:        toRoundView(round),
			Results:      make([]ResultRow, 0, len(rows)),
			NotSubmitted: notSubmitted(members, rows),
		}
		for i := range rows {
			view.Results = append(view.Results, toResultRow(&rows[i], viewerID))
		}
		return results.SuccessResult[*RoundResultsView, error](view), nil
	})
}

// ExportRoundResults renders every row, including real percentages, for administrators.
func (s *RoundService) ExportRoundResults(ctx context.Context, roundID uuid.UUID, format string) (ExportResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "ExportRoundResults", roundID.String(), func(ctx context.Context) (ExportResult, error) {
		exporter, ok := s.exporters[format]
		if !ok {
			return results.FailureResult[*ExportView, error](fmt.Errorf("%w: %q", ErrUnsupportedExport, format)), nil
		}

		round, err := s.repo.GetRound(ctx, nil, roundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return results.FailureResult[*ExportView, error](ErrRoundNotFound), nil
			}
			return ExportResult{}, err
		}
		rows, err := s.repo.ListResults(ctx, nil, roundID)
		if err != nil {
			return ExportResult{}, err
		}

		out := make([]ResultRow, 0, len(rows))
		for i := range rows {
			row := toResultRow(&rows[i], rows[i].UserID)
			out = append(out, row)
		}

		data, err := exporter.Export(toRoundView(round), out)
		if err != nil {
			return ExportResult{}, err
		}
		return results.SuccessResult[*ExportView, error](&ExportView{
			FileName:    fmt.Sprintf("round-%s.%s", round.ID, exporter.Extension()),
			ContentType: exporter.ContentType(),
			Data:        data,
		}), nil
	})
}

func toResultRow(r *rounddb.Result, viewerID string) ResultRow {
	row := ResultRow{
		UserID:        r.UserID,
		Rank:          r.Rank,
		StartWeightKg: r.StartWeightKg,
		EndWeightKg:   r.EndWeightKg,
		PercentCapped: r.PercentCapped,
		PointsAwarded: r.PointsAwarded,
		Suspicious:    r.Suspicious,
	}
	if r.UserID == viewerID {
		pct := r.PercentReal
		row.PercentReal = &pct
	}
	return row
}

func notSubmitted(members []gamedb.Member, rows []rounddb.Result) []string {
	scored := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		scored[r.UserID] = struct{}{}
	}
	out := []string{}
	for _, m := range members {
		if _, ok := scored[m.UserID]; !ok {
			out = append(out, m.UserID)
		}
	}
	sort.Strings(out)
	return out
}
