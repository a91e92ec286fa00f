package calorieservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	caloriedb "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// CalorieService implements the Service interface.
type CalorieService struct {
	repo   caloriedb.Repository
	runner *operation.Runner
	logger *slog.Logger
}

func NewCalorieService(
	repo caloriedb.Repository,
	logger *slog.Logger,
	recorder metrics.Recorder,
	tracer trace.Tracer,
	db *bun.DB,
) *CalorieService {
	runner := operation.NewRunner("calorie", logger, recorder, tracer, db)
	return &CalorieService{
		repo:   repo,
		runner: runner,
		logger: runner.Logger,
	}
}

func (s *CalorieService) SetDay(ctx context.Context, req DayRequest) (DayResult, error) {
	return operation.Run(s.runner, ctx, "SetCalorieDay", req.UserID, func(ctx context.Context, db bun.IDB) (DayResult, error) {
		fail := func(err error) (DayResult, error) {
			return results.FailureResult[*DayView, error](err), nil
		}
		day, err := ParseDate(req.Date)
		if err != nil {
			return fail(err)
		}
		if req.GoalKcal <= 0 {
			return fail(ErrInvalidGoal)
		}
		if req.TotalKcal < 0 {
			return fail(ErrInvalidTotal)
		}

		row := &caloriedb.Day{
			UserID:    req.UserID,
			Day:       day,
			GoalKcal:  req.GoalKcal,
			TotalKcal: req.TotalKcal,
			IsTracked: req.IsTracked,
		}
		if err := s.repo.UpsertDay(ctx, db, row); err != nil {
			return DayResult{}, err
		}
		return results.SuccessResult[*DayView, error](toDayView(row)), nil
	})
}

func (s *CalorieService) AddEntry(ctx context.Context, req EntryRequest) (EntryResult, error) {
	return operation.Run(s.runner, ctx, "AddCalorieEntry", req.UserID, func(ctx context.Context, db bun.IDB) (EntryResult, error) {
		fail := func(err error) (EntryResult, error) {
			return results.FailureResult[*EntryView, error](err), nil
		}
		day, err := ParseDate(req.Date)
		if err != nil {
			return fail(err)
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || req.Kcal <= 0 {
			return fail(ErrInvalidEntry)
		}
		for _, m := range []*decimal.Decimal{req.Protein, req.Fat, req.Carbs} {
			if m != nil && m.IsNegative() {
				return fail(ErrInvalidMacro)
			}
		}

		entry := &caloriedb.Entry{
			ID:      uuid.New(),
			UserID:  req.UserID,
			Day:     day,
			Name:    name,
			Kcal:    req.Kcal,
			Protein: req.Protein,
			Fat:     req.Fat,
			Carbs:   req.Carbs,
		}
		if err := s.repo.InsertEntry(ctx, db, entry); err != nil {
			return EntryResult{}, err
		}
		updated, err := s.repo.AddToDay(ctx, db, req.UserID, day, req.Kcal, DefaultGoalKcal)
		if err != nil {
			return EntryResult{}, err
		}

		view := toEntryView(entry)
		view.Day = toDayView(updated)
		return results.SuccessResult[*EntryView, error](&view), nil
	})
}

func (s *CalorieService) GetDay(ctx context.Context, userID string, day time.Time) (DayLogResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "GetCalorieDay", userID, func(ctx context.Context) (DayLogResult, error) {
		view := &DayLogView{Entries: []EntryView{}}

		row, err := s.repo.GetDay(ctx, nil, userID, day)
		switch {
		case err == nil:
			view.Day = toDayView(row)
		case !errors.Is(err, caloriedb.ErrNotFound):
			return DayLogResult{}, err
		}

		entries, err := s.repo.ListEntries(ctx, nil, userID, day)
		if err != nil {
			return DayLogResult{}, err
		}
		for i := range entries {
			view.Entries = append(view.Entries, toEntryView(&entries[i]))
		}
		return results.SuccessResult[*DayLogView, error](view), nil
	})
}

func (s *CalorieService) SetPrivacy(ctx context.Context, userID, mode string) (PrivacyResult, error) {
	return operation.Run(s.runner, ctx, "SetCaloriePrivacy", userID, func(ctx context.Context, db bun.IDB) (PrivacyResult, error) {
		if mode != caloriedb.PrivacyPrivate && mode != caloriedb.PrivacyPublicCheckmark {
			return results.FailureResult[*PrivacyView, error](ErrInvalidPrivacy), nil
		}
		if err := s.repo.UpsertSettings(ctx, db, &caloriedb.Settings{UserID: userID, PrivacyMode: mode}); err != nil {
			return PrivacyResult{}, err
		}
		return results.SuccessResult[*PrivacyView, error](&PrivacyView{UserID: userID, PrivacyMode: mode}), nil
	})
}
