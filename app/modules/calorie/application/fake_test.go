package calorieservice

import (
	"context"
	"time"

	caloriedb "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Calorie Repo
// ------------------------

type FakeCalorieRepo struct {
	trace []string

	UpsertDayFunc      func(ctx context.Context, db bun.IDB, day *caloriedb.Day) error
	AddToDayFunc       func(ctx context.Context, db bun.IDB, userID string, day time.Time, kcal, defaultGoal int) (*caloriedb.Day, error)
	GetDayFunc         func(ctx context.Context, db bun.IDB, userID string, day time.Time) (*caloriedb.Day, error)
	InsertEntryFunc    func(ctx context.Context, db bun.IDB, entry *caloriedb.Entry) error
	ListEntriesFunc    func(ctx context.Context, db bun.IDB, userID string, day time.Time) ([]caloriedb.Entry, error)
	UpsertSettingsFunc func(ctx context.Context, db bun.IDB, settings *caloriedb.Settings) error
}

func NewFakeCalorieRepo() *FakeCalorieRepo {
	return &FakeCalorieRepo{trace: []string{}}
}

func (f *FakeCalorieRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeCalorieRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCalorieRepo) UpsertDay(ctx context.Context, db bun.IDB, day *caloriedb.Day) error {
	f.record("UpsertDay")
	if f.UpsertDayFunc != nil {
		return f.UpsertDayFunc(ctx, db, day)
	}
	return nil
}

func (f *FakeCalorieRepo) AddToDay(ctx context.Context, db bun.IDB, userID string, day time.Time, kcal, defaultGoal int) (*caloriedb.Day, error) {
	f.record("AddToDay")
	if f.AddToDayFunc != nil {
		return f.AddToDayFunc(ctx, db, userID, day, kcal, defaultGoal)
	}
	return &caloriedb.Day{UserID: userID, Day: day, GoalKcal: defaultGoal, TotalKcal: kcal, IsTracked: true}, nil
}

func (f *FakeCalorieRepo) GetDay(ctx context.Context, db bun.IDB, userID string, day time.Time) (*caloriedb.Day, error) {
	f.record("GetDay")
	if f.GetDayFunc != nil {
		return f.GetDayFunc(ctx, db, userID, day)
	}
	return nil, caloriedb.ErrNotFound
}

func (f *FakeCalorieRepo) InsertEntry(ctx context.Context, db bun.IDB, entry *caloriedb.Entry) error {
	f.record("InsertEntry")
	if f.InsertEntryFunc != nil {
		return f.InsertEntryFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeCalorieRepo) ListEntries(ctx context.Context, db bun.IDB, userID string, day time.Time) ([]caloriedb.Entry, error) {
	f.record("ListEntries")
	if f.ListEntriesFunc != nil {
		return f.ListEntriesFunc(ctx, db, userID, day)
	}
	return nil, nil
}

func (f *FakeCalorieRepo) UpsertSettings(ctx context.Context, db bun.IDB, settings *caloriedb.Settings) error {
	f.record("UpsertSettings")
	if f.UpsertSettingsFunc != nil {
		return f.UpsertSettingsFunc(ctx, db, settings)
	}
	return nil
}

func (f *FakeCalorieRepo) PublicTracking(ctx context.Context, db bun.IDB, userIDs []string, day time.Time) (map[string]bool, error) {
	f.record("PublicTracking")
	return map[string]bool{}, nil
}

var _ caloriedb.Repository = (*FakeCalorieRepo)(nil)
