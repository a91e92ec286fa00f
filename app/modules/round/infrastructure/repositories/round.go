package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round is not found.
var ErrNotFound = errors.New("round not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(round).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error) {
	return r.getRound(ctx, r.resolveDB(db), roundID, "")
}

func (r *Impl) GetRoundForUpdate(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error) {
	return r.getRound(ctx, r.resolveDB(db), roundID, "UPDATE")
}

func (r *Impl) GetRoundForShare(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error) {
	return r.getRound(ctx, r.resolveDB(db), roundID, "SHARE")
}

func (r *Impl) getRound(ctx context.Context, db bun.IDB, roundID uuid.UUID, lock string) (*Round, error) {
	round := new(Round)
	q := db.NewSelect().
		Model(round).
		Where("r.id = ?", roundID)
	if lock != "" {
		q = q.For(lock)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

func (r *Impl) UpdateStatus(ctx context.Context, db bun.IDB, roundID uuid.UUID, status rounddomain.Status, from ...rounddomain.Status) (bool, error) {
	db = r.resolveDB(db)
	q := db.NewUpdate().
		Model((*Round)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", roundID)
	if len(from) > 0 {
		q = q.Where("status IN (?)", bun.In(from))
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to update round status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *Impl) FindPreviousRound(ctx context.Context, db bun.IDB, gameID uuid.UUID, before time.Time) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("game_id = ?", gameID).
		Where("end_at < ?", before).
		Order("end_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find previous round: %w", err)
	}
	return round, nil
}

func (r *Impl) LatestRound(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("game_id = ?", gameID).
		Order("end_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest round: %w", err)
	}
	return round, nil
}

func (r *Impl) ListRoundsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("game_id = ?", gameID).
		Order("start_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) ListOverdue(ctx context.Context, db bun.IDB, now time.Time) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("status <> ?", rounddomain.StatusClosed).
		Where("end_at < ?", now).
		Order("end_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue rounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) ListStartable(ctx context.Context, db bun.IDB, now time.Time) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("status = ?", rounddomain.StatusUpcoming).
		Where("start_at <= ?", now).
		Where("end_at >= ?", now).
		Order("start_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list startable rounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) ListUnsettled(ctx context.Context, db bun.IDB) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("status = ?", rounddomain.StatusClosed).
		Where("settled_at IS NULL").
		Where("settlement_failed_at IS NULL").
		Order("end_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled rounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) ReplaceResults(ctx context.Context, db bun.IDB, roundID uuid.UUID, results []Result) error {
	db = r.resolveDB(db)
	if _, err := db.NewDelete().
		Model((*Result)(nil)).
		Where("round_id = ?", roundID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete round results: %w", err)
	}

	if len(results) == 0 {
		return nil
	}
	for i := range results {
		if results[i].ID == uuid.Nil {
			results[i].ID = uuid.New()
		}
	}
	if _, err := db.NewInsert().Model(&results).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert round results: %w", err)
	}
	return nil
}

func (r *Impl) MarkSettled(ctx context.Context, db bun.IDB, roundID uuid.UUID, at time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("settled_at = ?", at).
		Set("settlement_failed_at = NULL").
		Set("settlement_error = NULL").
		Set("updated_at = ?", at).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark round settled: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) ListResults(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Result, error) {
	db = r.resolveDB(db)
	var results []Result
	err := db.NewSelect().
		Model(&results).
		Where("round_id = ?", roundID).
		Order("rank ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list round results: %w", err)
	}
	return results, nil
}

func (r *Impl) ListResultsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Result, error) {
	db = r.resolveDB(db)
	var results []Result
	err := db.NewSelect().
		Model(&results).
		Where("game_id = ?", gameID).
		Order("round_id ASC", "rank ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}
	return results, nil
}

func (r *Impl) MarkSettlementFailed(ctx context.Context, db bun.IDB, roundID uuid.UUID, reason string, at time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("settlement_failed_at = ?", at).
		Set("settlement_error = ?", reason).
		Set("updated_at = ?", at).
		Where("id = ?", roundID).
		Where("settled_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record settlement failure: %w", err)
	}
	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	return nil
}
