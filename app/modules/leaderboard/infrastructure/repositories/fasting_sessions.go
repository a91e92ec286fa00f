package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrSessionNotFound is returned when the member has no matching fasting session.
var ErrSessionNotFound = errors.New("fasting session not found")

func (r *Impl) StartSession(ctx context.Context, db bun.IDB, session *FastingSession) (bool, error) {
	db = r.resolveDB(db)
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	result, err := db.NewInsert().
		Model(session).
		On("CONFLICT (game_id, user_id) WHERE ended_at IS NULL DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to start fasting session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func (r *Impl) ActiveSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, forUpdate bool) (*FastingSession, error) {
	db = r.resolveDB(db)
	session := new(FastingSession)
	q := db.NewSelect().
		Model(session).
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Where("ended_at IS NULL")
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get active fasting session: %w", err)
	}
	return session, nil
}

func (r *Impl) LastFinishedSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*FastingSession, error) {
	db = r.resolveDB(db)
	session := new(FastingSession)
	err := db.NewSelect().
		Model(session).
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Where("ended_at IS NOT NULL").
		Order("ended_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get last fasting session: %w", err)
	}
	return session, nil
}

func (r *Impl) FinishSession(ctx context.Context, db bun.IDB, sessionID uuid.UUID, endedAt time.Time, durationMinutes, streakDay int) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*FastingSession)(nil)).
		Set("ended_at = ?", endedAt).
		Set("duration_minutes = ?", durationMinutes).
		Set("streak_day = ?", streakDay).
		Where("id = ?", sessionID).
		Where("ended_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to finish fasting session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}
