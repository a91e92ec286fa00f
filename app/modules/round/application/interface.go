package roundservice

import (
	"context"
	"time"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the round lifecycle, settlement and result queries.
type Service interface {
	CreateRound(ctx context.Context, req CreateRoundRequest) (RoundResult, error)
	GetRound(ctx context.Context, roundID uuid.UUID, viewerID string) (RoundResult, error)
	ListRounds(ctx context.Context, gameID uuid.UUID, viewerID string) (RoundListResult, error)

	// ActivateRound moves an UPCOMING round to ACTIVE.
	ActivateRound(ctx context.Context, roundID uuid.UUID) (TransitionResult, error)
	// CloseRound moves an UPCOMING or ACTIVE round to CLOSED. Closing a CLOSED round is a no-op.
	CloseRound(ctx context.Context, roundID uuid.UUID) (TransitionResult, error)
	// SweepOverdueRounds activates rounds whose start passed, closes rounds whose end
	// passed and reports closed rounds still waiting for settlement.
	SweepOverdueRounds(ctx context.Context, now time.Time) (SweepResult, error)

	// SettleRound replaces the results of a CLOSED round and locks its weigh-ins.
	// A missing round is skipped.
	SettleRound(ctx context.Context, roundID uuid.UUID) (SettlementResult, error)
	// RecomputeRound re-runs settlement on request of an administrator.
	RecomputeRound(ctx context.Context, roundID uuid.UUID) (SettlementResult, error)

	GetRoundResults(ctx context.Context, roundID uuid.UUID, viewerID string) (RoundResultsResult, error)
	ExportRoundResults(ctx context.Context, roundID uuid.UUID, format string) (ExportResult, error)
}

// GameReader is the slice of the game store the round module reads.
type GameReader interface {
	GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
	ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error)
}

// WeighInStore reads and locks the weigh-ins a settlement consumes.
type WeighInStore interface {
	ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]weighindb.WeighIn, error)
	LockRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error)
}

// Scheduler arranges the activation and close of a round at its boundaries.
type Scheduler interface {
	ScheduleRound(ctx context.Context, roundID uuid.UUID, startAt, endAt time.Time) error
}

// Exporter renders settled rows into a downloadable document.
type Exporter interface {
	Export(round RoundView, rows []ResultRow) ([]byte, error)
	ContentType() string
	Extension() string
}
