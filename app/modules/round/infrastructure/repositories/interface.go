package rounddb

import (
	"context"
	"time"

	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for round persistence.
// All methods are context-aware for cancellation and timeout propagation.
//
// Error semantics:
//   - ErrNotFound: Record does not exist (GetRound*, FindPreviousRound, LatestRound)
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	CreateRound(ctx context.Context, db bun.IDB, round *Round) error
	GetRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error)

	// GetRoundForUpdate locks the round row until the surrounding transaction ends.
	GetRoundForUpdate(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error)

	// GetRoundForShare takes a shared row lock so the status cannot change while a
	// weigh-in is written.
	GetRoundForShare(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error)

	// UpdateStatus moves the round to status when its current status is one of from.
	// It reports whether a row changed.
	UpdateStatus(ctx context.Context, db bun.IDB, roundID uuid.UUID, status rounddomain.Status, from ...rounddomain.Status) (bool, error)

	// FindPreviousRound returns the round of the game that ended most recently before
	// the given time.
	FindPreviousRound(ctx context.Context, db bun.IDB, gameID uuid.UUID, before time.Time) (*Round, error)

	// LatestRound returns the round of the game with the latest end time.
	LatestRound(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Round, error)

	ListRoundsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Round, error)

	// ListOverdue returns rounds that are not CLOSED and whose end time has passed.
	ListOverdue(ctx context.Context, db bun.IDB, now time.Time) ([]Round, error)

	// ListStartable returns UPCOMING rounds whose start time has passed.
	ListStartable(ctx context.Context, db bun.IDB, now time.Time) ([]Round, error)

	// ListUnsettled returns CLOSED rounds that have no committed settlement yet and
	// no recorded settlement failure.
	ListUnsettled(ctx context.Context, db bun.IDB) ([]Round, error)

	// ReplaceResults deletes every result of the round and inserts results.
	ReplaceResults(ctx context.Context, db bun.IDB, roundID uuid.UUID, results []Result) error

	// MarkSettled stamps the settlement time and clears any recorded failure.
	MarkSettled(ctx context.Context, db bun.IDB, roundID uuid.UUID, at time.Time) error

	// MarkSettlementFailed records why settlement of an unsettled round was rejected.
	MarkSettlementFailed(ctx context.Context, db bun.IDB, roundID uuid.UUID, reason string, at time.Time) error

	// ListResults returns the results of a round ordered by rank.
	ListResults(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Result, error)

	// ListResultsByGame returns every result of every round of the game.
	ListResultsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Result, error)
}
