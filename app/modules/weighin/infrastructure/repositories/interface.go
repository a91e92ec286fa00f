package weighindb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Repository defines the contract for weigh-in persistence.
//
// Error semantics:
//   - ErrNotFound: weigh-in does not exist
//   - ErrNoRowsAffected: the conditional edit matched no row
type Repository interface {
	// InsertWeighIn inserts w unless the user already has a weigh-in for the round.
	// It reports whether the row was inserted.
	InsertWeighIn(ctx context.Context, db bun.IDB, w *WeighIn) (bool, error)

	GetWeighIn(ctx context.Context, db bun.IDB, userID string, roundID uuid.UUID) (*WeighIn, error)

	// ApplyEdit overwrites the weight and conditions of an unlocked weigh-in that was
	// never edited and increments its edit count. It returns ErrNoRowsAffected when
	// the row is locked or already edited.
	ApplyEdit(ctx context.Context, db bun.IDB, edit Edit) (*WeighIn, error)

	InsertEditLog(ctx context.Context, db bun.IDB, entry *EditLog) error

	// ListByRound returns every weigh-in of the round ordered by user id.
	ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]WeighIn, error)

	// LockRound locks every weigh-in of the round against edits.
	LockRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error)

	// ListByGameUser returns a member's weigh-ins in the game ordered by time taken.
	ListByGameUser(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]WeighIn, error)

	// FirstSubmissions returns each member's earliest weigh-in time in the game.
	FirstSubmissions(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error)
}

// Edit is the replacement data for a weigh-in.
type Edit struct {
	ID          uuid.UUID
	WeightKg    decimal.Decimal
	Morning     bool
	AfterToilet bool
	NoClothes   bool
	Suspicious  bool
	EditedAt    time.Time
}
