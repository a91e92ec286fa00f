package gamedb

import (
	"context"

	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Repository defines the contract for game and membership persistence.
//
// Error semantics:
//   - ErrNotFound: game or membership does not exist
//   - Other errors: infrastructure failures
type Repository interface {
	// GetGame retrieves a game by id.
	GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error)

	// CreateGame inserts a new game.
	CreateGame(ctx context.Context, db bun.IDB, game *Game) error

	// UpdateSettings replaces the cap and scheme of a game and returns the updated row.
	UpdateSettings(ctx context.Context, db bun.IDB, gameID uuid.UUID, percentCap decimal.Decimal, scheme scoredomain.PointsScheme) (*Game, error)

	// UpsertMember inserts a membership or reactivates an existing one.
	UpsertMember(ctx context.Context, db bun.IDB, member *Member) error

	// DeactivateMember marks a membership inactive.
	DeactivateMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) error

	// GetMember retrieves a membership regardless of its active flag.
	GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*Member, error)

	// ListActiveMembers returns the active members of a game ordered by user id.
	ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Member, error)

	// ListGamesForUser returns the games the user is an active member of.
	ListGamesForUser(ctx context.Context, db bun.IDB, userID string) ([]Game, error)
}
