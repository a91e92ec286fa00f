package weighinservice

import (
	"context"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the weigh-in workflow.
type Service interface {
	// SubmitWeighIn creates the member's weigh-in for the round, or edits it once.
	SubmitWeighIn(ctx context.Context, req SubmitRequest) (SubmitResult, error)
	// ListMyWeighIns returns the member's weigh-ins in a game.
	ListMyWeighIns(ctx context.Context, gameID uuid.UUID, userID string) (ListResult, error)
}

// MemberReader looks up game memberships.
type MemberReader interface {
	GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
}

// RoundReader reads a round under a shared lock.
type RoundReader interface {
	GetRoundForShare(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
}
