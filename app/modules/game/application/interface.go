package gameservice

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the contract for game administration and membership.
type Service interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (GameResult, error)
	UpdateGameSettings(ctx context.Context, gameID uuid.UUID, req UpdateSettingsRequest) (GameResult, error)
	GetGame(ctx context.Context, gameID uuid.UUID) (GameResult, error)
	ListGamesForUser(ctx context.Context, userID string) (GameListResult, error)

	// JoinGame adds the user to the game, reactivating a membership they left.
	JoinGame(ctx context.Context, gameID uuid.UUID, userID string) (MembershipResult, error)
	// LeaveGame deactivates the membership. History is kept.
	LeaveGame(ctx context.Context, gameID uuid.UUID, userID string) (MembershipResult, error)
}
