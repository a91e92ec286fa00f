package gameservice

import (
	"errors"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidName is returned for blank or overlong game names.
var ErrInvalidName = errors.New("game name must be 1-100 characters")

const maxNameLength = 100

type (
	GameResult       = results.OperationResult[*GameView, error]
	GameListResult   = results.OperationResult[[]GameView, error]
	MembershipResult = results.OperationResult[*MembershipView, error]
)

// CreateGameRequest creates a game. Nil cap and empty scheme select the defaults.
type CreateGameRequest struct {
	Name         string                   `json:"name"`
	PercentCap   *decimal.Decimal         `json:"percentCap,omitempty"`
	PointsScheme scoredomain.PointsScheme `json:"pointsScheme,omitempty"`
	CreatedBy    string                   `json:"-"`
}

// UpdateSettingsRequest changes the scoring of future settlements. Nil fields are kept.
type UpdateSettingsRequest struct {
	PercentCap   *decimal.Decimal         `json:"percentCap,omitempty"`
	PointsScheme scoredomain.PointsScheme `json:"pointsScheme,omitempty"`
}

type GameView struct {
	ID           uuid.UUID                `json:"id"`
	Name         string                   `json:"name"`
	PercentCap   decimal.Decimal          `json:"percentCap"`
	PointsScheme scoredomain.PointsScheme `json:"pointsScheme"`
	CreatedBy    string                   `json:"createdBy"`
	CreatedAt    time.Time                `json:"createdAt"`
}

type MembershipView struct {
	GameID   uuid.UUID `json:"gameId"`
	UserID   string    `json:"userId"`
	IsActive bool      `json:"isActive"`
	JoinedAt time.Time `json:"joinedAt"`
}

func toGameView(g *gamedb.Game) GameView {
	return GameView{
		ID:           g.ID,
		Name:         g.Name,
		PercentCap:   g.PercentCap,
		PointsScheme: g.PointsScheme,
		CreatedBy:    g.CreatedBy,
		CreatedAt:    g.CreatedAt,
	}
}

func toMembershipView(m *gamedb.Member) *MembershipView {
	return &MembershipView{
		GameID:   m.GameID,
		UserID:   m.UserID,
		IsActive: m.IsActive,
		JoinedAt: m.JoinedAt,
	}
}
