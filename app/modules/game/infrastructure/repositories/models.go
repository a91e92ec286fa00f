package gamedb

import (
	"time"

	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Game is a competition with its scoring configuration.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID           uuid.UUID                `bun:"id,pk,type:uuid"`
	Name         string                   `bun:"name,notnull"`
	PercentCap   decimal.Decimal          `bun:"percent_cap,type:numeric(6,3),notnull"`
	PointsScheme scoredomain.PointsScheme `bun:"points_scheme,type:jsonb,notnull"`
	CreatedBy    string                   `bun:"created_by,notnull"`
	CreatedAt    time.Time                `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time                `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Member links a user to a game. Inactive members keep their history but are
// left out of settlement and standings.
type Member struct {
	bun.BaseModel `bun:"table:game_members,alias:gm"`

	GameID   uuid.UUID `bun:"game_id,pk,type:uuid"`
	UserID   string    `bun:"user_id,pk"`
	IsActive bool      `bun:"is_active,notnull"`
	JoinedAt time.Time `bun:"joined_at,nullzero,notnull,default:current_timestamp"`
}
