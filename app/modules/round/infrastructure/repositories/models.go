package rounddb

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Round is one scoring period of a game.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID        uuid.UUID          `bun:"id,pk,type:uuid"`
	GameID    uuid.UUID          `bun:"game_id,type:uuid,notnull"`
	Title     string             `bun:"title,notnull"`
	StartAt   time.Time          `bun:"start_at,notnull"`
	EndAt     time.Time          `bun:"end_at,notnull"`
	Status    rounddomain.Status `bun:"status,notnull"`
	SettledAt *time.Time         `bun:"settled_at"`
	// SettlementFailedAt is set when settlement was rejected by the scoring rules.
	// The sweeper leaves such rounds alone until an administrator recomputes them.
	SettlementFailedAt *time.Time `bun:"settlement_failed_at"`
	SettlementError    string     `bun:"settlement_error,nullzero"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Result is a settled row. Rows are only written by settlement, which replaces the
// whole set for a round at once.
type Result struct {
	bun.BaseModel `bun:"table:round_results,alias:rr"`

	ID            uuid.UUID       `bun:"id,pk,type:uuid"`
	RoundID       uuid.UUID       `bun:"round_id,type:uuid,notnull"`
	GameID        uuid.UUID       `bun:"game_id,type:uuid,notnull"`
	UserID        string          `bun:"user_id,notnull"`
	StartWeightKg decimal.Decimal `bun:"start_weight_kg,type:numeric(7,3),notnull"`
	EndWeightKg   decimal.Decimal `bun:"end_weight_kg,type:numeric(7,3),notnull"`
	PercentReal   decimal.Decimal `bun:"percent_real,type:numeric(9,3),notnull"`
	PercentCapped decimal.Decimal `bun:"percent_capped,type:numeric(9,3),notnull"`
	PointsAwarded int             `bun:"points_awarded,notnull"`
	Rank          int             `bun:"rank,notnull"`
	Suspicious    bool            `bun:"suspicious,notnull"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
