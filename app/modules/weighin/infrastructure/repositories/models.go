package weighindb

import (
	"time"

	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// WeighIn is a member's weight for one round. There is at most one per user and round.
type WeighIn struct {
	bun.BaseModel `bun:"table:weigh_ins,alias:w"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid"`
	GameID      uuid.UUID       `bun:"game_id,type:uuid,notnull"`
	RoundID     uuid.UUID       `bun:"round_id,type:uuid,notnull"`
	UserID      string          `bun:"user_id,notnull"`
	WeightKg    decimal.Decimal `bun:"weight_kg,type:numeric(7,3),notnull"`
	Morning     bool            `bun:"morning,notnull"`
	AfterToilet bool            `bun:"after_toilet,notnull"`
	NoClothes   bool            `bun:"no_clothes,notnull"`
	EditedCount int             `bun:"edited_count,notnull"`
	Locked      bool            `bun:"locked,notnull"`
	Suspicious  bool            `bun:"suspicious,notnull"`
	// TakenAt is the first submission time. Edits never move it.
	TakenAt   time.Time `bun:"taken_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (w *WeighIn) Conditions() scoredomain.Conditions {
	return scoredomain.Conditions{Morning: w.Morning, AfterToilet: w.AfterToilet, NoClothes: w.NoClothes}
}

// EditLog records one edit of a weigh-in.
type EditLog struct {
	bun.BaseModel `bun:"table:weigh_in_edit_log,alias:wel"`

	ID               uuid.UUID       `bun:"id,pk,type:uuid"`
	WeighInID        uuid.UUID       `bun:"weigh_in_id,type:uuid,notnull"`
	UserID           string          `bun:"user_id,notnull"`
	PreviousWeightKg decimal.Decimal `bun:"previous_weight_kg,type:numeric(7,3),notnull"`
	NewWeightKg      decimal.Decimal `bun:"new_weight_kg,type:numeric(7,3),notnull"`
	EditedAt         time.Time       `bun:"edited_at,notnull"`
}
