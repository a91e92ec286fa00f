package caloriedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Privacy modes of a user's calorie log.
const (
	PrivacyPrivate         = "PRIVATE"
	PrivacyPublicCheckmark = "PUBLIC_CHECKMARK"
)

// Day is a user's calorie goal and running total for one calendar day (UTC).
type Day struct {
	bun.BaseModel `bun:"table:calorie_days,alias:cd"`

	UserID    string    `bun:"user_id,pk"`
	Day       time.Time `bun:"day,pk,type:date"`
	GoalKcal  int       `bun:"goal_kcal,notnull"`
	TotalKcal int       `bun:"total_kcal,notnull"`
	IsTracked bool      `bun:"is_tracked,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Entry is one logged food item.
type Entry struct {
	bun.BaseModel `bun:"table:calorie_entries,alias:ce"`

	ID        uuid.UUID        `bun:"id,pk,type:uuid"`
	UserID    string           `bun:"user_id,notnull"`
	Day       time.Time        `bun:"day,type:date,notnull"`
	Name      string           `bun:"name,notnull"`
	Kcal      int              `bun:"kcal,notnull"`
	Protein   *decimal.Decimal `bun:"protein,type:numeric(7,2)"`
	Fat       *decimal.Decimal `bun:"fat,type:numeric(7,2)"`
	Carbs     *decimal.Decimal `bun:"carbs,type:numeric(7,2)"`
	CreatedAt time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Settings holds the privacy choice of a user. A user without a row is private.
type Settings struct {
	bun.BaseModel `bun:"table:calorie_settings,alias:cs"`

	UserID      string    `bun:"user_id,pk"`
	PrivacyMode string    `bun:"privacy_mode,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
