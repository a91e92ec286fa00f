package weighinservice

import (
	"errors"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotMember        = errors.New("join the game first")
	ErrRoundNotFound    = errors.New("round not found")
	ErrRoundClosed      = errors.New("round closed, editing disabled")
	ErrDeadlinePassed   = errors.New("round deadline passed")
	ErrEditLimitReached = errors.New("only one edit is allowed before the deadline")
	ErrWeighInLocked    = errors.New("weigh-in is locked")
	// ErrEditConflict is returned when a concurrent write won the edit.
	ErrEditConflict = errors.New("weigh-in was changed concurrently")
)

// WarningConditionsIncomplete accompanies weigh-ins taken without every condition met.
const WarningConditionsIncomplete = "Conditions incomplete, marked suspicious"

type (
	SubmitResult = results.OperationResult[*WeighInView, error]
	ListResult   = results.OperationResult[[]WeighInView, error]
)

type SubmitRequest struct {
	GameID     uuid.UUID              `json:"-"`
	RoundID    uuid.UUID              `json:"roundId"`
	UserID     string                 `json:"-"`
	WeightKg   decimal.Decimal        `json:"weightKg"`
	Conditions scoredomain.Conditions `json:"conditions"`
}

type WeighInView struct {
	ID          uuid.UUID              `json:"id"`
	GameID      uuid.UUID              `json:"gameId"`
	RoundID     uuid.UUID              `json:"roundId"`
	UserID      string                 `json:"userId"`
	WeightKg    decimal.Decimal        `json:"weightKg"`
	Conditions  scoredomain.Conditions `json:"conditions"`
	EditedCount int                    `json:"editedCount"`
	Locked      bool                   `json:"locked"`
	Suspicious  bool                   `json:"suspicious"`
	TakenAt     time.Time              `json:"takenAt"`
	Warning     *string                `json:"warning"`
	// Created is false when the submission edited an existing weigh-in.
	Created bool `json:"-"`
}

func toView(w *weighindb.WeighIn, created bool) *WeighInView {
	v := &WeighInView{
		ID:          w.ID,
		GameID:      w.GameID,
		RoundID:     w.RoundID,
		UserID:      w.UserID,
		WeightKg:    w.WeightKg,
		Conditions:  w.Conditions(),
		EditedCount: w.EditedCount,
		Locked:      w.Locked,
		Suspicious:  w.Suspicious,
		TakenAt:     w.TakenAt,
		Created:     created,
	}
	if !v.Conditions.AllMet() {
		warning := WarningConditionsIncomplete
		v.Warning = &warning
	}
	return v
}
