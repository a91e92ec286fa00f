package roundservice

import (
	"errors"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRoundNotFound     = errors.New("round not found")
	ErrGameNotFound      = errors.New("game not found")
	ErrNotMember         = errors.New("not a member of this game")
	ErrRoundNotClosed    = errors.New("round is not closed")
	ErrInvalidTitle      = errors.New("round title is required")
	ErrInvalidWindow     = errors.New("round end must be after its start")
	ErrInvalidStatus     = errors.New("a new round must be UPCOMING or ACTIVE")
	ErrUnsupportedExport = errors.New("unsupported export format")
)

type (
	RoundResult        = results.OperationResult[*RoundView, error]
	RoundListResult    = results.OperationResult[[]RoundView, error]
	TransitionResult   = results.OperationResult[*TransitionView, error]
	SweepResult        = results.OperationResult[*SweepView, error]
	SettlementResult   = results.OperationResult[*SettlementView, error]
	RoundResultsResult = results.OperationResult[*RoundResultsView, error]
	ExportResult       = results.OperationResult[*ExportView, error]
)

// CreateRoundRequest carries round boundaries as RFC 3339 or natural-language input.
type CreateRoundRequest struct {
	GameID   uuid.UUID          `json:"-"`
	Title    string             `json:"title"`
	StartAt  string             `json:"startAt"`
	EndAt    string             `json:"endAt"`
	Timezone string             `json:"timezone,omitempty"`
	Status   rounddomain.Status `json:"status,omitempty"`
}

type RoundView struct {
	ID        uuid.UUID          `json:"id"`
	GameID    uuid.UUID          `json:"gameId"`
	Title     string             `json:"title"`
	StartAt   time.Time          `json:"startAt"`
	EndAt     time.Time          `json:"endAt"`
	Status    rounddomain.Status `json:"status"`
	SettledAt *time.Time         `json:"settledAt"`
}

func toRoundView(r *rounddb.Round) RoundView {
	return RoundView{
		ID:        r.ID,
		GameID:    r.GameID,
		Title:     r.Title,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Status:    r.Status,
		SettledAt: r.SettledAt,
	}
}

// TransitionView reports the round after a status request. Changed is false when the
// round already had the requested status.
type TransitionView struct {
	Round   RoundView `json:"round"`
	Changed bool      `json:"changed"`
}

type SweepView struct {
	Activated []RoundView `json:"activated"`
	Closed    []RoundView `json:"closed"`
	// Unsettled lists rounds closed earlier whose settlement never committed.
	Unsettled []RoundView `json:"unsettled"`
}

type SettlementView struct {
	RoundID    uuid.UUID `json:"roundId"`
	GameID     uuid.UUID `json:"gameId"`
	Results    int       `json:"results"`
	Suspicious int       `json:"suspicious"`
	Locked     int       `json:"locked"`
	SettledAt  time.Time `json:"settledAt"`
	// Skipped is set when the round or its game no longer exists.
	Skipped bool `json:"skipped"`
}

type ResultRow struct {
	UserID        string           `json:"userId"`
	Rank          int              `json:"rank"`
	StartWeightKg decimal.Decimal  `json:"startWeightKg"`
	EndWeightKg   decimal.Decimal  `json:"endWeightKg"`
	PercentReal   *decimal.Decimal `json:"percentReal,omitempty"`
	PercentCapped decimal.Decimal  `json:"percentCapped"`
	PointsAwarded int              `json:"pointsAwarded"`
	Suspicious    bool             `json:"suspicious"`
}

type RoundResultsView struct {
	Round        RoundView   `json:"round"`
	Results      []ResultRow `json:"results"`
	NotSubmitted []string    `json:"notSubmitted"`
}

type ExportView struct {
	FileName    string
	ContentType string
	Data        []byte
}
