package leaderboardservice

import (
	"errors"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	leaderboarddb "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotMember      = errors.New("not a member of this game")
	ErrInvalidFasting = errors.New("fasting minutes must be between 0 and 1440 and target must be positive")
	ErrInvalidTarget  = errors.New("fasting target must be between 4 and 36 hours")
	ErrFastActive     = errors.New("fasting session already active")
	ErrNoActiveFast   = errors.New("no active fasting session")
)

// Fasting session statuses.
const (
	StatusFasting = "FASTING"
	StatusEating  = "EATING"
)

type (
	LeaderboardResult    = results.OperationResult[*LeaderboardView, error]
	ChartResult          = results.OperationResult[*ChartView, error]
	FastingDayResult     = results.OperationResult[*leaderboarddb.FastingDayStat, error]
	FastingSessionResult = results.OperationResult[*FastingSessionView, error]
	FinishFastResult     = results.OperationResult[*FinishFastView, error]
	FastingTodayResult   = results.OperationResult[*FastingTodayView, error]
)

// Row is one member's cumulative standing. Round fields come from the most recent
// round of the game and are zero when the member has no result there.
type Row struct {
	Rank               int             `json:"rank"`
	UserID             string          `json:"userId"`
	TotalPoints        int             `json:"totalPoints"`
	TotalPercentCapped decimal.Decimal `json:"totalPercentCapped"`
	TotalScore         decimal.Decimal `json:"totalScore"`
	RoundPoints        int             `json:"roundPoints"`
	RoundPercentCapped decimal.Decimal `json:"roundPercentCapped"`
	Streak             int             `json:"streak"`
	FastingMinutes     int             `json:"fastingMinutes"`
	TargetMinutes      int             `json:"targetMinutes"`
	// CalorieTracked is nil for members who keep their calorie log private.
	CalorieTracked  *bool      `json:"calorieTracked"`
	FirstSubmission *time.Time `json:"firstSubmission,omitempty"`
}

type LeaderboardView struct {
	GameID        uuid.UUID  `json:"gameId"`
	LatestRoundID *uuid.UUID `json:"latestRoundId,omitempty"`
	Rows          []Row      `json:"rows"`
	GeneratedAt   time.Time  `json:"generatedAt"`
}

type ChartView struct {
	FileName    string
	ContentType string
	Data        []byte
}

// FastingDayRequest reports the fasting minutes of one member for Day. A zero Day means today (UTC).
type FastingDayRequest struct {
	GameID         uuid.UUID `json:"-"`
	UserID         string    `json:"-"`
	Day            time.Time `json:"day"`
	FastingMinutes int       `json:"fastingMinutes"`
	TargetMinutes  int       `json:"targetMinutes"`
}

type StartFastRequest struct {
	GameID      uuid.UUID `json:"-"`
	UserID      string    `json:"-"`
	TargetHours float64   `json:"targetHours"`
}

type FastingSessionView struct {
	ID            uuid.UUID `json:"id"`
	GameID        uuid.UUID `json:"gameId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"startedAt"`
	TargetMinutes int       `json:"targetMinutes"`
}

// FinishFastView reports the closed session and the day it was credited to.
type FinishFastView struct {
	ID              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	DurationMinutes int       `json:"durationMinutes"`
	DayMinutes      int       `json:"dayMinutes"`
	TargetMinutes   int       `json:"targetMinutes"`
	Streak          int       `json:"streak"`
}

type FastingTodayView struct {
	Status              string          `json:"status"`
	TargetHours         decimal.Decimal `json:"targetHours"`
	TodayProgressHours  decimal.Decimal `json:"todayProgressHours"`
	Streak              int             `json:"streak"`
	LastDurationMinutes int             `json:"lastDurationMinutes"`
	ActiveStartedAt     *time.Time      `json:"activeStartedAt"`
}
