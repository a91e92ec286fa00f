package calorieservice

import (
	"errors"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	caloriedb "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultGoalKcal is the goal of a day created by logging an entry.
const DefaultGoalKcal = 2000

// DateLayout is the wire format of calendar days.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate    = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidGoal    = errors.New("goal must be a positive number of kcal")
	ErrInvalidTotal   = errors.New("total must not be negative")
	ErrInvalidEntry   = errors.New("entry needs a name and a positive kcal")
	ErrInvalidMacro   = errors.New("macros must not be negative")
	ErrInvalidPrivacy = errors.New("privacy mode must be PRIVATE or PUBLIC_CHECKMARK")
)

type (
	DayResult     = results.OperationResult[*DayView, error]
	EntryResult   = results.OperationResult[*EntryView, error]
	DayLogResult  = results.OperationResult[*DayLogView, error]
	PrivacyResult = results.OperationResult[*PrivacyView, error]
)

type DayRequest struct {
	UserID    string `json:"-"`
	Date      string `json:"date"`
	GoalKcal  int    `json:"goalKcal"`
	TotalKcal int    `json:"totalKcal"`
	IsTracked bool   `json:"isTracked"`
}

type EntryRequest struct {
	UserID  string           `json:"-"`
	Date    string           `json:"date"`
	Name    string           `json:"name"`
	Kcal    int              `json:"kcal"`
	Protein *decimal.Decimal `json:"protein,omitempty"`
	Fat     *decimal.Decimal `json:"fat,omitempty"`
	Carbs   *decimal.Decimal `json:"carbs,omitempty"`
}

type DayView struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	GoalKcal  int    `json:"goalKcal"`
	TotalKcal int    `json:"totalKcal"`
	IsTracked bool   `json:"isTracked"`
}

type EntryView struct {
	ID      uuid.UUID        `json:"id"`
	UserID  string           `json:"userId"`
	Date    string           `json:"date"`
	Name    string           `json:"name"`
	Kcal    int              `json:"kcal"`
	Protein *decimal.Decimal `json:"protein,omitempty"`
	Fat     *decimal.Decimal `json:"fat,omitempty"`
	Carbs   *decimal.Decimal `json:"carbs,omitempty"`
	// Day is the day after the entry was added to it.
	Day *DayView `json:"day,omitempty"`
}

// DayLogView has a nil Day when nothing was logged for the date.
type DayLogView struct {
	Day     *DayView    `json:"day"`
	Entries []EntryView `json:"entries"`
}

type PrivacyView struct {
	UserID      string `json:"userId"`
	PrivacyMode string `json:"privacyMode"`
}

func toDayView(d *caloriedb.Day) *DayView {
	return &DayView{
		UserID:    d.UserID,
		Date:      d.Day.Format(DateLayout),
		GoalKcal:  d.GoalKcal,
		TotalKcal: d.TotalKcal,
		IsTracked: d.IsTracked,
	}
}

func toEntryView(e *caloriedb.Entry) EntryView {
	return EntryView{
		ID:      e.ID,
		UserID:  e.UserID,
		Date:    e.Day.Format(DateLayout),
		Name:    e.Name,
		Kcal:    e.Kcal,
		Protein: e.Protein,
		Fat:     e.Fat,
		Carbs:   e.Carbs,
	}
}

// ParseDate reads a YYYY-MM-DD day as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
