package rounddomain

import (
	"fmt"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/domain"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/shopspring/decimal"
)

// Terms is the scoring configuration a round settles under.
type Terms struct {
	PercentCap decimal.Decimal
	Scheme     scoredomain.PointsScheme
}

// Validate rejects configurations that can never be scored.
func (t Terms) Validate() error {
	if err := scoredomain.ValidatePercentCap(t.PercentCap); err != nil {
		return fmt.Errorf("%w: %w", scoredomain.ErrInvariantViolation, err)
	}
	if err := t.Scheme.Validate(); err != nil {
		return fmt.Errorf("%w: %w", scoredomain.ErrInvariantViolation, err)
	}
	return nil
}

// Entry is one member's input to settlement: the weight the round is measured from,
// the weight submitted for the round and how it was taken.
type Entry struct {
	UserID        string
	StartWeightKg decimal.Decimal
	EndWeightKg   decimal.Decimal
	Conditions    scoredomain.Conditions
	SubmittedAt   time.Time
}

// Outcome is a scored and ranked settlement row.
type Outcome struct {
	UserID        string
	StartWeightKg decimal.Decimal
	EndWeightKg   decimal.Decimal
	PercentReal   decimal.Decimal
	PercentCapped decimal.Decimal
	PointsAwarded int
	Rank          int
	Suspicious    bool
}

// Baseline picks the start weight for a member: the weigh-in from the previous
// round when there is one, otherwise the current weight, which scores a 0% loss.
func Baseline(previous map[string]decimal.Decimal, userID string, end decimal.Decimal) decimal.Decimal {
	if w, ok := previous[userID]; ok {
		return w
	}
	return end
}

// ComputeOutcomes scores every entry and ranks them with round points and percent,
// a zero streak and the submission time. Outcomes are returned in rank order.
func ComputeOutcomes(terms Terms, entries []Entry) ([]Outcome, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	byUser := make(map[string]Outcome, len(entries))
	standings := make([]leaderboarddomain.Standing, 0, len(entries))

	for _, e := range entries {
		if _, dup := byUser[e.UserID]; dup {
			return nil, fmt.Errorf("%w: duplicate entry for %s", scoredomain.ErrInvariantViolation, e.UserID)
		}
		for _, w := range []decimal.Decimal{e.StartWeightKg, e.EndWeightKg} {
			if err := scoredomain.ValidateWeight(w); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", scoredomain.ErrInvariantViolation, e.UserID, err)
			}
		}

		pctReal := scoredomain.PercentLoss(e.StartWeightKg, e.EndWeightKg)
		capped := scoredomain.ApplyCap(pctReal, terms.PercentCap)
		points := terms.Scheme.PointsFor(capped)

		byUser[e.UserID] = Outcome{
			UserID:        e.UserID,
			StartWeightKg: e.StartWeightKg,
			EndWeightKg:   e.EndWeightKg,
			PercentReal:   pctReal,
			PercentCapped: capped,
			PointsAwarded: points,
			Suspicious:    scoredomain.IsSuspicious(pctReal, terms.PercentCap, e.Conditions),
		}
		standings = append(standings, leaderboarddomain.Standing{
			UserID:             e.UserID,
			TotalPoints:        points,
			TotalPercentCapped: capped,
			FirstSubmission:    e.SubmittedAt,
		})
	}

	ranked := leaderboarddomain.Order(standings)
	outcomes := make([]Outcome, 0, len(ranked))
	for _, r := range ranked {
		o := byUser[r.UserID]
		o.Rank = r.Rank
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
