package leaderboarddomain

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Standing is one member's score tuple, either for a single round or summed over a game.
type Standing struct {
	UserID             string
	TotalPoints        int
	TotalPercentCapped decimal.Decimal
	// Streak is an activity streak maintained outside the scoring engine.
	Streak int
	// FirstSubmission is the earliest weigh-in time. Zero means the member never submitted
	// and sorts after every member who did.
	FirstSubmission time.Time
}

// TotalScore is points plus capped percentage, summed as one composite metric.
func (s Standing) TotalScore() decimal.Decimal {
	return decimal.NewFromInt(int64(s.TotalPoints)).Add(s.TotalPercentCapped)
}

// RankedStanding is a Standing with its 1-based position.
type RankedStanding struct {
	Standing
	Rank int
}

// Compare orders a before b when it should rank higher:
// total score desc, capped percent desc, streak desc, first submission asc.
// User id is the last resort so the order is total even on identical tuples.
func Compare(a, b Standing) int {
	if c := b.TotalScore().Cmp(a.TotalScore()); c != 0 {
		return c
	}
	if c := b.TotalPercentCapped.Cmp(a.TotalPercentCapped); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Streak, a.Streak); c != 0 {
		return c
	}
	if c := compareSubmission(a.FirstSubmission, b.FirstSubmission); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}

func compareSubmission(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	default:
		return a.Compare(b)
	}
}

// Order ranks standings densely from 1 to N. The input is not modified.
func Order(standings []Standing) []RankedStanding {
	if len(standings) == 0 {
		return nil
	}

	sorted := slices.Clone(standings)
	slices.SortFunc(sorted, Compare)

	ranked := make([]RankedStanding, len(sorted))
	for i, s := range sorted {
		ranked[i] = RankedStanding{Standing: s, Rank: i + 1}
	}
	return ranked
}

// RankIndex maps user id to rank.
func RankIndex(ranked []RankedStanding) map[string]int {
	idx := make(map[string]int, len(ranked))
	for _, r := range ranked {
		idx[r.UserID] = r.Rank
	}
	return idx
}
