// Package events holds the topics and payloads exchanged between modules.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RoundActivateRequestedV1 asks the round module to move a round to ACTIVE.
	RoundActivateRequestedV1 = "round.activate.requested.v1"
	// RoundCloseRequestedV1 asks the round module to close a round.
	RoundCloseRequestedV1 = "round.close.requested.v1"
	// RoundClosedV1 is published once a round reaches CLOSED.
	RoundClosedV1 = "round.closed.v1"
	// RoundSettledV1 is published after results for a round were committed.
	RoundSettledV1 = "round.settled.v1"
	// RoundSettlementFailedV1 reports a settlement that was rejected.
	RoundSettlementFailedV1 = "round.settlement.failed.v1"
	// WeighInSubmittedV1 is published after a weigh-in was created or edited.
	WeighInSubmittedV1 = "weighin.submitted.v1"
	// GameMembershipChangedV1 is published after a member joined or left a game.
	GameMembershipChangedV1 = "game.membership.changed.v1"
	// CalorieDayUpdatedV1 is published after a member's calorie day changed.
	CalorieDayUpdatedV1 = "calorie.day.updated.v1"
)

// Topics lists every topic above.
var Topics = []string{
	RoundActivateRequestedV1,
	RoundCloseRequestedV1,
	RoundClosedV1,
	RoundSettledV1,
	RoundSettlementFailedV1,
	WeighInSubmittedV1,
	GameMembershipChangedV1,
	CalorieDayUpdatedV1,
}

// RoundRequestedPayloadV1 is the body of the activate and close requests.
type RoundRequestedPayloadV1 struct {
	RoundID uuid.UUID `json:"round_id"`
}

type RoundClosedPayloadV1 struct {
	GameID   uuid.UUID `json:"game_id"`
	RoundID  uuid.UUID `json:"round_id"`
	ClosedAt time.Time `json:"closed_at"`
}

type RoundSettledPayloadV1 struct {
	GameID     uuid.UUID `json:"game_id"`
	RoundID    uuid.UUID `json:"round_id"`
	Results    int       `json:"results"`
	Suspicious int       `json:"suspicious"`
	SettledAt  time.Time `json:"settled_at"`
}

type RoundSettlementFailedPayloadV1 struct {
	RoundID uuid.UUID `json:"round_id"`
	Reason  string    `json:"reason"`
}

type WeighInSubmittedPayloadV1 struct {
	GameID     uuid.UUID `json:"game_id"`
	RoundID    uuid.UUID `json:"round_id"`
	UserID     string    `json:"user_id"`
	Edited     bool      `json:"edited"`
	Suspicious bool      `json:"suspicious"`
}

type GameMembershipChangedPayloadV1 struct {
	GameID uuid.UUID `json:"game_id"`
	UserID string    `json:"user_id"`
	Active bool      `json:"active"`
}

type CalorieDayUpdatedPayloadV1 struct {
	UserID  string    `json:"user_id"`
	Day     time.Time `json:"day"`
	Tracked bool      `json:"tracked"`
}
