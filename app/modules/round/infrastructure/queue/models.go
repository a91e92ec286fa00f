package roundqueue

import (
	"github.com/google/uuid"
)

// ActivateRoundJob fires at a round's start and requests its activation.
type ActivateRoundJob struct {
	RoundID uuid.UUID `json:"round_id"`
}

// Kind returns the job type identifier for River
func (ActivateRoundJob) Kind() string { return "round_activate" }

// CloseRoundJob fires at a round's end and requests its close.
type CloseRoundJob struct {
	RoundID uuid.UUID `json:"round_id"`
}

// Kind returns the job type identifier for River
func (CloseRoundJob) Kind() string { return "round_close" }
