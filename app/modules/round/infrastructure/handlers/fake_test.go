package roundhandlers

import (
	"context"
	"sync"
	"time"

	roundservice "github.com/Black-And-White-Club/weighin-league/app/modules/round/application"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type FakeService struct {
	trace []string

	CreateRoundFunc        func(ctx context.Context, req roundservice.CreateRoundRequest) (roundservice.RoundResult, error)
	GetRoundFunc           func(ctx context.Context, roundID uuid.UUID, viewerID string) (roundservice.RoundResult, error)
	ListRoundsFunc         func(ctx context.Context, gameID uuid.UUID, viewerID string) (roundservice.RoundListResult, error)
	ActivateRoundFunc      func(ctx context.Context, roundID uuid.UUID) (roundservice.TransitionResult, error)
	CloseRoundFunc         func(ctx context.Context, roundID uuid.UUID) (roundservice.TransitionResult, error)
	SweepOverdueRoundsFunc func(ctx context.Context, now time.Time) (roundservice.SweepResult, error)
	SettleRoundFunc        func(ctx context.Context, roundID uuid.UUID) (roundservice.SettlementResult, error)
	RecomputeRoundFunc     func(ctx context.Context, roundID uuid.UUID) (roundservice.SettlementResult, error)
	GetRoundResultsFunc    func(ctx context.Context, roundID uuid.UUID, viewerID string) (roundservice.RoundResultsResult, error)
	ExportRoundResultsFunc func(ctx context.Context, roundID uuid.UUID, format string) (roundservice.ExportResult, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return append([]string(nil), f.trace...) }

func (f *FakeService) CreateRound(ctx context.Context, req roundservice.CreateRoundRequest) (roundservice.RoundResult, error) {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, req)
	}
	return roundservice.RoundResult{}, nil
}

func (f *FakeService) GetRound(ctx context.Context, roundID uuid.UUID, viewerID string) (roundservice.RoundResult, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, roundID, viewerID)
	}
	return roundservice.RoundResult{}, nil
}

func (f *FakeService) ListRounds(ctx context.Context, gameID uuid.UUID, viewerID string) (roundservice.RoundListResult, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, gameID, viewerID)
	}
	return roundservice.RoundListResult{}, nil
}

func (f *FakeService) ActivateRound(ctx context.Context, roundID uuid.UUID) (roundservice.TransitionResult, error) {
	f.record("ActivateRound")
	if f.ActivateRoundFunc != nil {
		return f.ActivateRoundFunc(ctx, roundID)
	}
	return roundservice.TransitionResult{}, nil
}

func (f *FakeService) CloseRound(ctx context.Context, roundID uuid.UUID) (roundservice.TransitionResult, error) {
	f.record("CloseRound")
	if f.CloseRoundFunc != nil {
		return f.CloseRoundFunc(ctx, roundID)
	}
	return roundservice.TransitionResult{}, nil
}

func (f *FakeService) SweepOverdueRounds(ctx context.Context, now time.Time) (roundservice.SweepResult, error) {
	f.record("SweepOverdueRounds")
	if f.SweepOverdueRoundsFunc != nil {
		return f.SweepOverdueRoundsFunc(ctx, now)
	}
	return roundservice.SweepResult{}, nil
}

func (f *FakeService) SettleRound(ctx context.Context, roundID uuid.UUID) (roundservice.SettlementResult, error) {
	f.record("SettleRound")
	if f.SettleRoundFunc != nil {
		return f.SettleRoundFunc(ctx, roundID)
	}
	return roundservice.SettlementResult{}, nil
}

func (f *FakeService) RecomputeRound(ctx context.Context, roundID uuid.UUID) (roundservice.SettlementResult, error) {
	f.record("RecomputeRound")
	if f.RecomputeRoundFunc != nil {
		return f.RecomputeRoundFunc(ctx, roundID)
	}
	return roundservice.SettlementResult{}, nil
}

func (f *FakeService) GetRoundResults(ctx context.Context, roundID uuid.UUID, viewerID string) (roundservice.RoundResultsResult, error) {
	f.record("GetRoundResults")
	if f.GetRoundResultsFunc != nil {
		return f.GetRoundResultsFunc(ctx, roundID, viewerID)
	}
	return roundservice.RoundResultsResult{}, nil
}

func (f *FakeService) ExportRoundResults(ctx context.Context, roundID uuid.UUID, format string) (roundservice.ExportResult, error) {
	f.record("ExportRoundResults")
	if f.ExportRoundResultsFunc != nil {
		return f.ExportRoundResultsFunc(ctx, roundID, format)
	}
	return roundservice.ExportResult{}, nil
}

var _ roundservice.Service = (*FakeService)(nil)

// FakePublisher records published messages.
type FakePublisher struct {
	mu       sync.Mutex
	Err      error
	Messages map[string][]*message.Message
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	if p.Messages == nil {
		p.Messages = map[string][]*message.Message{}
	}
	p.Messages[topic] = append(p.Messages[topic], msgs...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }
