package weighinhandlers

import (
	"context"
	"sync"

	weighinservice "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/application"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type FakeService struct {
	trace []string

	SubmitWeighInFunc  func(ctx context.Context, req weighinservice.SubmitRequest) (weighinservice.SubmitResult, error)
	ListMyWeighInsFunc func(ctx context.Context, gameID uuid.UUID, userID string) (weighinservice.ListResult, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return append([]string(nil), f.trace...) }

func (f *FakeService) SubmitWeighIn(ctx context.Context, req weighinservice.SubmitRequest) (weighinservice.SubmitResult, error) {
	f.record("SubmitWeighIn")
	if f.SubmitWeighInFunc != nil {
		return f.SubmitWeighInFunc(ctx, req)
	}
	return weighinservice.SubmitResult{}, nil
}

func (f *FakeService) ListMyWeighIns(ctx context.Context, gameID uuid.UUID, userID string) (weighinservice.ListResult, error) {
	f.record("ListMyWeighIns")
	if f.ListMyWeighInsFunc != nil {
		return f.ListMyWeighInsFunc(ctx, gameID, userID)
	}
	return weighinservice.ListResult{}, nil
}

var _ weighinservice.Service = (*FakeService)(nil)

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
