package caloriehandlers

import (
	"context"
	"sync"
	"time"

	calorieservice "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/application"
	"github.com/ThreeDotsLabs/watermill/message"
)

// FakeService implements calorieservice.Service with programmable responses.
type FakeService struct {
	SetDayFunc     func(ctx context.Context, req calorieservice.DayRequest) (calorieservice.DayResult, error)
	AddEntryFunc   func(ctx context.Context, req calorieservice.EntryRequest) (calorieservice.EntryResult, error)
	GetDayFunc     func(ctx context.Context, userID string, day time.Time) (calorieservice.DayLogResult, error)
	SetPrivacyFunc func(ctx context.Context, userID, mode string) (calorieservice.PrivacyResult, error)
}

func (f *FakeService) SetDay(ctx context.Context, req calorieservice.DayRequest) (calorieservice.DayResult, error) {
	if f.SetDayFunc != nil {
		return f.SetDayFunc(ctx, req)
	}
	return calorieservice.DayResult{}, nil
}

func (f *FakeService) AddEntry(ctx context.Context, req calorieservice.EntryRequest) (calorieservice.EntryResult, error) {
	if f.AddEntryFunc != nil {
		return f.AddEntryFunc(ctx, req)
	}
	return calorieservice.EntryResult{}, nil
}

func (f *FakeService) GetDay(ctx context.Context, userID string, day time.Time) (calorieservice.DayLogResult, error) {
	if f.GetDayFunc != nil {
		return f.GetDayFunc(ctx, userID, day)
	}
	return calorieservice.DayLogResult{}, nil
}

func (f *FakeService) SetPrivacy(ctx context.Context, userID, mode string) (calorieservice.PrivacyResult, error) {
	if f.SetPrivacyFunc != nil {
		return f.SetPrivacyFunc(ctx, userID, mode)
	}
	return calorieservice.PrivacyResult{}, nil
}

var _ calorieservice.Service = (*FakeService)(nil)

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
