package gamehandlers

import (
	"context"
	"sync"

	gameservice "github.com/Black-And-White-Club/weighin-league/app/modules/game/application"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

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

type FakeService struct {
	trace []string

	CreateGameFunc         func(ctx context.Context, req gameservice.CreateGameRequest) (gameservice.GameResult, error)
	UpdateGameSettingsFunc func(ctx context.Context, gameID uuid.UUID, req gameservice.UpdateSettingsRequest) (gameservice.GameResult, error)
	GetGameFunc            func(ctx context.Context, gameID uuid.UUID) (gameservice.GameResult, error)
	ListGamesForUserFunc   func(ctx context.Context, userID string) (gameservice.GameListResult, error)
	JoinGameFunc           func(ctx context.Context, gameID uuid.UUID, userID string) (gameservice.MembershipResult, error)
	LeaveGameFunc          func(ctx context.Context, gameID uuid.UUID, userID string) (gameservice.MembershipResult, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return append([]string(nil), f.trace...) }

func (f *FakeService) CreateGame(ctx context.Context, req gameservice.CreateGameRequest) (gameservice.GameResult, error) {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, req)
	}
	return gameservice.GameResult{}, nil
}

func (f *FakeService) UpdateGameSettings(ctx context.Context, gameID uuid.UUID, req gameservice.UpdateSettingsRequest) (gameservice.GameResult, error) {
	f.record("UpdateGameSettings")
	if f.UpdateGameSettingsFunc != nil {
		return f.UpdateGameSettingsFunc(ctx, gameID, req)
	}
	return gameservice.GameResult{}, nil
}

func (f *FakeService) GetGame(ctx context.Context, gameID uuid.UUID) (gameservice.GameResult, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, gameID)
	}
	return gameservice.GameResult{}, nil
}

func (f *FakeService) ListGamesForUser(ctx context.Context, userID string) (gameservice.GameListResult, error) {
	f.record("ListGamesForUser")
	if f.ListGamesForUserFunc != nil {
		return f.ListGamesForUserFunc(ctx, userID)
	}
	return gameservice.GameListResult{}, nil
}

func (f *FakeService) JoinGame(ctx context.Context, gameID uuid.UUID, userID string) (gameservice.MembershipResult, error) {
	f.record("JoinGame")
	if f.JoinGameFunc != nil {
		return f.JoinGameFunc(ctx, gameID, userID)
	}
	return gameservice.MembershipResult{}, nil
}

func (f *FakeService) LeaveGame(ctx context.Context, gameID uuid.UUID, userID string) (gameservice.MembershipResult, error) {
	f.record("LeaveGame")
	if f.LeaveGameFunc != nil {
		return f.LeaveGameFunc(ctx, gameID, userID)
	}
	return gameservice.MembershipResult{}, nil
}

var _ gameservice.Service = (*FakeService)(nil)
