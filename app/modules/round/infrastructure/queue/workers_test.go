package roundqueue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	err    error
	topics []string
	msgs   []*message.Message
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestWorkersPublishRequests(t *testing.T) {
	roundID := uuid.New()

	tests := []struct {
		name      string
		work      func(pub message.Publisher) error
		wantTopic string
	}{
		{
			name: "activate",
			work: func(pub message.Publisher) error {
				return NewActivateRoundWorker(slog.Default(), pub, utils.NewHelper(slog.Default())).Work(context.Background(), &river.Job[ActivateRoundJob]{Args: ActivateRoundJob{RoundID: roundID}})
			},
			wantTopic: events.RoundActivateRequestedV1,
		},
		{
			name: "close",
			work: func(pub message.Publisher) error {
				return NewCloseRoundWorker(slog.Default(), pub, utils.NewHelper(slog.Default())).Work(context.Background(), &river.Job[CloseRoundJob]{Args: CloseRoundJob{RoundID: roundID}})
			},
			wantTopic: events.RoundCloseRequestedV1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			require.NoError(t, tt.work(pub))

			require.Equal(t, []string{tt.wantTopic}, pub.topics)
			assert.Equal(t, tt.wantTopic, pub.msgs[0].Metadata.Get(eventbus.TopicMetadataKey))

			var payload events.RoundRequestedPayloadV1
			require.NoError(t, json.Unmarshal(pub.msgs[0].Payload, &payload))
			assert.Equal(t, roundID, payload.RoundID)
		})
	}
}

func TestWorkerPublishFailureIsRetried(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	err := NewCloseRoundWorker(slog.Default(), pub, utils.NewHelper(slog.Default())).Work(context.Background(), &river.Job[CloseRoundJob]{Args: CloseRoundJob{RoundID: uuid.New()}})
	assert.Error(t, err)
}

func TestJobKinds(t *testing.T) {
	assert.Equal(t, "round_activate", ActivateRoundJob{}.Kind())
	assert.Equal(t, "round_close", CloseRoundJob{}.Kind())
}
