package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nats-io/nats.go/jetstream"
)

// streamConfigs lists the JetStream streams backing every topic family.
var streamConfigs = []jetstream.StreamConfig{
	{Name: "round", Subjects: []string{"round.>"}},
	{Name: "weighin", Subjects: []string{"weighin.>"}},
	{Name: "game", Subjects: []string{"game.>"}},
	{Name: "calorie", Subjects: []string{"calorie.>"}},
}

// InitializeStreams creates the JetStream streams, adding missing subjects to streams
// that already exist.
func InitializeStreams(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	for _, cfg := range streamConfigs {
		stream, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				logger.ErrorContext(ctx, "Failed to create JetStream stream", slog.String("stream", cfg.Name), slog.Any("error", err))
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.InfoContext(ctx, "Created JetStream stream", slog.String("stream", cfg.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}

		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info %s: %w", cfg.Name, err)
		}
		missing := false
		for _, subject := range cfg.Subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if missing {
			if _, err := js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
			}
			logger.InfoContext(ctx, "Updated JetStream stream subjects", slog.String("stream", cfg.Name))
		}
	}
	return nil
}
