package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const (
	serviceName = "river"
	queueName   = "round"
)

// Service schedules round boundary jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewService creates a River client on its own pgx pool. River requires pgx, not
// database/sql, so it does not share the bun connection.
func NewService(ctx context.Context, dsn string, logger *slog.Logger, recorder metrics.Recorder, publisher message.Publisher, helpers utils.Helpers) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	recorder.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		recorder.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		recorder.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		recorder.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewActivateRoundWorker(ctxLogger, publisher, helpers))
	river.AddWorker(workers, NewCloseRoundWorker(ctxLogger, publisher, helpers))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			queueName:          {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		recorder.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	recorder.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	recorder.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.Info("Round queue service initialized")

	return &Service{
		client:  client,
		pool:    pool,
		logger:  ctxLogger,
		metrics: recorder,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Round queue service started")
	return nil
}

// Stop waits for running jobs and releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Round queue service stopped")
	return nil
}

// ScheduleRound enqueues the activation and close jobs of a round. Jobs are unique by
// arguments, so scheduling the same round twice is harmless.
func (s *Service) ScheduleRound(ctx context.Context, roundID uuid.UUID, startAt, endAt time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_round", serviceName)

	opts := func(at time.Time) *river.InsertOpts {
		return &river.InsertOpts{
			Queue:       queueName,
			ScheduledAt: at,
			UniqueOpts:  river.UniqueOpts{ByArgs: true},
		}
	}

	_, err := s.client.InsertMany(ctx, []river.InsertManyParams{
		{Args: ActivateRoundJob{RoundID: roundID}, InsertOpts: opts(startAt)},
		{Args: CloseRoundJob{RoundID: roundID}, InsertOpts: opts(endAt)},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "schedule_round", serviceName)
		return fmt.Errorf("failed to schedule round jobs: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_round", serviceName)
	s.metrics.RecordOperationDuration(ctx, "schedule_round", serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Round jobs scheduled",
		attr.StringUUID("round_id", roundID.String()),
		attr.Time("start_at", startAt),
		attr.Time("end_at", endAt),
	)
	return nil
}

// HealthCheck verifies the queue database is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
