package service

import (
	"context"
	"resort/config"
	"resort/infras/kafka"
	"resort/infras/metrics"
	"resort/infras/otel"
	"resort/internal/domains/outbox/repository"
	"resort/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBatchSize = 10
	defaultInterval  = 2 * time.Second
	sendTimeout      = 5 * time.Second
)

// Relay publishes booking events written to the outbox to Kafka.
type Relay interface {
	Run(ctx context.Context) error
	ProcessBatch(ctx context.Context) (int, error)
}

type relayImpl struct {
	repo     repository.Outbox
	producer kafka.Producer
	cfg      *config.Config
	otel     otel.Otel
}

func NewRelay(repo repository.Outbox, producer kafka.Producer, cfg *config.Config, otel otel.Otel) Relay {
	return &relayImpl{
		repo:     repo,
		producer: producer,
		cfg:      cfg,
		otel:     otel,
	}
}

// Run polls the outbox until ctx is cancelled, then closes the producer.
func (r *relayImpl) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()

	log.Info().Str("topic", r.producer.Topic()).Dur("interval", r.interval()).Msg("Outbox relay started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Outbox relay stopped")

			return r.producer.Close() //nolint:wrapcheck
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process outbox batch")
			}
		}
	}
}

// ProcessBatch claims one batch, publishes it and reports how many events were published.
// Events that fail to publish are returned to the outbox.
func (r *relayImpl) ProcessBatch(ctx context.Context) (published int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".outbox.ProcessBatch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	events, err := r.repo.FetchBatch(ctx, r.batchSize())
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	if len(events) == 0 {
		return 0, nil
	}

	var processed, failed []string

	for _, event := range events {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := r.producer.SendMessages(sendCtx, kafka.Message{Key: event.AggregateID, Value: event.Message()})
		cancel()

		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Int("attempts", event.Attempts).Msg("failed to publish booking event")
			metrics.OutboxPublishErrors.Inc()

			failed = append(failed, event.ID)

			continue
		}

		metrics.OutboxPublished.Inc()

		processed = append(processed, event.ID)
	}

	// Published events must be recorded even when the poll was cancelled mid batch.
	markCtx := context.WithoutCancel(ctx)

	if err = r.repo.MarkProcessed(markCtx, processed); err != nil {
		r.markFailed(markCtx, failed)

		return 0, err //nolint:wrapcheck
	}

	r.markFailed(markCtx, failed)

	scope.SetAttributes(map[string]any{
		"outbox.published": len(processed),
		"outbox.failed":    len(failed),
	})

	return len(processed), nil
}

func (r *relayImpl) markFailed(ctx context.Context, ids []string) {
	if err := r.repo.MarkFailed(ctx, ids); err != nil {
		log.Error().Err(err).Int("events", len(ids)).Msg("failed to return events to the outbox")
	}
}

func (r *relayImpl) batchSize() int {
	if r.cfg.Kafka.Relay.BatchSize > 0 {
		return r.cfg.Kafka.Relay.BatchSize
	}

	return defaultBatchSize
}

func (r *relayImpl) interval() time.Duration {
	if r.cfg.Kafka.Relay.IntervalSeconds > 0 {
		return time.Duration(r.cfg.Kafka.Relay.IntervalSeconds) * time.Second
	}

	return defaultInterval
}
