package service_test

import (
	"context"
	"errors"
	"resort/config"
	"resort/infras/kafka"
	kafkaMocks "resort/infras/kafka/mocks"
	otelMocks "resort/infras/otel/mocks"
	outboxMocks "resort/internal/domains/outbox/mocks"
	"resort/internal/domains/outbox/model"
	"resort/internal/domains/outbox/service"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func event(t *testing.T, id, bookingID string) model.Event {
	t.Helper()

	e, err := model.NewEvent(bookingID, "booking.created", map[string]any{"bookingId": bookingID}, time.Now())
	require.NoError(t, err)

	e.ID = id

	return e
}

func newRelay(t *testing.T) (service.Relay, *outboxMocks.MockOutbox, *kafkaMocks.MockProducer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := outboxMocks.NewMockOutbox(ctrl)
	producer := kafkaMocks.NewMockProducer(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Relay.BatchSize = 2

	return service.NewRelay(repo, producer, cfg, otelMocks.NewOtel()), repo, producer
}

func TestRelay_ProcessBatch(t *testing.T) {
	relay, repo, producer := newRelay(t)

	repo.EXPECT().FetchBatch(gomock.Any(), 2).Return([]model.Event{event(t, "e1", "b1"), event(t, "e2", "b2")}, nil)
	producer.EXPECT().SendMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages ...kafka.Message) error {
			require.Len(t, messages, 1)

			if messages[0].Key == "b2" {
				return errors.New("leader not available")
			}

			envelope, ok := messages[0].Value.(model.Message)
			require.True(t, ok)
			assert.Equal(t, "booking.created", envelope.Type)
			assert.Equal(t, "b1", envelope.AggregateID)

			return nil
		}).
		Times(2)
	repo.EXPECT().MarkProcessed(gomock.Any(), []string{"e1"}).Return(nil)
	repo.EXPECT().MarkFailed(gomock.Any(), []string{"e2"}).Return(nil)

	published, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}

func TestRelay_ProcessBatchEmpty(t *testing.T) {
	relay, repo, _ := newRelay(t)

	repo.EXPECT().FetchBatch(gomock.Any(), 2).Return(nil, nil)

	published, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
}

func TestRelay_ProcessBatchFetchError(t *testing.T) {
	relay, repo, _ := newRelay(t)

	repo.EXPECT().FetchBatch(gomock.Any(), 2).Return(nil, errors.New("connection refused"))

	_, err := relay.ProcessBatch(context.Background())
	require.Error(t, err)
}

func TestRelay_ProcessBatchMarksAfterCancel(t *testing.T) {
	relay, repo, producer := newRelay(t)

	ctx, cancel := context.WithCancel(context.Background())

	repo.EXPECT().FetchBatch(gomock.Any(), 2).Return([]model.Event{event(t, "e1", "b1"), event(t, "e2", "b2")}, nil)
	producer.EXPECT().SendMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages ...kafka.Message) error {
			if messages[0].Key == "b2" {
				cancel()

				return context.Canceled
			}

			return nil
		}).
		Times(2)
	repo.EXPECT().MarkProcessed(gomock.Any(), []string{"e1"}).
		DoAndReturn(func(ctx context.Context, _ []string) error {
			return ctx.Err()
		})
	repo.EXPECT().MarkFailed(gomock.Any(), []string{"e2"}).
		DoAndReturn(func(ctx context.Context, _ []string) error {
			return ctx.Err()
		})

	published, err := relay.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}

func TestRelay_ProcessBatchMarkProcessedError(t *testing.T) {
	relay, repo, producer := newRelay(t)

	repo.EXPECT().FetchBatch(gomock.Any(), 2).Return([]model.Event{event(t, "e1", "b1"), event(t, "e2", "b2")}, nil)
	producer.EXPECT().SendMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages ...kafka.Message) error {
			if messages[0].Key == "b2" {
				return errors.New("leader not available")
			}

			return nil
		}).
		Times(2)
	repo.EXPECT().MarkProcessed(gomock.Any(), []string{"e1"}).Return(errors.New("connection reset"))
	repo.EXPECT().MarkFailed(gomock.Any(), []string{"e2"}).Return(nil)

	_, err := relay.ProcessBatch(context.Background())
	require.EqualError(t, err, "connection reset")
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	relay, _, producer := newRelay(t)

	producer.EXPECT().Topic().Return("resort.booking-events")
	producer.EXPECT().Close().Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, relay.Run(ctx))
}
