package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"resort/config"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writerMaxAttempts = 5
	writerTimeout     = 10 * time.Second
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Producer writes keyed messages to one topic. Messages sharing a key land on the same
// partition, so events of one booking stay ordered.
type Producer interface {
	SendMessages(ctx context.Context, messages ...Message) error
	Topic() string
	Close() error
}

type producerImpl struct {
	writer *kafkaGo.Writer
}

func NewProducer(config *config.Config) Producer {
	transport := &kafkaGo.Transport{}

	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Topic:                  config.Kafka.Topics.BookingEvents,
		Balancer:               &kafkaGo.Hash{},
		Transport:              transport,
		MaxAttempts:            writerMaxAttempts,
		ReadTimeout:            writerTimeout,
		WriteTimeout:           writerTimeout,
		RequiredAcks:           kafkaGo.RequireAll,
		AllowAutoTopicCreation: true,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Str("topic", writer.Topic).Msg("Kafka producer initialized")

	return &producerImpl{writer: writer}
}

func (p *producerImpl) SendMessages(ctx context.Context, messages ...Message) error {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", p.writer.Topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

func (p *producerImpl) Topic() string {
	return p.writer.Topic
}

func (p *producerImpl) Close() error {
	return p.writer.Close() //nolint:wrapcheck
}
