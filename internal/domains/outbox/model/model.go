package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "outbox_events"
	EntityName = "outbox_event"

	FieldID          = "id"
	FieldAggregateID = "aggregate_id"
	FieldEventType   = "event_type"
	FieldPayload     = "payload"
	FieldStatus      = "status"
	FieldAttempts    = "attempts"
	FieldCreatedAt   = "created_at"
	FieldModifiedAt  = "modified_at"
)

const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
)

type Event struct {
	ID          string         `db:"id"`
	AggregateID string         `db:"aggregate_id"`
	EventType   string         `db:"event_type"`
	Payload     types.JSONText `db:"payload"`
	Status      string         `db:"status"`
	Attempts    int            `db:"attempts"`
	CreatedAt   time.Time      `db:"created_at"`
	ModifiedAt  time.Time      `db:"modified_at"`
}

// NewEvent builds a pending event for aggregateID with payload encoded as JSON.
func NewEvent(aggregateID, eventType string, payload any, now time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return Event{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     types.JSONText(raw),
		Status:      StatusNew,
		CreatedAt:   now,
		ModifiedAt:  now,
	}, nil
}

// Message is the envelope written to the booking events topic.
type Message struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

func (e Event) Message() Message {
	return Message{
		ID:          e.ID,
		Type:        e.EventType,
		AggregateID: e.AggregateID,
		OccurredAt:  e.CreatedAt.UTC(),
		Payload:     json.RawMessage(e.Payload),
	}
}
