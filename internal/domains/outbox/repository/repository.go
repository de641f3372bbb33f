package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/outbox/model"
	"resort/shared/constant"
	"resort/shared/logger"
	gRepo "resort/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	queryFetchBatch = `WITH claimed AS (
		SELECT id FROM outbox_events
		WHERE status = 'new'
			OR (status = 'processing' AND modified_at < NOW() - $2 * INTERVAL '1 second')
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	)
	UPDATE outbox_events
	SET status = 'processing', attempts = attempts + 1, modified_at = NOW()
	WHERE id IN (SELECT id FROM claimed)
	RETURNING id, aggregate_id, event_type, payload, status, attempts, created_at, modified_at`

	queryMarkProcessed = `UPDATE outbox_events SET status = 'processed', modified_at = NOW() WHERE id = ANY($1)`

	queryMarkFailed = `UPDATE outbox_events SET status = 'new', modified_at = NOW() WHERE id = ANY($1)`

	// ClaimLeaseSeconds is how long a claimed event may stay in processing before another
	// poll takes it over, e.g. after a relay crashed between claim and mark.
	ClaimLeaseSeconds = 300
)

type Outbox interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, event model.Event) error
	// FetchBatch claims up to limit new events, plus events whose claim outlived
	// ClaimLeaseSeconds. Concurrent relays never claim the same event.
	FetchBatch(ctx context.Context, limit int) ([]model.Event, error)
	MarkProcessed(ctx context.Context, ids []string) error
	// MarkFailed hands events back to the queue for the next poll.
	MarkFailed(ctx context.Context, ids []string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Event]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Outbox {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Event](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) FetchBatch(ctx context.Context, limit int) ([]model.Event, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.FetchBatch")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryFetchBatch)

	var events []model.Event
	if err := r.db.Write.SelectContext(ctx, &events, queryFetchBatch, limit, ClaimLeaseSeconds); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to claim outbox events: %w", err)
	}

	return events, nil
}

func (r *repositoryImpl) MarkProcessed(ctx context.Context, ids []string) error {
	return r.mark(ctx, "MarkProcessed", queryMarkProcessed, ids)
}

func (r *repositoryImpl) MarkFailed(ctx context.Context, ids []string) error {
	return r.mark(ctx, "MarkFailed", queryMarkFailed, ids)
}

func (r *repositoryImpl) mark(ctx context.Context, name, query string, ids []string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox."+name)
	defer scope.End()

	if len(ids) == 0 {
		return nil
	}

	if _, err := r.db.Write.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update %d outbox events: %w", len(ids), err)
	}

	return nil
}
