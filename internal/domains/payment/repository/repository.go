package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/payment/model"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	gRepo "resort/shared/repository"
	"resort/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Payment interface {
	Insert(ctx context.Context, payment model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
	// MarkCommittedTx links the payment to its booking inside the booking transaction.
	MarkCommittedTx(ctx context.Context, tx *sqlx.Tx, id, bookingID string) error
	// Transition moves the payment to status when it is currently in one of from.
	// It reports false when the payment was in any other state.
	Transition(ctx context.Context, id string, to string, from ...string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) MarkCommittedTx(ctx context.Context, tx *sqlx.Tx, id, bookingID string) error {
	fields := map[string]any{
		model.FieldStatus:        model.StatusCommitted,
		model.FieldBookingID:     bookingID,
		constant.FieldModifiedAt: timezone.Now(),
	}

	return r.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) Transition(ctx context.Context, id string, to string, from ...string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.Transition")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"payment.id": id,
		"status.to":  to,
	})

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  "from_status",
		Field:    model.FieldStatus,
		Operator: gDto.FilterOperatorIn,
		Value:    from,
		Table:    model.TableName,
	})

	fields := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
	}

	affected, err := r.UpdateAffected(ctx, fields, filter)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to move payment %s to %s: %w", id, to, err)
	}

	return affected > 0, nil
}
