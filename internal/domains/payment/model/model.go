package model

import (
	"encoding/json"
	"fmt"
	"resort/internal/domains/resort"
	"resort/shared/model"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID                = "id"
	FieldProvider          = "provider"
	FieldProviderSessionID = "provider_session_id"
	FieldStatus            = "status"
	FieldAmount            = "amount"
	FieldCurrency          = "currency"
	FieldDraft             = "draft"
	FieldBookingID         = "booking_id"
	FieldCheckoutURL       = "checkout_url"
)

// Payment statuses. A payment moves pending -> paid -> committed, or ends in failed or conflict.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCommitted = "committed"
	StatusConflict  = "conflict"
	StatusFailed    = "failed"
)

type Payment struct {
	ID                string         `db:"id"`
	Provider          string         `db:"provider"`
	ProviderSessionID string         `db:"provider_session_id"`
	Status            string         `db:"status"`
	Amount            resort.Money   `db:"amount"`
	Currency          string         `db:"currency"`
	Draft             types.JSONText `db:"draft"`
	BookingID         string         `db:"booking_id"`
	CheckoutURL       string         `db:"checkout_url"`
	model.Metadata
}

// EncodeDraft stores v as the booking draft carried by the payment.
func (p *Payment) EncodeDraft(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode booking draft: %w", err)
	}

	p.Draft = types.JSONText(raw)

	return nil
}

// DecodeDraft reads the booking draft back into v.
func (p Payment) DecodeDraft(v any) error {
	if len(p.Draft) == 0 {
		return fmt.Errorf("payment %s carries no booking draft", p.ID)
	}

	if err := p.Draft.Unmarshal(v); err != nil {
		return fmt.Errorf("failed to decode booking draft: %w", err)
	}

	return nil
}

func (p Payment) IsPaid() bool {
	return p.Status == StatusPaid
}

func (p Payment) IsCommitted() bool {
	return p.Status == StatusCommitted && p.BookingID != ""
}
