package dto

import (
	"resort/internal/domains/payment/model"
	"resort/internal/domains/pricing"
	"resort/internal/domains/resort"
	gDto "resort/shared/dto"
)

type CheckoutResponse struct {
	PaymentID   string        `json:"paymentId"`
	CheckoutURL string        `json:"checkoutUrl"`
	Provider    string        `json:"provider"`
	Pricing     pricing.Quote `json:"pricing"`
}

type PaymentResponse struct {
	ID          string       `json:"id"`
	Provider    string       `json:"provider"`
	Status      string       `json:"status"`
	Amount      resort.Money `json:"amount"`
	Currency    string       `json:"currency"`
	BookingID   string       `json:"bookingId,omitempty"`
	CheckoutURL string       `json:"checkoutUrl,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.Provider = model.Provider
	r.Status = model.Status
	r.Amount = model.Amount
	r.Currency = model.Currency
	r.BookingID = model.BookingID
	r.CheckoutURL = model.CheckoutURL
	r.Metadata.FromModel(model.Metadata)
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
