// Package failure carries the HTTP status and a machine readable reason with an error,
// so handlers can answer without knowing where the error came from.
package failure

import (
	"errors"
	"net/http"
)

// Reasons let clients tell apart failures that share an HTTP status.
const (
	ReasonValidation           = "VALIDATION"
	ReasonNoAvailability       = "NO_AVAILABILITY"
	ReasonRoomConflictAtCommit = "ROOM_CONFLICT_AT_COMMIT"
	ReasonUpstreamPayment      = "UPSTREAM_PAYMENT"
	ReasonPaymentRequired      = "PAYMENT_REQUIRED"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, reason, message string) error {
	return &Failure{Code: code, Message: message, Reason: reason}
}

// wrap keeps nil errors nil so callers can write return failure.X(err) unconditionally.
func wrap(err error, code int, reason string) error {
	if err == nil {
		return nil
	}

	return newFailure(code, reason, err.Error())
}

func BadRequest(err error) error {
	return wrap(err, http.StatusBadRequest, ReasonValidation)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, ReasonValidation, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, "", msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, "", msg)
}

// Conflict is a generic conflict, e.g. a duplicate email. Stay conflicts use
// NoAvailability or RoomConflictAtCommit.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, "", msg)
}

// NoAvailability means the requested stay has no free room.
func NoAvailability(msg string) error {
	return newFailure(http.StatusConflict, ReasonNoAvailability, msg)
}

// RoomConflictAtCommit means the room was taken between quote and commit. Clients re-quote.
func RoomConflictAtCommit(msg string) error {
	return newFailure(http.StatusConflict, ReasonRoomConflictAtCommit, msg)
}

// PaymentRequired means a commit was attempted without a confirmed payment.
func PaymentRequired(msg string) error {
	return newFailure(http.StatusPaymentRequired, ReasonPaymentRequired, msg)
}

// UpstreamPayment wraps failures of the payment gateway.
func UpstreamPayment(err error) error {
	return wrap(err, http.StatusBadGateway, ReasonUpstreamPayment)
}

// GetCode returns the status of the first Failure in err's chain, or 500.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason of the first Failure in err's chain, empty when none is set.
func GetReason(err error) string {
	if fail, ok := as(err); ok {
		return fail.Reason
	}

	return ""
}

func HasReason(err error, reason string) bool {
	return GetReason(err) == reason
}

func as(err error) (*Failure, bool) {
	var fail *Failure

	ok := errors.As(err, &fail)

	return fail, ok
}
