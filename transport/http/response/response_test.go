package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"resort/shared/failure"
	"resort/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "validation",
			err:  failure.BadRequestFromString("packageDuration must be one of 3, 7, 14, 21, 28"),
			code: http.StatusBadRequest,
			body: `{"error":"packageDuration must be one of 3, 7, 14, 21, 28","reason":"VALIDATION"}`,
		},
		{
			name: "room conflict at commit",
			err:  failure.RoomConflictAtCommit("room 4 is no longer available"),
			code: http.StatusConflict,
			body: `{"error":"room 4 is no longer available","reason":"ROOM_CONFLICT_AT_COMMIT"}`,
		},
		{
			name: "not found",
			err:  failure.NotFound("booking not found"),
			code: http.StatusNotFound,
			body: `{"error":"booking not found"}`,
		},
		{
			name: "internal",
			err:  errors.New("pq: connection refused"),
			code: http.StatusInternalServerError,
			body: `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, map[string]any{"available": true, "availableCount": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"available":true,"availableCount":3}}`, rec.Body.String())
}

func TestWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithMessage(rec, http.StatusCreated, "Booking created successfully")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Booking created successfully"}`, rec.Body.String())
}

func TestWithFile(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithFile(rec, "voucher-1.pdf", "application/pdf", []byte("%PDF-1.3"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="voucher-1.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
