package validator_test

import (
	"net/http"
	"resort/shared/failure"
	"resort/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stayRequest struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	CheckInDate     string `json:"checkInDate"     validate:"required,isodate"`
	PackageDuration int    `json:"packageDuration" validate:"required,oneof=3 7 14 21 28"`
	Guest           int    `json:"guest"           validate:"gte=1,lte=2"`
	Notes           string `json:"-"               validate:"max=5"`
}

func validStay() stayRequest {
	return stayRequest{
		Name:            "Asha Menon",
		Email:           "asha@example.com",
		CheckInDate:     "2025-08-01",
		PackageDuration: 7,
		Guest:           2,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*stayRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(*stayRequest) {}},
		{name: "missing name", mutate: func(r *stayRequest) { r.Name = "" }, wantMsg: "name is required"},
		{name: "bad email", mutate: func(r *stayRequest) { r.Email = "asha" }, wantMsg: "email must be a valid email address"},
		{name: "bad date", mutate: func(r *stayRequest) { r.CheckInDate = "01/08/2025" }, wantMsg: "checkInDate must be a date in YYYY-MM-DD format"},
		{name: "impossible date", mutate: func(r *stayRequest) { r.CheckInDate = "2025-02-30" }, wantMsg: "checkInDate must be a date in YYYY-MM-DD format"},
		{name: "unknown duration", mutate: func(r *stayRequest) { r.PackageDuration = 5 }, wantMsg: "packageDuration must be one of 3 7 14 21 28"},
		{name: "too many guests", mutate: func(r *stayRequest) { r.Guest = 3 }, wantMsg: "guest must be less than or equal to 2"},
		{name: "no guests", mutate: func(r *stayRequest) { r.Guest = 0 }, wantMsg: "guest must be greater than or equal to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validStay()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateStruct_IgnoredJSONField(t *testing.T) {
	req := validStay()
	req.Notes = "too long"

	err := validator.ValidateStruct(&req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Notes")
}

func TestValidate(t *testing.T) {
	body := `{"name":"Asha Menon","email":"asha@example.com","checkInDate":"2025-08-01","packageDuration":14,"guest":1}`

	var req stayRequest

	require.NoError(t, validator.Validate(strings.NewReader(body), &req))
	assert.Equal(t, 14, req.PackageDuration)
}

func TestValidate_MalformedBody(t *testing.T) {
	var req stayRequest

	err := validator.Validate(strings.NewReader(`{"name":`), &req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "failed to decode request body")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-12-31", "isodate"))
	assert.Error(t, validator.ValidateVar("2025-13-01", "isodate"))
	assert.NoError(t, validator.ValidateVar("", "empty"))
	assert.Error(t, validator.ValidateVar("x", "empty"))
	assert.NoError(t, validator.ValidateVar("8f14e45f-ceea-467f-a0e6-0b1f7e3b4c2d", "uuid"))
}
