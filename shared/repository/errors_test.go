package repository_test

import (
	"errors"
	"fmt"
	"resort/shared/constant"
	"resort/shared/repository"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsPqError(t *testing.T) {
	exclusion := fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeExclusionViolation)})

	assert.True(t, repository.IsPqError(exclusion, constant.PqErrorCodeExclusionViolation))
	assert.False(t, repository.IsPqError(exclusion, constant.PqErrorCodeUniqueViolation))
	assert.False(t, repository.IsPqError(errors.New("plain"), constant.PqErrorCodeExclusionViolation))
	assert.False(t, repository.IsPqError(nil, constant.PqErrorCodeExclusionViolation))
}
