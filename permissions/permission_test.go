package permissions_test

import (
	"resort/permissions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.True(t, data.FindPermissions("/v1/bookings/availability/check", "GET").Skip)
	assert.True(t, data.FindPermissions("/v1/bookings/", "POST").Skip)
	assert.Equal(t, []string{"admin"}, data.FindPermissions("/v1/bookings/", "GET").Permissions)
	assert.Equal(t, []string{"admin"}, data.FindPermissions("/v1/bookings/{id}", "DELETE").Permissions)
}

func TestFindPermissions_Unknown(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	permission := data.FindPermissions("/v1/unknown", "GET")
	assert.False(t, permission.Skip)
	assert.Empty(t, permission.Permissions)
}
