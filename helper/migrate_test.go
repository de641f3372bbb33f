package helper_test

import (
	"net/url"
	"resort/config"
	"resort/helper"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Write.Host = "db.internal"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "resort"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Name = "bookings"

	parsed, err := url.Parse(helper.DatabaseURL(cfg))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/test_bookings", parsed.Path)
	assert.Equal(t, "resort", parsed.User.Username())
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestDatabaseURL_CustomTable(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.MigrationTable = "resort_migrations"
	cfg.DB.Postgres.Write.SSLMode = "require"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"

	parsed, err := url.Parse(helper.DatabaseURL(cfg))
	require.NoError(t, err)

	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "resort_migrations", parsed.Query().Get("x-migrations-table"))
}
