package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"resort/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

// WithTransaction runs fn inside a write transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, including on panic.
func (c *Connection) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to rollback transaction")
			}

			return
		}

		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

type endpoint struct {
	name     string
	username string
	password string
	host     string
	port     string
	database string
	sslMode  string
}

func (e endpoint) dsn() string {
	sslMode := e.sslMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.username, e.password),
		Host:     net.JoinHostPort(e.host, e.port),
		Path:     "/" + e.database,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	return dsn.String()
}

// CreatePostgresWriteConn connects the primary that owns bookings, payments and the outbox.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	write := config.DB.Postgres.Write

	return connect(endpoint{
		name:     "write",
		username: write.Username,
		password: write.Password,
		host:     write.Host,
		port:     write.Port,
		database: config.DB.Postgres.Prefix + write.Name,
		sslMode:  write.SSLMode,
	}, config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

// CreatePostgresReadConn connects the replica used for listings and reports.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	read := config.DB.Postgres.Read

	return connect(endpoint{
		name:     "read",
		username: read.Username,
		password: read.Password,
		host:     read.Host,
		port:     read.Port,
		database: config.DB.Postgres.Prefix + read.Name,
		sslMode:  read.SSLMode,
	}, config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

func connect(target endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, 1)

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", target.dsn())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			log.Info().
				Str("name", target.name).
				Str("host", target.host).
				Str("port", target.port).
				Str("dbName", target.database).
				Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", target.name).
			Str("host", target.host).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		if attempt < attempts {
			time.Sleep(time.Duration(waitSeconds) * time.Second)
		}
	}

	log.Fatal().Err(err).Str("name", target.name).Msg("Giving up connecting to database")

	return nil
}
