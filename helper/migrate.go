package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"resort/config"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
	ActionForce   = "force"

	defaultMigrationTable = "schema_migrations"
	defaultMigrationsPath = "migrations/postgres"
)

var ErrUnknownAction = errors.New("unknown migration action")

// DatabaseURL builds the golang-migrate postgres URL for the write database.
func DatabaseURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	table := cfg.DB.Postgres.MigrationTable
	if table == "" {
		table = defaultMigrationTable
	}

	sslMode := write.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("x-migrations-table", table)

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func sourceURL(cfg *config.Config) string {
	path := cfg.DB.Postgres.MigrationsPath
	if path == "" {
		path = defaultMigrationsPath
	}

	return "file://" + path
}

// Run applies action to the bookings schema. ActionForce takes the version to force as its argument.
func Run(cfg *config.Config, action string, args ...string) error {
	mig, err := migrate.New(sourceURL(cfg), DatabaseURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Failed to close migrate instance")
		}
	}()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	case ActionForce:
		err = force(mig, args)
	case ActionVersion:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migration finished")

	return nil
}

func force(mig *migrate.Migrate, args []string) error {
	if len(args) == 0 {
		return errors.New("force requires a version")
	}

	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}

	return mig.Force(version) //nolint:wrapcheck
}

func Up(cfg *config.Config) error {
	return Run(cfg, ActionUp)
}
