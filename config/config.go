package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV" default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT" default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS" default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"resort"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
		Idempotency struct {
			Enable     bool `envconfig:"ENABLE"`
			TTLSeconds int  `envconfig:"TTL_SECONDS" default:"86400"`
		} `envconfig:"IDEMPOTENCY"`
		APIKey      string   `envconfig:"API_KEY"`
		AdminEmails []string `envconfig:"ADMIN_EMAILS"`
	} `envconfig:"APP"`

	Resort struct {
		RoomCount                int    `envconfig:"ROOM_COUNT"`
		GuestCap                 int    `envconfig:"GUEST_CAP"`
		UnavailableHorizonMonths int    `envconfig:"UNAVAILABLE_HORIZON_MONTHS" default:"12"`
		PaymentProvider          string `envconfig:"PAYMENT_PROVIDER" default:"demo"`
	} `envconfig:"RESORT"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT" default:"8080"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY" default:"3"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations/postgres"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT" default:"8080"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT" default:"8080"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			BookingEvents string `envconfig:"BOOKING_EVENTS" default:"resort.booking-events"`
		} `envconfig:"TOPIC"`
		Relay struct {
			BatchSize       int    `envconfig:"BATCH_SIZE" default:"10"`
			IntervalSeconds int    `envconfig:"INTERVAL_SECONDS" default:"2"`
			MetricsPort     string `envconfig:"METRICS_PORT" default:"9093"`
		} `envconfig:"RELAY"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			Region          string `envconfig:"REGION" default:"auto"`
		} `envconfig:"S3"`
		Stripe struct {
			SecretKey     string `envconfig:"SECRET_KEY"`
			WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
			SuccessURL    string `envconfig:"SUCCESS_URL"`
			CancelURL     string `envconfig:"CANCEL_URL"`
			Currency      string `envconfig:"CURRENCY" default:"usd"`
		} `envconfig:"STRIPE"`
	} `envconfig:"EXTERNAL"`
}

var current = sync.OnceValue(func() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	for _, warning := range cfg.Warnings() {
		log.Warn().Msg(warning)
	}

	return cfg
})

// Get returns the process wide configuration, loading it on first use.
func Get() *Config {
	return current()
}

// Load reads .env when present and then the environment. Variables already set in the
// environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using the environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &cfg, nil
}

// Warnings lists settings that leave a feature degraded without stopping the service.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		warnings = append(warnings, "JWT secrets are not set, issued tokens are not secure")
	}

	if c.App.APIKey == "" {
		warnings = append(warnings, "APP_API_KEY is not set, internal callers cannot authenticate")
	}

	if c.Resort.PaymentProvider == "stripe" && (c.External.Stripe.SecretKey == "" || c.External.Stripe.WebhookSecret == "") {
		warnings = append(warnings, "stripe is selected but its secret key or webhook secret is missing")
	}

	if len(c.Kafka.Brokers) == 0 {
		warnings = append(warnings, "KAFKA_BROKERS is not set, booking events stay in the outbox")
	}

	return warnings
}
