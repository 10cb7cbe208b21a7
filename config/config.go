package config

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"
	_ "time/tzdata" // hotel zones must resolve in images without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
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
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Booking struct {
		Currency             string `envconfig:"CURRENCY"               default:"NGN"`
		HotelTimezone        string `envconfig:"HOTEL_TIMEZONE"         default:"UTC"`
		QuoteTTLSeconds      int    `envconfig:"QUOTE_TTL_SECONDS"      default:"900"`
		PendingExpiryMinutes int    `envconfig:"PENDING_EXPIRY_MINUTES" default:"30"`
		SweepIntervalSeconds int    `envconfig:"SWEEP_INTERVAL_SECONDS" default:"60"`
	} `envconfig:"BOOKING"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
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
			Reservation     string `envconfig:"RESERVATION"      default:"reservation.events"`
			Ledger          string `envconfig:"LEDGER"           default:"ledger.entries"`
			PaymentCaptured string `envconfig:"PAYMENT_CAPTURED" default:"payment.captured"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

// PostgresEndpoint is one side of the read/write database split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

var (
	conf    Config
	once    sync.Once
	initErr error
)

var (
	ErrInvalidBooking = errors.New("invalid booking configuration")
	currencyCode      = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Load reads .env when present, then the environment, and checks the booking
// settings. It does not touch the process-wide configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using the process environment")
	}

	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	booking := c.Booking

	switch {
	case !currencyCode.MatchString(booking.Currency):
		return fmt.Errorf("%w: currency %q is not an ISO 4217 code", ErrInvalidBooking, booking.Currency)
	case booking.QuoteTTLSeconds <= 0:
		return fmt.Errorf("%w: quote ttl must be positive", ErrInvalidBooking)
	case booking.PendingExpiryMinutes <= 0:
		return fmt.Errorf("%w: pending expiry must be positive", ErrInvalidBooking)
	case booking.SweepIntervalSeconds <= 0:
		return fmt.Errorf("%w: sweep interval must be positive", ErrInvalidBooking)
	}

	if _, err := time.LoadLocation(booking.HotelTimezone); err != nil {
		return fmt.Errorf("%w: hotel timezone: %w", ErrInvalidBooking, err)
	}

	return nil
}

func Init() error {
	once.Do(func() {
		var cfg *Config

		cfg, initErr = Load()
		if initErr != nil {
			return
		}

		conf = *cfg

		log.Info().Msg("Service configuration initialized successfully")
	})

	return initErr
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return &conf
}
