package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Config holds every setting of the invoicing data layer.
type Config struct {
	AppEnv string // development / production

	DBDriver    string // sqlite / postgres
	DBPath      string // sqlite file
	DatabaseURL string // postgres DSN
	DBLogLevel  string // silent / error / warn / info
	DBSeed      bool

	StockPolicy string        // strict / lenient
	TxTimeout   time.Duration // bound on one transaction, lock waits included
}

// Load reads the environment. Unset keys fall back to defaults; set but
// invalid keys are errors.
func Load() (Config, error) {
	timeout, err := durationEnv("TX_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	seed, err := boolEnv("DB_SEED", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv: getenv("APP_ENV", "production"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBPath:      getenv("DB_PATH", "invoices.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBLogLevel:  strings.ToLower(getenv("DB_LOG_LEVEL", "warn")),
		DBSeed:      seed,

		StockPolicy: strings.ToLower(getenv("STOCK_POLICY", PolicyStrict)),
		TxTimeout:   timeout,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}

	switch c.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be silent, error, warn or info, got %q", c.DBLogLevel)
	}

	switch c.StockPolicy {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("STOCK_POLICY must be strict or lenient, got %q", c.StockPolicy)
	}

	if c.TxTimeout < 0 {
		return fmt.Errorf("TX_TIMEOUT must not be negative")
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
