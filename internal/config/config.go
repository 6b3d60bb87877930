package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dal"
)

// Config holds the process settings, read from the environment
type Config struct {
	Port        string
	GRPCPort    string
	Environment string

	DBDriver    string
	SQLiteFile  string
	DatabaseURL string

	ClickHouseAddr     string
	ClickHouseDB       string
	ClickHouseUser     string
	ClickHousePassword string

	NATSURL     string
	NATSSubject string

	LogLevel  string
	LogFormat string

	SessionTTL time.Duration
}

// Supported DB_DRIVER values
var Drivers = []string{"memory", "sqlite", "postgres", "clickhouse"}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres driver")
	ErrInvalidSessionTTL  = errors.New("SESSION_TTL must not be negative")
)

func defaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("grpc_port", "50051")
	v.SetDefault("environment", "development")
	v.SetDefault("db_driver", "memory")
	v.SetDefault("sqlite_file", "dev.sqlite")
	v.SetDefault("database_url", "")
	v.SetDefault("clickhouse_addr", "localhost:9000")
	v.SetDefault("clickhouse_db", "default")
	v.SetDefault("clickhouse_user", "default")
	v.SetDefault("clickhouse_password", "")
	v.SetDefault("nats_url", "nats://localhost:4222")
	v.SetDefault("nats_subject", "worldcup.events")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("session_ttl", "30m")
}

// Load reads the configuration from environment variables (PORT, DB_DRIVER, ...)
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	defaults(v)

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	// viper treats an empty variable as unset; GRPC_PORT= disables the gRPC listener
	if port, ok := os.LookupEnv("GRPC_PORT"); ok && port == "" {
		cfg.GRPCPort = ""
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("session_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", v.GetString("session_ttl"), err)
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		GRPCPort:           v.GetString("grpc_port"),
		Environment:        strings.ToLower(v.GetString("environment")),
		DBDriver:           strings.ToLower(v.GetString("db_driver")),
		SQLiteFile:         v.GetString("sqlite_file"),
		DatabaseURL:        v.GetString("database_url"),
		ClickHouseAddr:     v.GetString("clickhouse_addr"),
		ClickHouseDB:       v.GetString("clickhouse_db"),
		ClickHouseUser:     v.GetString("clickhouse_user"),
		ClickHousePassword: v.GetString("clickhouse_password"),
		NATSURL:            v.GetString("nats_url"),
		NATSSubject:        v.GetString("nats_subject"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		SessionTTL:         ttl,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup
func (c *Config) Validate() error {
	known := false
	for _, d := range Drivers {
		if c.DBDriver == d {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s (valid: %s)", dal.ErrUnknownDriver, c.DBDriver, strings.Join(Drivers, ", "))
	}
	if c.DBDriver == "postgres" && c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.SessionTTL < 0 {
		return ErrInvalidSessionTTL
	}
	return nil
}

// IsDevelopment reports whether embedded infrastructure should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// HTTPAddr is the listen address of the web UI
func (c *Config) HTTPAddr() string {
	return "0.0.0.0:" + c.Port
}

// GRPCAddr is the listen address of the gRPC service, empty when disabled
func (c *Config) GRPCAddr() string {
	if c.GRPCPort == "" {
		return ""
	}
	return "0.0.0.0:" + c.GRPCPort
}
