package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Config is resolved in three layers: built-in defaults, the optional YAML
// file, then environment variables.
type Config struct {
	ServiceID string `env:"SERVICE_ID"`
	LogLevel  string `env:"LOG_LEVEL"`

	HTTPPort int `env:"HTTP_PORT"`
	GRPCPort int `env:"GRPC_PORT"`

	StoreDriver string `env:"STORE_DRIVER"`

	MongoURI        string `env:"MONGO_URI"`
	MongoUsername   string `env:"MONGO_USERNAME"`
	MongoPassword   string `env:"MONGO_PASSWORD"`
	MongoHost       string `env:"MONGO_HOST"`
	MongoPort       int    `env:"MONGO_PORT"`
	MongoDatabase   string `env:"MONGO_DB"`
	MongoAuthSource string `env:"MONGO_AUTH_SOURCE"`

	PostgresURL string `env:"POSTGRES_URL"`
	MaxDBConns  int32  `env:"DB_MAX_CONNS"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTLeeway time.Duration `env:"JWT_LEEWAY"`

	UserServiceURL     string        `env:"USER_SERVICE_URL"`
	UserServicePath    string        `env:"USER_SERVICE_PATH"`
	UserServiceTimeout time.Duration `env:"USER_SERVICE_TIMEOUT"`

	RedisURL        string        `env:"REDIS_URL"`
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL"`

	KafkaBrokers             []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopicProfileCreated string   `env:"KAFKA_TOPIC_PROFILE_CREATED"`
	KafkaTopicProfileUpdated string   `env:"KAFKA_TOPIC_PROFILE_UPDATED"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE"`
	OutboxMaxRetries   int           `env:"OUTBOX_MAX_RETRIES"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Store struct {
		Driver   string `yaml:"driver"`
		MaxConns int32  `yaml:"max_conns"`
		Mongo    struct {
			URI        string `yaml:"uri"`
			Host       string `yaml:"host"`
			Port       int    `yaml:"port"`
			Database   string `yaml:"database"`
			AuthSource string `yaml:"auth_source"`
		} `yaml:"mongo"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"store"`
	Auth struct {
		Leeway time.Duration `yaml:"leeway"`
	} `yaml:"auth"`
	Dependencies struct {
		UserServiceURL     string        `yaml:"user_service_url"`
		UserServicePath    string        `yaml:"user_service_path"`
		UserServiceTimeout time.Duration `yaml:"user_service_timeout"`
		RedisURL           string        `yaml:"redis_url"`
		KafkaBrokers       []string      `yaml:"kafka_brokers"`
		OTelEndpoint       string        `yaml:"otel_endpoint"`
	} `yaml:"dependencies"`
	Events struct {
		TopicProfileCreated string        `yaml:"topic_profile_created"`
		TopicProfileUpdated string        `yaml:"topic_profile_updated"`
		OutboxPollInterval  time.Duration `yaml:"outbox_poll_interval"`
		OutboxBatchSize     int           `yaml:"outbox_batch_size"`
		OutboxMaxRetries    int           `yaml:"outbox_max_retries"`
	} `yaml:"events"`
	Cache struct {
		ProfileTTL time.Duration `yaml:"profile_ttl"`
	} `yaml:"cache"`
}

func defaultConfig() Config {
	return Config{
		ServiceID:                "profiles-service",
		LogLevel:                 "info",
		HTTPPort:                 3000,
		GRPCPort:                 9090,
		StoreDriver:              StoreMongo,
		MongoHost:                "127.0.0.1",
		MongoPort:                27017,
		MongoDatabase:            "profiles",
		MongoAuthSource:          "admin",
		MaxDBConns:               20,
		JWTLeeway:                0,
		UserServiceURL:           "http://localhost:4000",
		UserServicePath:          "/users/users/{id}",
		UserServiceTimeout:       5 * time.Second,
		ProfileCacheTTL:          5 * time.Minute,
		KafkaTopicProfileCreated: "profile.created",
		KafkaTopicProfileUpdated: "profile.updated",
		OutboxPollInterval:       2 * time.Second,
		OutboxBatchSize:          100,
		OutboxMaxRetries:         10,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := applyConfigFile(&cfg, raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	// PORT is honoured for platforms that only inject that name; HTTP_PORT
	// wins when both are set.
	var legacy struct {
		Port int `env:"PORT"`
	}
	if err := env.Parse(&legacy); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if legacy.Port > 0 {
		cfg.HTTPPort = legacy.Port
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.KafkaBrokers = trimNonEmpty(cfg.KafkaBrokers)
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyConfigFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	setString(&cfg.ServiceID, f.Service.ID)
	setString(&cfg.LogLevel, f.Service.LogLevel)
	setInt(&cfg.HTTPPort, f.Service.HTTPPort)
	setInt(&cfg.GRPCPort, f.Service.GRPCPort)

	setString(&cfg.StoreDriver, f.Store.Driver)
	if f.Store.MaxConns > 0 {
		cfg.MaxDBConns = f.Store.MaxConns
	}
	setString(&cfg.MongoURI, f.Store.Mongo.URI)
	setString(&cfg.MongoHost, f.Store.Mongo.Host)
	setInt(&cfg.MongoPort, f.Store.Mongo.Port)
	setString(&cfg.MongoDatabase, f.Store.Mongo.Database)
	setString(&cfg.MongoAuthSource, f.Store.Mongo.AuthSource)
	setString(&cfg.PostgresURL, f.Store.PostgresURL)

	setDuration(&cfg.JWTLeeway, f.Auth.Leeway)

	setString(&cfg.UserServiceURL, f.Dependencies.UserServiceURL)
	setString(&cfg.UserServicePath, f.Dependencies.UserServicePath)
	setDuration(&cfg.UserServiceTimeout, f.Dependencies.UserServiceTimeout)
	setString(&cfg.RedisURL, f.Dependencies.RedisURL)
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
	}
	setString(&cfg.OTelEndpoint, f.Dependencies.OTelEndpoint)

	setString(&cfg.KafkaTopicProfileCreated, f.Events.TopicProfileCreated)
	setString(&cfg.KafkaTopicProfileUpdated, f.Events.TopicProfileUpdated)
	setDuration(&cfg.OutboxPollInterval, f.Events.OutboxPollInterval)
	setInt(&cfg.OutboxBatchSize, f.Events.OutboxBatchSize)
	setInt(&cfg.OutboxMaxRetries, f.Events.OutboxMaxRetries)
	setDuration(&cfg.ProfileCacheTTL, f.Cache.ProfileTTL)
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.HTTPPort <= 0 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.GRPCPort <= 0 {
		return fmt.Errorf("invalid GRPC_PORT %d", c.GRPCPort)
	}
	if c.UserServiceURL == "" {
		return errors.New("missing USER_SERVICE_URL")
	}
	if !strings.Contains(c.UserServicePath, "{id}") {
		return fmt.Errorf("USER_SERVICE_PATH %q must contain {id}", c.UserServicePath)
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" && c.MongoHost == "" {
			return errors.New("missing MONGO_URI or MONGO_HOST")
		}
	case StorePostgres:
		if c.PostgresURL == "" {
			return errors.New("missing POSTGRES_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI when set, otherwise a URI built from
// the individual settings with credentials escaped.
func (c Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.MongoHost, strconv.Itoa(c.MongoPort)),
		Path:   "/" + c.MongoDatabase,
	}
	if c.MongoUsername != "" {
		u.User = url.UserPassword(c.MongoUsername, c.MongoPassword)
		if c.MongoAuthSource != "" {
			u.RawQuery = url.Values{"authSource": []string{c.MongoAuthSource}}.Encode()
		}
	}
	return u.String()
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
