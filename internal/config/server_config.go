package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	Server  ServerConfig
	Storage StorageConfig
	DB      PostgresConfig
	Kafka   KafkaConfig
	Report  ReportConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// StorageConfig selects the storage area backend and identifies this execution context.
type StorageConfig struct {
	Driver    string
	Namespace string
	// ContextID names this process among the contexts sharing the namespace.
	// Empty means a random id is generated at startup.
	ContextID string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	StorageTopic  string
	// OrderTopic receives confirmed orders. Empty disables order publishing.
	OrderTopic    string
	ConsumerGroup string
}

type ReportConfig struct {
	Timezone  string
	ExportDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "storefront"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host:           getEnv("HTTP_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("HTTP_PORT", 8030),
			AllowedOrigins: splitAndTrim(getEnv("HTTP_ALLOWED_ORIGINS", "*")),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverMemory)),
			Namespace: getEnv("STORAGE_NAMESPACE", "storefront"),
			ContextID: getEnv("STORAGE_CONTEXT_ID", ""),
		},
		DB: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:       splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			StorageTopic:  getEnv("KAFKA_STORAGE_TOPIC", "storefront_storage_events"),
			OrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "storefront_orders"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "storefront"),
		},
		Report: ReportConfig{
			Timezone:  getEnv("REPORT_TIMEZONE", "UTC"),
			ExportDir: getEnv("REPORT_EXPORT_DIR", "."),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// Location resolves the report timezone, falling back to UTC when the zone database
// does not know the name.
func (r ReportConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.Storage.Namespace == "" {
		return fmt.Errorf("STORAGE_NAMESPACE is empty")
	}
	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
			return fmt.Errorf("database config is incomplete")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not supported", c.Storage.Driver)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers is empty")
		}
		if c.Kafka.StorageTopic == "" {
			return fmt.Errorf("KAFKA_STORAGE_TOPIC is empty")
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
