package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultTokenURL   = "https://open-api.guesty.com/oauth2/token"
	DefaultAPIBaseURL = "https://open-api.guesty.com/v1"
)

// Config holds everything a sync run and the HTTP server need. It is built
// once at startup and passed down explicitly.
type Config struct {
	AppEnv string
	Port   string

	// Upstream (Guesty Open API)
	ClientID        string
	ClientSecret    string
	TokenURL        string
	APIBaseURL      string
	UpstreamTimeout time.Duration

	// Data store
	DataStoreURL        string
	DataStoreServiceKey string

	// Sync behaviour
	BatchSize    int
	MaxRetries   int
	BackoffBase  time.Duration
	BackoffMax   time.Duration
	SyncInterval time.Duration

	// Optional HS256 secret guarding the manual trigger
	TriggerSecret    string
	// Client IPs exempt from the trigger rate limit
	TriggerWhitelist []string

	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		ClientID:        os.Getenv("GUESTY_CLIENT_ID"),
		ClientSecret:    os.Getenv("GUESTY_CLIENT_SECRET"),
		TokenURL:        getEnv("GUESTY_TOKEN_URL", DefaultTokenURL),
		APIBaseURL:      strings.TrimRight(getEnv("GUESTY_API_BASE_URL", DefaultAPIBaseURL), "/"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),

		DataStoreURL:        os.Getenv("DATASTORE_URL"),
		DataStoreServiceKey: os.Getenv("DATASTORE_SERVICE_KEY"),

		BatchSize:    getEnvInt("SYNC_BATCH_SIZE", 100),
		MaxRetries:   getEnvInt("SYNC_MAX_RETRIES", 3),
		BackoffBase:  getEnvDuration("SYNC_BACKOFF_BASE", time.Second),
		BackoffMax:   getEnvDuration("SYNC_BACKOFF_MAX", 15*time.Second),
		SyncInterval: getEnvDuration("SYNC_INTERVAL", 0),

		TriggerSecret:    os.Getenv("SYNC_TRIGGER_SECRET"),
		TriggerWhitelist: getEnvList("SYNC_TRIGGER_WHITELIST"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
}

// Validate reports every required key that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "GUESTY_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "GUESTY_CLIENT_SECRET")
	}
	if c.DataStoreURL == "" {
		missing = append(missing, "DATASTORE_URL")
	}
	if c.DataStoreServiceKey == "" {
		missing = append(missing, "DATASTORE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return nil
}

// DSN injects the service credential into the data-store URL as the
// connection password.
func (c *Config) DSN() (string, error) {
	u, err := url.Parse(c.DataStoreURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATASTORE_URL: %w", err)
	}
	username := "postgres"
	if u.User != nil && u.User.Username() != "" {
		username = u.User.Username()
	}
	u.User = url.UserPassword(username, c.DataStoreServiceKey)
	if u.Query().Get("sslmode") == "" {
		q := u.Query()
		q.Set("sslmode", getEnv("DATASTORE_SSLMODE", "require"))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// RedisEnabled is true when a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
