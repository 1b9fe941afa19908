package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes configuration values through getters so that consumers
// can be handed a mock in tests.
type Provider interface {
	GetDBUrl() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetAppBaseURL() string
	GetServerAddr() string
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetOAuthStateTTL() time.Duration
	GetEmailProvider() string
	GetEmailSender() string
	GetEmailAPIKey() string
	GetTracingEnabled() bool
	GetZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	DBUrl          string
	DBNs           string
	DBDb           string
	DBUser         string
	DBPass         string
	DBQueryTimeout time.Duration

	AppBaseURL    string
	ServerAddr    string
	SessionSecret string
	SessionTTL    time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	OAuthStateTTL      time.Duration

	EmailProvider string
	EmailSender   string
	EmailAPIKey   string

	TracingEnabled bool
	ZipkinURL      string
}

// ErrMissingConfig is returned by New when a required variable is unset.
var ErrMissingConfig = errors.New("required environment variables are not set")

// New loads configuration from environment variables, reading a .env file
// first when one is present.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBUrl:              os.Getenv("SURREAL_URL"),
		DBUser:             os.Getenv("SURREAL_USER"),
		DBPass:             os.Getenv("SURREAL_PASS"),
		DBNs:               os.Getenv("SURREAL_NS"),
		DBDb:               os.Getenv("SURREAL_DB"),
		DBQueryTimeout:     durationEnv("DB_QUERY_TIMEOUT", 5*time.Second),
		AppBaseURL:         strings.TrimRight(envOr("APP_BASE_URL", "http://localhost:8080"), "/"),
		ServerAddr:         envOr("SERVER_ADDR", ":8080"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionTTL:         durationEnv("SESSION_TTL", 7*24*time.Hour),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		OAuthStateTTL:      durationEnv("OAUTH_STATE_TTL", 10*time.Minute),
		EmailProvider:      envOr("EMAIL_PROVIDER", "log"),
		EmailSender:        os.Getenv("EMAIL_SENDER"),
		EmailAPIKey:        os.Getenv("EMAIL_API_KEY"),
		TracingEnabled:     boolEnv("TRACING_ENABLED"),
		ZipkinURL:          envOr("ZIPKIN_URL", "http://localhost:9411/api/v2/spans"),
	}

	var missing []string
	for name, val := range map[string]string{
		"SURREAL_URL":    cfg.DBUrl,
		"SURREAL_NS":     cfg.DBNs,
		"SURREAL_DB":     cfg.DBDb,
		"SESSION_SECRET": cfg.SessionSecret,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingError{Names: missing}
	}
	return cfg, nil
}

// MissingError lists the unset variables. It matches ErrMissingConfig.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return ErrMissingConfig.Error() + ": " + strings.Join(e.Names, ", ")
}

func (e *MissingError) Unwrap() error { return ErrMissingConfig }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s (%q), using %s", key, v, fallback)
		return fallback
	}
	return d
}

func (c *Config) GetDBUrl() string { return c.DBUrl }
func (c *Config) GetDBNs() string { return c.DBNs }
func (c *Config) GetDBDb() string { return c.DBDb }
func (c *Config) GetDBUser() string { return c.DBUser }
func (c *Config) GetDBPass() string { return c.DBPass }
func (c *Config) GetDBQueryTimeout() time.Duration { return c.DBQueryTimeout }
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }
func (c *Config) GetServerAddr() string { return c.ServerAddr }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetGoogleClientID() string { return c.GoogleClientID }
func (c *Config) GetGoogleClientSecret() string { return c.GoogleClientSecret }
func (c *Config) GetOAuthStateTTL() time.Duration { return c.OAuthStateTTL }
func (c *Config) GetEmailProvider() string { return c.EmailProvider }
func (c *Config) GetEmailSender() string { return c.EmailSender }
func (c *Config) GetEmailAPIKey() string { return c.EmailAPIKey }
func (c *Config) GetTracingEnabled() bool { return c.TracingEnabled }
func (c *Config) GetZipkinURL() string { return c.ZipkinURL }

// GoogleEnabled reports whether Google sign-in has credentials.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
