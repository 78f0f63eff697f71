package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"travelease/internal/summary/extract"
)

// Summarizer backends.
const (
	SummarizerBackend   = "backend"
	SummarizerAnthropic = "anthropic"
)

type Config struct {
	Port     string
	LogLevel string

	// Database. DatabaseURL wins over the discrete Supabase-style settings.
	DBDriver    string
	DatabaseURL string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	JWTSecret   string
	CORSOrigins []string

	Summarizer       string
	SummarizerURL    string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	MaxTokens        int
	RequestTimeout   time.Duration
	// ProcessTimeout bounds one whole summarization, retries included.
	ProcessTimeout time.Duration

	HeuristicsFile string
	DisplayTZ      string
}

// Load reads .env when present, then the process environment, and applies
// defaults. It does not validate; see Validate and ValidateServer.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     envOr("PORT", "8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		DBDriver:    envOr("DB_DRIVER", "postgres"),
		DatabaseURL: env("DATABASE_URL"),
		DBUser:      env("user"),
		DBPassword:  env("password"),
		DBHost:      env("host"),
		DBPort:      envOr("port", "5432"),
		DBName:      envOr("dbname", "postgres"),
		DBSSLMode:   envOr("DB_SSLMODE", "require"),

		JWTSecret:   env("SUPABASE_JWT_SECRET"),
		CORSOrigins: splitList(envOr("CORS_ORIGINS", "http://localhost:3000")),

		Summarizer:       envOr("SUMMARIZER", SummarizerBackend),
		SummarizerURL:    envOr("SUMMARIZER_URL", "http://localhost:5000/process"),
		AnthropicAPIKey:  env("ANTHROPIC_API_KEY"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		AnthropicBaseURL: envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		MaxTokens:        envInt("ANTHROPIC_MAX_TOKENS", 4096),
		RequestTimeout:   time.Duration(envInt("SUMMARIZER_TIMEOUT_SECONDS", 120)) * time.Second,
		ProcessTimeout:   time.Duration(envInt("PROCESS_TIMEOUT_SECONDS", 180)) * time.Second,

		HeuristicsFile: env("HEURISTICS_FILE"),
		DisplayTZ:      env("DISPLAY_TZ"),
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" && c.DBHost == "" {
			return fmt.Errorf("config: DATABASE_URL or host is required for postgres")
		}
	case "sqlite3":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL (a file path) is required for sqlite3")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (supported: postgres, sqlite3)", c.DBDriver)
	}
	if err := c.ValidateSummarizer(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ValidateSummarizer checks the settings of the configured summarizer.
func (c *Config) ValidateSummarizer() error {
	switch c.Summarizer {
	case SummarizerBackend:
		u, err := url.Parse(c.SummarizerURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("config: SUMMARIZER_URL %q is not a valid URL", c.SummarizerURL)
		}
	case SummarizerAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("config: ANTHROPIC_API_KEY is required for the anthropic summarizer")
		}
	default:
		return fmt.Errorf("config: unsupported SUMMARIZER %q (supported: backend, anthropic)", c.Summarizer)
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: SUPABASE_JWT_SECRET is required")
	}
	return nil
}

// DSN is the data source name handed to sql.Open.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// DefaultProcessTimeout applies when ProcessTimeout is not positive.
const DefaultProcessTimeout = 180 * time.Second

// ProcessBudget is the time one /api/process call may spend summarizing.
func (c *Config) ProcessBudget() time.Duration {
	if c.ProcessTimeout <= 0 {
		return DefaultProcessTimeout
	}
	return c.ProcessTimeout
}

// Location is the time zone tile dates are shown in.
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTZ == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return nil, fmt.Errorf("config: invalid DISPLAY_TZ %q: %w", c.DisplayTZ, err)
	}
	return loc, nil
}

// Limits loads the preview heuristics from HeuristicsFile, or the defaults
// when none is configured.
func (c *Config) Limits() (extract.Limits, error) {
	return LoadHeuristics(c.HeuristicsFile)
}

// LoadHeuristics reads a YAML heuristics file. Fields left out keep their
// default values; an empty path yields the defaults.
func LoadHeuristics(path string) (extract.Limits, error) {
	if path == "" {
		return extract.DefaultLimits(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Limits{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	var l extract.Limits
	if err := yaml.Unmarshal(data, &l); err != nil {
		return extract.Limits{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return l.WithDefaults(), nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOr(key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := env(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
